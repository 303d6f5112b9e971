package httpapi

import (
	"net/http"

	"jobtracker-engine/internal/tracker"
)

type DigestHandler struct {
	Tracker *tracker.Service
}

func (h DigestHandler) date(r *http.Request) string {
	if d := r.URL.Query().Get("date"); d != "" {
		return d
	}
	return h.Tracker.Today()
}

// Get returns the stored digest, or null when none was generated for the day.
func (h DigestHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.Tracker.TodayDigest(r.Context(), h.date(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, d)
}

func (h DigestHandler) Generate(w http.ResponseWriter, r *http.Request) {
	d, created, err := h.Tracker.GenerateDigest(r.Context(), h.date(r), queryBool(r, "force"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	WriteJSON(w, status, d)
}

func (h DigestHandler) Text(w http.ResponseWriter, r *http.Request) {
	text, err := h.Tracker.DigestText(r.Context(), h.date(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text))
}

func (h DigestHandler) Email(w http.ResponseWriter, r *http.Request) {
	link, err := h.Tracker.EmailDraft(r.Context(), h.date(r), r.URL.Query().Get("to"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"mailto": link})
}
