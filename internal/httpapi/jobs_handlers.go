package httpapi

import (
	"net/http"
	"strings"

	"jobtracker-engine/internal/domain"
	"jobtracker-engine/internal/rank"
	"jobtracker-engine/internal/tracker"
)

type JobsHandler struct {
	Tracker *tracker.Service
}

// viewFromQuery reads the dashboard filters. Unknown statuses and sort modes
// are rejected rather than ignored.
func viewFromQuery(r *http.Request) (rank.View, error) {
	q := r.URL.Query()
	v := rank.View{
		Keyword:     strings.TrimSpace(q.Get("keyword")),
		Location:    q.Get("location"),
		Mode:        q.Get("mode"),
		Experience:  q.Get("experience"),
		Source:      q.Get("source"),
		OnlyMatches: queryBool(r, "only_matches"),
	}
	if s := q.Get("status"); s != "" {
		st, err := domain.ParseStatus(s)
		if err != nil {
			return v, err
		}
		v.Status = st
	}
	sort, err := rank.ParseSort(q.Get("sort"))
	if err != nil {
		return v, err
	}
	v.Sort = sort
	return v, nil
}

func (h JobsHandler) List(w http.ResponseWriter, r *http.Request) {
	v, err := viewFromQuery(r)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_query", err.Error())
		return
	}
	jobs, err := h.Tracker.Dashboard(r.Context(), v)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, jobs)
}

// Subtree serves everything under /jobs/.
func (h JobsHandler) Subtree(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/jobs/"), "/")
	parts := strings.Split(rest, "/")

	switch {
	case rest == "saved":
		methodMux(map[string]http.HandlerFunc{http.MethodGet: h.Saved})(w, r)
	case len(parts) == 1 && parts[0] != "":
		r.SetPathValue("id", parts[0])
		methodMux(map[string]http.HandlerFunc{http.MethodGet: h.Get})(w, r)
	case len(parts) == 2 && parts[1] == "save":
		r.SetPathValue("id", parts[0])
		methodMux(map[string]http.HandlerFunc{http.MethodPost: h.ToggleSaved})(w, r)
	case len(parts) == 2 && parts[1] == "status":
		r.SetPathValue("id", parts[0])
		methodMux(map[string]http.HandlerFunc{http.MethodPut: h.SetStatus})(w, r)
	default:
		WriteError(w, r, http.StatusNotFound, "not_found", "no such route")
	}
}

func (h JobsHandler) Saved(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.Tracker.Saved(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, jobs)
}

func (h JobsHandler) Get(w http.ResponseWriter, r *http.Request) {
	d, err := h.Tracker.Job(r.Context(), r.PathValue("id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, d)
}

func (h JobsHandler) ToggleSaved(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	saved, err := h.Tracker.ToggleSaved(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"id": id, "saved": saved})
}

type statusBody struct {
	Status string `json:"status"`
}

func (h JobsHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	var body statusBody
	if err := decodeBody(r, &body); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}
	id := r.PathValue("id")
	st, err := h.Tracker.SetStatus(r.Context(), id, body.Status)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, map[string]any{"id": id, "status": st})
}

func (h JobsHandler) StatusLog(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Tracker.StatusLog(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, entries)
}
