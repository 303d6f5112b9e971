package httpapi

import (
	"net/http"

	"jobtracker-engine/internal/domain"
	"jobtracker-engine/internal/tracker"
)

type PreferencesHandler struct {
	Tracker *tracker.Service
}

// Get answers null when nothing has been saved yet.
func (h PreferencesHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Tracker.Preferences(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}

func (h PreferencesHandler) Put(w http.ResponseWriter, r *http.Request) {
	var p domain.Preferences
	if err := decodeBody(r, &p); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_json", "invalid JSON: "+err.Error())
		return
	}
	if err := h.Tracker.SavePreferences(r.Context(), p); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, p)
}
