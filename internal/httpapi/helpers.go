package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"jobtracker-engine/internal/digest"
	"jobtracker-engine/internal/domain"
	"jobtracker-engine/internal/tracker"
)

func writeJSON(w http.ResponseWriter, v any) {
	WriteJSON(w, http.StatusOK, v)
}

func methodMux(m map[string]http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h, ok := m[r.Method]; ok {
			h(w, r)
			return
		}
		allowed := make([]string, 0, len(m))
		for method := range m {
			allowed = append(allowed, method)
		}
		w.Header().Set("Allow", strings.Join(allowed, ", "))
		WriteError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	}
}

// decodeBody reads exactly one JSON value and rejects unknown fields.
func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("trailing data")
	}
	return nil
}

func queryBool(r *http.Request, key string) bool {
	v, err := strconv.ParseBool(r.URL.Query().Get(key))
	return err == nil && v
}

// writeServiceError maps tracker and domain errors onto the API envelope.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, tracker.ErrUnknownJob):
		WriteError(w, r, http.StatusNotFound, "unknown_job", err.Error())
	case errors.Is(err, tracker.ErrNoDigest):
		WriteError(w, r, http.StatusNotFound, "no_digest", err.Error())
	case errors.Is(err, tracker.ErrNoPreferences):
		WriteError(w, r, http.StatusConflict, "no_preferences", "save preferences before generating a digest")
	case errors.Is(err, digest.ErrInvalidDate):
		WriteError(w, r, http.StatusBadRequest, "invalid_date", err.Error())
	case errors.Is(err, domain.ErrInvalidStatus):
		WriteError(w, r, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, domain.ErrValidation):
		WriteError(w, r, http.StatusBadRequest, "invalid_preferences", err.Error())
	default:
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
