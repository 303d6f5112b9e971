package httpapi

import (
	"net/http"
	"sync/atomic"

	"jobtracker-engine/internal/config"
)

type HealthHandler struct {
	CfgVal *atomic.Value
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{"ok": true}
	if h.CfgVal != nil {
		if cfg, ok := h.CfgVal.Load().(config.Config); ok {
			resp["backend"] = cfg.Storage.Backend
		}
	}
	writeJSON(w, resp)
}
