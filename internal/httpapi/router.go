package httpapi

import (
	"net/http"
	"sync/atomic"

	"jobtracker-engine/internal/config"
)

func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: HealthHandler{CfgVal: d.CfgVal}.Health,
	}))

	// Jobs
	jh := JobsHandler{Tracker: d.Tracker}
	mux.HandleFunc("/jobs", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.List,
	}))
	mux.HandleFunc("/jobs/", jh.Subtree)
	mux.HandleFunc("/status/log", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: jh.StatusLog,
	}))

	// Preferences
	ph := PreferencesHandler{Tracker: d.Tracker}
	mux.HandleFunc("/preferences", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ph.Get,
		http.MethodPut: ph.Put,
	}))

	// Digest
	dh := DigestHandler{Tracker: d.Tracker}
	mux.HandleFunc("/digest", methodMux(map[string]http.HandlerFunc{
		http.MethodGet:  dh.Get,
		http.MethodPost: dh.Generate,
	}))
	mux.HandleFunc("/digest/text", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.Text,
	}))
	mux.HandleFunc("/digest/email", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: dh.Email,
	}))

	// Config
	ch := ConfigHandler{
		CfgVal:      d.CfgVal,
		UserCfgPath: d.UserCfgPath,
		LoadCfg:     d.LoadCfg,
		OnConfig:    d.OnConfig,
		Hub:         d.Hub,
	}
	mux.HandleFunc("/config", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Get,
		http.MethodPut: ch.Put,
	}))
	mux.HandleFunc("/config/path", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Path,
	}))
	mux.HandleFunc("/config/validate", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: ch.Validate,
	}))

	// SSE events
	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}

// NewHandler wraps the mux in the middleware chain, configured from the
// config held in d.CfgVal at startup.
func NewHandler(d Deps) http.Handler {
	cfg := currentConfig(d.CfgVal)

	var limiter *ClientLimiter
	if cfg.HTTP.RatePerSec > 0 {
		limiter = NewClientLimiter(cfg.HTTP.RatePerSec, cfg.HTTP.Burst)
	}

	return Chain(NewMux(d),
		RequestID,
		Recover,
		AccessLog,
		RateLimit(limiter),
		Cors(cfg.HTTP.CorsOrigins),
	)
}

func currentConfig(v *atomic.Value) config.Config {
	if v != nil {
		if cfg, ok := v.Load().(config.Config); ok {
			return cfg
		}
	}
	return config.Default()
}
