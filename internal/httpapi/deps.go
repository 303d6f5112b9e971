package httpapi

import (
	"sync/atomic"

	"jobtracker-engine/internal/config"
	"jobtracker-engine/internal/events"
	"jobtracker-engine/internal/tracker"
)

type Deps struct {
	Tracker *tracker.Service
	Hub     *events.Hub

	CfgVal *atomic.Value // stores config.Config

	// Config persistence
	UserCfgPath string
	LoadCfg     func() (config.Config, error)
	// OnConfig runs after a saved config has been reloaded.
	OnConfig func(config.Config)
}
