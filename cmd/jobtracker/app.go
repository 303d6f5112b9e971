package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"jobtracker-engine/internal/catalog"
	"jobtracker-engine/internal/config"
	"jobtracker-engine/internal/events"
	"jobtracker-engine/internal/store"
	"jobtracker-engine/internal/tracker"
)

// app is everything a command needs, opened from one data directory.
type app struct {
	cfgVal  *atomic.Value // stores config.Config
	cfgPath string
	loadCfg func() (config.Config, error)

	stores  *store.Set
	catalog *catalog.Catalog
	hub     *events.Hub
	tracker *tracker.Service
}

func (o *rootOptions) resolveDataDir() string {
	if o.dataDir != "" {
		return o.dataDir
	}
	if d := os.Getenv("JOBTRACKER_DATA_DIR"); d != "" {
		return d
	}
	return "."
}

func (o *rootOptions) resolveConfigPath(dataDir string) (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	if p := os.Getenv("JOBTRACKER_CONFIG"); p != "" {
		return p, nil
	}
	return config.EnsureUserConfig(dataDir)
}

func openApp(ctx context.Context, opts *rootOptions) (*app, error) {
	dataDir := opts.resolveDataDir()
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	cfgPath, err := opts.resolveConfigPath(dataDir)
	if err != nil {
		return nil, fmt.Errorf("config bootstrap failed: %w", err)
	}

	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return cfg, err
		}
		if cfg.App.DataDir == "" || cfg.App.DataDir == "." {
			cfg.App.DataDir = dataDir
		} else if !filepath.IsAbs(cfg.App.DataDir) {
			cfg.App.DataDir = filepath.Join(dataDir, cfg.App.DataDir)
		}
		normalized, vr := config.NormalizeAndValidate(cfg)
		for _, w := range vr.Warnings {
			log.Printf("[config] warning: %s", w)
		}
		if !vr.OK() {
			return cfg, fmt.Errorf("invalid config: %s", strings.Join(vr.Errors, "; "))
		}
		return normalized, nil
	}

	cfg, err := loadCfg()
	if err != nil {
		return nil, fmt.Errorf("config load failed (%s): %w", cfgPath, err)
	}
	var cfgVal atomic.Value
	cfgVal.Store(cfg)

	cat, err := catalog.Load(cfg.Resolve(cfg.Catalog.Path))
	if err != nil {
		return nil, err
	}

	stores, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}

	hub := events.NewHub()
	svc := tracker.New(cat, stores, tracker.Options{
		Scoring:     cfg.Scoring,
		DigestLimit: cfg.Digest.Limit,
		Events:      hub,
	})

	return &app{
		cfgVal:  &cfgVal,
		cfgPath: cfgPath,
		loadCfg: loadCfg,
		stores:  stores,
		catalog: cat,
		hub:     hub,
		tracker: svc,
	}, nil
}

func (a *app) config() config.Config {
	return a.cfgVal.Load().(config.Config)
}

func (a *app) Close() error {
	return a.stores.Close()
}
