package store

import (
	"context"
	"fmt"
	"log"

	"jobtracker-engine/internal/config"
)

// Open builds the repositories for the configured backend.
func Open(ctx context.Context, cfg config.Config) (*Set, error) {
	switch cfg.Storage.Backend {
	case "memory":
		return NewMemory(), nil
	case "file":
		dir := cfg.Resolve(cfg.Storage.FileDir)
		log.Printf("[store] backend=file dir=%s", dir)
		return OpenFile(dir)
	case "redis":
		log.Printf("[store] backend=redis prefix=%s", cfg.Storage.RedisKey)
		return OpenRedis(ctx, cfg.Storage.RedisURL, cfg.Storage.RedisKey)
	case "sqlite", "":
		path := cfg.Resolve(cfg.Storage.SQLitePath)
		log.Printf("[store] backend=sqlite path=%s", path)
		return OpenSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
