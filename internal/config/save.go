package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"jobtracker-engine/internal/domain"
)

var backends = map[string]bool{"sqlite": true, "file": true, "redis": true, "memory": true}

func Validate(cfg Config) error {
	var errs []string

	if cfg.App.Port <= 0 || cfg.App.Port > 65535 {
		errs = append(errs, "app.port must be 1..65535")
	}

	if !backends[cfg.Storage.Backend] {
		errs = append(errs, fmt.Sprintf("storage.backend must be one of sqlite, file, redis, memory (got %q)", cfg.Storage.Backend))
	}
	switch cfg.Storage.Backend {
	case "sqlite":
		if strings.TrimSpace(cfg.Storage.SQLitePath) == "" {
			errs = append(errs, "storage.sqlite_path is required when storage.backend=sqlite")
		}
	case "file":
		if strings.TrimSpace(cfg.Storage.FileDir) == "" {
			errs = append(errs, "storage.file_dir is required when storage.backend=file")
		}
	case "redis":
		if strings.TrimSpace(cfg.Storage.RedisURL) == "" {
			errs = append(errs, "storage.redis_url is required when storage.backend=redis")
		}
	}

	checkWeight := func(name string, w int) {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("scoring.weights.%s must be >= 0", name))
		}
	}
	w := cfg.Scoring.Weights
	checkWeight("title_keyword", w.TitleKeyword)
	checkWeight("description_keyword", w.DescriptionKeyword)
	checkWeight("location", w.Location)
	checkWeight("mode", w.Mode)
	checkWeight("experience", w.Experience)
	checkWeight("skills", w.Skills)
	checkWeight("recent", w.Recent)
	checkWeight("source", w.Source)

	if cfg.Scoring.RecentDays < 0 {
		errs = append(errs, "scoring.recent_days must be >= 0")
	}

	if cfg.Digest.Limit <= 0 || cfg.Digest.Limit > domain.DigestLimit {
		errs = append(errs, fmt.Sprintf("digest.limit must be 1..%d", domain.DigestLimit))
	}
	if cfg.Digest.RetentionDays < 0 {
		errs = append(errs, "digest.retention_days must be >= 0")
	}

	if cfg.HTTP.RatePerSec < 0 {
		errs = append(errs, "http.rate_per_sec must be >= 0")
	}
	if cfg.HTTP.RatePerSec > 0 && cfg.HTTP.Burst <= 0 {
		errs = append(errs, "http.burst must be > 0 when rate limiting is enabled")
	}

	if len(errs) > 0 {
		return errors.New("config validation failed:\n- " + joinLines(errs))
	}
	return nil
}

func SaveAtomic(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}

	b, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	bak := path + ".bak"

	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}

	_ = os.Remove(bak)
	_ = os.Rename(path, bak)

	return os.Rename(tmp, path)
}

func joinLines(lines []string) string {
	return strings.Join(lines, "\n- ")
}
