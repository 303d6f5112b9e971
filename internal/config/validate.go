package config

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"

	"jobtracker-engine/internal/domain"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy plus every error and
// warning found, so the UI can show them all at once.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	var out = cfg
	var res Validation

	trimList := func(xs []string) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			ys = append(ys, x)
		}
		return ys
	}

	out.HTTP.CorsOrigins = trimList(out.HTTP.CorsOrigins)
	out.Storage.Backend = strings.ToLower(strings.TrimSpace(out.Storage.Backend))
	out.Scoring.BoostedSource = strings.TrimSpace(out.Scoring.BoostedSource)
	out.Digest.CleanupSchedule = strings.TrimSpace(out.Digest.CleanupSchedule)

	// ---- Validation rules ----

	if err := Validate(out); err != nil {
		for _, line := range strings.Split(strings.TrimPrefix(err.Error(), "config validation failed:\n- "), "\n- ") {
			res.addErr("%s", line)
		}
	}

	if sum := out.Scoring.Weights.Sum(); sum > domain.MaxScore {
		res.addWarn("scoring weights sum to %d; scores will be clamped at %d", sum, domain.MaxScore)
	} else if sum == 0 {
		res.addWarn("all scoring weights are 0; every job will score 0")
	}

	if out.Scoring.BoostedSource != "" && !domain.IsSource(out.Scoring.BoostedSource) {
		res.addErr("scoring.boosted_source must be one of %s (got %q)", strings.Join(domain.Sources, ", "), out.Scoring.BoostedSource)
	}

	if out.Digest.RetentionDays > 0 {
		if out.Digest.CleanupSchedule == "" {
			res.addErr("digest.cleanup_schedule is required when digest.retention_days > 0")
		} else if _, err := cron.ParseStandard(out.Digest.CleanupSchedule); err != nil {
			res.addErr("digest.cleanup_schedule is not a valid cron spec: %v", err)
		}
	}

	if out.Storage.Backend == "memory" {
		res.addWarn("storage.backend=memory keeps nothing across restarts")
	}

	return out, res
}
