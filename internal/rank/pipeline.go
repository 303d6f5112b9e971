package rank

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"jobtracker-engine/internal/domain"
)

type SortMode string

const (
	SortLatest SortMode = "latest" // postedDaysAgo asc
	SortScore  SortMode = "score"  // match score desc, nil as 0
	SortSalary SortMode = "salary" // first integer in salary range desc
)

// ParseSort accepts the empty string as SortLatest.
func ParseSort(s string) (SortMode, error) {
	switch SortMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortLatest:
		return SortLatest, nil
	case SortScore:
		return SortScore, nil
	case SortSalary:
		return SortSalary, nil
	}
	return "", fmt.Errorf("unknown sort mode %q (want latest, score or salary)", s)
}

// View is one dashboard configuration. Empty fields do not filter.
type View struct {
	Keyword     string           `json:"keyword"`
	Location    string           `json:"location"`
	Mode        string           `json:"mode"`
	Experience  string           `json:"experience"`
	Source      string           `json:"source"`
	Status      domain.JobStatus `json:"status"`
	OnlyMatches bool             `json:"onlyMatches"`
	Sort        SortMode         `json:"sort"`
}

// StatusFunc looks up a job's current status. Missing entries may return "".
type StatusFunc func(jobID string) domain.JobStatus

// ScoreAll pairs every job with its score. With nil prefs every score is nil.
func ScoreAll(s Scorer, jobs []domain.Job, prefs *domain.Preferences) []domain.ScoredEntry {
	out := make([]domain.ScoredEntry, 0, len(jobs))
	for _, j := range jobs {
		e := domain.ScoredEntry{Job: j}
		if prefs != nil {
			v := s.Score(j, *prefs)
			e.MatchScore = &v
		}
		out = append(out, e)
	}
	return out
}

// Apply filters then sorts entries into a new slice; the input is not
// modified.
func Apply(entries []domain.ScoredEntry, v View, prefs *domain.Preferences, statusOf StatusFunc) []domain.ScoredEntry {
	keep := predicates(v, prefs, statusOf)

	out := make([]domain.ScoredEntry, 0, len(entries))
next:
	for _, e := range entries {
		for _, p := range keep {
			if !p(e) {
				continue next
			}
		}
		out = append(out, e)
	}

	sortEntries(out, v.Sort)
	return out
}

type predicate func(domain.ScoredEntry) bool

func predicates(v View, prefs *domain.Preferences, statusOf StatusFunc) []predicate {
	var ps []predicate

	if kw := strings.ToLower(v.Keyword); kw != "" {
		ps = append(ps, func(e domain.ScoredEntry) bool {
			return strings.Contains(strings.ToLower(e.Job.Title), kw) ||
				strings.Contains(strings.ToLower(e.Job.Company), kw)
		})
	}
	exact := func(want string, field func(domain.Job) string) {
		if want == "" {
			return
		}
		ps = append(ps, func(e domain.ScoredEntry) bool { return field(e.Job) == want })
	}
	exact(v.Location, func(j domain.Job) string { return j.Location })
	exact(v.Mode, func(j domain.Job) string { return j.Mode })
	exact(v.Experience, func(j domain.Job) string { return j.Experience })
	exact(v.Source, func(j domain.Job) string { return j.Source })

	if v.Status != "" {
		ps = append(ps, func(e domain.ScoredEntry) bool {
			var st domain.JobStatus
			if statusOf != nil {
				st = statusOf(e.Job.ID)
			}
			return domain.StatusOrDefault(st) == v.Status
		})
	}

	// Without preferences there is no threshold to apply.
	if v.OnlyMatches && prefs != nil {
		threshold := prefs.MinMatchScore
		ps = append(ps, func(e domain.ScoredEntry) bool { return e.EffectiveScore() >= threshold })
	}

	return ps
}

func sortEntries(es []domain.ScoredEntry, mode SortMode) {
	switch mode {
	case SortScore:
		sort.SliceStable(es, func(i, j int) bool {
			return es[i].EffectiveScore() > es[j].EffectiveScore()
		})
	case SortSalary:
		sort.SliceStable(es, func(i, j int) bool {
			return ExtractSalary(es[i].Job.SalaryRange) > ExtractSalary(es[j].Job.SalaryRange)
		})
	default:
		sort.SliceStable(es, func(i, j int) bool {
			return es[i].Job.PostedDaysAgo < es[j].Job.PostedDaysAgo
		})
	}
}

var firstInt = regexp.MustCompile(`\d+`)

// ExtractSalary returns the first integer in a free-text salary range, or 0
// when there is none.
func ExtractSalary(s string) int {
	m := firstInt.FindString(s)
	if m == "" {
		return 0
	}
	n, err := strconv.Atoi(m)
	if err != nil {
		return 0
	}
	return n
}
