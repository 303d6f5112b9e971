// internal/rank/match_scorer.go
package rank

import (
	"strings"

	"jobtracker-engine/internal/config"
	"jobtracker-engine/internal/domain"
)

// Criterion names, in evaluation order.
const (
	CritTitleKeyword       = "title_keyword"
	CritDescriptionKeyword = "description_keyword"
	CritLocation           = "location"
	CritMode               = "mode"
	CritExperience         = "experience"
	CritSkills             = "skills"
	CritRecent             = "recent"
	CritSource             = "source"
)

// Reason is one criterion that fired for a job.
type Reason struct {
	Criterion string `json:"criterion"`
	Points    int    `json:"points"`
}

// MatchScorer is the additive point model. Every criterion is independent;
// the sum is clamped to domain.MaxScore.
type MatchScorer struct {
	Cfg config.Scoring
}

func NewMatchScorer(cfg config.Scoring) MatchScorer {
	return MatchScorer{Cfg: cfg}
}

// DefaultScorer uses the shipped point table.
func DefaultScorer() MatchScorer {
	return MatchScorer{Cfg: config.DefaultScoring()}
}

func (s MatchScorer) Score(job domain.Job, prefs domain.Preferences) int {
	score, _ := s.evaluate(job, prefs)
	return score
}

// Explain lists the criteria that fired, with the points each one added.
func (s MatchScorer) Explain(job domain.Job, prefs domain.Preferences) []Reason {
	_, reasons := s.evaluate(job, prefs)
	return reasons
}

func (s MatchScorer) evaluate(job domain.Job, prefs domain.Preferences) (int, []Reason) {
	w := s.Cfg.Weights
	keywords := prefs.Keywords()
	userSkills := prefs.SkillTokens()

	score := 0
	var reasons []Reason
	add := func(crit string, pts int) {
		score += pts
		reasons = append(reasons, Reason{Criterion: crit, Points: pts})
	}

	if anyContained(strings.ToLower(job.Title), keywords) {
		add(CritTitleKeyword, w.TitleKeyword)
	}
	if anyContained(strings.ToLower(job.Description), keywords) {
		add(CritDescriptionKeyword, w.DescriptionKeyword)
	}
	if member(prefs.PreferredLocations, job.Location) {
		add(CritLocation, w.Location)
	}
	if member(prefs.PreferredMode, job.Mode) {
		add(CritMode, w.Mode)
	}
	if prefs.ExperienceLevel != "" && prefs.ExperienceLevel == job.Experience {
		add(CritExperience, w.Experience)
	}
	if skillsOverlap(job.Skills, userSkills) {
		add(CritSkills, w.Skills)
	}
	if job.PostedDaysAgo <= s.Cfg.RecentDays {
		add(CritRecent, w.Recent)
	}
	if s.Cfg.BoostedSource != "" && job.Source == s.Cfg.BoostedSource {
		add(CritSource, w.Source)
	}

	return clamp(score), reasons
}

func clamp(score int) int {
	if score > domain.MaxScore {
		return domain.MaxScore
	}
	if score < 0 {
		return 0
	}
	return score
}

// anyContained reports whether any needle is a substring of text. Both sides
// must already be lower-cased.
func anyContained(text string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(text, n) {
			return true
		}
	}
	return false
}

func member(set []string, v string) bool {
	for _, x := range set {
		if x == v {
			return true
		}
	}
	return false
}

// skillsOverlap matches in either direction, so "react" hits "React Native"
// and "node.js" hits "Node".
func skillsOverlap(jobSkills, userSkills []string) bool {
	for _, js := range jobSkills {
		j := strings.ToLower(strings.TrimSpace(js))
		if j == "" {
			continue
		}
		for _, us := range userSkills {
			if strings.Contains(j, us) || strings.Contains(us, j) {
				return true
			}
		}
	}
	return false
}
