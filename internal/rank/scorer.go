package rank

import "jobtracker-engine/internal/domain"

// Scorer maps a job and the user's preferences to a match score in
// [0, domain.MaxScore].
type Scorer interface {
	Score(job domain.Job, prefs domain.Preferences) int
}
