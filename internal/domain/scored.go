package domain

const (
	// MaxScore is the ceiling every match score is clamped to.
	MaxScore = 100

	// DigestLimit is the most entries a daily digest carries.
	DigestLimit = 10
)

// ScoredEntry pairs a job with its match score. MatchScore is nil when no
// preferences are configured.
type ScoredEntry struct {
	Job        Job  `json:"job"`
	MatchScore *int `json:"matchScore"`
}

// EffectiveScore is the score used for ordering and thresholds: nil counts as 0.
func (e ScoredEntry) EffectiveScore() int {
	if e.MatchScore == nil {
		return 0
	}
	return *e.MatchScore
}

// DigestEntry is a digest line; unlike ScoredEntry its score is always set.
type DigestEntry struct {
	Job        Job `json:"job"`
	MatchScore int `json:"matchScore"`
}

// Digest is the daily top-matches snapshot, keyed by ISO calendar day.
type Digest struct {
	Date    string        `json:"date"`
	Entries []DigestEntry `json:"entries"`
}
