package domain

import "strings"

// DefaultMinMatchScore is the threshold a fresh settings form starts with.
const DefaultMinMatchScore = 40

// Preferences are the user's matching criteria. A nil *Preferences means the
// user has not configured anything yet; scoring is skipped in that case.
type Preferences struct {
	RoleKeywords       string   `json:"roleKeywords" yaml:"role_keywords"`
	Skills             string   `json:"skills" yaml:"skills"`
	PreferredLocations []string `json:"preferredLocations" yaml:"preferred_locations" validate:"dive,location"`
	PreferredMode      []string `json:"preferredMode" yaml:"preferred_mode" validate:"dive,mode"`
	ExperienceLevel    string   `json:"experienceLevel" yaml:"experience_level" validate:"omitempty,experience"`
	MinMatchScore      int      `json:"minMatchScore" yaml:"min_match_score" validate:"gte=0,lte=100"`
}

// Keywords returns the role keywords as lower-cased, trimmed, non-empty tokens.
func (p Preferences) Keywords() []string { return SplitTokens(p.RoleKeywords) }

// SkillTokens returns the user's skills tokenized like Keywords.
func (p Preferences) SkillTokens() []string { return SplitTokens(p.Skills) }

// SplitTokens splits comma-separated free text into lower-cased tokens,
// dropping blanks.
func SplitTokens(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		t := strings.ToLower(strings.TrimSpace(part))
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	return out
}
