// Package digest builds the daily top-matches snapshot and its text forms.
package digest

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"

	"jobtracker-engine/internal/domain"
	"jobtracker-engine/internal/rank"
)

const (
	Title        = "Top 10 Jobs For You — 9AM Digest"
	Closing      = "This digest was generated based on your preferences."
	EmailSubject = "My 9AM Job Digest"

	dateLayout = "2006-01-02"
)

// TodayKey is the ISO calendar day used to key digests.
func TodayKey(now time.Time) string {
	return now.Format(dateLayout)
}

var ErrInvalidDate = errors.New("invalid digest date")

// ParseDate validates a digest key.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w %q (want YYYY-MM-DD)", ErrInvalidDate, s)
	}
	return t, nil
}

// Build scores every job, keeps those at or above the threshold, orders them
// by score desc then postedDaysAgo asc, and keeps the first limit. limit is
// capped at domain.DigestLimit; <= 0 means the cap.
func Build(jobs []domain.Job, prefs domain.Preferences, s rank.Scorer, date string, limit int) domain.Digest {
	if limit <= 0 || limit > domain.DigestLimit {
		limit = domain.DigestLimit
	}

	entries := make([]domain.DigestEntry, 0, len(jobs))
	for _, j := range jobs {
		score := s.Score(j, prefs)
		if score < prefs.MinMatchScore {
			continue
		}
		entries = append(entries, domain.DigestEntry{Job: j, MatchScore: score})
	}

	sort.SliceStable(entries, func(a, b int) bool {
		if entries[a].MatchScore != entries[b].MatchScore {
			return entries[a].MatchScore > entries[b].MatchScore
		}
		return entries[a].Job.PostedDaysAgo < entries[b].Job.PostedDaysAgo
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return domain.Digest{Date: date, Entries: entries}
}

// FormatText renders the plain-text digest used for copy and email drafts.
func FormatText(d domain.Digest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nDate: %s\n\n", Title, d.Date)
	for i, e := range d.Entries {
		fmt.Fprintf(&b, "%d. %s at %s\n", i+1, e.Job.Title, e.Job.Company)
		fmt.Fprintf(&b, "   Location: %s | Experience: %s\n", e.Job.Location, e.Job.Experience)
		fmt.Fprintf(&b, "   Match Score: %d%%\n", e.MatchScore)
		fmt.Fprintf(&b, "   Apply: %s\n\n", e.Job.ApplyURL)
	}
	b.WriteString(Closing)
	return b.String()
}

// EmailDraft returns a mailto: link carrying the digest text. The recipient
// may be empty.
func EmailDraft(d domain.Digest, to string) string {
	return "mailto:" + url.PathEscape(to) +
		"?subject=" + encodeComponent(EmailSubject) +
		"&body=" + encodeComponent(FormatText(d))
}

// encodeComponent escapes like a browser's encodeURIComponent: spaces become
// %20, not '+', which mail clients would show literally.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
