// Package store persists the user's state: preferences, per-job status, the
// saved set and daily digests. Each repository reads and rewrites its value as
// one unit; nothing spans keys.
package store

import (
	"context"
	"errors"

	"jobtracker-engine/internal/domain"
)

// PreferenceStore holds zero or one Preferences value.
type PreferenceStore interface {
	// Load returns nil, nil when the user has not saved preferences yet.
	Load(ctx context.Context) (*domain.Preferences, error)
	// Save overwrites the stored value wholesale.
	Save(ctx context.Context, p domain.Preferences) error
}

// StatusLedger tracks the application status of each job plus a short
// history of changes.
type StatusLedger interface {
	All(ctx context.Context) (map[string]domain.JobStatus, error)
	// Get returns domain.DefaultStatus for jobs without an entry.
	Get(ctx context.Context, jobID string) (domain.JobStatus, error)
	// Set records e.Status for e.JobID. Moves to a non-default status are
	// prepended to the log, which keeps domain.StatusLogLimit entries.
	Set(ctx context.Context, e domain.StatusLogEntry) error
	Log(ctx context.Context) ([]domain.StatusLogEntry, error)
}

// SavedJobStore is the set of bookmarked job ids, in the order they were saved.
type SavedJobStore interface {
	IDs(ctx context.Context) ([]string, error)
	IsSaved(ctx context.Context, jobID string) (bool, error)
	// Toggle flips the saved flag and returns the new state.
	Toggle(ctx context.Context, jobID string) (bool, error)
}

// DigestStore keeps one digest per calendar day.
type DigestStore interface {
	// Load returns nil, nil when no digest exists for date.
	Load(ctx context.Context, date string) (*domain.Digest, error)
	Save(ctx context.Context, d domain.Digest) error
	// DeleteBefore removes digests dated strictly before date.
	DeleteBefore(ctx context.Context, date string) (int, error)
}

// Set bundles the four repositories of one backend.
type Set struct {
	Preferences PreferenceStore
	Statuses    StatusLedger
	Saved       SavedJobStore
	Digests     DigestStore

	Backend string
	closer  func() error
}

func (s *Set) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer()
}

var ErrEmptyJobID = errors.New("job id is empty")

// prependLog puts e first and trims the log to domain.StatusLogLimit.
func prependLog(log []domain.StatusLogEntry, e domain.StatusLogEntry) []domain.StatusLogEntry {
	out := make([]domain.StatusLogEntry, 0, len(log)+1)
	out = append(out, e)
	out = append(out, log...)
	if len(out) > domain.StatusLogLimit {
		out = out[:domain.StatusLogLimit]
	}
	return out
}
