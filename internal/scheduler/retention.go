package scheduler

import "context"

// DigestCleaner drops digests older than a retention window.
type DigestCleaner interface {
	CleanupDigests(ctx context.Context, retentionDays int) (int, error)
}

// DigestRetention is the cleanup task. retentionDays is read on every run so
// config reloads apply without a restart.
func DigestRetention(c DigestCleaner, retentionDays func() int) Task {
	return func(ctx context.Context) error {
		_, err := c.CleanupDigests(ctx, retentionDays())
		return err
	}
}
