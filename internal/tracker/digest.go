package tracker

import (
	"context"
	"fmt"
	"log"

	"jobtracker-engine/internal/digest"
	"jobtracker-engine/internal/domain"
	"jobtracker-engine/internal/events"
)

// TodayDigest returns the stored digest for date, or nil when none was
// generated.
func (s *Service) TodayDigest(ctx context.Context, date string) (*domain.Digest, error) {
	if _, err := digest.ParseDate(date); err != nil {
		return nil, err
	}
	return s.stores.Digests.Load(ctx, date)
}

// GenerateDigest builds the digest for date. A digest already stored for that
// day is returned unchanged unless force is set; created reports whether a
// new one was built.
func (s *Service) GenerateDigest(ctx context.Context, date string, force bool) (d domain.Digest, created bool, err error) {
	if _, err := digest.ParseDate(date); err != nil {
		return domain.Digest{}, false, err
	}

	if !force {
		existing, err := s.stores.Digests.Load(ctx, date)
		if err != nil {
			return domain.Digest{}, false, fmt.Errorf("load digest: %w", err)
		}
		if existing != nil {
			return *existing, false, nil
		}
	}

	prefs, err := s.stores.Preferences.Load(ctx)
	if err != nil {
		return domain.Digest{}, false, fmt.Errorf("load preferences: %w", err)
	}
	if prefs == nil {
		return domain.Digest{}, false, ErrNoPreferences
	}

	scorer, limit := s.scoring()
	d = digest.Build(s.catalog.All(), *prefs, scorer, date, limit)
	if err := s.stores.Digests.Save(ctx, d); err != nil {
		return domain.Digest{}, false, fmt.Errorf("save digest: %w", err)
	}

	log.Printf("[digest] generated date=%s entries=%d force=%t", date, len(d.Entries), force)
	s.publish(ctx, events.TypeDigestGenerated, map[string]any{"date": date, "entries": len(d.Entries)})
	return d, true, nil
}

func (s *Service) stored(ctx context.Context, date string) (domain.Digest, error) {
	d, err := s.TodayDigest(ctx, date)
	if err != nil {
		return domain.Digest{}, err
	}
	if d == nil {
		return domain.Digest{}, fmt.Errorf("%w %s", ErrNoDigest, date)
	}
	return *d, nil
}

// DigestText renders the stored digest for date as plain text.
func (s *Service) DigestText(ctx context.Context, date string) (string, error) {
	d, err := s.stored(ctx, date)
	if err != nil {
		return "", err
	}
	return digest.FormatText(d), nil
}

// EmailDraft returns a mailto: link for the stored digest for date.
func (s *Service) EmailDraft(ctx context.Context, date, to string) (string, error) {
	d, err := s.stored(ctx, date)
	if err != nil {
		return "", err
	}
	return digest.EmailDraft(d, to), nil
}

// CleanupDigests deletes digests older than retentionDays days before today.
// A retention of 0 keeps everything.
func (s *Service) CleanupDigests(ctx context.Context, retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	cutoff := digest.TodayKey(s.now().AddDate(0, 0, -retentionDays))
	n, err := s.stores.Digests.DeleteBefore(ctx, cutoff)
	if err != nil {
		return n, fmt.Errorf("cleanup digests: %w", err)
	}
	if n > 0 {
		log.Printf("[digest] removed=%d before=%s", n, cutoff)
		s.publish(ctx, events.TypeDigestsCleaned, map[string]any{"before": cutoff, "removed": n})
	}
	return n, nil
}
