// Package tracker is the application service: it joins the catalog, the
// user's stored state and the scorer into the views the API and CLI serve.
// It is the only package that talks to the repositories.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"jobtracker-engine/internal/catalog"
	"jobtracker-engine/internal/config"
	"jobtracker-engine/internal/digest"
	"jobtracker-engine/internal/domain"
	"jobtracker-engine/internal/events"
	"jobtracker-engine/internal/rank"
	"jobtracker-engine/internal/store"
)

var (
	ErrUnknownJob    = errors.New("unknown job")
	ErrNoPreferences = errors.New("no preferences saved")
	ErrNoDigest      = errors.New("no digest for date")
)

// Listing is one job as the dashboard shows it.
type Listing struct {
	domain.ScoredEntry
	Category rank.Category    `json:"category,omitempty"`
	Status   domain.JobStatus `json:"status"`
	Saved    bool             `json:"saved"`
}

// Detail is a Listing plus the criteria that produced its score.
type Detail struct {
	Listing
	Reasons []rank.Reason `json:"reasons,omitempty"`
}

type Options struct {
	Scoring     config.Scoring
	DigestLimit int
	Events      events.Publisher
	Now         func() time.Time
}

type Service struct {
	catalog *catalog.Catalog
	stores  *store.Set
	events  events.Publisher
	now     func() time.Time

	mu          sync.RWMutex
	scorer      rank.MatchScorer
	digestLimit int
}

func New(cat *catalog.Catalog, stores *store.Set, opts Options) *Service {
	s := &Service{
		catalog:     cat,
		stores:      stores,
		events:      opts.Events,
		now:         opts.Now,
		scorer:      rank.NewMatchScorer(opts.Scoring),
		digestLimit: opts.DigestLimit,
	}
	if s.events == nil {
		s.events = events.Discard{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Reconfigure swaps scoring weights and the digest limit after a config
// reload. Stored digests keep the scores they were built with.
func (s *Service) Reconfigure(cfg config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scorer = rank.NewMatchScorer(cfg.Scoring)
	s.digestLimit = cfg.Digest.Limit
}

func (s *Service) scoring() (rank.MatchScorer, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scorer, s.digestLimit
}

// Today is the digest key for the service clock.
func (s *Service) Today() string {
	return digest.TodayKey(s.now())
}

func (s *Service) publish(ctx context.Context, typ string, data any) {
	s.events.Publish(events.MakeEvent(events.RequestIDFrom(ctx), typ, 1, data))
}

type userState struct {
	prefs    *domain.Preferences
	statuses map[string]domain.JobStatus
	saved    map[string]bool
	order    []string
}

func (s *Service) loadState(ctx context.Context) (userState, error) {
	var st userState
	var err error
	if st.prefs, err = s.stores.Preferences.Load(ctx); err != nil {
		return st, fmt.Errorf("load preferences: %w", err)
	}
	if st.statuses, err = s.stores.Statuses.All(ctx); err != nil {
		return st, fmt.Errorf("load statuses: %w", err)
	}
	if st.order, err = s.stores.Saved.IDs(ctx); err != nil {
		return st, fmt.Errorf("load saved: %w", err)
	}
	st.saved = make(map[string]bool, len(st.order))
	for _, id := range st.order {
		st.saved[id] = true
	}
	return st, nil
}

func (st userState) statusOf(jobID string) domain.JobStatus {
	return domain.StatusOrDefault(st.statuses[jobID])
}

func (st userState) listing(e domain.ScoredEntry) Listing {
	l := Listing{
		ScoredEntry: e,
		Status:      st.statusOf(e.Job.ID),
		Saved:       st.saved[e.Job.ID],
	}
	if e.MatchScore != nil {
		l.Category = rank.CategoryOf(*e.MatchScore)
	}
	return l
}

// Dashboard scores the whole catalog and applies the view's filters and sort.
func (s *Service) Dashboard(ctx context.Context, v rank.View) ([]Listing, error) {
	st, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}
	scorer, _ := s.scoring()

	entries := rank.ScoreAll(scorer, s.catalog.All(), st.prefs)
	entries = rank.Apply(entries, v, st.prefs, st.statusOf)

	out := make([]Listing, 0, len(entries))
	for _, e := range entries {
		out = append(out, st.listing(e))
	}
	return out, nil
}

// Saved lists bookmarked jobs in the order they were saved. Ids no longer in
// the catalog are skipped.
func (s *Service) Saved(ctx context.Context) ([]Listing, error) {
	st, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}
	scorer, _ := s.scoring()

	jobs := make([]domain.Job, 0, len(st.order))
	for _, id := range st.order {
		if j, ok := s.catalog.Get(id); ok {
			jobs = append(jobs, j)
		}
	}

	out := make([]Listing, 0, len(jobs))
	for _, e := range rank.ScoreAll(scorer, jobs, st.prefs) {
		out = append(out, st.listing(e))
	}
	return out, nil
}

func (s *Service) Job(ctx context.Context, id string) (Detail, error) {
	job, ok := s.catalog.Get(id)
	if !ok {
		return Detail{}, fmt.Errorf("%w: %s", ErrUnknownJob, id)
	}
	st, err := s.loadState(ctx)
	if err != nil {
		return Detail{}, err
	}
	scorer, _ := s.scoring()

	e := rank.ScoreAll(scorer, []domain.Job{job}, st.prefs)[0]
	d := Detail{Listing: st.listing(e)}
	if st.prefs != nil {
		d.Reasons = scorer.Explain(job, *st.prefs)
	}
	return d, nil
}

// SetStatus records a new status for a catalog job and returns it.
func (s *Service) SetStatus(ctx context.Context, id, status string) (domain.JobStatus, error) {
	job, ok := s.catalog.Get(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownJob, id)
	}
	st, err := domain.ParseStatus(status)
	if err != nil {
		return "", err
	}

	entry := domain.StatusLogEntry{
		JobID:    job.ID,
		JobTitle: job.Title,
		Company:  job.Company,
		Status:   st,
		Date:     s.now().UTC(),
	}
	if err := s.stores.Statuses.Set(ctx, entry); err != nil {
		return "", fmt.Errorf("set status: %w", err)
	}
	s.publish(ctx, events.TypeStatusChanged, map[string]any{"jobId": job.ID, "status": st})
	return st, nil
}

func (s *Service) ToggleSaved(ctx context.Context, id string) (bool, error) {
	if _, ok := s.catalog.Get(id); !ok {
		return false, fmt.Errorf("%w: %s", ErrUnknownJob, id)
	}
	saved, err := s.stores.Saved.Toggle(ctx, id)
	if err != nil {
		return false, fmt.Errorf("toggle saved: %w", err)
	}
	s.publish(ctx, events.TypeSavedToggled, map[string]any{"jobId": id, "saved": saved})
	return saved, nil
}

func (s *Service) StatusLog(ctx context.Context) ([]domain.StatusLogEntry, error) {
	return s.stores.Statuses.Log(ctx)
}

// Preferences returns nil when the user has not saved any.
func (s *Service) Preferences(ctx context.Context) (*domain.Preferences, error) {
	return s.stores.Preferences.Load(ctx)
}

// SavePreferences validates p and replaces the stored preferences.
func (s *Service) SavePreferences(ctx context.Context, p domain.Preferences) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := s.stores.Preferences.Save(ctx, p); err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	s.publish(ctx, events.TypePreferencesSaved, p)
	return nil
}
