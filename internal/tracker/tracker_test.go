package tracker

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtracker-engine/internal/catalog"
	"jobtracker-engine/internal/config"
	"jobtracker-engine/internal/domain"
	"jobtracker-engine/internal/events"
	"jobtracker-engine/internal/rank"
	"jobtracker-engine/internal/store"
)

type recorder struct {
	mu  sync.Mutex
	got []events.Event
}

func (r *recorder) Publish(raw string) {
	var e events.Event
	_ = json.Unmarshal([]byte(raw), &e)
	r.mu.Lock()
	r.got = append(r.got, e)
	r.mu.Unlock()
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.got))
	for _, e := range r.got {
		out = append(out, e.Type)
	}
	return out
}

var fixedNow = time.Date(2026, 3, 10, 8, 15, 0, 0, time.UTC)

func fixtureJobs() []domain.Job {
	return []domain.Job{
		{
			ID: "job-001", Title: "React Developer", Company: "Acme",
			Location: "Bengaluru", Mode: domain.ModeRemote, Experience: "1-3", Source: domain.SourceLinkedIn,
			SalaryRange: "10-15 LPA", PostedDaysAgo: 1, Skills: []string{"React", "TypeScript"},
			Description: "Build React apps", ApplyURL: "https://jobs.example.com/1",
		},
		{
			ID: "job-002", Title: "Backend Engineer", Company: "Globex",
			Location: "Pune", Mode: domain.ModeOnsite, Experience: "3-5", Source: domain.SourceNaukri,
			SalaryRange: "20 LPA", PostedDaysAgo: 5, Skills: []string{"Go"},
			Description: "APIs", ApplyURL: "https://jobs.example.com/2",
		},
		{
			ID: "job-003", Title: "Frontend Engineer", Company: "Initech",
			Location: "Bengaluru", Mode: domain.ModeHybrid, Experience: "1-3", Source: domain.SourceIndeed,
			SalaryRange: "8 LPA", PostedDaysAgo: 0, Skills: []string{"TypeScript"},
			Description: "React and CSS", ApplyURL: "https://jobs.example.com/3",
		},
		{
			ID: "job-004", Title: "Data Analyst", Company: "Umbrella",
			Location: "Mumbai", Mode: domain.ModeRemote, Experience: "Fresher", Source: domain.SourceLinkedIn,
			SalaryRange: "", PostedDaysAgo: 3, Skills: []string{"SQL"},
			Description: "dashboards", ApplyURL: "https://jobs.example.com/4",
		},
	}
}

func fixturePrefs() domain.Preferences {
	return domain.Preferences{
		RoleKeywords:       "react",
		Skills:             "TypeScript",
		PreferredLocations: []string{"Bengaluru"},
		PreferredMode:      []string{domain.ModeRemote},
		ExperienceLevel:    "1-3",
		MinMatchScore:      40,
	}
}

func newService(t *testing.T) (*Service, *store.Set, *recorder) {
	t.Helper()
	cat, err := catalog.New(fixtureJobs())
	require.NoError(t, err)
	stores := store.NewMemory()
	rec := &recorder{}
	svc := New(cat, stores, Options{
		Scoring:     config.DefaultScoring(),
		DigestLimit: domain.DigestLimit,
		Events:      rec,
		Now:         func() time.Time { return fixedNow },
	})
	return svc, stores, rec
}

func ids(ls []Listing) []string {
	out := make([]string, 0, len(ls))
	for _, l := range ls {
		out = append(out, l.Job.ID)
	}
	return out
}

func TestDashboard_WithoutPreferences(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	got, err := svc.Dashboard(ctx, rank.View{})
	require.NoError(t, err)
	assert.Equal(t, []string{"job-003", "job-001", "job-004", "job-002"}, ids(got))
	for _, l := range got {
		assert.Nil(t, l.MatchScore)
		assert.Empty(t, l.Category)
		assert.Equal(t, domain.StatusNotApplied, l.Status)
		assert.False(t, l.Saved)
	}

	// only-matches is a no-op without preferences
	got, err = svc.Dashboard(ctx, rank.View{OnlyMatches: true})
	require.NoError(t, err)
	assert.Len(t, got, 4)
}

func TestDashboard_WithPreferences(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.SavePreferences(ctx, fixturePrefs()))

	got, err := svc.Dashboard(ctx, rank.View{Sort: rank.SortScore})
	require.NoError(t, err)
	require.Equal(t, []string{"job-001", "job-003", "job-004", "job-002"}, ids(got))

	scores := map[string]int{}
	for _, l := range got {
		require.NotNil(t, l.MatchScore)
		scores[l.Job.ID] = *l.MatchScore
	}
	assert.Equal(t, map[string]int{"job-001": 100, "job-002": 0, "job-003": 60, "job-004": 15}, scores)
	assert.Equal(t, rank.CategoryHigh, got[0].Category)
	assert.Equal(t, rank.CategoryMedium, got[1].Category)

	got, err = svc.Dashboard(ctx, rank.View{OnlyMatches: true, Sort: rank.SortScore})
	require.NoError(t, err)
	assert.Equal(t, []string{"job-001", "job-003"}, ids(got))
}

func TestDashboard_StatusAndSavedFlags(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.SetStatus(ctx, "job-002", "Applied")
	require.NoError(t, err)
	_, err = svc.ToggleSaved(ctx, "job-004")
	require.NoError(t, err)

	got, err := svc.Dashboard(ctx, rank.View{Status: domain.StatusApplied})
	require.NoError(t, err)
	require.Equal(t, []string{"job-002"}, ids(got))
	assert.Equal(t, domain.StatusApplied, got[0].Status)

	got, err = svc.Dashboard(ctx, rank.View{Status: domain.StatusNotApplied})
	require.NoError(t, err)
	assert.Equal(t, []string{"job-003", "job-001", "job-004"}, ids(got))
	assert.True(t, got[2].Saved)
}

func TestSetStatus(t *testing.T) {
	svc, _, rec := newService(t)
	ctx := context.Background()

	st, err := svc.SetStatus(ctx, "job-001", "Selected")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSelected, st)

	_, err = svc.SetStatus(ctx, "job-404", "Applied")
	assert.ErrorIs(t, err, ErrUnknownJob)

	_, err = svc.SetStatus(ctx, "job-001", "Ghosted")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	log, err := svc.StatusLog(ctx)
	require.NoError(t, err)
	require.Len(t, log, 1)
	assert.Equal(t, "React Developer", log[0].JobTitle)
	assert.Equal(t, "Acme", log[0].Company)
	assert.True(t, fixedNow.Equal(log[0].Date))

	assert.Equal(t, []string{events.TypeStatusChanged}, rec.types())
}

func TestSaved_OrderAndUnknownIDs(t *testing.T) {
	svc, stores, rec := newService(t)
	ctx := context.Background()

	saved, err := svc.ToggleSaved(ctx, "job-003")
	require.NoError(t, err)
	assert.True(t, saved)
	_, err = stores.Saved.Toggle(ctx, "job-999")
	require.NoError(t, err)
	_, err = svc.ToggleSaved(ctx, "job-001")
	require.NoError(t, err)

	got, err := svc.Saved(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"job-003", "job-001"}, ids(got))
	for _, l := range got {
		assert.True(t, l.Saved)
	}

	saved, err = svc.ToggleSaved(ctx, "job-003")
	require.NoError(t, err)
	assert.False(t, saved)

	_, err = svc.ToggleSaved(ctx, "job-999")
	assert.ErrorIs(t, err, ErrUnknownJob)

	assert.Len(t, rec.types(), 3)
}

func TestJob_Detail(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	d, err := svc.Job(ctx, "job-003")
	require.NoError(t, err)
	assert.Nil(t, d.MatchScore)
	assert.Empty(t, d.Reasons)

	require.NoError(t, svc.SavePreferences(ctx, fixturePrefs()))
	d, err = svc.Job(ctx, "job-003")
	require.NoError(t, err)
	require.NotNil(t, d.MatchScore)
	assert.Equal(t, 60, *d.MatchScore)
	assert.Equal(t, rank.CategoryMedium, d.Category)

	crits := make([]string, 0, len(d.Reasons))
	for _, r := range d.Reasons {
		crits = append(crits, r.Criterion)
	}
	assert.Equal(t, []string{rank.CritDescriptionKeyword, rank.CritLocation, rank.CritExperience, rank.CritSkills, rank.CritRecent}, crits)

	_, err = svc.Job(ctx, "nope")
	assert.ErrorIs(t, err, ErrUnknownJob)
}

func TestSavePreferences_Validates(t *testing.T) {
	svc, _, rec := newService(t)
	ctx := context.Background()

	p := fixturePrefs()
	p.MinMatchScore = 150
	require.Error(t, svc.SavePreferences(ctx, p))

	got, err := svc.Preferences(ctx)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Empty(t, rec.types())

	require.NoError(t, svc.SavePreferences(ctx, fixturePrefs()))
	got, err = svc.Preferences(ctx)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, fixturePrefs(), *got)
}

func TestGenerateDigest_Snapshot(t *testing.T) {
	svc, _, rec := newService(t)
	ctx := context.Background()
	today := svc.Today()
	assert.Equal(t, "2026-03-10", today)

	_, _, err := svc.GenerateDigest(ctx, today, false)
	assert.ErrorIs(t, err, ErrNoPreferences)

	none, err := svc.TodayDigest(ctx, today)
	require.NoError(t, err)
	assert.Nil(t, none)

	require.NoError(t, svc.SavePreferences(ctx, fixturePrefs()))
	d, created, err := svc.GenerateDigest(ctx, today, false)
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, d.Entries, 2)
	assert.Equal(t, "job-001", d.Entries[0].Job.ID)
	assert.Equal(t, "job-003", d.Entries[1].Job.ID)

	// raising the threshold does not change today's snapshot...
	p := fixturePrefs()
	p.MinMatchScore = 70
	require.NoError(t, svc.SavePreferences(ctx, p))
	again, created, err := svc.GenerateDigest(ctx, today, false)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, d, again)

	// ...until it is regenerated
	forced, created, err := svc.GenerateDigest(ctx, today, true)
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, forced.Entries, 1)

	stored, err := svc.TodayDigest(ctx, today)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, forced, *stored)

	assert.Contains(t, rec.types(), events.TypeDigestGenerated)
}

func TestGenerateDigest_BadDate(t *testing.T) {
	svc, _, _ := newService(t)
	_, _, err := svc.GenerateDigest(context.Background(), "10/03/2026", false)
	assert.Error(t, err)
	_, err = svc.TodayDigest(context.Background(), "yesterday")
	assert.Error(t, err)
}

func TestDigestTextAndEmail(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	today := svc.Today()

	_, err := svc.DigestText(ctx, today)
	assert.ErrorIs(t, err, ErrNoDigest)
	_, err = svc.EmailDraft(ctx, today, "")
	assert.ErrorIs(t, err, ErrNoDigest)

	require.NoError(t, svc.SavePreferences(ctx, fixturePrefs()))
	_, _, err = svc.GenerateDigest(ctx, today, false)
	require.NoError(t, err)

	text, err := svc.DigestText(ctx, today)
	require.NoError(t, err)
	assert.Contains(t, text, "Date: 2026-03-10")
	assert.Contains(t, text, "1. React Developer at Acme")
	assert.Contains(t, text, "   Match Score: 60%")

	draft, err := svc.EmailDraft(ctx, today, "me@example.com")
	require.NoError(t, err)
	assert.Contains(t, draft, "mailto:me@example.com?subject=My%209AM%20Job%20Digest&body=")
}

func TestCleanupDigests(t *testing.T) {
	svc, stores, rec := newService(t)
	ctx := context.Background()

	for _, date := range []string{"2026-03-05", "2026-03-07", "2026-03-10"} {
		require.NoError(t, stores.Digests.Save(ctx, domain.Digest{Date: date}))
	}

	n, err := svc.CleanupDigests(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = svc.CleanupDigests(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	d, err := stores.Digests.Load(ctx, "2026-03-07")
	require.NoError(t, err)
	assert.NotNil(t, d)
	assert.Equal(t, []string{events.TypeDigestsCleaned}, rec.types())
}

func TestReconfigure(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	require.NoError(t, svc.SavePreferences(ctx, fixturePrefs()))

	cfg := config.Default()
	cfg.Scoring.Weights.Source = 0
	cfg.Scoring.Weights.Mode = 30
	cfg.Digest.Limit = 1
	svc.Reconfigure(cfg)

	d, err := svc.Job(ctx, "job-004")
	require.NoError(t, err)
	require.NotNil(t, d.MatchScore)
	assert.Equal(t, 30, *d.MatchScore)

	dg, _, err := svc.GenerateDigest(ctx, svc.Today(), true)
	require.NoError(t, err)
	assert.Len(t, dg.Entries, 1)
}

func TestEventsCarryRequestID(t *testing.T) {
	svc, _, rec := newService(t)
	ctx := events.WithRequestID(context.Background(), "req-42")

	_, err := svc.ToggleSaved(ctx, "job-001")
	require.NoError(t, err)
	require.Len(t, rec.got, 1)
	assert.Equal(t, "req-42", rec.got[0].RequestID)
}
