package rank

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtracker-engine/internal/config"
	"jobtracker-engine/internal/domain"
)

// quietJob fires no criterion against quietPrefs.
func quietJob() domain.Job {
	return domain.Job{
		ID:            "q1",
		Title:         "Data Analyst",
		Company:       "Quiet Co",
		Location:      "Chennai",
		Mode:          domain.ModeOnsite,
		Experience:    "3-5",
		Source:        domain.SourceIndeed,
		SalaryRange:   "8–12 LPA",
		PostedDaysAgo: 10,
		Skills:        []string{"Excel", "SQL"},
		Description:   "Own weekly reporting.",
		ApplyURL:      "https://example.com/q1",
	}
}

func quietPrefs() domain.Preferences {
	return domain.Preferences{
		RoleKeywords:       "react",
		Skills:             "golang",
		PreferredLocations: []string{"Pune"},
		PreferredMode:      []string{domain.ModeRemote},
		ExperienceLevel:    "Fresher",
		MinMatchScore:      40,
	}
}

func TestScore_EachCriterionAlone(t *testing.T) {
	s := DefaultScorer()
	require.Equal(t, 0, s.Score(quietJob(), quietPrefs()))

	tests := []struct {
		name   string
		mutate func(*domain.Job)
		want   int
	}{
		{"title keyword", func(j *domain.Job) { j.Title = "Senior REACT Engineer" }, 25},
		{"description keyword", func(j *domain.Job) { j.Description = "We use React daily" }, 15},
		{"location", func(j *domain.Job) { j.Location = "Pune" }, 15},
		{"mode", func(j *domain.Job) { j.Mode = domain.ModeRemote }, 10},
		{"experience", func(j *domain.Job) { j.Experience = "Fresher" }, 10},
		{"skill contains user skill", func(j *domain.Job) { j.Skills = []string{"Golang Microservices"} }, 15},
		{"user skill contains job skill", func(j *domain.Job) { j.Skills = []string{"Go"} }, 15},
		{"posted two days ago", func(j *domain.Job) { j.PostedDaysAgo = 2 }, 5},
		{"posted today", func(j *domain.Job) { j.PostedDaysAgo = 0 }, 5},
		{"linkedin", func(j *domain.Job) { j.Source = domain.SourceLinkedIn }, 5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := quietJob()
			tt.mutate(&j)
			assert.Equal(t, tt.want, s.Score(j, quietPrefs()))
		})
	}
}

func TestScore_NearMisses(t *testing.T) {
	s := DefaultScorer()
	tests := []struct {
		name   string
		mutate func(*domain.Job)
	}{
		{"three days ago", func(j *domain.Job) { j.PostedDaysAgo = 3 }},
		{"location case differs", func(j *domain.Job) { j.Location = "pune" }},
		{"mode case differs", func(j *domain.Job) { j.Mode = "remote" }},
		{"naukri", func(j *domain.Job) { j.Source = domain.SourceNaukri }},
		{"keyword only in company", func(j *domain.Job) { j.Company = "React Labs" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := quietJob()
			tt.mutate(&j)
			assert.Equal(t, 0, s.Score(j, quietPrefs()))
		})
	}
}

func TestScore_ReactScenario(t *testing.T) {
	prefs := domain.Preferences{RoleKeywords: "react"}
	job := domain.Job{
		Title:         "React Developer",
		Description:   "build UIs",
		PostedDaysAgo: 5,
		Source:        domain.SourceNaukri,
		Location:      "Pune",
		Mode:          domain.ModeRemote,
		Experience:    "1-3",
	}
	s := DefaultScorer()
	assert.Equal(t, 25, s.Score(job, prefs))

	job.Description = "We use React daily"
	assert.Equal(t, 40, s.Score(job, prefs))
}

func TestScore_BlankTokensIgnored(t *testing.T) {
	prefs := domain.Preferences{RoleKeywords: " , ,", Skills: ", "}
	job := quietJob()
	job.Skills = []string{"", "  "}
	assert.Equal(t, 0, DefaultScorer().Score(job, prefs))
}

func TestScore_EmptyExperienceNeverMatches(t *testing.T) {
	prefs := domain.Preferences{}
	job := quietJob()
	assert.Equal(t, 0, DefaultScorer().Score(job, prefs))
}

func TestScore_EverythingFiresIsExactlyHundred(t *testing.T) {
	job := domain.Job{
		Title:         "React Developer",
		Description:   "react and golang",
		Location:      "Pune",
		Mode:          domain.ModeRemote,
		Experience:    "Fresher",
		Source:        domain.SourceLinkedIn,
		PostedDaysAgo: 1,
		Skills:        []string{"Golang"},
	}
	assert.Equal(t, 100, DefaultScorer().Score(job, quietPrefs()))
}

func TestScore_ClampBindsWithHeavierWeights(t *testing.T) {
	cfg := config.DefaultScoring()
	cfg.Weights.TitleKeyword = 90
	cfg.Weights.Location = 40
	s := NewMatchScorer(cfg)

	job := quietJob()
	job.Title = "React Engineer"
	job.Location = "Pune"
	assert.Equal(t, 100, s.Score(job, quietPrefs()))
}

func TestExplain(t *testing.T) {
	job := quietJob()
	job.Title = "React Engineer"
	job.Source = domain.SourceLinkedIn

	reasons := DefaultScorer().Explain(job, quietPrefs())
	assert.Equal(t, []Reason{
		{Criterion: CritTitleKeyword, Points: 25},
		{Criterion: CritSource, Points: 5},
	}, reasons)
}

// randomCase builds a job/prefs pair from a seeded source so failures replay.
func randomCase(r *rand.Rand) (domain.Job, domain.Preferences) {
	pick := func(xs []string) string { return xs[r.Intn(len(xs))] }
	subset := func(xs []string) []string {
		var out []string
		for _, x := range xs {
			if r.Intn(2) == 0 {
				out = append(out, x)
			}
		}
		return out
	}
	words := []string{"react", "go", "backend", "data", "intern", "sde", "java", ""}
	job := domain.Job{
		Title:         pick(words) + " " + pick(words) + " developer",
		Description:   pick(words) + " " + pick(words),
		Location:      pick(domain.Locations),
		Mode:          pick(domain.Modes),
		Experience:    pick(domain.ExperienceLevels),
		Source:        pick(domain.Sources),
		PostedDaysAgo: r.Intn(10),
		Skills:        subset(words),
	}
	prefs := domain.Preferences{
		RoleKeywords:       pick(words) + "," + pick(words),
		Skills:             pick(words) + ", " + pick(words),
		PreferredLocations: subset(domain.Locations),
		PreferredMode:      subset(domain.Modes),
		ExperienceLevel:    pick(append([]string{""}, domain.ExperienceLevels...)),
		MinMatchScore:      r.Intn(101),
	}
	return job, prefs
}

func TestScore_BoundedAndDeterministic(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	s := DefaultScorer()
	for i := 0; i < 2000; i++ {
		job, prefs := randomCase(r)
		got := s.Score(job, prefs)
		assert.GreaterOrEqual(t, got, 0)
		assert.LessOrEqual(t, got, 100)
		assert.Equal(t, got, s.Score(job, prefs))
	}
}

func TestScore_AddingSatisfiedCriterionNeverDecreases(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	s := DefaultScorer()
	for i := 0; i < 500; i++ {
		job, prefs := randomCase(r)
		before := s.Score(job, prefs)

		more := prefs
		more.PreferredLocations = append(append([]string{}, prefs.PreferredLocations...), job.Location)
		assert.GreaterOrEqual(t, s.Score(job, more), before)

		more = prefs
		more.ExperienceLevel = job.Experience
		assert.GreaterOrEqual(t, s.Score(job, more), before)
	}
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		score int
		want  Category
	}{
		{100, CategoryHigh},
		{80, CategoryHigh},
		{79, CategoryMedium},
		{60, CategoryMedium},
		{59, CategoryNeutral},
		{40, CategoryNeutral},
		{39, CategoryLow},
		{0, CategoryLow},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategoryOf(tt.score), "score %d", tt.score)
	}
}
