package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobtracker-engine/internal/domain"
)

func TestLoad_Embedded(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	require.Greater(t, c.Len(), 10)

	for _, j := range c.All() {
		assert.NotContains(t, j.Description, "<", "job %s description still has markup", j.ID)
		assert.True(t, domain.IsLocation(j.Location))
	}

	first := c.All()[0]
	got, ok := c.Get(first.ID)
	require.True(t, ok)
	assert.Equal(t, first, got)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestAll_ReturnsCopy(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	a := c.All()
	a[0].Title = "mutated"
	assert.NotEqual(t, "mutated", c.All()[0].Title)
}

func TestAll_SkillsAreNotShared(t *testing.T) {
	c, err := New([]domain.Job{validJob("a")})
	require.NoError(t, err)

	a := c.All()
	require.NotEmpty(t, a[0].Skills)
	a[0].Skills[0] = "mutated"

	got, ok := c.Get("a")
	require.True(t, ok)
	got.Skills[0] = "also mutated"

	assert.Equal(t, "Go", c.All()[0].Skills[0])
}

func validJob(id string) domain.Job {
	return domain.Job{
		ID:            id,
		Title:         "  Backend   Intern ",
		Company:       "Acme",
		Location:      "Noida",
		Mode:          domain.ModeHybrid,
		Experience:    "Fresher",
		Source:        domain.SourceNaukri,
		SalaryRange:   "3–5 LPA",
		PostedDaysAgo: 1,
		Skills:        []string{" Go ", ""},
		Description:   "<p>Build <b>APIs</b></p><ul><li>Go</li><li>SQL</li></ul>",
		ApplyURL:      "https://acme.example.com/apply",
	}
}

func TestNew_Normalizes(t *testing.T) {
	c, err := New([]domain.Job{validJob("a")})
	require.NoError(t, err)

	j, _ := c.Get("a")
	assert.Equal(t, "Backend Intern", j.Title)
	assert.Equal(t, []string{"Go"}, j.Skills)
	assert.Equal(t, "Build APIs Go SQL", j.Description)
}

func TestNew_RejectsDuplicatesAndInvalid(t *testing.T) {
	_, err := New([]domain.Job{validJob("a"), validJob("a")})
	assert.ErrorContains(t, err, "duplicate job id")

	bad := validJob("b")
	bad.Location = "Delhi"
	_, err = New([]domain.Job{bad})
	assert.Error(t, err)

	_, err = New(nil)
	assert.NoError(t, err)
}

func TestLoad_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jobs.json")
	data := `[{"id":"x1","title":"Go Developer","company":"Zoho","location":"Chennai","mode":"Onsite",
	"experience":"1-3","source":"LinkedIn","salaryRange":"8–14 LPA","postedDaysAgo":4,
	"skills":["Go"],"description":"plain text","applyUrl":"https://zoho.example.com/x1"}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	j, ok := c.Get("x1")
	require.True(t, ok)
	assert.Equal(t, "8–14 LPA", j.SalaryRange)
	assert.Equal(t, 4, j.PostedDaysAgo)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yml"))
	assert.Error(t, err)

	txt := filepath.Join(dir, "jobs.txt")
	require.NoError(t, os.WriteFile(txt, []byte("x"), 0o644))
	_, err = Load(txt)
	assert.ErrorContains(t, err, "unsupported catalog format")

	broken := filepath.Join(dir, "jobs.yml")
	require.NoError(t, os.WriteFile(broken, []byte("- id: [unclosed"), 0o644))
	_, err = Load(broken)
	assert.Error(t, err)
}

func TestDescriptionText(t *testing.T) {
	assert.Equal(t, "no markup here", DescriptionText("  no   markup\nhere "))
	assert.Equal(t, "Line one Line two", DescriptionText("<div>Line one</div><div>Line two</div>"))
}
