package domain

// Job is one posting from the static catalog. Jobs are loaded once and never
// mutated afterwards.
type Job struct {
	ID            string   `json:"id" yaml:"id" validate:"required"`
	Title         string   `json:"title" yaml:"title" validate:"required"`
	Company       string   `json:"company" yaml:"company" validate:"required"`
	Location      string   `json:"location" yaml:"location" validate:"required,location"`
	Mode          string   `json:"mode" yaml:"mode" validate:"required,mode"`
	Experience    string   `json:"experience" yaml:"experience" validate:"required,experience"`
	Source        string   `json:"source" yaml:"source" validate:"required,source"`
	SalaryRange   string   `json:"salaryRange" yaml:"salary_range"`
	PostedDaysAgo int      `json:"postedDaysAgo" yaml:"posted_days_ago" validate:"gte=0"`
	Skills        []string `json:"skills" yaml:"skills"`
	Description   string   `json:"description" yaml:"description"`
	ApplyURL      string   `json:"applyUrl" yaml:"apply_url" validate:"required,url"`
}

const (
	ModeRemote = "Remote"
	ModeHybrid = "Hybrid"
	ModeOnsite = "Onsite"

	SourceLinkedIn = "LinkedIn"
	SourceNaukri   = "Naukri"
	SourceIndeed   = "Indeed"
)

var (
	Locations        = []string{"Bengaluru", "Mumbai", "Chennai", "Hyderabad", "Pune", "Noida", "Mysuru"}
	Modes            = []string{ModeRemote, ModeHybrid, ModeOnsite}
	ExperienceLevels = []string{"Fresher", "0-1", "1-3", "3-5"}
	Sources          = []string{SourceLinkedIn, SourceNaukri, SourceIndeed}
)

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

func IsLocation(v string) bool   { return contains(Locations, v) }
func IsMode(v string) bool       { return contains(Modes, v) }
func IsExperience(v string) bool { return contains(ExperienceLevels, v) }
func IsSource(v string) bool     { return contains(Sources, v) }
