// Package catalog holds the static, read-only set of job postings.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"jobtracker-engine/internal/domain"
)

//go:embed jobs.yml
var embeddedJobs []byte

type Catalog struct {
	jobs []domain.Job
	byID map[string]int
}

// New validates and normalizes jobs. Duplicate ids are rejected.
func New(jobs []domain.Job) (*Catalog, error) {
	c := &Catalog{
		jobs: make([]domain.Job, 0, len(jobs)),
		byID: make(map[string]int, len(jobs)),
	}
	for i, j := range jobs {
		j = normalize(j)
		if err := j.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
		if _, dup := c.byID[j.ID]; dup {
			return nil, fmt.Errorf("catalog entry %d: duplicate job id %q", i, j.ID)
		}
		c.byID[j.ID] = len(c.jobs)
		c.jobs = append(c.jobs, j)
	}
	return c, nil
}

// Load reads a catalog file (.yml, .yaml or .json). An empty path loads the
// dataset compiled into the binary.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(embeddedJobs, "yaml")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	c, err := Parse(b, format)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes raw catalog bytes; format is "json", "yaml" or "yml".
func Parse(b []byte, format string) (*Catalog, error) {
	var jobs []domain.Job
	switch format {
	case "json":
		if err := json.Unmarshal(b, &jobs); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case "yaml", "yml":
		if err := yaml.Unmarshal(b, &jobs); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported catalog format %q", format)
	}
	return New(jobs)
}

// All returns a deep copy in catalog order; callers may reorder or edit it
// freely.
func (c *Catalog) All() []domain.Job {
	out := make([]domain.Job, len(c.jobs))
	for i, j := range c.jobs {
		out[i] = clone(j)
	}
	return out
}

func (c *Catalog) Get(id string) (domain.Job, bool) {
	i, ok := c.byID[id]
	if !ok {
		return domain.Job{}, false
	}
	return clone(c.jobs[i]), true
}

func clone(j domain.Job) domain.Job {
	j.Skills = slices.Clone(j.Skills)
	return j
}

func (c *Catalog) Len() int { return len(c.jobs) }
