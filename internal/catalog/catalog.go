// Package catalog loads the jobs and candidate profiles that are matched against
// each other.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/spigell/resume-matcher/internal/document"
)

// Job is a job posting.
type Job struct {
	ID           string `yaml:"id" validate:"required"`
	Title        string `yaml:"title" validate:"required"`
	Company      string `yaml:"company"`
	Description  string `yaml:"description"`
	Requirements string `yaml:"requirements"`
}

// Text is the job string scored against resumes.
func (j Job) Text() string {
	return j.Title + " " + j.Description + " " + j.Requirements
}

// Profile is a candidate. Either the structured fields or a resume file supply the
// resume text.
type Profile struct {
	ID         string `yaml:"id" validate:"required"`
	Name       string `yaml:"name"`
	Skills     string `yaml:"skills"`
	Experience string `yaml:"experience"`
	Education  string `yaml:"education"`
	ResumeFile string `yaml:"resume-file"`
}

// Redactor removes personal details from extracted resume text.
type Redactor interface {
	Anonymize(text string) string
}

// ResumeText is the resume string scored against jobs. A resume file takes
// precedence over the structured fields and is passed through redactor when one
// is given.
func (p Profile) ResumeText(redactor Redactor) (string, error) {
	if p.ResumeFile == "" {
		return p.Skills + " " + p.Experience + " " + p.Education, nil
	}

	text, err := document.ExtractFile(p.ResumeFile)
	if err != nil {
		return "", fmt.Errorf("profile %s: %w", p.ID, err)
	}
	if redactor != nil {
		text = redactor.Anonymize(text)
	}

	return text, nil
}

// Catalog holds the jobs and profiles of one matching run.
type Catalog struct {
	Jobs     []Job     `yaml:"jobs" validate:"dive"`
	Profiles []Profile `yaml:"profiles" validate:"dive"`
}

// Load reads a catalog file. Relative resume files are resolved against the
// directory of the catalog.
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range c.Profiles {
		if file := c.Profiles[i].ResumeFile; file != "" && !filepath.IsAbs(file) {
			c.Profiles[i].ResumeFile = filepath.Join(dir, file)
		}
	}

	return c, nil
}

// Decode parses and validates a YAML catalog.
func Decode(r io.Reader) (*Catalog, error) {
	var c Catalog

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&c); err != nil {
		if errors.Is(err, io.EOF) {
			return &c, nil
		}
		return nil, fmt.Errorf("parse catalog: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks required fields and identifier uniqueness.
func (c *Catalog) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid catalog: %w", err)
	}

	jobs := make(map[string]struct{}, len(c.Jobs))
	for _, job := range c.Jobs {
		if _, ok := jobs[job.ID]; ok {
			return fmt.Errorf("invalid catalog: duplicate job id %q", job.ID)
		}
		jobs[job.ID] = struct{}{}
	}

	profiles := make(map[string]struct{}, len(c.Profiles))
	for _, profile := range c.Profiles {
		if _, ok := profiles[profile.ID]; ok {
			return fmt.Errorf("invalid catalog: duplicate profile id %q", profile.ID)
		}
		profiles[profile.ID] = struct{}{}
	}

	return nil
}

// Job looks up a job by id.
func (c *Catalog) Job(id string) (Job, bool) {
	for _, job := range c.Jobs {
		if job.ID == id {
			return job, true
		}
	}
	return Job{}, false
}
