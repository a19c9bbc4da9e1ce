package ranking

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"sort"
	"time"

	"github.com/spigell/resume-matcher/internal/matching"
)

var now = time.Now

// Application is one scored (job, profile) pair.
type Application struct {
	ID          string              `json:"id"`
	JobID       string              `json:"job_id"`
	ProfileID   string              `json:"profile_id"`
	ProfileName string              `json:"profile_name,omitempty"`
	Score       float64             `json:"score"`
	Breakdown   *matching.Breakdown `json:"breakdown,omitempty"`
	ScoredAt    time.Time           `json:"scored_at"`
}

// Applications is a ranked list of applications for one job.
type Applications struct {
	Items []*Application `json:"items"`
}

func (a *Applications) Len() int {
	return len(a.Items)
}

// Sort orders applications by score, best first. Equal scores keep profile order.
func (a *Applications) Sort() {
	sort.SliceStable(a.Items, func(i, j int) bool {
		if a.Items[i].Score != a.Items[j].Score {
			return a.Items[i].Score > a.Items[j].Score
		}
		return a.Items[i].ProfileID < a.Items[j].ProfileID
	})
}

func (a *Applications) FindByProfile(id string) *Application {
	for _, app := range a.Items {
		if app.ProfileID == id {
			return app
		}
	}
	return nil
}

// Exclude removes the applications of the given profiles and returns the removed
// profile ids.
func (a *Applications) Exclude(profileIDs []string) []string {
	return a.removeIf(func(app *Application) bool {
		for _, id := range profileIDs {
			if app.ProfileID == id {
				return true
			}
		}
		return false
	})
}

func (a *Applications) removeIf(drop func(*Application) bool) []string {
	var removed []string
	kept := a.Items[:0]
	for _, app := range a.Items {
		if drop(app) {
			removed = append(removed, app.ProfileID)
			continue
		}
		kept = append(kept, app)
	}
	clear(a.Items[len(kept):])
	a.Items = kept
	return removed
}

func (a *Applications) DumpToTmpFile() (string, error) {
	file, err := os.CreateTemp("", "applications_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(a); err != nil {
		return "", err
	}
	return file.Name(), nil
}

// ToExcluded converts the applications into exclude file records.
func (a *Applications) ToExcluded() *Exclusions {
	excluded := &Exclusions{}
	for _, app := range a.Items {
		excluded.Items = append(excluded.Items, &Exclusion{
			ProfileID:  app.ProfileID,
			JobID:      app.JobID,
			Score:      app.Score,
			ExcludedAt: now().UTC(),
		})
	}
	return excluded
}

// Exclusion is a profile that must not be ranked again. An empty JobID excludes the
// profile from every job.
type Exclusion struct {
	ProfileID  string    `json:"profile_id"`
	JobID      string    `json:"job_id,omitempty"`
	Score      float64   `json:"score,omitempty"`
	ExcludedAt time.Time `json:"excluded_at"`
}

type Exclusions struct {
	Items []*Exclusion `json:"items"`
}

// LoadExclusions reads an exclude file. A missing or empty file holds no exclusions.
func LoadExclusions(path string) (*Exclusions, error) {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &Exclusions{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return nil, err
	}

	if stat.Size() == 0 {
		return &Exclusions{}, nil
	}

	var excluded Exclusions
	if err := json.NewDecoder(file).Decode(&excluded); err != nil {
		return nil, err
	}
	return &excluded, nil
}

func (e *Exclusions) Append(s *Exclusions) {
	e.Items = append(e.Items, s.Items...)
}

// ProfileIDs returns the profiles excluded for jobID.
func (e *Exclusions) ProfileIDs(jobID string) []string {
	ids := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		if item.JobID == "" || item.JobID == jobID {
			ids = append(ids, item.ProfileID)
		}
	}
	return ids
}

func (e *Exclusions) ToFile(path string) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(e)
}
