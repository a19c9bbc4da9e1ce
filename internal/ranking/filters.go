package ranking

import (
	"context"
	"fmt"
	"strconv"
)

type minimumScoreFilter struct {
	minimum float64
	enabled bool
	reason  string
}

// NewMinimumScore creates a filter that drops applications scoring below minimum.
func NewMinimumScore(minimum float64) Filter {
	return &minimumScoreFilter{minimum: minimum, enabled: true}
}

func (f *minimumScoreFilter) Name() string { return "minimum_score" }

func (f *minimumScoreFilter) Disable(reason string) {
	f.enabled = false
	f.reason = reason
}

func (f *minimumScoreFilter) IsEnabled() bool { return f.enabled }

func (f *minimumScoreFilter) Validate() error {
	if f.minimum < 0 || f.minimum > 1 {
		return fmt.Errorf("minimum score must be within [0, 1], got %v", f.minimum)
	}
	return nil
}

func (f *minimumScoreFilter) Apply(_ context.Context, apps *Applications) (*Applications, Step, error) {
	initial := apps.Len()
	dropped := apps.removeIf(func(app *Application) bool {
		return app.Score < f.minimum
	})
	return apps, Step{Initial: initial, Dropped: len(dropped), Left: apps.Len()}, nil
}

func (f *minimumScoreFilter) Status() Status {
	return Status{
		Name:    f.Name(),
		Enabled: f.enabled,
		Reason:  f.reason,
		Details: map[string]string{"minimum": strconv.FormatFloat(f.minimum, 'f', -1, 64)},
	}
}

type topFilter struct {
	limit int
}

// NewTop creates a filter that keeps the best limit applications. Zero keeps all.
func NewTop(limit int) Filter {
	return &topFilter{limit: limit}
}

func (f *topFilter) Name() string { return "top" }

func (f *topFilter) Disable(string) {}

func (f *topFilter) IsEnabled() bool { return true }

func (f *topFilter) Validate() error {
	if f.limit < 0 {
		return fmt.Errorf("top must not be negative, got %d", f.limit)
	}
	return nil
}

func (f *topFilter) Apply(_ context.Context, apps *Applications) (*Applications, Step, error) {
	initial := apps.Len()
	if f.limit == 0 || initial <= f.limit {
		return apps, Step{Initial: initial, Dropped: 0, Left: initial}, nil
	}

	apps.Sort()
	clear(apps.Items[f.limit:])
	apps.Items = apps.Items[:f.limit]

	return apps, Step{Initial: initial, Dropped: initial - f.limit, Left: apps.Len()}, nil
}

func (f *topFilter) Status() Status {
	return Status{Name: f.Name(), Enabled: true, Details: map[string]string{"limit": strconv.Itoa(f.limit)}}
}
