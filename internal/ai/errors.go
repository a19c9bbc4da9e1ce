package ai

import (
	"errors"
	"fmt"
	"strings"
)

// ErrModelUnavailable marks a model that failed to load or failed during inference.
var ErrModelUnavailable = errors.New("model unavailable")

// ModelError carries the details of a failed model invocation.
type ModelError struct {
	Provider string
	Model    string
	Op       string
	Err      error
}

func (e *ModelError) Error() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{e.Provider, e.Model, e.Op} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}

	prefix := ErrModelUnavailable.Error()
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s (%s)", prefix, strings.Join(parts, " "))
	}

	if e.Err == nil {
		return prefix
	}
	return fmt.Sprintf("%s: %v", prefix, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// Is reports ErrModelUnavailable for every ModelError.
func (e *ModelError) Is(target error) bool {
	return target == ErrModelUnavailable
}

// NewModelError wraps err as a ModelError. A nil err yields nil.
func NewModelError(provider, model, op string, err error) error {
	if err == nil {
		return nil
	}
	return &ModelError{Provider: provider, Model: model, Op: op, Err: err}
}
