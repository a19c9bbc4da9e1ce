package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestModelErrorIsUnavailable(t *testing.T) {
	err := NewModelError("gemini", "text-embedding-004", "embed", context.DeadlineExceeded)

	wrapped := fmt.Errorf("skills similarity: %w", err)
	if !errors.Is(wrapped, ErrModelUnavailable) {
		t.Fatalf("expected wrapped error to be ErrModelUnavailable")
	}
	if !errors.Is(wrapped, context.DeadlineExceeded) {
		t.Fatalf("expected cause to be preserved")
	}

	var modelErr *ModelError
	if !errors.As(wrapped, &modelErr) {
		t.Fatalf("expected ModelError in chain")
	}
	if modelErr.Op != "embed" {
		t.Fatalf("unexpected op: %q", modelErr.Op)
	}

	expected := "model unavailable (gemini text-embedding-004 embed): context deadline exceeded"
	if err.Error() != expected {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestNewModelErrorNil(t *testing.T) {
	if err := NewModelError("gemini", "m", "op", nil); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	bare := &ModelError{}
	if bare.Error() != "model unavailable" {
		t.Fatalf("unexpected message: %q", bare.Error())
	}
}
