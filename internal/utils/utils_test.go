package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForReturnsImmediatelyForNonPositiveDuration(t *testing.T) {
	called := false
	original := sleep
	sleep = func(time.Duration) { called = true }
	defer func() { sleep = original }()

	if err := WaitFor(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if called {
		t.Fatal("sleep must not be called for zero duration")
	}
}

func TestWaitForHonoursCancelledContext(t *testing.T) {
	release := make(chan struct{})
	original := sleep
	sleep = func(time.Duration) { <-release }
	defer func() {
		close(release)
		sleep = original
	}()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := WaitFor(ctx, time.Hour)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		attempt int
		base    time.Duration
		limit   time.Duration
		expect  time.Duration
	}{
		{name: "first attempt uses base", attempt: 0, base: time.Second, limit: time.Minute, expect: time.Second},
		{name: "doubles per attempt", attempt: 3, base: time.Second, limit: time.Minute, expect: 8 * time.Second},
		{name: "capped by limit", attempt: 10, base: time.Second, limit: 5 * time.Second, expect: 5 * time.Second},
		{name: "negative attempt treated as zero", attempt: -2, base: time.Second, limit: 0, expect: time.Second},
		{name: "zero base disables backoff", attempt: 4, base: 0, limit: time.Minute, expect: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Backoff(tt.attempt, tt.base, tt.limit); got != tt.expect {
				t.Fatalf("expected %s, got %s", tt.expect, got)
			}
		})
	}
}
