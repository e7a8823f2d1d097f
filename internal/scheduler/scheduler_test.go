package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestNextTickAligns(t *testing.T) {
	s := New(time.Minute)

	now := time.Date(2026, 8, 25, 15, 17, 42, 123, time.UTC)
	next := s.nextTick(now)
	want := time.Date(2026, 8, 25, 15, 18, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("nextTick = %v, want %v", next, want)
	}

	// Exactly on the boundary moves to the following interval.
	next = s.nextTick(want)
	if !next.Equal(want.Add(time.Minute)) {
		t.Fatalf("boundary nextTick = %v", next)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	s := New(50 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())

	ticks := make(chan time.Time, 8)
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(_ context.Context, at time.Time) error {
			ticks <- at
			return nil
		})
	}()

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("no tick within deadline")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("Run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
