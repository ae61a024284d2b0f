package app

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBackoff_WaitGrowsAndCaps(t *testing.T) {
	b := newBackoff(time.Millisecond, 4*time.Millisecond)

	for i, want := range []time.Duration{2 * time.Millisecond, 4 * time.Millisecond, 4 * time.Millisecond} {
		if err := b.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() #%d error = %v", i, err)
		}
		if b.Current() != want {
			t.Errorf("Current() after wait #%d = %v, want %v", i, b.Current(), want)
		}
	}

	b.Reset()
	if b.Current() != time.Millisecond {
		t.Errorf("Current() after Reset = %v, want 1ms", b.Current())
	}
}

func TestBackoff_WaitCanceled(t *testing.T) {
	b := newBackoff(time.Hour, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	err := b.Wait(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Wait() error = %v, want context.Canceled", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Wait() did not return promptly on cancellation")
	}
	if b.Current() != time.Hour {
		t.Errorf("Current() = %v, want unchanged after canceled wait", b.Current())
	}
}
