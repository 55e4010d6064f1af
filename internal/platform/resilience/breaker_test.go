package resilience

import (
	"errors"
	"testing"
	"time"
)

func newTestBreaker(threshold int, openTimeout time.Duration, halfOpenMax int) (*Breaker, *time.Time) {
	b := NewBreaker(BreakerConfig{
		FailureThreshold:    threshold,
		OpenTimeout:         openTimeout,
		HalfOpenMaxInFlight: halfOpenMax,
	})
	now := time.Unix(1700000000, 0)
	b.now = func() time.Time { return now }
	return b, &now
}

func TestBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute, 1)
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		if err := b.Do(func() error { return boom }); !errors.Is(err, boom) {
			t.Fatalf("attempt %d: got %v, want %v", i, err, boom)
		}
	}

	if got := b.State(); got != StateOpen {
		t.Fatalf("state = %s, want %s", got, StateOpen)
	}
	if err := b.Do(func() error { return nil }); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("got %v, want ErrCircuitOpen", err)
	}
}

func TestBreakerSuccessResetsFailureStreak(t *testing.T) {
	b, _ := newTestBreaker(2, time.Minute, 1)
	boom := errors.New("boom")

	_ = b.Do(func() error { return boom })
	_ = b.Do(func() error { return nil })
	_ = b.Do(func() error { return boom })

	if got := b.State(); got != StateClosed {
		t.Fatalf("state = %s, want %s", got, StateClosed)
	}
}

func TestBreakerHalfOpenRecoversAfterProbeSuccess(t *testing.T) {
	b, now := newTestBreaker(1, time.Minute, 1)
	boom := errors.New("boom")

	_ = b.Do(func() error { return boom })
	if got := b.State(); got != StateOpen {
		t.Fatalf("state = %s, want %s", got, StateOpen)
	}

	*now = now.Add(2 * time.Minute)
	if got := b.State(); got != StateHalfOpen {
		t.Fatalf("state = %s, want %s", got, StateHalfOpen)
	}

	if err := b.Do(func() error { return nil }); err != nil {
		t.Fatalf("probe call: %v", err)
	}
	if got := b.State(); got != StateClosed {
		t.Fatalf("state after probe = %s, want %s", got, StateClosed)
	}
}

func TestBreakerHalfOpenFailureReopens(t *testing.T) {
	b, now := newTestBreaker(1, time.Minute, 1)
	boom := errors.New("boom")

	_ = b.Do(func() error { return boom })
	*now = now.Add(2 * time.Minute)
	_ = b.Do(func() error { return boom })

	if got := b.State(); got != StateOpen {
		t.Fatalf("state = %s, want %s", got, StateOpen)
	}
}

func TestBreakerPermanentErrorDoesNotCount(t *testing.T) {
	b, _ := newTestBreaker(1, time.Minute, 1)
	rejected := errors.New("status 404")

	err := b.Do(func() error { return Permanent(rejected) })
	if !errors.Is(err, rejected) {
		t.Fatalf("got %v, want the underlying error", err)
	}
	if got := b.State(); got != StateClosed {
		t.Fatalf("state = %s, want %s", got, StateClosed)
	}
}

func TestNilBreakerRunsDirectly(t *testing.T) {
	var b *Breaker
	called := false
	if err := b.Do(func() error { called = true; return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatal("fn was not called")
	}
}
