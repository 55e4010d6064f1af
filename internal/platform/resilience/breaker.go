package resilience

import (
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

type BreakerConfig struct {
	FailureThreshold    int
	OpenTimeout         time.Duration
	HalfOpenMaxInFlight int
}

// Breaker protects a dependency from repeated calls while it is failing.
// Callers wrap each outbound call in Do; consecutive failures trip the
// breaker open, and after OpenTimeout a bounded number of probe calls is
// let through before it closes again.
type Breaker struct {
	mu sync.Mutex

	failureThreshold int
	openTimeout      time.Duration
	halfOpenMax      int

	state             State
	failures          int
	openedAt          time.Time
	halfOpenInFlight  int
	halfOpenSucceeded int
	now               func() time.Time
}

func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold < 1 {
		cfg.FailureThreshold = 1
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 15 * time.Second
	}
	if cfg.HalfOpenMaxInFlight < 1 {
		cfg.HalfOpenMaxInFlight = 1
	}

	return &Breaker{
		failureThreshold: cfg.FailureThreshold,
		openTimeout:      cfg.OpenTimeout,
		halfOpenMax:      cfg.HalfOpenMaxInFlight,
		state:            StateClosed,
		now:              time.Now,
	}
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as a caller-side failure that must not count toward
// tripping the breaker, such as an upstream 4xx.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs fn unless the breaker is open. A non-nil error counts as a
// dependency failure unless wrapped with Permanent; the Permanent wrapper is
// stripped before the error is returned.
func (b *Breaker) Do(fn func() error) error {
	if b == nil {
		return fn()
	}
	if err := b.allow(); err != nil {
		return err
	}

	err := fn()
	if err == nil {
		b.record(true)
		return nil
	}

	var perm *permanentError
	if errors.As(err, &perm) {
		b.record(true)
		return perm.err
	}
	b.record(false)
	return err
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.openTimeout {
		return StateHalfOpen
	}
	return b.state
}

func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen {
		if b.now().Sub(b.openedAt) < b.openTimeout {
			return ErrCircuitOpen
		}
		b.state = StateHalfOpen
		b.halfOpenInFlight = 0
		b.halfOpenSucceeded = 0
	}

	if b.state == StateHalfOpen {
		if b.halfOpenInFlight >= b.halfOpenMax {
			return ErrCircuitOpen
		}
		b.halfOpenInFlight++
	}

	return nil
}

func (b *Breaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		if success {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.failureThreshold {
			b.trip()
		}
	case StateHalfOpen:
		if b.halfOpenInFlight > 0 {
			b.halfOpenInFlight--
		}
		if !success {
			b.trip()
			return
		}
		b.halfOpenSucceeded++
		if b.halfOpenSucceeded >= b.halfOpenMax && b.halfOpenInFlight == 0 {
			b.state = StateClosed
			b.failures = 0
			b.openedAt = time.Time{}
		}
	case StateOpen:
		if !success {
			b.openedAt = b.now()
		}
	}
}

func (b *Breaker) trip() {
	b.state = StateOpen
	b.openedAt = b.now()
	b.halfOpenInFlight = 0
	b.halfOpenSucceeded = 0
}
