// Package breaker provides a three-state circuit breaker guarding calls
// to a single backend. One Breaker is created per protected backend and
// lives for the process lifetime.
package breaker

import (
	"sync"
	"time"
)

// State of the breaker state machine.
type State int

const (
	// Closed passes all requests through.
	Closed State = iota
	// Open rejects requests fast until the open timeout elapses.
	Open
	// HalfOpen lets probe requests through while recovery is assessed.
	HalfOpen
)

// String returns the conventional upper-case state name.
func (s State) String() string {
	switch s {
	case Closed:
		return "CLOSED"
	case Open:
		return "OPEN"
	case HalfOpen:
		return "HALF_OPEN"
	default:
		return "UNKNOWN"
	}
}

const (
	defaultFailureThreshold = 5
	defaultSuccessThreshold = 2
	defaultOpenTimeout      = 30 * time.Second
)

// Options tune the breaker thresholds. Zero fields take defaults.
type Options struct {
	FailureThreshold int           // consecutive failures that open the breaker
	SuccessThreshold int           // half-open successes needed to close
	OpenTimeout      time.Duration // time in OPEN before probing

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Breaker guards one backend. Safe for concurrent use.
type Breaker struct {
	mu sync.Mutex

	state       State
	failures    int
	successes   int
	lastFailure time.Time

	failureThreshold int
	successThreshold int
	openTimeout      time.Duration
	now              func() time.Time
}

// New creates a closed breaker.
func New(optFns ...func(o *Options)) *Breaker {
	opts := Options{
		FailureThreshold: defaultFailureThreshold,
		SuccessThreshold: defaultSuccessThreshold,
		OpenTimeout:      defaultOpenTimeout,
		Now:              time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Breaker{
		state:            Closed,
		failureThreshold: opts.FailureThreshold,
		successThreshold: opts.SuccessThreshold,
		openTimeout:      opts.OpenTimeout,
		now:              opts.Now,
	}
}

// Allow reports whether a request may proceed. In OPEN it transitions to
// HALF_OPEN once the open timeout has elapsed since the last failure,
// letting a probe through.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		return true
	case Open:
		if b.now().Sub(b.lastFailure) > b.openTimeout {
			b.state = HalfOpen
			b.successes = 0
			return true
		}
		return false
	default: // HalfOpen: probe allowed
		return true
	}
}

// RecordSuccess notes a successful backend call. In HALF_OPEN, enough
// consecutive successes close the breaker.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.state == HalfOpen {
		b.successes++
		if b.successes >= b.successThreshold {
			b.state = Closed
			b.successes = 0
		}
	}
}

// RecordFailure notes a failed backend call. A failure during HALF_OPEN
// reopens immediately; in CLOSED the breaker opens after the failure
// threshold is reached.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastFailure = b.now()
	switch b.state {
	case HalfOpen:
		b.state = Open
		b.failures = 0
	case Closed:
		b.failures++
		if b.failures >= b.failureThreshold {
			b.state = Open
			b.failures = 0
		}
	}
}

// State returns the current state.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
