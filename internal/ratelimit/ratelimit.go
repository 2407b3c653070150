// Package ratelimit implements per-user fixed-window rate limiting for
// chat submissions. Windows are created lazily per user and swept once
// expired so memory stays bounded by the active user set.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	defaultMaxPerWindow = 60
	defaultWindow       = time.Minute
)

type window struct {
	count   int
	resetAt time.Time
}

// Options tune the limiter. Zero fields take defaults.
type Options struct {
	MaxPerWindow int
	Window       time.Duration

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Limiter is a per-key fixed window rate limiter. Safe for concurrent use;
// the window check and increment execute under one lock acquisition so two
// concurrent calls for the same user cannot both observe a below-limit
// count.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window

	max      int
	interval time.Duration
	now      func() time.Time
}

// New creates a limiter.
func New(optFns ...func(o *Options)) *Limiter {
	opts := Options{
		MaxPerWindow: defaultMaxPerWindow,
		Window:       defaultWindow,
		Now:          time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Limiter{
		windows:  make(map[string]*window),
		max:      opts.MaxPerWindow,
		interval: opts.Window,
		now:      opts.Now,
	}
}

// Allow reports whether userID may submit another message in the current
// window, counting the submission if so.
func (l *Limiter) Allow(userID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[userID]
	if !ok || now.After(w.resetAt) {
		l.windows[userID] = &window{count: 1, resetAt: now.Add(l.interval)}
		return true
	}
	if w.count >= l.max {
		return false
	}
	w.count++
	return true
}

// Sweep removes expired windows. Called periodically by Run.
func (l *Limiter) Sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	for k, w := range l.windows {
		if now.After(w.resetAt) {
			delete(l.windows, k)
		}
	}
}

// Run sweeps expired windows every window interval until ctx ends.
func (l *Limiter) Run(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.Sweep()
		case <-ctx.Done():
			return
		}
	}
}

// Size reports the number of tracked windows, for stats.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}
