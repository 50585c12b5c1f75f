// Package ratelimit holds the process-local login rate limiter.
//
// State lives in memory and is lost on restart; each process counts on its
// own. Deployments running more than one instance must use the Redis-backed
// limiter instead (RATE_LIMIT_BACKEND=redis).
package ratelimit

import (
	"context"
	"sync"
	"time"
)

const (
	DefaultWindow      = 60 * time.Second
	DefaultMaxAttempts = 10
)

type entry struct {
	windowStart time.Time
	count       int
}

// FixedWindow admits at most max attempts per key per window. A rejected
// attempt never extends the window, so a client cannot keep itself locked in
// or refresh its way out; the first attempt after the window elapses opens a
// new one.
type FixedWindow struct {
	mu      sync.Mutex
	entries map[string]*entry
	window  time.Duration
	max     int
	now     func() time.Time
}

// NewFixedWindow returns a limiter; non-positive arguments use the defaults.
func NewFixedWindow(max int, window time.Duration) *FixedWindow {
	if max <= 0 {
		max = DefaultMaxAttempts
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &FixedWindow{
		entries: make(map[string]*entry),
		window:  window,
		max:     max,
		now:     time.Now,
	}
}

// Admit records an attempt for key and reports whether it is allowed.
// The error is always nil; it exists to satisfy ports.RateLimiter.
func (l *FixedWindow) Admit(_ context.Context, key string) (bool, error) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	e, ok := l.entries[key]
	if !ok || now.Sub(e.windowStart) >= l.window {
		l.entries[key] = &entry{windowStart: now, count: 1}
		return true, nil
	}

	if e.count <= l.max {
		e.count++
	}
	return e.count <= l.max, nil
}

// Run evicts elapsed windows once per window interval until ctx is done.
func (l *FixedWindow) Run(ctx context.Context) {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}

// Sweep removes every entry whose window has elapsed and returns how many
// were removed.
func (l *FixedWindow) Sweep() int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, e := range l.entries {
		if now.Sub(e.windowStart) >= l.window {
			delete(l.entries, key)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked keys.
func (l *FixedWindow) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
