// Package ratelimit provides per-identifier request budgets for the HTTP
// boundary.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limit describes a request budget: at most Requests per Window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// Limiter tracks one token bucket per identifier (user id or client IP),
// lazily created on first use.
type Limiter struct {
	mu  sync.Mutex
	m   map[string]*rate.Limiter
	cfg Limit
}

// New creates a Limiter with the given budget.
func New(cfg Limit) *Limiter {
	return &Limiter{m: make(map[string]*rate.Limiter), cfg: cfg}
}

func (l *Limiter) get(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if lim, ok := l.m[key]; ok {
		return lim
	}
	// Spread the budget over the window; the burst is the full budget so
	// short spikes within the window are allowed, matching a fixed window.
	per := rate.Limit(float64(l.cfg.Requests) / l.cfg.Window.Seconds())
	lim := rate.NewLimiter(per, l.cfg.Requests)
	l.m[key] = lim
	return lim
}

// Allow reports whether the identifier may perform another request now.
func (l *Limiter) Allow(key string) bool {
	return l.get(key).Allow()
}
