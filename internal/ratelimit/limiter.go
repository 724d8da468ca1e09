package ratelimit

import (
	"sync"
	"time"
)

type Decision struct {
	Allowed   bool
	Remaining int
	ResetIn   time.Duration
}

type window struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window counter per client. Bursts at window boundaries
// are accepted.
type Limiter struct {
	mu            sync.Mutex
	limit         int
	window        time.Duration
	windows       map[string]*window
	sweepInterval time.Duration
	lastSweep     time.Time
	now           func() time.Time
}

func New(limit int, windowSize time.Duration) *Limiter {
	return &Limiter{
		limit:         limit,
		window:        windowSize,
		windows:       make(map[string]*window),
		sweepInterval: windowSize,
		now:           time.Now,
	}
}

func (l *Limiter) Check(clientID string) Decision {
	now := l.now()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweepLocked(now)

	w, ok := l.windows[clientID]
	if !ok || !now.Before(w.resetAt) {
		l.windows[clientID] = &window{count: 1, resetAt: now.Add(l.window)}
		return Decision{Allowed: true, Remaining: l.limit - 1, ResetIn: l.window}
	}
	resetIn := w.resetAt.Sub(now)
	if w.count >= l.limit {
		return Decision{Allowed: false, Remaining: 0, ResetIn: resetIn}
	}
	w.count++
	return Decision{Allowed: true, Remaining: l.limit - w.count, ResetIn: resetIn}
}

func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

func (l *Limiter) sweepLocked(now time.Time) {
	if l.sweepInterval <= 0 || now.Sub(l.lastSweep) < l.sweepInterval {
		return
	}
	for id, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, id)
		}
	}
	l.lastSweep = now
}
