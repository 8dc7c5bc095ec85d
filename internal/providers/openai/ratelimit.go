package openai

import (
	"sync"
	"time"
)

// windowLimiter is a sliding-window request budget: at most limit requests
// per rolling window. It never blocks; Reserve reports how long a caller
// would have to wait, so the caller decides whether to wait, queue, or
// reject.
type windowLimiter struct {
	mu     sync.Mutex
	limit  int
	window time.Duration
	stamps []time.Time
	now    func() time.Time
}

func newWindowLimiter(limit int, window time.Duration) *windowLimiter {
	if limit <= 0 {
		limit = 3
	}
	if window <= 0 {
		window = time.Minute
	}
	return &windowLimiter{limit: limit, window: window, now: time.Now}
}

// Reserve returns the wait required before a request slot frees. Zero means
// a request may proceed now. Nothing is consumed; call Record once the
// request was actually made.
func (l *windowLimiter) Reserve() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.prune()
	if len(l.stamps) < l.limit {
		return 0
	}
	return l.stamps[0].Add(l.window).Sub(now)
}

// Record consumes one slot.
func (l *windowLimiter) Record() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune()
	l.stamps = append(l.stamps, l.now())
}

// Remaining reports how many requests are left in the current window.
func (l *windowLimiter) Remaining() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.prune()
	return l.limit - len(l.stamps)
}

// prune drops timestamps older than the window and returns the current time.
func (l *windowLimiter) prune() time.Time {
	now := l.now()
	cutoff := now.Add(-l.window)
	kept := l.stamps[:0]
	for _, stamp := range l.stamps {
		if stamp.After(cutoff) {
			kept = append(kept, stamp)
		}
	}
	l.stamps = kept
	return now
}
