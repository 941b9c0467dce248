package dispatch

import (
	"sync"
	"time"
)

// MinSendInterval is the program-wide floor between two real sends.
const MinSendInterval = 2 * time.Second

// Limiter owns the send-tracking state: last send time and running count.
// The clock is injectable so tests can drive it. A mutex serializes access
// so the "no two sends within the interval" invariant survives concurrent
// callers.
type Limiter struct {
	mu       sync.Mutex
	interval time.Duration
	now      func() time.Time
	last     time.Time
	sent     int
}

func NewLimiter(interval time.Duration, now func() time.Time) *Limiter {
	if now == nil {
		now = time.Now
	}
	return &Limiter{
		interval: interval,
		now:      now,
	}
}

// Allow reports whether enough time has passed since the last recorded
// send. It does not reserve a slot; call Record after a successful send.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.last.IsZero() {
		return true
	}
	return l.now().Sub(l.last) >= l.interval
}

// Record marks a completed send.
func (l *Limiter) Record() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.last = l.now()
	l.sent++
}

func (l *Limiter) Sent() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sent
}

func (l *Limiter) Interval() time.Duration {
	return l.interval
}
