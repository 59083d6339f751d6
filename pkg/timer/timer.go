package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Token cancels a scheduled callback. Cancel reports whether the callback
// was still pending. Cancelling twice is safe.
type Token interface {
	Cancel() bool
}

// Scheduler runs callbacks later.
type Scheduler interface {
	// AfterFunc runs fn once after d.
	AfterFunc(d time.Duration, fn func()) Token
	// Every runs fn every d until cancelled.
	Every(d time.Duration, fn func()) Token
}

// Real schedules callbacks on a clockwork clock, normally the wall clock.
// Callbacks never run concurrently with each other.
type Real struct {
	clock clockwork.Clock
	mu    sync.Mutex
}

// NewReal creates a wall-clock scheduler.
func NewReal() *Real {
	return newReal(clockwork.NewRealClock())
}

func newReal(clock clockwork.Clock) *Real {
	return &Real{clock: clock}
}

// run calls fn unless t was cancelled. The check happens under r.mu so a
// tick that raced with Cancel is dropped.
func (r *Real) run(t *realToken, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !t.fire() {
		return
	}
	fn()
}

// AfterFunc runs fn once after d.
func (r *Real) AfterFunc(d time.Duration, fn func()) Token {
	t := &realToken{}
	t.mu.Lock()
	t.timer = r.clock.AfterFunc(d, func() { r.run(t, fn) })
	t.mu.Unlock()
	return t
}

// Every runs fn every d until cancelled.
func (r *Real) Every(d time.Duration, fn func()) Token {
	if d <= 0 {
		d = time.Nanosecond
	}
	t := &realToken{periodic: true, stop: make(chan struct{})}
	ticker := r.clock.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.Chan():
				r.run(t, fn)
			case <-t.stop:
				return
			}
		}
	}()
	return t
}

type realToken struct {
	mu        sync.Mutex
	timer     clockwork.Timer
	stop      chan struct{}
	periodic  bool
	fired     bool
	cancelled bool
}

// fire reports whether the callback may run and marks one-shots as fired.
func (t *realToken) fire() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled || t.fired {
		return false
	}
	if !t.periodic {
		t.fired = true
	}
	return true
}

func (t *realToken) Cancel() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	if t.timer != nil {
		t.timer.Stop()
	}
	if t.stop != nil {
		close(t.stop)
	}
	return true
}
