package timer

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// fakeClock is the part of clockwork's fake clock that Manual drives.
type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
}

// Manual is a Scheduler on a clockwork fake clock. Nothing runs until
// Advance is called; due callbacks then run synchronously on the caller's
// goroutine in deadline order, ties broken by scheduling order.
type Manual struct {
	clock fakeClock
	start time.Time

	mu      sync.Mutex
	seq     uint64
	entries []*entry
}

type entry struct {
	m      *Manual
	at     time.Time
	seq    uint64
	period time.Duration
	fn     func()

	timer clockwork.Timer
	due   chan struct{}

	cancelled bool
	fired     bool
}

// NewManual returns a Manual scheduler at virtual time zero.
func NewManual() *Manual {
	clock := clockwork.NewFakeClock()
	return &Manual{clock: clock, start: clock.Now()}
}

// arm schedules the next firing of e d from now. Caller holds m.mu.
func (m *Manual) arm(e *entry, d time.Duration) {
	due := make(chan struct{})
	e.at = m.clock.Now().Add(d)
	e.due = due
	e.timer = m.clock.AfterFunc(d, func() { close(due) })
}

func (m *Manual) schedule(d, period time.Duration, fn func()) Token {
	if d < 0 {
		d = 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	e := &entry{m: m, seq: m.seq, period: period, fn: fn}
	m.arm(e, d)
	m.entries = append(m.entries, e)
	return e
}

// AfterFunc implements Scheduler.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Token {
	return m.schedule(d, 0, fn)
}

// Every implements Scheduler. Non-positive periods are treated as one
// nanosecond.
func (m *Manual) Every(d time.Duration, fn func()) Token {
	if d <= 0 {
		d = time.Nanosecond
	}
	return m.schedule(d, d, fn)
}

// next returns the earliest live entry due at or before target. Caller
// holds m.mu.
func (m *Manual) next(target time.Time) *entry {
	var best *entry
	for _, e := range m.entries {
		if e.at.After(target) {
			continue
		}
		if best == nil || e.at.Before(best.at) || (e.at.Equal(best.at) && e.seq < best.seq) {
			best = e
		}
	}
	return best
}

// remove drops e from the live set. Caller holds m.mu.
func (m *Manual) remove(e *entry) {
	for i, x := range m.entries {
		if x == e {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return
		}
	}
}

// Advance moves the virtual clock forward by d and runs every callback that
// falls due, including callbacks scheduled by callbacks within the window.
// It returns the number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	if d < 0 {
		d = 0
	}
	target := m.clock.Now().Add(d)
	ran := 0
	for {
		m.mu.Lock()
		e := m.next(target)
		if e == nil {
			m.mu.Unlock()
			break
		}
		due := e.due
		step := e.at.Sub(m.clock.Now())
		m.mu.Unlock()

		m.clock.Advance(max(step, 0))
		<-due

		m.mu.Lock()
		if e.cancelled {
			m.mu.Unlock()
			continue
		}
		fn := e.fn
		if e.period > 0 {
			m.arm(e, e.period)
		} else {
			e.fired = true
			m.remove(e)
		}
		m.mu.Unlock()

		fn()
		ran++
	}
	if rest := target.Sub(m.clock.Now()); rest > 0 {
		m.clock.Advance(rest)
	}
	return ran
}

// Now returns the virtual time elapsed since the scheduler was created.
func (m *Manual) Now() time.Duration {
	return m.clock.Since(m.start)
}

// Pending returns the number of callbacks that have not yet fired or been
// cancelled. Periodic callbacks count until cancelled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Cancel implements Token.
func (e *entry) Cancel() bool {
	m := e.m
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.cancelled || e.fired {
		return false
	}
	e.cancelled = true
	if e.timer.Stop() {
		close(e.due)
	}
	m.remove(e)
	return true
}
