package timer

import (
	"sync"
	"time"
)

// Group schedules through another Scheduler and tracks every pending token,
// so a component can cancel all of its callbacks when it is torn down.
// One-shot callbacks stop being tracked once they fire.
type Group struct {
	s Scheduler

	mu      sync.Mutex
	members map[*member]struct{}
	closed  bool
}

type member struct {
	Token
	g *Group
}

func (m *member) Cancel() bool {
	m.g.forget(m)
	return m.Token.Cancel()
}

// NewGroup creates a group scheduling through s.
func NewGroup(s Scheduler) *Group {
	return &Group{s: s, members: make(map[*member]struct{})}
}

// AfterFunc runs fn once after d unless the group is closed first.
func (g *Group) AfterFunc(d time.Duration, fn func()) Token {
	return g.add(func(m *member) Token {
		return g.s.AfterFunc(d, func() {
			g.forget(m)
			fn()
		})
	})
}

// Every runs fn every d until cancelled or the group is closed.
func (g *Group) Every(d time.Duration, fn func()) Token {
	return g.add(func(*member) Token { return g.s.Every(d, fn) })
}

func (g *Group) add(schedule func(m *member) Token) Token {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return noopToken{}
	}
	m := &member{g: g}
	m.Token = schedule(m)
	g.members[m] = struct{}{}
	return m
}

func (g *Group) forget(m *member) {
	g.mu.Lock()
	delete(g.members, m)
	g.mu.Unlock()
}

// Len returns the number of callbacks the group is tracking.
func (g *Group) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.members)
}

// Cancel cancels every pending callback but leaves the group usable.
// It returns the number of callbacks that were still pending.
func (g *Group) Cancel() int {
	g.mu.Lock()
	members := g.members
	g.members = make(map[*member]struct{})
	g.mu.Unlock()

	n := 0
	for m := range members {
		if m.Cancel() {
			n++
		}
	}
	return n
}

// Close cancels every pending callback. Later scheduling is ignored.
func (g *Group) Close() error {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
	g.Cancel()
	return nil
}

type noopToken struct{}

func (noopToken) Cancel() bool { return false }
