package desktop

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"webdesk/pkg/metrics"
)

// ErrSessionNotFound is returned when a session id is unknown.
var ErrSessionNotFound = errors.New("desktop: session not found")

// Registry owns the live sessions of a server and closes idle ones.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	cfg      Config
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewRegistry creates an empty registry. Sessions idle for longer than ttl
// are closed by Reap; a ttl of zero keeps sessions forever.
func NewRegistry(cfg Config, ttl time.Duration) *Registry {
	cfg = cfg.withDefaults()
	return &Registry{
		sessions: make(map[string]*Session),
		cfg:      cfg,
		ttl:      ttl,
		now:      cfg.Now,
		logger:   cfg.Logger,
	}
}

// Create starts a new session.
func (r *Registry) Create() *Session {
	s := NewSession(r.cfg)

	r.mu.Lock()
	r.sessions[s.ID] = s
	n := len(r.sessions)
	r.mu.Unlock()

	metrics.SetSessionsActive(n)
	return s
}

// Get returns a session and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	s.Touch()
	return s, nil
}

// Delete closes and forgets a session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	n := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	metrics.SetSessionsActive(n)
	return s.Close()
}

// IDs returns the ids of the live sessions, sorted.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Reap closes every session idle for longer than the ttl and returns how
// many were closed.
func (r *Registry) Reap() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.now().Add(-r.ttl)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.LastActive().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	n := len(r.sessions)
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
		metrics.RecordSessionReaped()
		r.logger.Info("session reaped", zap.String("session", s.ID))
	}
	if len(idle) > 0 {
		metrics.SetSessionsActive(n)
	}
	return len(idle)
}

// Run reaps idle sessions every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 || r.ttl <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Reap()
		}
	}
}

// Close closes every session.
func (r *Registry) Close() error {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
	metrics.SetSessionsActive(0)
	return nil
}
