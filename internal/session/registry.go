package session

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"haircast-core/internal/core/dispose"
	corelog "haircast-core/internal/core/log"
	"haircast-core/internal/core/metrics"
	"haircast-core/internal/errors"
)

const (
	// DefaultMaxIdle is the idle threshold before eviction.
	DefaultMaxIdle = 5 * time.Minute
	// DefaultSweepInterval is how often the sweeper runs.
	DefaultSweepInterval = 30 * time.Second

	// Recently removed session ids are remembered for this long so
	// late frames get a "session expired" instead of "not found".
	removedCacheSize = 1024
	removedCacheTTL  = 10 * time.Minute
)

// Registry is the authoritative mapping of session id to Session.
// It never closes sockets or channels itself; Remove and SweepIdle
// hand the session back to the caller for resource release.
type Registry struct {
	*dispose.ManagerBase

	mu       sync.RWMutex
	sessions map[string]*Session
	removed  *expirable.LRU[string, time.Time]
}

// NewRegistry creates a session registry bound to parentCtx.
func NewRegistry(parentCtx context.Context) *Registry {
	r := &Registry{
		ManagerBase: dispose.NewManager("SessionRegistry", parentCtx),
		sessions:    make(map[string]*Session),
		removed:     expirable.NewLRU[string, time.Time](removedCacheSize, nil, removedCacheTTL),
	}
	r.AddCleanHandler(func() error {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.sessions = make(map[string]*Session)
		return nil
	})
	return r
}

// Create inserts a new session. Collisions should be unreachable with
// uuid ids but are checked anyway.
func (r *Registry) Create(s *Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[s.ID]; exists {
		return errors.NewSessionError(s.ID, "create", errors.ErrDuplicateSession)
	}
	r.sessions[s.ID] = s
	metrics.IncrementSessionCreated()
	metrics.SetActiveSessions(float64(len(r.sessions)))
	return nil
}

// Get looks up a session by id. Recently removed ids report
// ErrSessionExpired, unknown ids ErrSessionNotFound.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	s, exists := r.sessions[id]
	r.mu.RUnlock()
	if exists {
		return s, nil
	}
	if _, wasRemoved := r.removed.Get(id); wasRemoved {
		return nil, errors.NewSessionError(id, "get", errors.ErrSessionExpired)
	}
	return nil, errors.NewSessionError(id, "get", errors.ErrSessionNotFound)
}

// Touch updates the session's last-activity timestamp.
func (r *Registry) Touch(id string) error {
	s, err := r.Get(id)
	if err != nil {
		return err
	}
	s.Touch()
	return nil
}

// Remove deletes the session and returns it for cleanup by the caller.
// Returns nil if the id is not present.
func (r *Registry) Remove(id string) *Session {
	r.mu.Lock()
	s, exists := r.sessions[id]
	if exists {
		delete(r.sessions, id)
	}
	count := len(r.sessions)
	r.mu.Unlock()

	if !exists {
		return nil
	}
	r.removed.Add(id, time.Now())
	metrics.IncrementSessionClosed()
	metrics.SetActiveSessions(float64(count))
	return s
}

// SweepIdle removes and returns all sessions idle longer than maxIdle.
func (r *Registry) SweepIdle(maxIdle time.Duration) []*Session {
	now := time.Now()

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.IdleSince(now) > maxIdle {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	count := len(r.sessions)
	r.mu.Unlock()

	for _, s := range idle {
		r.removed.Add(s.ID, now)
		metrics.IncrementSessionEvicted()
	}
	if len(idle) > 0 {
		metrics.SetActiveSessions(float64(count))
	}
	return idle
}

// Count returns the number of active sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Snapshot captures stats for all sessions.
func (r *Registry) Snapshot() []Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := make([]Stats, 0, len(r.sessions))
	for _, s := range r.sessions {
		stats = append(stats, s.Snapshot())
	}
	return stats
}

// StartSweeper runs the idle sweep on a background ticker until the
// registry's context is cancelled. Evicted sessions are handed to
// onEvict for resource release.
func (r *Registry) StartSweeper(interval, maxIdle time.Duration, onEvict func(*Session)) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if maxIdle <= 0 {
		maxIdle = DefaultMaxIdle
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.Ctx().Done():
				return
			case <-ticker.C:
				evicted := r.SweepIdle(maxIdle)
				for _, s := range evicted {
					corelog.Infof("SessionRegistry: evicting idle session %s (idle %v)",
						s.ID, s.IdleSince(time.Now()).Round(time.Second))
					if onEvict != nil {
						onEvict(s)
					}
				}
			}
		}
	}()
}
