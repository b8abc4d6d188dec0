package server

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wishlane/landing/pkg/render"
)

// SessionManager manages all active sessions.
// It handles session creation, lookup, idle cleanup and shutdown.
type SessionManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	closing  bool

	config *SessionConfig
	limits *SessionLimits
	mount  Mount

	clock    clock.Clock
	logger   *slog.Logger
	metrics  *Metrics
	renderer *render.Renderer

	cleanupInterval time.Duration
	done            chan struct{}
	cleanupDone     chan struct{}
	stopOnce        sync.Once

	totalCreated  atomic.Uint64
	totalClosed   atomic.Uint64
	totalRejected atomic.Uint64
	peakSessions  int
}

// ManagerOption configures a SessionManager.
type ManagerOption func(*SessionManager)

// WithClock sets the time source for sessions, timers and idle cleanup.
func WithClock(c clock.Clock) ManagerOption {
	return func(sm *SessionManager) {
		sm.clock = c
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ManagerOption {
	return func(sm *SessionManager) {
		sm.logger = logger
	}
}

// WithMetrics records session metrics into m.
func WithMetrics(m *Metrics) ManagerOption {
	return func(sm *SessionManager) {
		sm.metrics = m
	}
}

// WithCleanupInterval sets how often idle sessions are swept.
func WithCleanupInterval(d time.Duration) ManagerOption {
	return func(sm *SessionManager) {
		sm.cleanupInterval = d
	}
}

// WithRenderer sets the renderer used for replacement patches.
func WithRenderer(r *render.Renderer) ManagerOption {
	return func(sm *SessionManager) {
		sm.renderer = r
	}
}

// NewSessionManager creates a SessionManager and starts its cleanup loop.
// A nil mount hosts widgets with default copy.
func NewSessionManager(config *SessionConfig, limits *SessionLimits, mount Mount, opts ...ManagerOption) *SessionManager {
	if limits == nil {
		limits = DefaultSessionLimits()
	}

	sm := &SessionManager{
		sessions:        make(map[string]*Session),
		config:          config.withDefaults(),
		limits:          limits,
		mount:           mount,
		clock:           clock.New(),
		logger:          slog.Default(),
		cleanupInterval: 30 * time.Second,
		done:            make(chan struct{}),
		cleanupDone:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(sm)
	}
	if sm.renderer == nil {
		sm.renderer = render.NewRenderer(render.RendererConfig{})
	}
	if sm.cleanupInterval <= 0 {
		sm.cleanupInterval = 30 * time.Second
	}
	sm.logger = sm.logger.With("component", "session_manager")

	go sm.cleanupLoop()

	return sm
}

// Create creates and registers a session for conn. The session's loops are
// not started.
func (sm *SessionManager) Create(conn *websocket.Conn, r *http.Request) (*Session, error) {
	sm.mu.Lock()
	if sm.closing {
		sm.mu.Unlock()
		return nil, ErrManagerClosed
	}
	if sm.limits.MaxSessions > 0 && len(sm.sessions) >= sm.limits.MaxSessions {
		sm.mu.Unlock()
		sm.totalRejected.Add(1)
		sm.metrics.sessionRejected()
		sm.logger.Warn("session limit reached", "max", sm.limits.MaxSessions)
		return nil, ErrMaxSessionsReached
	}
	id := uuid.NewString()
	// Reserve the slot so concurrent creates respect the limit while the
	// widget mounts outside the lock.
	sm.sessions[id] = nil
	sm.mu.Unlock()

	var s *Session
	defer func() {
		if s == nil {
			sm.mu.Lock()
			delete(sm.sessions, id)
			sm.mu.Unlock()
		}
	}()

	s = newSession(conn, id, r, sessionDeps{
		config:   sm.config,
		clock:    sm.clock,
		logger:   sm.logger,
		metrics:  sm.metrics,
		renderer: sm.renderer,
		mount:    sm.mount,
		onClose:  sm.remove,
	})

	sm.mu.Lock()
	if sm.closing {
		// Shutdown started while the widget mounted and did not see this slot.
		delete(sm.sessions, id)
		sm.mu.Unlock()
		s.discard()
		return nil, ErrManagerClosed
	}
	sm.sessions[id] = s
	if n := len(sm.sessions); n > sm.peakSessions {
		sm.peakSessions = n
	}
	sm.mu.Unlock()

	sm.totalCreated.Add(1)
	sm.metrics.sessionOpened()
	sm.logger.Info("session created", "session_id", id)
	return s, nil
}

// remove drops a closed session from the registry.
func (sm *SessionManager) remove(s *Session) {
	sm.mu.Lock()
	cur, ok := sm.sessions[s.ID]
	if ok && cur == s {
		delete(sm.sessions, s.ID)
	}
	sm.mu.Unlock()

	if ok && cur == s {
		sm.totalClosed.Add(1)
		sm.metrics.sessionClosed()
	}
}

// Get returns a session by ID, or nil.
func (sm *SessionManager) Get(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// Close closes and removes a session by ID.
func (sm *SessionManager) Close(id string) {
	if s := sm.Get(id); s != nil {
		s.Close()
	}
}

// Count returns the number of registered sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// ManagerStats is a point-in-time view of the manager's counters.
type ManagerStats struct {
	Active       int
	Peak         int
	TotalCreated uint64
	TotalClosed  uint64
	Rejected     uint64
}

// Stats returns the manager's counters.
func (sm *SessionManager) Stats() ManagerStats {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return ManagerStats{
		Active:       len(sm.sessions),
		Peak:         sm.peakSessions,
		TotalCreated: sm.totalCreated.Load(),
		TotalClosed:  sm.totalClosed.Load(),
		Rejected:     sm.totalRejected.Load(),
	}
}

// cleanupLoop periodically closes idle sessions.
func (sm *SessionManager) cleanupLoop() {
	defer close(sm.cleanupDone)

	ticker := sm.clock.Ticker(sm.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			sm.cleanupExpired()
		case <-sm.done:
			return
		}
	}
}

// cleanupExpired closes sessions with no client activity within IdleTimeout.
func (sm *SessionManager) cleanupExpired() int {
	now := sm.clock.Now()

	sm.mu.RLock()
	var expired []*Session
	for _, s := range sm.sessions {
		if s != nil && now.Sub(s.LastActive()) > sm.config.IdleTimeout {
			expired = append(expired, s)
		}
	}
	sm.mu.RUnlock()

	for _, s := range expired {
		sm.logger.Info("session expired", "session_id", s.ID, "idle", now.Sub(s.LastActive()))
		s.expire()
	}
	return len(expired)
}

// Shutdown closes every session and stops the cleanup loop.
func (sm *SessionManager) Shutdown() {
	_ = sm.ShutdownWithContext(context.Background())
}

// ShutdownWithContext closes every session and stops the cleanup loop,
// giving up when ctx is done.
func (sm *SessionManager) ShutdownWithContext(ctx context.Context) error {
	sm.stopOnce.Do(func() {
		close(sm.done)
	})

	sm.mu.Lock()
	sm.closing = true
	sessions := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		if s != nil {
			sessions = append(sessions, s)
		}
	}
	sm.mu.Unlock()

	closed := make(chan struct{})
	go func() {
		var wg sync.WaitGroup
		for _, s := range sessions {
			wg.Add(1)
			go func(s *Session) {
				defer wg.Done()
				s.Close()
			}(s)
		}
		wg.Wait()
		close(closed)
	}()

	select {
	case <-closed:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-sm.cleanupDone:
	case <-ctx.Done():
		return ctx.Err()
	}

	sm.logger.Info("session manager stopped", "closed", len(sessions))
	return nil
}
