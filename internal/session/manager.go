package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kapu/astroweb-go/internal/domain"
	apperrors "github.com/kapu/astroweb-go/pkg/errors"
)

// Manager tracks open editing sessions by id.
type Manager struct {
	logger   *zap.Logger
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(logger *zap.Logger) *Manager {
	return &Manager{
		logger:   logger,
		sessions: make(map[string]*Session),
	}
}

// Create opens a session for ownerID seeded with l.
func (m *Manager) Create(ownerID string, l domain.Layout) *Session {
	s := newSession(uuid.NewString(), ownerID, l, m.logger)

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.logger.Info("Session opened", zap.String("session", s.id), zap.String("owner", ownerID))
	return s
}

// Get returns the session when it exists and belongs to ownerID.
func (m *Manager) Get(id, ownerID string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()

	if !ok {
		return nil, apperrors.NewNotFound("session", id)
	}
	if s.ownerID != ownerID {
		return nil, apperrors.NewForbidden("session", id)
	}
	return s, nil
}

func (m *Manager) Remove(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.closeSubscribers()
		m.logger.Info("Session closed", zap.String("session", id))
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep closes sessions idle for longer than maxIdle and returns how many
// were closed. Sessions with a running generation or live subscribers are kept.
func (m *Manager) Sweep(now time.Time, maxIdle time.Duration) int {
	m.mu.RLock()
	var stale []string
	for id, s := range m.sessions {
		if s.idleSince(now) > maxIdle {
			stale = append(stale, id)
		}
	}
	m.mu.RUnlock()

	for _, id := range stale {
		m.Remove(id)
	}
	return len(stale)
}

// Run sweeps idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := m.Sweep(now, maxIdle); n > 0 {
				m.logger.Info("Idle sessions swept", zap.Int("count", n), zap.Int("remaining", m.Len()))
			}
		}
	}
}
