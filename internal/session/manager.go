package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/cart"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/events"
	"github.com/andreasstove999/ecommerce-system/storefront-service-go/internal/storage"
)

var ErrReservedSession = errors.New("session id is reserved")

// DefaultIdleTimeout is how long an unused session stays in memory. Its cart stays in storage.
const DefaultIdleTimeout = 30 * time.Minute

// Subscriber is the part of events.Bus the manager listens on.
type Subscriber interface {
	Subscribe(name string, h events.Handler)
}

type Manager struct {
	store    storage.Store
	producer string
	frame    time.Duration
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager registers for storage changes on bus. Cart writes made by another producer
// reload the affected session; the last write wins.
func NewManager(store storage.Store, bus Subscriber, producer string, frame time.Duration, logger *zap.Logger) *Manager {
	m := &Manager{
		store:    store,
		producer: producer,
		frame:    frame,
		logger:   logger.Named("session"),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
	bus.Subscribe(events.EventStorageChanged, m.onStorageChanged)
	return m
}

// Get returns the session, loading its cart from storage the first time it is seen.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if id == storage.GlobalSession {
		return nil, ErrReservedSession
	}

	m.mu.Lock()
	if s, ok := m.sessions[id]; ok {
		s.lastUsed = m.now()
		m.mu.Unlock()
		return s, nil
	}
	m.mu.Unlock()

	c, err := cart.Load(ctx, cart.NewStoreRepository(m.store, id), m.logger.With(zap.String("session", id)))
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// a concurrent first request may have won the race
	if s, ok := m.sessions[id]; ok {
		s.lastUsed = m.now()
		return s, nil
	}
	s := newSession(id, c, m.frame)
	s.lastUsed = m.now()
	m.sessions[id] = s
	return s, nil
}

// Len is the number of sessions held in memory.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops sessions not used within idle and stops their trackers. It returns how many
// were dropped.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.lastUsed.Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		m.logger.Debug("idle sessions dropped", zap.Int("count", len(expired)))
	}
	return len(expired)
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(idle)
		}
	}
}

func (m *Manager) loaded(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) onStorageChanged(ctx context.Context, ev events.Event) {
	if ev.Key != storage.KeyCart || ev.Producer == m.producer {
		return
	}
	s, ok := m.loaded(ev.Session)
	if !ok {
		return
	}
	if err := s.reload(ctx); err != nil {
		m.logger.Warn("reload cart after remote change",
			zap.String("session", ev.Session),
			zap.String("producer", ev.Producer),
			zap.Error(err),
		)
		return
	}
	m.logger.Debug("cart reloaded after remote change", zap.String("session", ev.Session), zap.String("producer", ev.Producer))
}

// Close stops every session's background work.
func (m *Manager) Close() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}
