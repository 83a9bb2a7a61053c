// Package session keeps track of who is logged in. It replaces the browser's
// local storage of the current user with a server-side token store.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
)

// CookieName is the cookie carrying the session token.
const CookieName = "crm_session"

type Session struct {
	Token     string    `json:"token"`
	UserID    int       `json:"user_id"`
	Remember  bool      `json:"remember"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions. Get returns appErrors.ErrUnauthorized for unknown or
// expired tokens.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
}

// Manager issues sessions with the right lifetime.
type Manager struct {
	Store       Store
	TTL         time.Duration
	RememberTTL time.Duration
	Now         func() time.Time
}

func NewManager(store Store, ttl, rememberTTL time.Duration) *Manager {
	return &Manager{Store: store, TTL: ttl, RememberTTL: rememberTTL, Now: time.Now}
}

// Create starts a session for userID; remember selects the long lifetime.
func (m *Manager) Create(ctx context.Context, userID int, remember bool) (*Session, error) {
	now := m.Now()
	ttl := m.TTL
	if remember {
		ttl = m.RememberTTL
	}
	s := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		Remember:  remember,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := m.Store.Save(ctx, s); err != nil {
		return nil, errors.Wrap(err, "save session")
	}
	return s, nil
}

func (m *Manager) Get(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, appErrors.ErrUnauthorized
	}
	s, err := m.Store.Get(ctx, token)
	if err != nil {
		return nil, err
	}
	if s.Expired(m.Now()) {
		_ = m.Store.Delete(ctx, token)
		return nil, errors.Wrap(appErrors.ErrUnauthorized, "session expired")
	}
	return s, nil
}

func (m *Manager) Destroy(ctx context.Context, token string) error {
	return m.Store.Delete(ctx, token)
}

// Sweep removes expired sessions every interval until ctx is done.
func (m *Manager) Sweep(ctx context.Context, interval time.Duration, onSweep func(n int, err error)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			n, err := m.Store.DeleteExpired(ctx, m.Now())
			if onSweep != nil {
				onSweep(n, err)
			}
		}
	}
}

// MemoryStore keeps sessions for the life of the process.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]Session)}
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.Token] = *s
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, appErrors.ErrUnauthorized
	}
	return &s, nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}

func (m *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for token, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, token)
			n++
		}
	}
	return n, nil
}

var _ Store = (*MemoryStore)(nil)
