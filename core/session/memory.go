package session

import (
	"context"
	"sync"
)

type key struct {
	userID int64
	chatID int64
	flow   string
}

// MemoryStore is an in-memory Store implementation for tests and development.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[key]*Session
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[key]*Session)}
}

// Load returns a copy of the stored session or a fresh one at state 0.
func (m *MemoryStore) Load(_ context.Context, userID, chatID int64, flow string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stored, ok := m.sessions[key{userID, chatID, flow}]
	if !ok {
		return New(userID, chatID, flow), nil
	}
	return copySession(stored), nil
}

// Save stores a copy of the session.
func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[key{s.UserID, s.ChatID, s.Flow}] = copySession(s)
	return nil
}

// Stop removes the session if present.
func (m *MemoryStore) Stop(_ context.Context, userID, chatID int64, flow string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key{userID, chatID, flow})
	return nil
}

// Active reports any flow holding a session for the pair.
func (m *MemoryStore) Active(_ context.Context, userID, chatID int64) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for k := range m.sessions {
		if k.userID == userID && k.chatID == chatID {
			return k.flow, true, nil
		}
	}
	return "", false, nil
}

func copySession(s *Session) *Session {
	out := New(s.UserID, s.ChatID, s.Flow)
	out.State = s.State
	for k, v := range s.Notes {
		out.Notes[k] = v
	}
	return out
}

var _ Store = (*MemoryStore)(nil)
