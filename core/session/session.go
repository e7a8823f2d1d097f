// Package session persists per-(user, chat, flow) conversation state so
// multi-step flows survive process restarts.
package session

import "context"

// Flow names used by the bot.
const (
	FlowSubscribe     = "subscribe"
	FlowSubscriptions = "subscriptions"
)

// Session holds the state ordinal and transient notes of one conversation.
type Session struct {
	UserID int64
	ChatID int64
	Flow   string
	State  int
	Notes  map[string]string
}

// New returns a fresh session at state 0 for the given identity.
func New(userID, chatID int64, flow string) *Session {
	return &Session{
		UserID: userID,
		ChatID: chatID,
		Flow:   flow,
		Notes:  make(map[string]string),
	}
}

// Note returns a note value, or "" when unset.
func (s *Session) Note(key string) string {
	if s == nil || s.Notes == nil {
		return ""
	}
	return s.Notes[key]
}

// SetNote stores a note value, allocating the map lazily.
func (s *Session) SetNote(key, value string) {
	if s.Notes == nil {
		s.Notes = make(map[string]string)
	}
	s.Notes[key] = value
}

// ClearNotes removes the listed note keys.
func (s *Session) ClearNotes(keys ...string) {
	for _, k := range keys {
		delete(s.Notes, k)
	}
}

// Store persists conversation sessions.
type Store interface {
	// Load returns the live session for the tuple, or a fresh state-0 session
	// when none exists. The fresh session is not persisted until Save.
	Load(ctx context.Context, userID, chatID int64, flow string) (*Session, error)
	// Save upserts the session.
	Save(ctx context.Context, s *Session) error
	// Stop removes the session, ending the conversation.
	Stop(ctx context.Context, userID, chatID int64, flow string) error
	// Active reports which flow, if any, holds a persisted session for the pair.
	Active(ctx context.Context, userID, chatID int64) (string, bool, error)
}
