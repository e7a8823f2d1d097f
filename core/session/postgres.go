package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

const (
	loadSessionSQL = `SELECT state, notes FROM conversations
		WHERE user_id = $1 AND chat_id = $2 AND flow = $3`

	saveSessionSQL = `INSERT INTO conversations (user_id, chat_id, flow, state, notes, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (user_id, chat_id, flow) DO UPDATE
		SET state = EXCLUDED.state, notes = EXCLUDED.notes, updated_at = NOW()`

	stopSessionSQL = `DELETE FROM conversations
		WHERE user_id = $1 AND chat_id = $2 AND flow = $3`

	activeSessionSQL = `SELECT flow FROM conversations
		WHERE user_id = $1 AND chat_id = $2
		ORDER BY updated_at DESC LIMIT 1`
)

// PostgresStore keeps sessions in the conversations table.
type PostgresStore struct {
	db *sqlx.DB
}

// NewPostgresStore wires a sqlx handle into a session store.
func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Load returns the stored session or a fresh one at state 0.
func (p *PostgresStore) Load(ctx context.Context, userID, chatID int64, flow string) (*Session, error) {
	var row struct {
		State int    `db:"state"`
		Notes []byte `db:"notes"`
	}
	err := p.db.GetContext(ctx, &row, loadSessionSQL, userID, chatID, flow)
	if errors.Is(err, sql.ErrNoRows) {
		return New(userID, chatID, flow), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	s := New(userID, chatID, flow)
	s.State = row.State
	if len(row.Notes) > 0 {
		if err := json.Unmarshal(row.Notes, &s.Notes); err != nil {
			return nil, fmt.Errorf("decode session notes: %w", err)
		}
	}
	return s, nil
}

// Save upserts the session row.
func (p *PostgresStore) Save(ctx context.Context, s *Session) error {
	if s == nil {
		return fmt.Errorf("nil session")
	}
	notes, err := json.Marshal(s.Notes)
	if err != nil {
		return fmt.Errorf("encode session notes: %w", err)
	}
	if _, err := p.db.ExecContext(ctx, saveSessionSQL, s.UserID, s.ChatID, s.Flow, s.State, notes); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Stop removes the session row if present.
func (p *PostgresStore) Stop(ctx context.Context, userID, chatID int64, flow string) error {
	if _, err := p.db.ExecContext(ctx, stopSessionSQL, userID, chatID, flow); err != nil {
		return fmt.Errorf("stop session: %w", err)
	}
	return nil
}

// Active reports the most recently touched flow with a live session.
func (p *PostgresStore) Active(ctx context.Context, userID, chatID int64) (string, bool, error) {
	var flow string
	err := p.db.GetContext(ctx, &flow, activeSessionSQL, userID, chatID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("active session: %w", err)
	}
	return flow, true, nil
}

var _ Store = (*PostgresStore)(nil)
