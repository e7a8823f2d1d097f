package wallets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when a wallet does not exist or belongs to a
// different user. The two cases are indistinguishable on purpose.
var ErrNotFound = errors.New("wallet not found")

// ErrUnknownEditField is returned for edits outside the allowed field set.
var ErrUnknownEditField = errors.New("unknown edit field")

const (
	createWalletSQL = `INSERT INTO wallets
		(user_id, name, blockchain, token, wallet_address, report_frequency, threshold, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		RETURNING id`

	getWalletSQL = `SELECT * FROM wallets WHERE id = $1 AND user_id = $2`

	listByUserSQL = `SELECT * FROM wallets WHERE user_id = $1 ORDER BY id ASC`

	listAllSQL = `SELECT * FROM wallets ORDER BY id ASC`

	deleteWalletSQL = `DELETE FROM wallets WHERE id = $1 AND user_id = $2`

	updateNameSQL      = `UPDATE wallets SET name = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`
	updateFrequencySQL = `UPDATE wallets SET report_frequency = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`
	updateThresholdSQL = `UPDATE wallets SET threshold = $1, updated_at = NOW() WHERE id = $2 AND user_id = $3`
)

// Repository persists wallets in PostgreSQL.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wires a sqlx handle into a wallet repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new wallet and returns its id.
func (r *Repository) Create(ctx context.Context, w *Wallet) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, createWalletSQL,
		w.UserID, w.Name, w.Blockchain, w.Token, w.WalletAddress, w.ReportFrequency, w.Threshold)
	if err != nil {
		return 0, fmt.Errorf("create wallet: %w", err)
	}
	return id, nil
}

// Get returns the wallet only when it belongs to the user.
func (r *Repository) Get(ctx context.Context, userID, id int64) (*Wallet, error) {
	var w Wallet
	err := r.db.GetContext(ctx, &w, getWalletSQL, id, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get wallet: %w", err)
	}
	return &w, nil
}

// ListByUser returns the user's wallets ordered by id.
func (r *Repository) ListByUser(ctx context.Context, userID int64) ([]Wallet, error) {
	var out []Wallet
	if err := r.db.SelectContext(ctx, &out, listByUserSQL, userID); err != nil {
		return nil, fmt.Errorf("list wallets: %w", err)
	}
	return out, nil
}

// ListAll returns every wallet across all users, for the rewards batch.
func (r *Repository) ListAll(ctx context.Context) ([]Wallet, error) {
	var out []Wallet
	if err := r.db.SelectContext(ctx, &out, listAllSQL); err != nil {
		return nil, fmt.Errorf("list all wallets: %w", err)
	}
	return out, nil
}

// Delete removes the wallet when owned by the user. Deleting someone else's
// wallet is a silent no-op.
func (r *Repository) Delete(ctx context.Context, userID, id int64) error {
	if _, err := r.db.ExecContext(ctx, deleteWalletSQL, id, userID); err != nil {
		return fmt.Errorf("delete wallet: %w", err)
	}
	return nil
}

// ApplyEdit updates one editable field from free-text input. Fields outside
// the enumeration are rejected without touching storage.
func (r *Repository) ApplyEdit(ctx context.Context, userID, id int64, field EditField, value string) error {
	switch field {
	case EditName:
		return r.update(ctx, updateNameSQL, value, id, userID)
	case EditFrequency:
		return r.update(ctx, updateFrequencySQL, value, id, userID)
	case EditThreshold:
		return r.update(ctx, updateThresholdSQL, ParseThreshold(value), id, userID)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownEditField, string(field))
	}
}

func (r *Repository) update(ctx context.Context, query string, value any, id, userID int64) error {
	if _, err := r.db.ExecContext(ctx, query, value, id, userID); err != nil {
		return fmt.Errorf("update wallet: %w", err)
	}
	return nil
}
