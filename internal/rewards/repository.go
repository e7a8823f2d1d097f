package rewards

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

const (
	appendSampleSQL = `INSERT INTO rewards (wallet_id, reward_amount, balance_amount, created_at)
		VALUES ($1, $2, $3, $4)`

	lastByWalletSQL = `SELECT * FROM rewards
		WHERE wallet_id = $1 ORDER BY created_at DESC LIMIT 1`

	inWindowSQL = `SELECT * FROM rewards
		WHERE wallet_id = $1 AND created_at >= $2 ORDER BY created_at ASC`

	latestByUserSQL = `SELECT r1.* FROM rewards r1
		JOIN (
			SELECT wallet_id, MAX(created_at) AS max_created
			FROM rewards
			GROUP BY wallet_id
		) r2 ON r1.wallet_id = r2.wallet_id AND r1.created_at = r2.max_created
		JOIN wallets w ON w.id = r1.wallet_id
		WHERE w.user_id = $1`
)

// Repository persists reward samples in PostgreSQL.
type Repository struct {
	db *sqlx.DB
}

// NewRepository wires a sqlx handle into a rewards repository.
func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

// Append records one sample.
func (r *Repository) Append(ctx context.Context, walletID int64, reward, balance decimal.Decimal, at time.Time) error {
	if _, err := r.db.ExecContext(ctx, appendSampleSQL, walletID, reward, balance, at); err != nil {
		return fmt.Errorf("append reward sample: %w", err)
	}
	return nil
}

// LastByWallet returns the most recent sample, or nil when none exists.
func (r *Repository) LastByWallet(ctx context.Context, walletID int64) (*Sample, error) {
	var s Sample
	err := r.db.GetContext(ctx, &s, lastByWalletSQL, walletID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last reward sample: %w", err)
	}
	return &s, nil
}

// InWindow returns the wallet's samples since the cutoff, oldest first.
func (r *Repository) InWindow(ctx context.Context, walletID int64, since time.Time) ([]Sample, error) {
	var out []Sample
	if err := r.db.SelectContext(ctx, &out, inWindowSQL, walletID, since); err != nil {
		return nil, fmt.Errorf("reward samples in window: %w", err)
	}
	return out, nil
}

// LatestByUser returns the most recent sample per wallet across the user's
// wallets, keyed by wallet id.
func (r *Repository) LatestByUser(ctx context.Context, userID int64) (map[int64]Sample, error) {
	var rows []Sample
	if err := r.db.SelectContext(ctx, &rows, latestByUserSQL, userID); err != nil {
		return nil, fmt.Errorf("latest reward samples: %w", err)
	}
	out := make(map[int64]Sample, len(rows))
	for _, s := range rows {
		out[s.WalletID] = s
	}
	return out, nil
}
