// Package rewards records reward samples and runs the polling job that
// diffs them against live liquidity data.
package rewards

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sample is one timestamped observation of cumulative reward and balance
// for a wallet.
type Sample struct {
	ID            int64           `db:"id"`
	WalletID      int64           `db:"wallet_id"`
	RewardAmount  decimal.Decimal `db:"reward_amount"`
	BalanceAmount decimal.Decimal `db:"balance_amount"`
	CreatedAt     time.Time       `db:"created_at"`
}
