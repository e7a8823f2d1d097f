// Package wallets stores reward subscriptions: a monitored (chain, token,
// address) position with notification preferences.
package wallets

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Report frequency labels as presented to the user and stored verbatim.
const (
	FrequencyHourly      = "Hourly"
	FrequencyDaily       = "Daily"
	FrequencyWeekly      = "Weekly"
	FrequencyOnThreshold = "Only on reward threshold"
)

// Wallet is one monitored liquidity position.
type Wallet struct {
	ID              int64           `db:"id"`
	UserID          int64           `db:"user_id"`
	Name            string          `db:"name"`
	Blockchain      string          `db:"blockchain"`
	Token           string          `db:"token"`
	WalletAddress   string          `db:"wallet_address"`
	ReportFrequency string          `db:"report_frequency"`
	Threshold       decimal.Decimal `db:"threshold"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// DefaultName builds the fallback subscription name.
func DefaultName(chainSymbol, token, address string) string {
	return fmt.Sprintf("%s-%s-%s", chainSymbol, token, address)
}

// DisplayName returns the stored name, or the default when unset.
func (w *Wallet) DisplayName() string {
	if strings.TrimSpace(w.Name) != "" {
		return w.Name
	}
	return DefaultName(w.Blockchain, w.Token, w.WalletAddress)
}

// ShortAddress abbreviates long addresses for button labels.
func ShortAddress(addr string) string {
	if len(addr) > 10 {
		return addr[:5] + "…" + addr[len(addr)-5:]
	}
	return addr
}

// ParseThreshold converts free-text threshold input. Unparseable input falls
// back to zero rather than failing the flow.
func ParseThreshold(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// EditField enumerates the subscription fields a user may edit. Anything
// outside this set is rejected before touching storage.
type EditField string

const (
	EditName      EditField = "name"
	EditFrequency EditField = "report_frequency"
	EditThreshold EditField = "threshold"
)

// ParseEditField validates a raw field name from a callback payload.
func ParseEditField(raw string) (EditField, bool) {
	switch EditField(raw) {
	case EditName, EditFrequency, EditThreshold:
		return EditField(raw), true
	default:
		return "", false
	}
}
