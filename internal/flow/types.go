// Package flow implements the conversation state machines as pure-ish
// transition logic: handlers take a loaded session and one user turn, mutate
// the session in memory, and return outbound message intents. Persisting or
// clearing the session is the caller's job, which keeps every transition
// testable without a live chat transport.
package flow

import (
	"context"

	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram/callbacks"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/rewards"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/wallets"
)

// InlineBtn is an inline keyboard button bound to a callback action.
type InlineBtn struct {
	Text   string
	Action callbacks.Action
}

// Keyboard describes the reply markup attached to an outgoing message.
// At most one of Reply, Remove, Inline is set.
type Keyboard struct {
	Reply [][]string
	// Persistent keeps the reply keyboard on screen after one use.
	Persistent bool
	Remove     bool
	Inline     [][]InlineBtn
}

// Reply is one outbound message intent.
type Reply struct {
	Text     string
	Markdown bool
	// Edit replaces the originating callback message instead of sending new.
	Edit     bool
	Keyboard *Keyboard
}

// Result of handling one turn.
type Result struct {
	Replies []Reply
	// Toast is the callback acknowledgement text, when non-empty.
	Toast string
	// End clears the session instead of saving it.
	End bool
}

// WalletStore is the subscription storage consumed by the flows.
type WalletStore interface {
	Create(ctx context.Context, w *wallets.Wallet) (int64, error)
	Get(ctx context.Context, userID, id int64) (*wallets.Wallet, error)
	ListByUser(ctx context.Context, userID int64) ([]wallets.Wallet, error)
	Delete(ctx context.Context, userID, id int64) error
	ApplyEdit(ctx context.Context, userID, id int64, field wallets.EditField, value string) error
}

// SampleReader exposes the reward samples the subscription views render.
type SampleReader interface {
	LatestByUser(ctx context.Context, userID int64) (map[int64]rewards.Sample, error)
	LastByWallet(ctx context.Context, walletID int64) (*rewards.Sample, error)
}

// Session note keys shared across turns.
const (
	noteBlockchain     = "blockchain"
	noteToken          = "token"
	noteWalletAddress  = "wallet_address"
	noteFrequency      = "report_frequency"
	noteThreshold      = "threshold"
	noteSelectedWallet = "selected_wallet_id"
	noteEditStep       = "edit_step"
	noteEditField      = "edit_field"
)

// Edit sub-states within the subscriptions flow.
const (
	editStepChooseField = "choose_field"
	editStepEnterValue  = "enter_value"
)

func textReply(text string) Result {
	return Result{Replies: []Reply{{Text: text}}}
}
