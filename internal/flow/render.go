package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram/callbacks"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/wallets"
)

var (
	backToListBtn = InlineBtn{
		Text:   "⬅ Back",
		Action: callbacks.Action{Action: callbacks.ActionBack, To: callbacks.BackToList},
	}
	backToManageBtn = InlineBtn{
		Text:   "⬅ Back",
		Action: callbacks.Action{Action: callbacks.ActionBack, To: callbacks.BackToManage},
	}
	refreshManageBtn = InlineBtn{
		Text:   "🔄 Refresh",
		Action: callbacks.Action{Action: callbacks.ActionRefreshManage},
	}
)

// summaryText renders the numbered subscription list with the latest
// recorded balance and rewards per wallet.
func (f *Subscriptions) summaryText(ctx context.Context, userID int64) (string, error) {
	list, err := f.Wallets.ListByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(list) == 0 {
		return "You don't have any subscriptions yet. Use /subscribe to add one.", nil
	}

	latest, err := f.Samples.LatestByUser(ctx, userID)
	if err != nil {
		return "", err
	}

	lines := []string{fmt.Sprintf("📋 *Your subscriptions (%d)*\n", len(list))}
	for i, w := range list {
		balance, rewards := "0", "0"
		if s, ok := latest[w.ID]; ok {
			balance = s.BalanceAmount.String()
			rewards = s.RewardAmount.String()
		}
		lines = append(lines, fmt.Sprintf(
			"%d) *%s* [%s/%s]\n Chain: %s \n Balance: %s %s\n Rewards: %s %s\n Address: `%s`\n",
			i+1, w.DisplayName(), w.Blockchain, w.Token,
			w.Blockchain,
			balance, w.Token,
			rewards, w.Token,
			w.WalletAddress,
		))
	}
	return strings.Join(lines, "\n"), nil
}

// summaryReply sends the list as a new message with the persistent
// Refresh/Manage reply keyboard.
func (f *Subscriptions) summaryReply(ctx context.Context, userID int64) (Result, error) {
	text, err := f.summaryText(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	return Result{Replies: []Reply{{
		Text:     text,
		Markdown: true,
		Keyboard: &Keyboard{Reply: [][]string{{"Refresh", "Manage"}}, Persistent: true},
	}}}, nil
}

// manageReply renders the pick-a-subscription screen with one inline button
// per wallet.
func (f *Subscriptions) manageReply(ctx context.Context, userID int64, edit bool) (Result, error) {
	list, err := f.Wallets.ListByUser(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	controls := []InlineBtn{backToListBtn, refreshManageBtn}
	if len(list) == 0 {
		return Result{Replies: []Reply{{
			Text:     "No subscriptions yet. Use /subscribe.",
			Edit:     edit,
			Keyboard: &Keyboard{Inline: [][]InlineBtn{controls}},
		}}}, nil
	}

	var grid [][]InlineBtn
	for _, w := range list {
		label := fmt.Sprintf("%s/%s %s", w.Blockchain, w.Token, wallets.ShortAddress(w.WalletAddress))
		grid = append(grid, []InlineBtn{{
			Text:   label,
			Action: callbacks.Action{Action: callbacks.ActionWalletDetails, WalletID: w.ID},
		}})
	}
	grid = append(grid, controls)

	return Result{Replies: []Reply{{
		Text:     "Manage your subscriptions. Pick one:",
		Edit:     edit,
		Keyboard: &Keyboard{Inline: grid},
	}}}, nil
}

// detailsReply renders one subscription with its latest sample and the
// edit/delete controls.
func (f *Subscriptions) detailsReply(ctx context.Context, userID, walletID int64) (Result, error) {
	w, err := f.Wallets.Get(ctx, userID, walletID)
	if errors.Is(err, wallets.ErrNotFound) {
		return Result{Replies: []Reply{{Text: "Wallet not found.", Edit: true}}}, nil
	}
	if err != nil {
		return Result{}, err
	}

	balance, rewards := "0", "0"
	lastUpdate := ""
	if s, err := f.Samples.LastByWallet(ctx, w.ID); err != nil {
		return Result{}, err
	} else if s != nil {
		balance = s.BalanceAmount.String()
		rewards = s.RewardAmount.String()
		lastUpdate = s.CreatedAt.Format("2006-01-02 15:04:05")
	}

	var b strings.Builder
	b.WriteString("📂 *Subscription Details:*\n\n")
	fmt.Fprintf(&b, "Name: %s\n", w.DisplayName())
	fmt.Fprintf(&b, "Chain: %s\n", w.Blockchain)
	fmt.Fprintf(&b, "Token: %s\n", w.Token)
	fmt.Fprintf(&b, "Address: %s\n", w.WalletAddress)
	fmt.Fprintf(&b, "Balance: %s %s\n", balance, w.Token)
	fmt.Fprintf(&b, "Rewards: %s %s\n", rewards, w.Token)
	fmt.Fprintf(&b, "Report Frequency: %s\n", w.ReportFrequency)
	fmt.Fprintf(&b, "Threshold: %s\n", w.Threshold)
	if lastUpdate != "" {
		fmt.Fprintf(&b, "Last update: %s\n", lastUpdate)
	}

	keyboard := &Keyboard{Inline: [][]InlineBtn{
		{{Text: "✏️ Edit", Action: callbacks.Action{Action: callbacks.ActionWalletEdit, WalletID: w.ID}}},
		{{Text: "🗑 Delete", Action: callbacks.Action{Action: callbacks.ActionWalletDelete, WalletID: w.ID}}},
		{backToManageBtn},
	}}

	return Result{Replies: []Reply{{
		Text:     b.String(),
		Markdown: true,
		Edit:     true,
		Keyboard: keyboard,
	}}}, nil
}

// editMenuReply renders the choose-a-field screen for one subscription.
func (f *Subscriptions) editMenuReply(ctx context.Context, userID, walletID int64) (Result, error) {
	w, err := f.Wallets.Get(ctx, userID, walletID)
	if errors.Is(err, wallets.ErrNotFound) {
		return Result{Replies: []Reply{{Text: "Wallet not found.", Edit: true}}}, nil
	}
	if err != nil {
		return Result{}, err
	}

	text := fmt.Sprintf("✏️ *Edit subscription*\n\nName: %s\nReport Frequency: %s\nThreshold: %s\n\nSelect what you want to edit:",
		w.DisplayName(), w.ReportFrequency, w.Threshold)

	fieldBtn := func(label string, field wallets.EditField) []InlineBtn {
		return []InlineBtn{{
			Text:   label,
			Action: callbacks.Action{Action: callbacks.ActionEditField, Field: string(field), WalletID: w.ID},
		}}
	}
	keyboard := &Keyboard{Inline: [][]InlineBtn{
		fieldBtn("Name", wallets.EditName),
		fieldBtn("Report Frequency", wallets.EditFrequency),
		fieldBtn("Threshold", wallets.EditThreshold),
		{backToManageBtn},
	}}

	return Result{Replies: []Reply{{
		Text:     text,
		Markdown: true,
		Edit:     true,
		Keyboard: keyboard,
	}}}, nil
}
