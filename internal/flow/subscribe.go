package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/logger"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/session"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/pools"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/wallets"
)

const chainsPerRow = 4

// Subscribe is the wizard that creates a new subscription in five steps:
// chain, token, wallet address, report frequency, threshold.
type Subscribe struct {
	Wallets WalletStore
	Catalog *pools.Catalog
}

// Handle advances the wizard by one text turn.
func (f *Subscribe) Handle(ctx context.Context, s *session.Session, text string) (Result, error) {
	text = strings.TrimSpace(text)

	switch s.State {
	case 0:
		if text == "" {
			return Result{Replies: []Reply{{
				Text:     "Select the blockchain for your wallet:",
				Keyboard: &Keyboard{Reply: chunk(f.Catalog.ChainNames(), chainsPerRow)},
			}}}, nil
		}
		chainSymbol, ok := f.Catalog.ChainSymbol(text)
		if !ok {
			return textReply("Invalid blockchain selected. Please choose from the list."), nil
		}
		s.SetNote(noteBlockchain, chainSymbol)
		s.State = 1
		return Result{Replies: []Reply{{
			Text:     "Select the token you want to monitor:",
			Keyboard: &Keyboard{Reply: chunk(f.Catalog.TokenSymbols(chainSymbol), chainsPerRow)},
		}}}, nil

	case 1:
		if text == "" {
			return textReply("Please select the token:"), nil
		}
		if !f.Catalog.HasToken(s.Note(noteBlockchain), text) {
			return textReply("Invalid token for the selected blockchain. Please try again."), nil
		}
		s.SetNote(noteToken, text)
		s.State = 2
		return textReply("Enter your wallet address (for liquidity providers on core.allbridge.io):"), nil

	case 2:
		if text == "" {
			return textReply("Please enter your wallet address:"), nil
		}
		s.SetNote(noteWalletAddress, text)
		s.State = 3
		return Result{Replies: []Reply{{
			Text: "Choose the report frequency:",
			Keyboard: &Keyboard{Reply: [][]string{
				{wallets.FrequencyHourly, wallets.FrequencyDaily},
				{wallets.FrequencyWeekly, wallets.FrequencyOnThreshold},
			}},
		}}}, nil

	case 3:
		if text == "" {
			return textReply("Please select the report frequency:"), nil
		}
		s.SetNote(noteFrequency, text)
		s.State = 4
		return Result{Replies: []Reply{{
			Text: "Select the reward amount threshold for notifications:",
			Keyboard: &Keyboard{Reply: [][]string{
				{"1", "5", "10"},
				{"20", "50", "100"},
			}},
		}}}, nil

	case 4:
		if text == "" {
			return textReply("Please select the reward threshold:"), nil
		}
		s.SetNote(noteThreshold, text)
		s.State = 5
		return f.finalize(ctx, s)

	case 5:
		return f.finalize(ctx, s)

	default:
		return Result{
			End:     true,
			Replies: []Reply{{Text: "Something went wrong. Please try again."}},
		}, nil
	}
}

// finalize persists the subscription from accumulated notes and ends the
// session. A persistence failure still clears the session so the user is
// never stuck retrying a broken finalize.
func (f *Subscribe) finalize(ctx context.Context, s *session.Session) (Result, error) {
	name := wallets.DefaultName(s.Note(noteBlockchain), s.Note(noteToken), s.Note(noteWalletAddress))

	w := &wallets.Wallet{
		UserID:          s.UserID,
		Name:            name,
		Blockchain:      s.Note(noteBlockchain),
		Token:           s.Note(noteToken),
		WalletAddress:   s.Note(noteWalletAddress),
		ReportFrequency: s.Note(noteFrequency),
		Threshold:       wallets.ParseThreshold(s.Note(noteThreshold)),
	}
	if _, err := f.Wallets.Create(ctx, w); err != nil {
		logger.BOT.Error("wallet create failed",
			slog.Int64("user_id", s.UserID),
			slog.String("error", err.Error()),
		)
		return Result{
			End:     true,
			Replies: []Reply{{Text: "An error occurred. Please try again later."}},
		}, nil
	}

	text := fmt.Sprintf("Your wallet has been successfully added for monitoring!\n\n"+
		"Name: %s\nBlockchain: %s\nToken: %s\nWallet: %s\nFrequency: %s\nThreshold: %s",
		name, w.Blockchain, w.Token, w.WalletAddress, w.ReportFrequency, s.Note(noteThreshold))

	return Result{
		End:     true,
		Replies: []Reply{{Text: text, Keyboard: &Keyboard{Remove: true}}},
	}, nil
}

func chunk(labels []string, n int) [][]string {
	if n <= 0 {
		n = 1
	}
	var rows [][]string
	for i := 0; i < len(labels); i += n {
		end := i + n
		if end > len(labels) {
			end = len(labels)
		}
		rows = append(rows, labels[i:end])
	}
	return rows
}
