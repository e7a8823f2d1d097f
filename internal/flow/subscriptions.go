package flow

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/logger"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/session"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram/callbacks"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/wallets"
)

const interactiveHint = "You are in interactive mode. Use buttons on screen."

// Subscriptions is the list/manage/edit flow. Free-text turns drive the
// summary screen and edit value entry; inline-keyboard actions drive the
// manage, details, and edit screens.
type Subscriptions struct {
	Wallets WalletStore
	Samples SampleReader
}

// HandleText advances the flow by one free-text turn.
func (f *Subscriptions) HandleText(ctx context.Context, s *session.Session, text string) (Result, error) {
	text = strings.TrimSpace(text)

	switch s.State {
	case 0:
		s.State = 1
		return f.summaryReply(ctx, s.UserID)

	case 1:
		switch text {
		case "Refresh":
			return f.summaryReply(ctx, s.UserID)
		case "Manage":
			s.State = 2
			return f.manageReply(ctx, s.UserID, false)
		default:
			return textReply("Choose: Refresh or Manage."), nil
		}

	case 2, 3:
		return textReply(interactiveHint), nil

	case 4:
		switch s.Note(noteEditStep) {
		case editStepEnterValue:
			return f.saveEdit(ctx, s, text)
		default:
			return textReply(interactiveHint), nil
		}

	default:
		return Result{
			End:     true,
			Replies: []Reply{{Text: "Something went wrong. Try /subscriptions again."}},
		}, nil
	}
}

// saveEdit applies the entered value to the chosen field and returns to the
// manage screen. Fields outside the editable set never reach storage.
func (f *Subscriptions) saveEdit(ctx context.Context, s *session.Session, value string) (Result, error) {
	walletID, _ := strconv.ParseInt(s.Note(noteSelectedWallet), 10, 64)
	field, validField := wallets.ParseEditField(s.Note(noteEditField))

	if walletID != 0 && validField {
		if err := f.Wallets.ApplyEdit(ctx, s.UserID, walletID, field, value); err != nil {
			logger.BOT.Error("wallet edit failed",
				slog.Int64("user_id", s.UserID),
				slog.Int64("wallet_id", walletID),
				slog.String("field", string(field)),
				slog.String("error", err.Error()),
			)
			return Result{
				End:     true,
				Replies: []Reply{{Text: "An error occurred. Please try again later."}},
			}, nil
		}
	}

	s.State = 2
	s.ClearNotes(noteEditStep, noteEditField)

	manage, err := f.manageReply(ctx, s.UserID, false)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Replies: append([]Reply{{Text: "Saved ✅"}}, manage.Replies...),
	}, nil
}

// HandleAction advances the flow by one inline-keyboard action. All action
// renders edit the originating message in place.
func (f *Subscriptions) HandleAction(ctx context.Context, s *session.Session, a callbacks.Action) (Result, error) {
	switch a.Action {
	case callbacks.ActionWalletDetails:
		s.SetNote(noteSelectedWallet, strconv.FormatInt(a.WalletID, 10))
		s.State = 3
		return f.detailsReply(ctx, s.UserID, a.WalletID)

	case callbacks.ActionWalletEdit:
		s.SetNote(noteSelectedWallet, strconv.FormatInt(a.WalletID, 10))
		s.State = 4
		s.SetNote(noteEditStep, editStepChooseField)
		return f.editMenuReply(ctx, s.UserID, a.WalletID)

	case callbacks.ActionWalletDelete:
		if err := f.Wallets.Delete(ctx, s.UserID, a.WalletID); err != nil {
			return Result{}, err
		}
		s.State = 2
		s.ClearNotes(noteSelectedWallet)
		res, err := f.manageReply(ctx, s.UserID, true)
		if err != nil {
			return Result{}, err
		}
		res.Toast = "Deleted"
		return res, nil

	case callbacks.ActionRefreshManage:
		s.State = 2
		res, err := f.manageReply(ctx, s.UserID, true)
		if err != nil {
			return Result{}, err
		}
		res.Toast = "Updated ✅"
		return res, nil

	case callbacks.ActionEditField:
		s.SetNote(noteSelectedWallet, strconv.FormatInt(a.WalletID, 10))
		s.State = 4
		s.SetNote(noteEditStep, editStepEnterValue)
		s.SetNote(noteEditField, a.Field)
		field := a.Field
		if field == "" {
			field = "field"
		}
		return Result{
			Toast:   "Send new value",
			Replies: []Reply{{Text: "Enter new value for " + field + ":", Edit: true}},
		}, nil

	case callbacks.ActionBack:
		switch a.To {
		case callbacks.BackToManage:
			s.State = 2
			s.ClearNotes(noteSelectedWallet)
			return f.manageReply(ctx, s.UserID, true)
		case callbacks.BackToList:
			s.State = 1
			s.ClearNotes(noteSelectedWallet)
			text, err := f.summaryText(ctx, s.UserID)
			if err != nil {
				return Result{}, err
			}
			return Result{Replies: []Reply{{Text: text, Markdown: true, Edit: true}}}, nil
		}
		return Result{}, nil

	default:
		// Unknown actions are acknowledged and otherwise ignored.
		return Result{}, nil
	}
}
