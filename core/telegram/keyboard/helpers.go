// Package keyboard builds reply and inline keyboards from plain label rows
// and structured action buttons.
package keyboard

import (
	tele "gopkg.in/telebot.v4"

	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram/callbacks"
)

// ActionBtn describes an inline button whose callback data is a structured action.
type ActionBtn struct {
	Text   string
	Action callbacks.Action
}

// RemoveKeyboard returns a markup that hides the reply keyboard.
func RemoveKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

// ReplyButtons builds a one-time resized reply keyboard from rows of text.
func ReplyButtons(rows ...[]string) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	var keyboard []tele.Row
	for _, row := range rows {
		var buttons []tele.Btn
		for _, label := range row {
			buttons = append(buttons, markup.Text(label))
		}
		keyboard = append(keyboard, markup.Row(buttons...))
	}
	markup.Reply(keyboard...)
	return markup
}

// ReplyChunked splits a flat list of labels into rows of up to n buttons.
func ReplyChunked(labels []string, n int) *tele.ReplyMarkup {
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
	return ReplyButtons(rows...)
}

// InlineActions builds an inline keyboard from rows of action buttons.
func InlineActions(rows ...[]ActionBtn) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	inline := make([][]tele.InlineButton, len(rows))
	for i, row := range rows {
		r := make([]tele.InlineButton, len(row))
		for j, btn := range row {
			r[j] = tele.InlineButton{Text: btn.Text, Data: btn.Action.Encode()}
		}
		inline[i] = r
	}
	markup.InlineKeyboard = inline
	return markup
}
