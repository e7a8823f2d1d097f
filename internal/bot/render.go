package bot

import (
	tele "gopkg.in/telebot.v4"

	tghelpers "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram/helpers"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram/keyboard"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/flow"
)

// render delivers the replies of one flow result. Callback updates are
// acknowledged first, with the toast text when the flow set one.
func render(c tele.Context, res flow.Result) error {
	if c.Callback() != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: res.Toast})
	}

	for _, r := range res.Replies {
		markup := markupFor(r.Keyboard)
		var err error
		switch {
		case r.Edit && r.Markdown:
			err = tghelpers.EditOrSendMD(c, r.Text, markup)
		case r.Edit:
			err = tghelpers.EditOrSend(c, r.Text, markup)
		case r.Markdown:
			err = tghelpers.SendMD(c, r.Text, markup)
		default:
			err = tghelpers.SendText(c, r.Text, &tele.SendOptions{ReplyMarkup: markup})
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func markupFor(k *flow.Keyboard) *tele.ReplyMarkup {
	if k == nil {
		return nil
	}
	switch {
	case k.Remove:
		return keyboard.RemoveKeyboard()
	case len(k.Inline) > 0:
		rows := make([][]keyboard.ActionBtn, len(k.Inline))
		for i, row := range k.Inline {
			btns := make([]keyboard.ActionBtn, len(row))
			for j, b := range row {
				btns[j] = keyboard.ActionBtn{Text: b.Text, Action: b.Action}
			}
			rows[i] = btns
		}
		return keyboard.InlineActions(rows...)
	case len(k.Reply) > 0:
		markup := keyboard.ReplyButtons(k.Reply...)
		if k.Persistent {
			markup.OneTimeKeyboard = false
		}
		return markup
	default:
		return nil
	}
}
