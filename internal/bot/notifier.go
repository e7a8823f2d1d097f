package bot

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	coretelegram "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram"
)

// Notifier delivers Markdown messages straight through the Bot API, without
// a running update poller. The rewards job uses it for alerts and reports.
type Notifier struct {
	bot *tele.Bot
}

// NewNotifier builds a send-only bot client.
func NewNotifier(token string) (*Notifier, error) {
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Client: coretelegram.BuildHTTPClient(),
	})
	if err != nil {
		return nil, fmt.Errorf("bot: notifier init: %w", err)
	}
	return &Notifier{bot: b}, nil
}

// Notify sends one Markdown message to the user's private chat.
func (n *Notifier) Notify(_ context.Context, userID int64, text string) error {
	_, err := n.bot.Send(&tele.User{ID: userID}, text, tele.ModeMarkdown)
	return err
}
