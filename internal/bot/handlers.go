// Package bot glues the conversation flows to the Telegram transport:
// commands, text routing into active sessions, and callback actions.
package bot

import (
	"context"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/logger"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/session"
	tg "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram/callbacks"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram/commands"
	tghelpers "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram/helpers"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/flow"
)

const startText = "👋 This bot watches your AllBridge Core liquidity positions " +
	"and notifies you about reward changes.\n\n" +
	"/subscribe – add a wallet to monitor\n" +
	"/subscriptions – list and manage your wallets"

// Handlers owns the per-update entrypoints and the session lifecycle around
// each flow turn.
type Handlers struct {
	sessions      session.Store
	subscribe     *flow.Subscribe
	subscriptions *flow.Subscriptions
}

// NewHandlers wires the flows and session store.
func NewHandlers(sessions session.Store, subscribe *flow.Subscribe, subscriptions *flow.Subscriptions) *Handlers {
	return &Handlers{
		sessions:      sessions,
		subscribe:     subscribe,
		subscriptions: subscriptions,
	}
}

// Register binds commands and callback actions into the registry.
func (h *Handlers) Register(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{
		Handler:     func(c tele.Context) error { return tghelpers.SendText(c, startText) },
		Description: "What this bot does",
	})
	reg.RegisterCommand("/help", commands.Command{
		Handler:     func(c tele.Context) error { return tghelpers.SendText(c, startText) },
		Description: "How to use the bot",
		Hidden:      true,
	})
	reg.RegisterCommand("/subscribe", commands.Command{
		Handler:     h.subscribeCmd,
		Description: "Subscribe for monitoring liquidity rewards",
	})
	reg.RegisterCommand("/subscriptions", commands.Command{
		Handler:     h.subscriptionsCmd,
		Description: "Subscriptions list",
	})

	for _, name := range []string{
		callbacks.ActionWalletDetails,
		callbacks.ActionWalletEdit,
		callbacks.ActionWalletDelete,
		callbacks.ActionRefreshManage,
		callbacks.ActionEditField,
		callbacks.ActionBack,
	} {
		reg.RegisterAction(name, h.subscriptionsAction(name))
	}
}

// subscribeCmd starts or resumes the creation wizard. Any text after the
// command is treated as the first wizard input.
func (h *Handlers) subscribeCmd(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	// Only one conversation is live at a time.
	_ = h.sessions.Stop(ctx, c.Sender().ID, c.Chat().ID, session.FlowSubscriptions)
	return h.runSubscribe(c, payload(c))
}

// subscriptionsCmd opens the list/manage flow.
func (h *Handlers) subscriptionsCmd(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	_ = h.sessions.Stop(ctx, c.Sender().ID, c.Chat().ID, session.FlowSubscribe)
	return h.runSubscriptionsText(c, payload(c))
}

// ActiveFlow implements router.FlowDispatcher.
func (h *Handlers) ActiveFlow(c tele.Context) (string, bool) {
	ctx := tghelpers.BuildContext(c)
	name, ok, err := h.sessions.Active(ctx, c.Sender().ID, c.Chat().ID)
	if err != nil {
		logger.Warn(ctx, "bot", "session.active_failed", slog.String("err", err.Error()))
		return "", false
	}
	return name, ok
}

// HandleFlowText implements router.FlowDispatcher.
func (h *Handlers) HandleFlowText(flowName string, c tele.Context) error {
	switch flowName {
	case session.FlowSubscribe:
		return h.runSubscribe(c, c.Text())
	case session.FlowSubscriptions:
		return h.runSubscriptionsText(c, c.Text())
	default:
		return nil
	}
}

func (h *Handlers) runSubscribe(c tele.Context, text string) error {
	ctx := tghelpers.BuildContext(c)
	s, err := h.sessions.Load(ctx, c.Sender().ID, c.Chat().ID, session.FlowSubscribe)
	if err != nil {
		return h.sessionFailure(c, err)
	}
	res, err := h.subscribe.Handle(ctx, s, text)
	if err != nil {
		return h.sessionFailure(c, err)
	}
	if err := h.settleSession(ctx, s, res.End); err != nil {
		return h.sessionFailure(c, err)
	}
	return render(c, res)
}

func (h *Handlers) runSubscriptionsText(c tele.Context, text string) error {
	ctx := tghelpers.BuildContext(c)
	s, err := h.sessions.Load(ctx, c.Sender().ID, c.Chat().ID, session.FlowSubscriptions)
	if err != nil {
		return h.sessionFailure(c, err)
	}
	res, err := h.subscriptions.HandleText(ctx, s, text)
	if err != nil {
		return h.sessionFailure(c, err)
	}
	if err := h.settleSession(ctx, s, res.End); err != nil {
		return h.sessionFailure(c, err)
	}
	return render(c, res)
}

// subscriptionsAction adapts one callback action name into a registry handler.
func (h *Handlers) subscriptionsAction(name string) tg.ActionHandler {
	return func(c tele.Context, walletID int64, field, to string) error {
		ctx := tghelpers.BuildContext(c)
		s, err := h.sessions.Load(ctx, c.Sender().ID, c.Chat().ID, session.FlowSubscriptions)
		if err != nil {
			return h.sessionFailure(c, err)
		}
		action := callbacks.Action{Action: name, WalletID: walletID, Field: field, To: to}
		res, err := h.subscriptions.HandleAction(ctx, s, action)
		if err != nil {
			return h.sessionFailure(c, err)
		}
		if err := h.settleSession(ctx, s, res.End); err != nil {
			return h.sessionFailure(c, err)
		}
		return render(c, res)
	}
}

// settleSession persists or clears the session after a handled turn.
func (h *Handlers) settleSession(ctx context.Context, s *session.Session, end bool) error {
	if end {
		return h.sessions.Stop(ctx, s.UserID, s.ChatID, s.Flow)
	}
	return h.sessions.Save(ctx, s)
}

// sessionFailure reports a generic failure to the user and propagates the
// error to the router for logging.
func (h *Handlers) sessionFailure(c tele.Context, err error) error {
	if c.Callback() != nil {
		_ = c.Respond(&tele.CallbackResponse{})
	}
	_ = tghelpers.SendText(c, "An error occurred. Please try again later.")
	return err
}

// payload returns the text that followed the command, if any.
func payload(c tele.Context) string {
	if msg := c.Message(); msg != nil {
		return msg.Payload
	}
	return ""
}
