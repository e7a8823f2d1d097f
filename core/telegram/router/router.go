// Package router wires incoming text and callback updates to flow handlers,
// registered commands, and action handlers.
package router

import (
	"log/slog"
	"strings"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/logger"
	tg "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram/callbacks"
	tghelpers "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram/helpers"
)

// FlowDispatcher routes free-text turns into an active conversation flow.
type FlowDispatcher interface {
	// ActiveFlow reports the flow name holding a live session for this update, if any.
	ActiveFlow(c tele.Context) (string, bool)
	// HandleFlowText delivers a text turn to the named flow.
	HandleFlowText(flow string, c tele.Context) error
}

// TextOptions controls fallback behaviour for text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoutes builds the OnText route: active flow first, then commands, then fallback.
func TextRoutes(flows FlowDispatcher, reg *tg.Registry, opts TextOptions) []tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if reg != nil && strings.HasPrefix(text, "/") {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				return handleWithSummary(c, normalizeHandlerName(key), start, cmd.Handler)
			}
		}

		if flows != nil {
			if flow, ok := flows.ActiveFlow(c); ok {
				return handleWithSummary(c, "flow."+flow, start, func(c tele.Context) error {
					return flows.HandleFlowText(flow, c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, fb)
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, opts.UnknownText)
		}

		logHandlerSummary(c, "unknown_text", start, nil)
		return nil
	}

	// Recover and logging run as global middlewares; routes stay bare.
	return []tg.Route{
		{Endpoint: tele.OnText, Handler: handler},
	}
}

// CallbackRoute returns a handler that decodes action payloads and routes them
// through the registry.
func CallbackRoute(reg *tg.Registry) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		if c.Callback() == nil {
			return nil
		}

		action, err := callbacks.FromContext(c)
		if err != nil {
			_ = c.Respond()
			logHandlerSummary(c, "callback.undecodable", start, err)
			return nil
		}

		name := "callback." + action.Action
		extras := []slog.Attr{slog.String("action", action.Action)}

		h, ok := reg.GetAction(action.Action)
		if !ok || h == nil {
			fallback := reg.ActionNotFound()
			return handleWithSummary(c, name, start, func(c tele.Context) error {
				if fallback != nil {
					return fallback(c)
				}
				return nil
			}, append(extras, slog.String("reason", "not_found"))...)
		}

		return handleWithSummary(c, name, start, func(c tele.Context) error {
			return h(c, action.WalletID, action.Field, action.To)
		}, extras...)
	}
	return tg.Route{Endpoint: tele.OnCallback, Handler: handler}
}

func handleWithSummary(c tele.Context, handlerName string, start time.Time, fn tele.HandlerFunc, extras ...slog.Attr) error {
	err := fn(c)
	logHandlerSummary(c, handlerName, start, err, extras...)
	return err
}

func logHandlerSummary(c tele.Context, handlerName string, start time.Time, err error, extras ...slog.Attr) {
	ctx := tghelpers.BuildContext(c)

	attrs := []slog.Attr{
		slog.String("status", logger.Status(err)),
		slog.String("handler", handlerName),
		slog.Int64("duration_ms", logger.Took(start).Milliseconds()),
	}
	if err != nil {
		attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
	}
	attrs = append(attrs, extras...)
	logger.Info(ctx, "tg", "handler.handled", attrs...)
}

func normalizeHandlerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unknown"
	}
	name = strings.TrimPrefix(name, "/")
	name = strings.ReplaceAll(name, " ", "_")
	return strings.ToLower(name)
}
