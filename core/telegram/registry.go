package telegram

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"

	tele "gopkg.in/telebot.v4"

	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/logger"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram/commands"
)

// ActionHandler processes a decoded inline-keyboard action.
type ActionHandler func(c tele.Context, walletID int64, field, to string) error

// Registry holds bot commands and callback action handlers.
type Registry struct {
	commands       map[string]commands.Command
	actions        map[string]ActionHandler
	actionsMu      sync.RWMutex
	actionNotFound tele.HandlerFunc
	textFallback   tele.HandlerFunc
}

// NewRegistry creates an empty Registry with default fallbacks.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]commands.Command),
		actions:  make(map[string]ActionHandler),
		actionNotFound: func(c tele.Context) error {
			return c.Respond(&tele.CallbackResponse{Text: "Unsupported action"})
		},
	}
}

// RegisterCommand adds a new command.
func (r *Registry) RegisterCommand(name string, cmd commands.Command) {
	if r == nil || name == "" || cmd.Handler == nil || cmd.Description == "" {
		logger.TG.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", "invalid"),
		)
		return
	}
	if name[0] != '/' {
		logger.TG.LogAttrs(context.Background(), slog.LevelWarn, "register.command.skip",
			slog.String("name", name),
			slog.String("reason", "no_slash_prefix"),
		)
		return
	}
	if _, exists := r.commands[name]; exists {
		logger.TG.LogAttrs(context.Background(), slog.LevelWarn, "register.command.duplicate",
			slog.String("name", name),
		)
		return
	}
	r.commands[name] = cmd
}

// ListCommands returns a slice of tele.Command, optionally filtering out hidden commands.
func (r *Registry) ListCommands(visibleOnly bool) []tele.Command {
	var list []tele.Command
	for cmd, meta := range r.commands {
		if visibleOnly && meta.Hidden {
			continue
		}
		list = append(list, tele.Command{Text: cmd, Description: meta.Description})
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Text < list[j].Text })
	return list
}

// LookupCommand searches for a command by name or alias and returns the canonical key.
func (r *Registry) LookupCommand(name string) (string, commands.Command, bool) {
	if !strings.HasPrefix(name, "/") {
		name = "/" + name
	}
	if cmd, ok := r.commands[name]; ok {
		return name, cmd, true
	}
	for key, cmd := range r.commands {
		for _, alias := range cmd.Aliases {
			if alias == name || "/"+alias == name {
				return key, cmd, true
			}
		}
	}
	return "", commands.Command{}, false
}

// Commands returns all registered commands.
func (r *Registry) Commands() map[string]commands.Command {
	return r.commands
}

// RegisterAction maps an action name from callback payloads to its handler.
func (r *Registry) RegisterAction(name string, handler ActionHandler) {
	if r == nil || name == "" || handler == nil {
		logger.TG.LogAttrs(context.Background(), slog.LevelWarn, "register.action.skip",
			slog.String("name", name),
		)
		return
	}
	r.actionsMu.Lock()
	defer r.actionsMu.Unlock()
	if _, exists := r.actions[name]; exists {
		logger.TG.LogAttrs(context.Background(), slog.LevelWarn, "register.action.duplicate",
			slog.String("name", name),
		)
		return
	}
	r.actions[name] = handler
}

// GetAction safely returns an action handler by name.
func (r *Registry) GetAction(name string) (ActionHandler, bool) {
	r.actionsMu.RLock()
	defer r.actionsMu.RUnlock()
	h, ok := r.actions[name]
	return h, ok
}

// ListActions returns sorted action names (for diagnostics).
func (r *Registry) ListActions() []string {
	r.actionsMu.RLock()
	defer r.actionsMu.RUnlock()
	names := make([]string, 0, len(r.actions))
	for k := range r.actions {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// SetActionNotFound replaces the fallback handler for unknown actions.
func (r *Registry) SetActionNotFound(h tele.HandlerFunc) {
	if h != nil {
		r.actionNotFound = h
	}
}

// ActionNotFound returns the current fallback action handler.
func (r *Registry) ActionNotFound() tele.HandlerFunc {
	return r.actionNotFound
}

// SetTextFallback sets a global fallback handler for unknown text messages.
func (r *Registry) SetTextFallback(h tele.HandlerFunc) {
	r.textFallback = h
}

// TextFallback returns the current text fallback handler.
func (r *Registry) TextFallback() tele.HandlerFunc {
	return r.textFallback
}

// InitBotCommands sets the Telegram bot commands shown in the command menu.
func InitBotCommands(bot *tele.Bot, reg *Registry) {
	list := reg.ListCommands(true)
	if err := bot.SetCommands(list); err != nil {
		logger.TG.LogAttrs(context.Background(), slog.LevelError, "register.commands.set_failed",
			slog.String("err", err.Error()),
		)
	}
}
