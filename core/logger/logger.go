// Package logger configures the application-wide structured logger and
// exposes component-scoped loggers together with context plumbing for
// correlation identifiers.
package logger

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/buildinfo"
)

// Config holds logging settings consumed by Init.
type Config struct {
	Level  string `yaml:"level" envconfig:"LOG_LEVEL"`
	Format string `yaml:"format" envconfig:"LOG_FORMAT"`
}

var (
	initOnce sync.Once
	levelVar slog.LevelVar

	// L is the base logger for call sites that have no component scope.
	L *slog.Logger

	// TG logs Telegram transport events.
	TG *slog.Logger
	// DB logs database events.
	DB *slog.Logger
	// MIG logs database migration events.
	MIG *slog.Logger
	// BOT logs conversation flow events.
	BOT *slog.Logger
	// JOB logs rewards job events.
	JOB *slog.Logger
)

func init() {
	// A usable default until Init runs, so tests and early call sites never nil-deref.
	wire(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &levelVar})))
}

// Init configures the global logger once. Later calls are no-ops.
func Init(cfg Config) error {
	initOnce.Do(func() {
		levelVar.Set(parseLevel(cfg.Level))

		opts := &slog.HandlerOptions{Level: &levelVar}
		var handler slog.Handler
		switch strings.ToLower(strings.TrimSpace(cfg.Format)) {
		case "text", "kv", "pretty":
			handler = slog.NewTextHandler(os.Stdout, opts)
		default:
			handler = slog.NewJSONHandler(os.Stdout, opts)
		}

		logger := slog.New(handler)
		slog.SetDefault(logger)
		wire(logger)

		L.LogAttrs(context.Background(), slog.LevelInfo, "startup",
			slog.String("component", "app"),
			slog.String("event", "startup"),
			slog.String("go_version", runtime.Version()),
			slog.String("build_commit", buildinfo.Commit),
			slog.String("build_time", buildinfo.Date),
		)
	})
	return nil
}

func wire(base *slog.Logger) {
	L = base
	TG = base.With("component", "tg")
	DB = base.With("component", "db")
	MIG = base.With("component", "db.migrate")
	BOT = base.With("component", "bot")
	JOB = base.With("component", "job.rewards")
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Component constructs a logger scoped to the provided component attribute.
func Component(name string) *slog.Logger {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return L
	}
	return L.With("component", trimmed)
}

// Background returns context.Background(), kept for call-site symmetry.
func Background() context.Context {
	return context.Background()
}
