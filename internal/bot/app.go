package bot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/config"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/session"
	coretelegram "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/telegram/router"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/flow"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/pools"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/rewards"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/wallets"
)

// App assembles the bot's services over shared infrastructure. The pools
// catalog is loaded once at startup and stays fixed for the process lifetime.
type App struct {
	cfg      *coreconfig.Config
	handlers *Handlers
}

// New builds the application: repositories, catalog, flows, handlers.
func New(ctx context.Context, cfg *coreconfig.Config, db *sqlx.DB) (*App, error) {
	catalog, err := pools.Load(ctx, pools.NewClient(cfg.Allbridge))
	if err != nil {
		return nil, fmt.Errorf("bot: %w", err)
	}

	walletRepo := wallets.NewRepository(db)
	sampleRepo := rewards.NewRepository(db)
	sessions := session.NewPostgresStore(db)

	handlers := NewHandlers(
		sessions,
		&flow.Subscribe{Wallets: walletRepo, Catalog: catalog},
		&flow.Subscriptions{Wallets: walletRepo, Samples: sampleRepo},
	)
	return &App{cfg: cfg, handlers: handlers}, nil
}

// TelegramRunOptions exposes the assembled routes and registry to the
// Telegram runtime.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.handlers.Register(reg)

	routes := router.TextRoutes(a.handlers, reg, router.TextOptions{})
	routes = append(routes, router.CallbackRoute(reg))

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(),
		Routes:      routes,
	}, nil
}
