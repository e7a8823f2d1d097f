package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	corebootstrap "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/bootstrap"
	corecmd "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/cmd"
	coreconfig "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/config"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/bot"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/liquidity"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/pools"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/rewards"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/scheduler"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/wallets"
)

func main() {
	once := flag.Bool("once", false, "run a single rewards pass and exit (cron mode)")
	flag.Parse()

	if err := run(*once); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("rewards exited: %v", err)
	}
}

func run(once bool) error {
	cfg, err := coreconfig.Load(corecmd.ConfigPath("config.yaml"))
	if err != nil {
		return err
	}

	res, err := corebootstrap.Run(corebootstrap.Options{Config: cfg})
	if err != nil {
		return err
	}
	defer res.DB.Close()

	notifier, err := bot.NewNotifier(cfg.Telegram.Token)
	if err != nil {
		return err
	}

	poolsClient := pools.NewClient(cfg.Allbridge)
	engine, err := rewards.NewEngine(rewards.Options{
		Wallets:  wallets.NewRepository(res.DB),
		Samples:  rewards.NewRepository(res.DB),
		Fetcher:  liquidity.NewClient(cfg.Allbridge),
		Notifier: notifier,
		LoadCatalog: func(ctx context.Context) (*pools.Catalog, error) {
			return pools.Load(ctx, poolsClient)
		},
		Workers:         cfg.Rewards.Workers,
		DailyReportTime: cfg.Rewards.DailyReportTime,
	})
	if err != nil {
		return err
	}

	ctx, cancel := corecmd.SignalContext()
	defer cancel()

	if once {
		return engine.RunOnce(ctx)
	}
	return scheduler.New(cfg.Rewards.Interval).Run(ctx, func(ctx context.Context, _ time.Time) error {
		return engine.RunOnce(ctx)
	})
}
