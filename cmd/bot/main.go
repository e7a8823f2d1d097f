package main

import (
	"context"
	"log"

	corebootstrap "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/bootstrap"
	corecmd "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/cmd"
	coreconfig "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/config"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/bot"
)

func main() {
	err := corecmd.RunBot(corecmd.Options{
		DefaultConfigPath: "config.yaml",
		LoadConfig:        coreconfig.Load,
		Bootstrap: func(cfg *coreconfig.Config) (corecmd.TelegramApp, error) {
			res, err := corebootstrap.Run(corebootstrap.Options{Config: cfg})
			if err != nil {
				return nil, err
			}
			return bot.New(context.Background(), cfg, res.DB)
		},
	})
	if err != nil {
		log.Fatalf("bot exited: %v", err)
	}
}
