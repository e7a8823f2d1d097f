// Package config loads the application configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coredatabase "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/database"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/logger"
)

// TelegramConfig holds Telegram bot related settings.
type TelegramConfig struct {
	Token   string `yaml:"token" envconfig:"BOT_TOKEN"`
	RunMode string `yaml:"run_mode" envconfig:"TELEGRAM_RUN_MODE"`
	// LongPollTimeoutSeconds defines long polling timeout; 0 -> default
	LongPollTimeoutSeconds int `yaml:"longpoll_timeout_seconds" envconfig:"TELEGRAM_LONGPOLL_TIMEOUT_SECONDS"`
}

// WebhookConfig specifies webhook settings.
type WebhookConfig struct {
	URL    string `yaml:"url" envconfig:"WEBHOOK_URL"`
	Listen string `yaml:"listen" envconfig:"WEBHOOK_LISTEN"`
	Port   int    `yaml:"port" envconfig:"WEBHOOK_PORT"`
}

// AllbridgeConfig points at the AllBridge Core REST API used for the pools
// catalog and liquidity details.
type AllbridgeConfig struct {
	APIURL         string        `yaml:"api_url" envconfig:"ALLBRIDGE_CORE_API_URL"`
	RequestTimeout time.Duration `yaml:"request_timeout" envconfig:"ALLBRIDGE_REQUEST_TIMEOUT"`
}

// RewardsConfig tunes the rewards polling job.
type RewardsConfig struct {
	// Interval between job passes when running the internal scheduler.
	Interval time.Duration `yaml:"interval" envconfig:"REWARDS_INTERVAL"`
	// Workers bounds the per-pass wallet fan-out.
	Workers int `yaml:"workers" envconfig:"REWARDS_WORKERS"`
	// DailyReportTime is the local HH:MM at which daily and weekly windows fire.
	DailyReportTime string `yaml:"daily_report_time" envconfig:"REWARDS_DAILY_REPORT_TIME"`
}

const (
	// RunModeWebhook selects webhook mode for Telegram updates.
	RunModeWebhook = "webhook"
	// RunModeLongpoll selects long-polling mode for Telegram updates.
	RunModeLongpoll = "longpoll"
)

// Config aggregates the full application configuration.
type Config struct {
	Telegram  TelegramConfig      `yaml:"telegram"`
	Webhook   WebhookConfig       `yaml:"webhook"`
	Logging   logger.Config       `yaml:"logging"`
	Database  coredatabase.Config `yaml:"database"`
	Allbridge AllbridgeConfig     `yaml:"allbridge"`
	Rewards   RewardsConfig       `yaml:"rewards"`
}

// Load reads configuration from a YAML file and environment variables.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := Normalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Normalize performs basic validation of required fields and adjusts defaults.
func Normalize(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("nil config")
	}

	if cfg.Telegram.Token == "" {
		return fmt.Errorf("telegram token is required")
	}

	rm := strings.ToLower(strings.TrimSpace(cfg.Telegram.RunMode))
	if rm == "" {
		rm = RunModeLongpoll
	}
	if rm == "polling" { // accept alias
		rm = RunModeLongpoll
	}
	switch rm {
	case RunModeWebhook:
		if strings.TrimSpace(cfg.Webhook.URL) == "" {
			return fmt.Errorf("webhook.url is required when telegram.run_mode is 'webhook'")
		}
		if strings.TrimSpace(cfg.Webhook.Listen) == "" {
			return fmt.Errorf("webhook.listen is required when telegram.run_mode is 'webhook'")
		}
		if cfg.Webhook.Port <= 0 {
			return fmt.Errorf("webhook.port must be > 0 when telegram.run_mode is 'webhook'")
		}
	case RunModeLongpoll:
		if cfg.Telegram.LongPollTimeoutSeconds < 0 {
			return fmt.Errorf("telegram.longpoll_timeout_seconds must be >= 0")
		}
	default:
		return fmt.Errorf("invalid telegram.run_mode %q; allowed: webhook, longpoll", cfg.Telegram.RunMode)
	}
	cfg.Telegram.RunMode = rm

	if strings.TrimSpace(cfg.Allbridge.APIURL) == "" {
		return fmt.Errorf("allbridge.api_url is required")
	}
	cfg.Allbridge.APIURL = strings.TrimRight(strings.TrimSpace(cfg.Allbridge.APIURL), "/")
	if cfg.Allbridge.RequestTimeout <= 0 {
		cfg.Allbridge.RequestTimeout = 10 * time.Second
	}

	if cfg.Rewards.Interval <= 0 {
		cfg.Rewards.Interval = time.Minute
	}
	if cfg.Rewards.Workers <= 0 {
		cfg.Rewards.Workers = 4
	}
	if strings.TrimSpace(cfg.Rewards.DailyReportTime) == "" {
		cfg.Rewards.DailyReportTime = "08:00"
	}
	if _, err := time.Parse("15:04", cfg.Rewards.DailyReportTime); err != nil {
		return fmt.Errorf("invalid rewards.daily_report_time %q: %w", cfg.Rewards.DailyReportTime, err)
	}

	return nil
}
