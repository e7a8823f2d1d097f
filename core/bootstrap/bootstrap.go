// Package bootstrap runs the shared startup pipeline: logger, database,
// migrations. Both binaries go through it so they agree on infrastructure.
package bootstrap

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	coreconfig "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/config"
	coredatabase "github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/database"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/logger"
)

// Options control the bootstrap pipeline. The function fields exist so tests
// can substitute fakes; nil fields fall back to the real implementations.
type Options struct {
	Config *coreconfig.Config

	Connect func(coredatabase.Config) (*sqlx.DB, error)
	Migrate func(coredatabase.Config) error
}

// Result exposes infrastructure initialized by the bootstrap pipeline.
type Result struct {
	DB *sqlx.DB
}

// Run initializes the logger, connects to the database, and applies migrations.
func Run(opts Options) (*Result, error) {
	if opts.Config == nil {
		return nil, fmt.Errorf("bootstrap: nil config provided")
	}

	if err := logger.Init(opts.Config.Logging); err != nil {
		return nil, fmt.Errorf("bootstrap: logger init failed: %w", err)
	}

	connect := opts.Connect
	if connect == nil {
		connect = coredatabase.Connect
		if err := coredatabase.WaitForPostgres(opts.Config.Database.DSN(), 30*time.Second); err != nil {
			return nil, fmt.Errorf("bootstrap: database not ready: %w", err)
		}
	}
	db, err := connect(opts.Config.Database)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: database initialization failed: %w", err)
	}

	migrate := opts.Migrate
	if migrate == nil {
		migrate = coredatabase.RunMigrations
	}
	if err := migrate(opts.Config.Database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("bootstrap: migrations failed: %w", err)
	}

	return &Result{DB: db}, nil
}
