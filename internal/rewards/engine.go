package rewards

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/shopspring/decimal"

	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/logger"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/liquidity"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/pools"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/wallets"
)

// WalletSource lists the subscriptions to process.
type WalletSource interface {
	ListAll(ctx context.Context) ([]wallets.Wallet, error)
}

// SampleStore reads and appends reward samples.
type SampleStore interface {
	Append(ctx context.Context, walletID int64, reward, balance decimal.Decimal, at time.Time) error
	LastByWallet(ctx context.Context, walletID int64) (*Sample, error)
	InWindow(ctx context.Context, walletID int64, since time.Time) ([]Sample, error)
}

// Fetcher retrieves the live position for an owner and token address.
type Fetcher interface {
	Details(ctx context.Context, ownerAddress, tokenAddress string) (*liquidity.Details, error)
}

// Notifier delivers a Markdown message to a user.
type Notifier interface {
	Notify(ctx context.Context, userID int64, text string) error
}

// CatalogLoader rebuilds the pools catalog, called once per pass.
type CatalogLoader func(ctx context.Context) (*pools.Catalog, error)

// Options wire an Engine.
type Options struct {
	Wallets     WalletSource
	Samples     SampleStore
	Fetcher     Fetcher
	Notifier    Notifier
	LoadCatalog CatalogLoader

	// Workers bounds concurrent wallet processing; 0 means 4.
	Workers int
	// DailyReportTime is the HH:MM at which daily and weekly windows fire.
	DailyReportTime string
	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Engine runs one rewards pass: fetch live data per wallet, record a sample,
// and emit threshold alerts, windowed reports, and per-user rollups.
type Engine struct {
	wallets     WalletSource
	samples     SampleStore
	fetcher     Fetcher
	notifier    Notifier
	loadCatalog CatalogLoader

	workers         int
	dailyReportTime string
	now             func() time.Time
}

// NewEngine validates options and builds an Engine.
func NewEngine(opts Options) (*Engine, error) {
	if opts.Wallets == nil || opts.Samples == nil || opts.Fetcher == nil || opts.Notifier == nil || opts.LoadCatalog == nil {
		return nil, fmt.Errorf("rewards: all engine collaborators are required")
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 4
	}
	reportTime := opts.DailyReportTime
	if reportTime == "" {
		reportTime = "08:00"
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Engine{
		wallets:         opts.Wallets,
		samples:         opts.Samples,
		fetcher:         opts.Fetcher,
		notifier:        opts.Notifier,
		loadCatalog:     opts.LoadCatalog,
		workers:         workers,
		dailyReportTime: reportTime,
		now:             now,
	}, nil
}

// userTotals accumulates the per-user rollup for one pass.
type userTotals struct {
	diffExist    bool
	totalWallets int
	totalRewards decimal.Decimal
	totalBalance decimal.Decimal
}

// rollup is the mutex-guarded totals map shared by the worker pool.
type rollup struct {
	mu     sync.Mutex
	totals map[int64]*userTotals
}

func (r *rollup) entry(userID int64) *userTotals {
	t, ok := r.totals[userID]
	if !ok {
		t = &userTotals{}
		r.totals[userID] = t
	}
	return t
}

// RunOnce executes a single pass. Individual wallet failures are collected
// and reported together; they never abort the rest of the batch.
func (e *Engine) RunOnce(ctx context.Context) error {
	now := e.now()
	windows := WindowsAt(now, e.dailyReportTime)

	catalog, err := e.loadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("rewards pass: %w", err)
	}

	list, err := e.wallets.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("rewards pass: %w", err)
	}
	if len(list) == 0 {
		logger.JOB.Info("no wallet configurations found", slog.String("event", "pass_empty"))
		return nil
	}

	logger.JOB.Info("rewards pass started",
		slog.String("event", "pass_start"),
		slog.Int("wallets", len(list)),
		slog.Bool("hourly_window", windows.Hourly),
		slog.Bool("daily_window", windows.Daily),
		slog.Bool("weekly_window", windows.Weekly),
	)

	totals := &rollup{totals: make(map[int64]*userTotals)}

	var (
		wg     sync.WaitGroup
		errMu  sync.Mutex
		result *multierror.Error
	)
	jobs := make(chan wallets.Wallet)
	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range jobs {
				if err := e.processWallet(ctx, catalog, w, windows, now, totals); err != nil {
					errMu.Lock()
					result = multierror.Append(result, fmt.Errorf("wallet %d: %w", w.ID, err))
					errMu.Unlock()
				}
			}
		}()
	}
	for _, w := range list {
		jobs <- w
	}
	close(jobs)
	wg.Wait()

	e.notifyTotals(ctx, totals)

	if err := result.ErrorOrNil(); err != nil {
		logger.JOB.Warn("rewards pass finished with failures",
			slog.String("event", "pass_done"),
			slog.Int("failed", result.Len()),
		)
		return err
	}
	logger.JOB.Info("rewards pass completed", slog.String("event", "pass_done"))
	return nil
}

func (e *Engine) processWallet(ctx context.Context, catalog *pools.Catalog, w wallets.Wallet, windows Windows, now time.Time, totals *rollup) error {
	totals.mu.Lock()
	entry := totals.entry(w.UserID)
	totals.mu.Unlock()

	meta, ok := catalog.Resolve(w.Blockchain, w.Token)
	if !ok || meta.Address == "" {
		logger.JOB.Debug("wallet skipped, no catalog entry",
			slog.Int64("wallet_id", w.ID),
			slog.String("chain", w.Blockchain),
			slog.String("token", w.Token),
		)
		return nil
	}

	details, err := e.fetcher.Details(ctx, w.WalletAddress, meta.Address)
	if err != nil {
		return fmt.Errorf("liquidity fetch: %w", err)
	}
	if details == nil {
		logger.JOB.Debug("wallet skipped, no position", slog.Int64("wallet_id", w.ID))
		return nil
	}

	last, err := e.samples.LastByWallet(ctx, w.ID)
	if err != nil {
		return err
	}
	prev := decimal.Zero
	if last != nil {
		prev = last.RewardAmount
	}

	diff := details.RewardDebt.Sub(prev).Round(2)
	balance := details.LPAmount.Div(decimal.NewFromInt(1000))

	if err := e.samples.Append(ctx, w.ID, details.RewardDebt, balance, now); err != nil {
		return err
	}

	name := w.DisplayName()

	if diff.GreaterThanOrEqual(w.Threshold) {
		text := fmt.Sprintf("🎉 Your reward for *%s* increased by *%s*.\nNow claimable: *%s* %s\nBalance: *%s* %s",
			name, diff, details.RewardDebt, w.Token, balance, w.Token)
		if err := e.notifier.Notify(ctx, w.UserID, text); err != nil {
			return fmt.Errorf("threshold alert: %w", err)
		}
		totals.mu.Lock()
		entry.diffExist = true
		totals.mu.Unlock()
	}

	if windows.Fires(w.ReportFrequency) {
		lookback := Lookback(w.ReportFrequency)
		samples, err := e.samples.InWindow(ctx, w.ID, now.Add(-lookback))
		if err != nil {
			return err
		}
		text := fmt.Sprintf("📊 Report for *%s*:\n%s", name, Summary(samples, lookback))
		if err := e.notifier.Notify(ctx, w.UserID, text); err != nil {
			return fmt.Errorf("window report: %w", err)
		}
	}

	totals.mu.Lock()
	entry.totalWallets++
	entry.totalRewards = entry.totalRewards.Add(details.RewardDebt)
	entry.totalBalance = entry.totalBalance.Add(balance)
	totals.mu.Unlock()
	return nil
}

// notifyTotals sends the rollup to every user that had threshold activity
// in this pass.
func (e *Engine) notifyTotals(ctx context.Context, totals *rollup) {
	totals.mu.Lock()
	defer totals.mu.Unlock()
	for userID, t := range totals.totals {
		if !t.diffExist {
			continue
		}
		text := fmt.Sprintf("📈 Overview across all your wallets:\nTotal wallets: *%d*\nTotal rewards: *%s*\nTotal balance: *%s*",
			t.totalWallets, t.totalRewards, t.totalBalance)
		if err := e.notifier.Notify(ctx, userID, text); err != nil {
			logger.JOB.Warn("rollup delivery failed",
				slog.Int64("user_id", userID),
				slog.String("error", err.Error()),
			)
		}
	}
}
