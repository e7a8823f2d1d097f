package rewards

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/liquidity"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/pools"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/wallets"
)

type fakeWalletSource struct {
	list []wallets.Wallet
}

func (f *fakeWalletSource) ListAll(context.Context) ([]wallets.Wallet, error) {
	return f.list, nil
}

type fakeSampleStore struct {
	mu       sync.Mutex
	last     map[int64]*Sample
	window   map[int64][]Sample
	appended []Sample
}

func (f *fakeSampleStore) Append(_ context.Context, walletID int64, reward, balance decimal.Decimal, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, Sample{WalletID: walletID, RewardAmount: reward, BalanceAmount: balance, CreatedAt: at})
	return nil
}

func (f *fakeSampleStore) LastByWallet(_ context.Context, walletID int64) (*Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last[walletID], nil
}

func (f *fakeSampleStore) InWindow(_ context.Context, walletID int64, _ time.Time) ([]Sample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.window[walletID], nil
}

type fakeFetcher struct {
	details map[string]*liquidity.Details
	err     error
}

func (f *fakeFetcher) Details(_ context.Context, owner, _ string) (*liquidity.Details, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.details[owner], nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages map[int64][]string
}

func (f *fakeNotifier) Notify(_ context.Context, userID int64, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.messages == nil {
		f.messages = make(map[int64][]string)
	}
	f.messages[userID] = append(f.messages[userID], text)
	return nil
}

func (f *fakeNotifier) all(userID int64) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.messages[userID]
}

func testCatalog() *pools.Catalog {
	return pools.Build([]pools.Chain{
		{
			Name:        "Ethereum",
			ChainSymbol: "ETH",
			Tokens:      []pools.Token{{Symbol: "USDT", TokenAddress: "0xdead", Decimals: 6}},
		},
	})
}

func testWallet(id, userID int64, freq, threshold string) wallets.Wallet {
	return wallets.Wallet{
		ID:              id,
		UserID:          userID,
		Name:            "my-wallet",
		Blockchain:      "ETH",
		Token:           "USDT",
		WalletAddress:   "0xowner",
		ReportFrequency: freq,
		Threshold:       decimal.RequireFromString(threshold),
	}
}

func newTestEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	if opts.LoadCatalog == nil {
		opts.LoadCatalog = func(context.Context) (*pools.Catalog, error) {
			return testCatalog(), nil
		}
	}
	if opts.Now == nil {
		// Minute 17 keeps every cadence window closed.
		opts.Now = func() time.Time {
			return time.Date(2026, 8, 25, 15, 17, 0, 0, time.UTC)
		}
	}
	engine, err := NewEngine(opts)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func TestRunOnceThresholdAlert(t *testing.T) {
	store := &fakeSampleStore{
		last: map[int64]*Sample{
			1: {WalletID: 1, RewardAmount: decimal.RequireFromString("100")},
		},
	}
	notifier := &fakeNotifier{}
	engine := newTestEngine(t, Options{
		Wallets: &fakeWalletSource{list: []wallets.Wallet{testWallet(1, 77, wallets.FrequencyOnThreshold, "5")}},
		Samples: store,
		Fetcher: &fakeFetcher{details: map[string]*liquidity.Details{
			"0xowner": {RewardDebt: decimal.RequireFromString("107"), LPAmount: decimal.RequireFromString("5000")},
		}},
		Notifier: notifier,
	})

	if err := engine.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if len(store.appended) != 1 {
		t.Fatalf("expected exactly one appended sample, got %d", len(store.appended))
	}
	got := store.appended[0]
	if !got.RewardAmount.Equal(decimal.RequireFromString("107")) {
		t.Errorf("sample reward = %s", got.RewardAmount)
	}
	if !got.BalanceAmount.Equal(decimal.RequireFromString("5")) {
		t.Errorf("sample balance = %s", got.BalanceAmount)
	}

	msgs := notifier.all(77)
	if len(msgs) != 2 {
		t.Fatalf("expected alert plus rollup, got %d messages: %v", len(msgs), msgs)
	}
	if !strings.Contains(msgs[0], "increased by *7*") {
		t.Errorf("alert missing delta: %q", msgs[0])
	}
	if !strings.Contains(msgs[0], "Now claimable: *107* USDT") {
		t.Errorf("alert missing claimable amount: %q", msgs[0])
	}
	if !strings.Contains(msgs[0], "Balance: *5* USDT") {
		t.Errorf("alert missing balance: %q", msgs[0])
	}
	if !strings.Contains(msgs[1], "Overview across all your wallets") {
		t.Errorf("rollup not sent after threshold activity: %q", msgs[1])
	}
	if !strings.Contains(msgs[1], "Total wallets: *1*") {
		t.Errorf("rollup wallet count wrong: %q", msgs[1])
	}
}

func TestRunOnceBelowThresholdStaysQuiet(t *testing.T) {
	store := &fakeSampleStore{
		last: map[int64]*Sample{
			1: {WalletID: 1, RewardAmount: decimal.RequireFromString("100")},
		},
	}
	notifier := &fakeNotifier{}
	engine := newTestEngine(t, Options{
		Wallets: &fakeWalletSource{list: []wallets.Wallet{testWallet(1, 77, wallets.FrequencyOnThreshold, "5")}},
		Samples: store,
		Fetcher: &fakeFetcher{details: map[string]*liquidity.Details{
			"0xowner": {RewardDebt: decimal.RequireFromString("102"), LPAmount: decimal.RequireFromString("5000")},
		}},
		Notifier: notifier,
	})

	if err := engine.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	if len(store.appended) != 1 {
		t.Fatalf("sample must be appended even without notifications, got %d", len(store.appended))
	}
	if msgs := notifier.all(77); len(msgs) != 0 {
		t.Fatalf("no messages expected below threshold, got %v", msgs)
	}
}

func TestRunOnceFirstSampleTreatsPriorAsZero(t *testing.T) {
	store := &fakeSampleStore{}
	notifier := &fakeNotifier{}
	engine := newTestEngine(t, Options{
		Wallets: &fakeWalletSource{list: []wallets.Wallet{testWallet(1, 77, wallets.FrequencyOnThreshold, "5")}},
		Samples: store,
		Fetcher: &fakeFetcher{details: map[string]*liquidity.Details{
			"0xowner": {RewardDebt: decimal.RequireFromString("6"), LPAmount: decimal.RequireFromString("1000")},
		}},
		Notifier: notifier,
	})

	if err := engine.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	msgs := notifier.all(77)
	if len(msgs) != 2 || !strings.Contains(msgs[0], "increased by *6*") {
		t.Fatalf("expected alert on first observation, got %v", msgs)
	}
}

func TestRunOnceWindowReport(t *testing.T) {
	base := time.Date(2026, 8, 25, 15, 0, 0, 0, time.UTC)
	store := &fakeSampleStore{
		last: map[int64]*Sample{
			1: {WalletID: 1, RewardAmount: decimal.RequireFromString("100")},
		},
		window: map[int64][]Sample{
			1: {
				sample("100", "5", base.Add(-2*time.Hour)),
				sample("101.5", "5", base.Add(-time.Hour)),
			},
		},
	}
	notifier := &fakeNotifier{}
	engine := newTestEngine(t, Options{
		Wallets: &fakeWalletSource{list: []wallets.Wallet{testWallet(1, 77, wallets.FrequencyHourly, "1000")}},
		Samples: store,
		Fetcher: &fakeFetcher{details: map[string]*liquidity.Details{
			"0xowner": {RewardDebt: decimal.RequireFromString("101.5"), LPAmount: decimal.RequireFromString("5000")},
		}},
		Notifier: notifier,
		Now:      func() time.Time { return base },
	})

	if err := engine.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}

	msgs := notifier.all(77)
	if len(msgs) != 1 {
		t.Fatalf("expected a single window report, got %v", msgs)
	}
	if !strings.HasPrefix(msgs[0], "📊 Report for *my-wallet*:") {
		t.Errorf("report header wrong: %q", msgs[0])
	}
	if !strings.Contains(msgs[0], "rewards: + 1.5") {
		t.Errorf("report missing delta line: %q", msgs[0])
	}
}

func TestRunOnceSkipsUnknownCatalogEntry(t *testing.T) {
	w := testWallet(1, 77, wallets.FrequencyOnThreshold, "5")
	w.Token = "GONE"
	store := &fakeSampleStore{}
	notifier := &fakeNotifier{}
	engine := newTestEngine(t, Options{
		Wallets:  &fakeWalletSource{list: []wallets.Wallet{w}},
		Samples:  store,
		Fetcher:  &fakeFetcher{},
		Notifier: notifier,
	})

	if err := engine.RunOnce(context.Background()); err != nil {
		t.Fatalf("catalog drift must not fail the pass: %v", err)
	}
	if len(store.appended) != 0 {
		t.Fatal("skipped wallet must not record a sample")
	}
}

func TestRunOnceCollectsFailuresAndContinues(t *testing.T) {
	broken := testWallet(1, 77, wallets.FrequencyOnThreshold, "5")
	healthy := testWallet(2, 88, wallets.FrequencyOnThreshold, "5")
	healthy.WalletAddress = "0xother"

	store := &fakeSampleStore{}
	notifier := &fakeNotifier{}
	engine := newTestEngine(t, Options{
		Wallets: &fakeWalletSource{list: []wallets.Wallet{broken, healthy}},
		Samples: store,
		Fetcher: &fakeFetcher{details: map[string]*liquidity.Details{
			// broken's owner address resolves to nil after the injected error
			// below; give healthy a real position.
			"0xother": {RewardDebt: decimal.RequireFromString("50"), LPAmount: decimal.RequireFromString("2000")},
		}},
		Notifier: notifier,
		Workers:  1,
	})
	// Swap in a fetcher that fails only for the broken wallet.
	engine.fetcher = fetchFunc(func(_ context.Context, owner, token string) (*liquidity.Details, error) {
		if owner == "0xowner" {
			return nil, errors.New("upstream down")
		}
		return &liquidity.Details{RewardDebt: decimal.RequireFromString("50"), LPAmount: decimal.RequireFromString("2000")}, nil
	})

	err := engine.RunOnce(context.Background())
	if err == nil {
		t.Fatal("expected aggregated failure")
	}
	if !strings.Contains(err.Error(), "upstream down") {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.appended) != 1 || store.appended[0].WalletID != 2 {
		t.Fatalf("healthy wallet must still be processed: %+v", store.appended)
	}
}

type fetchFunc func(ctx context.Context, owner, token string) (*liquidity.Details, error)

func (f fetchFunc) Details(ctx context.Context, owner, token string) (*liquidity.Details, error) {
	return f(ctx, owner, token)
}
