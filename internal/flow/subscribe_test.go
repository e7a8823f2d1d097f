package flow

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/core/session"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/pools"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/rewards"
	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/wallets"
)

type fakeWalletStore struct {
	created   []wallets.Wallet
	wallets   map[int64]*wallets.Wallet
	deleted   []int64
	edits     []appliedEdit
	createErr error
}

type appliedEdit struct {
	walletID int64
	field    wallets.EditField
	value    string
}

func newFakeWalletStore() *fakeWalletStore {
	return &fakeWalletStore{wallets: make(map[int64]*wallets.Wallet)}
}

func (f *fakeWalletStore) Create(_ context.Context, w *wallets.Wallet) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	id := int64(len(f.created) + 1)
	w.ID = id
	f.created = append(f.created, *w)
	f.wallets[id] = w
	return id, nil
}

func (f *fakeWalletStore) Get(_ context.Context, userID, id int64) (*wallets.Wallet, error) {
	w, ok := f.wallets[id]
	if !ok || w.UserID != userID {
		return nil, wallets.ErrNotFound
	}
	out := *w
	return &out, nil
}

func (f *fakeWalletStore) ListByUser(_ context.Context, userID int64) ([]wallets.Wallet, error) {
	var out []wallets.Wallet
	for id := int64(1); id <= int64(len(f.wallets))+int64(len(f.deleted)); id++ {
		if w, ok := f.wallets[id]; ok && w.UserID == userID {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (f *fakeWalletStore) Delete(_ context.Context, userID, id int64) error {
	if w, ok := f.wallets[id]; ok && w.UserID == userID {
		delete(f.wallets, id)
		f.deleted = append(f.deleted, id)
	}
	return nil
}

func (f *fakeWalletStore) ApplyEdit(_ context.Context, userID, id int64, field wallets.EditField, value string) error {
	f.edits = append(f.edits, appliedEdit{walletID: id, field: field, value: value})
	return nil
}

type fakeSampleReader struct {
	latest map[int64]rewards.Sample
}

func (f *fakeSampleReader) LatestByUser(context.Context, int64) (map[int64]rewards.Sample, error) {
	return f.latest, nil
}

func (f *fakeSampleReader) LastByWallet(_ context.Context, walletID int64) (*rewards.Sample, error) {
	if s, ok := f.latest[walletID]; ok {
		return &s, nil
	}
	return nil, nil
}

func wizardCatalog() *pools.Catalog {
	return pools.Build([]pools.Chain{
		{
			Name:        "Ethereum",
			ChainSymbol: "ETH",
			Tokens: []pools.Token{
				{Symbol: "USDT", TokenAddress: "0x1", Decimals: 6},
				{Symbol: "USDC", TokenAddress: "0x2", Decimals: 6},
			},
		},
		{
			Name:        "Arbitrum",
			ChainSymbol: "ARB",
			Tokens:      []pools.Token{{Symbol: "USDC", TokenAddress: "0x3", Decimals: 6}},
		},
	})
}

func newWizard(store WalletStore) *Subscribe {
	return &Subscribe{Wallets: store, Catalog: wizardCatalog()}
}

func turn(t *testing.T, f *Subscribe, s *session.Session, text string) Result {
	t.Helper()
	res, err := f.Handle(context.Background(), s, text)
	if err != nil {
		t.Fatalf("turn %q: %v", text, err)
	}
	return res
}

func TestSubscribeFullTranscript(t *testing.T) {
	store := newFakeWalletStore()
	f := newWizard(store)
	s := session.New(7, 7, session.FlowSubscribe)

	res := turn(t, f, s, "")
	if s.State != 0 {
		t.Fatalf("first empty turn must stay at state 0, got %d", s.State)
	}
	if res.Replies[0].Text != "Select the blockchain for your wallet:" {
		t.Fatalf("unexpected prompt: %q", res.Replies[0].Text)
	}
	if rows := res.Replies[0].Keyboard.Reply; len(rows) != 1 || len(rows[0]) != 2 {
		t.Fatalf("expected one chain row with two buttons, got %v", rows)
	}

	turn(t, f, s, "Ethereum")
	if s.State != 1 || s.Note("blockchain") != "ETH" {
		t.Fatalf("chain step: state=%d notes=%v", s.State, s.Notes)
	}

	turn(t, f, s, "USDT")
	if s.State != 2 || s.Note("token") != "USDT" {
		t.Fatalf("token step: state=%d notes=%v", s.State, s.Notes)
	}

	turn(t, f, s, "0xabcdef")
	if s.State != 3 {
		t.Fatalf("address step: state=%d", s.State)
	}

	turn(t, f, s, wallets.FrequencyHourly)
	if s.State != 4 {
		t.Fatalf("frequency step: state=%d", s.State)
	}

	res = turn(t, f, s, "5")
	if !res.End {
		t.Fatal("finalize must end the session")
	}
	if res.Replies[0].Keyboard == nil || !res.Replies[0].Keyboard.Remove {
		t.Fatal("confirmation must remove the reply keyboard")
	}
	if !strings.Contains(res.Replies[0].Text, "successfully added") {
		t.Fatalf("unexpected confirmation: %q", res.Replies[0].Text)
	}

	if len(store.created) != 1 {
		t.Fatalf("expected exactly one created wallet, got %d", len(store.created))
	}
	w := store.created[0]
	if w.UserID != 7 || w.Blockchain != "ETH" || w.Token != "USDT" ||
		w.WalletAddress != "0xabcdef" || w.ReportFrequency != wallets.FrequencyHourly {
		t.Fatalf("created wallet fields wrong: %+v", w)
	}
	if !w.Threshold.Equal(decimal.RequireFromString("5")) {
		t.Fatalf("threshold = %s", w.Threshold)
	}
	if w.Name != "ETH-USDT-0xabcdef" {
		t.Fatalf("default name = %q", w.Name)
	}
}

func TestSubscribeRejectsUnknownChainAndToken(t *testing.T) {
	store := newFakeWalletStore()
	f := newWizard(store)
	s := session.New(7, 7, session.FlowSubscribe)

	res := turn(t, f, s, "Dogecoin")
	if s.State != 0 {
		t.Fatalf("invalid chain must not advance, state=%d", s.State)
	}
	if !strings.Contains(res.Replies[0].Text, "Invalid blockchain") {
		t.Fatalf("unexpected re-prompt: %q", res.Replies[0].Text)
	}

	turn(t, f, s, "Arbitrum")
	res = turn(t, f, s, "USDT")
	if s.State != 1 {
		t.Fatalf("token absent on chain must not advance, state=%d", s.State)
	}
	if !strings.Contains(res.Replies[0].Text, "Invalid token") {
		t.Fatalf("unexpected re-prompt: %q", res.Replies[0].Text)
	}
	if len(store.created) != 0 {
		t.Fatal("nothing must be persisted before finalize")
	}
}

func TestSubscribeEmptyInputsReprompt(t *testing.T) {
	f := newWizard(newFakeWalletStore())
	s := session.New(7, 7, session.FlowSubscribe)

	steps := []struct {
		advance string
		want    string
	}{
		{"Ethereum", "Please select the token:"},
		{"USDT", "Please enter your wallet address:"},
		{"0xabc", "Please select the report frequency:"},
		{wallets.FrequencyWeekly, "Please select the reward threshold:"},
	}
	for i, step := range steps {
		turn(t, f, s, step.advance)
		before := s.State
		res := turn(t, f, s, "   ")
		if s.State != before {
			t.Fatalf("step %d: empty input advanced state from %d to %d", i, before, s.State)
		}
		if res.Replies[0].Text != step.want {
			t.Fatalf("step %d reprompt = %q, want %q", i, res.Replies[0].Text, step.want)
		}
	}
}

func TestSubscribeUnknownStateClearsSession(t *testing.T) {
	f := newWizard(newFakeWalletStore())
	s := session.New(7, 7, session.FlowSubscribe)
	s.State = 42

	res := turn(t, f, s, "whatever")
	if !res.End {
		t.Fatal("unknown state must end the session")
	}
	if res.Replies[0].Text != "Something went wrong. Please try again." {
		t.Fatalf("unexpected failure text: %q", res.Replies[0].Text)
	}
}

func TestSubscribeFinalizeFailureStillClears(t *testing.T) {
	store := newFakeWalletStore()
	store.createErr = errors.New("insert failed")
	f := newWizard(store)
	s := session.New(7, 7, session.FlowSubscribe)

	turn(t, f, s, "Ethereum")
	turn(t, f, s, "USDT")
	turn(t, f, s, "0xabc")
	turn(t, f, s, wallets.FrequencyDaily)
	res := turn(t, f, s, "10")

	if !res.End {
		t.Fatal("failed finalize must still clear the session")
	}
	if res.Replies[0].Text != "An error occurred. Please try again later." {
		t.Fatalf("unexpected failure text: %q", res.Replies[0].Text)
	}
}
