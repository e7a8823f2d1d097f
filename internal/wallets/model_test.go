package wallets

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestDefaultName(t *testing.T) {
	if got := DefaultName("ETH", "USDT", "0xabc"); got != "ETH-USDT-0xabc" {
		t.Fatalf("DefaultName = %q", got)
	}

	w := Wallet{Blockchain: "ARB", Token: "USDC", WalletAddress: "0x1"}
	if got := w.DisplayName(); got != "ARB-USDC-0x1" {
		t.Fatalf("DisplayName fallback = %q", got)
	}
	w.Name = "my pool"
	if got := w.DisplayName(); got != "my pool" {
		t.Fatalf("DisplayName = %q", got)
	}
}

func TestShortAddress(t *testing.T) {
	if got := ShortAddress("0x1234567890abcdef"); got != "0x123…bcdef" {
		t.Fatalf("ShortAddress = %q", got)
	}
	if got := ShortAddress("0x1234"); got != "0x1234" {
		t.Fatalf("short input must pass through, got %q", got)
	}
}

func TestParseThreshold(t *testing.T) {
	if got := ParseThreshold(" 12.5 "); !got.Equal(decimal.RequireFromString("12.5")) {
		t.Fatalf("ParseThreshold = %s", got)
	}
	if got := ParseThreshold("not a number"); !got.IsZero() {
		t.Fatalf("junk input must fall back to zero, got %s", got)
	}
}

func TestParseEditField(t *testing.T) {
	for _, raw := range []string{"name", "report_frequency", "threshold"} {
		if _, ok := ParseEditField(raw); !ok {
			t.Errorf("%q must be editable", raw)
		}
	}
	for _, raw := range []string{"", "user_id", "wallet_address", "NAME", "id"} {
		if _, ok := ParseEditField(raw); ok {
			t.Errorf("%q must be rejected", raw)
		}
	}
}
