package rewards

import (
	"testing"
	"time"

	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/wallets"
)

func TestWindowsAt(t *testing.T) {
	// 2026-08-24 is a Monday.
	monday0800 := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)
	tuesday0800 := time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC)
	tuesday1500 := time.Date(2026, 8, 25, 15, 0, 0, 0, time.UTC)
	tuesday1517 := time.Date(2026, 8, 25, 15, 17, 0, 0, time.UTC)

	cases := []struct {
		name string
		at   time.Time
		want Windows
	}{
		{"monday 08:00", monday0800, Windows{Hourly: true, Daily: true, Weekly: true}},
		{"tuesday 08:00", tuesday0800, Windows{Hourly: true, Daily: true}},
		{"tuesday 15:00", tuesday1500, Windows{Hourly: true}},
		{"tuesday 15:17", tuesday1517, Windows{}},
	}
	for _, tc := range cases {
		if got := WindowsAt(tc.at, "08:00"); got != tc.want {
			t.Errorf("%s: got %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

func TestWindowsFires(t *testing.T) {
	all := Windows{Hourly: true, Daily: true, Weekly: true}

	for _, freq := range []string{
		wallets.FrequencyHourly,
		wallets.FrequencyDaily,
		wallets.FrequencyWeekly,
	} {
		if !all.Fires(freq) {
			t.Errorf("%s should fire when every window is open", freq)
		}
	}
	if all.Fires(wallets.FrequencyOnThreshold) {
		t.Error("threshold-only subscriptions must never fire on a window")
	}
	if all.Fires("") || all.Fires("Sometimes") {
		t.Error("unknown frequencies must not fire")
	}
	if (Windows{}).Fires(wallets.FrequencyHourly) {
		t.Error("closed windows must not fire")
	}
}

func TestLookback(t *testing.T) {
	if got := Lookback(wallets.FrequencyHourly); got != 3*time.Hour {
		t.Errorf("hourly lookback = %v", got)
	}
	if got := Lookback(wallets.FrequencyDaily); got != 24*time.Hour {
		t.Errorf("daily lookback = %v", got)
	}
	if got := Lookback(wallets.FrequencyWeekly); got != 168*time.Hour {
		t.Errorf("weekly lookback = %v", got)
	}
}
