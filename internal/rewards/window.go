package rewards

import (
	"time"

	"github.com/opanasiuk-oleksii/allbridge-liquidity-bot/internal/wallets"
)

// Windows marks which cadence windows a tick falls in.
type Windows struct {
	Hourly bool
	Daily  bool
	Weekly bool
}

// WindowsAt evaluates the tick time against the cadence rules. Hourly fires
// on minute zero; daily at the configured HH:MM; weekly only on Monday at
// that same time.
func WindowsAt(now time.Time, dailyReportTime string) Windows {
	hhmm := now.Format("15:04")
	return Windows{
		Hourly: now.Minute() == 0,
		Daily:  hhmm == dailyReportTime,
		Weekly: now.Weekday() == time.Monday && hhmm == dailyReportTime,
	}
}

// Fires reports whether a subscription with the given report frequency gets
// a windowed report on this tick. Threshold-only subscriptions never do.
func (w Windows) Fires(frequency string) bool {
	switch frequency {
	case wallets.FrequencyHourly:
		return w.Hourly
	case wallets.FrequencyDaily:
		return w.Daily
	case wallets.FrequencyWeekly:
		return w.Weekly
	default:
		return false
	}
}

// Lookback returns the summary interval matching a report frequency.
func Lookback(frequency string) time.Duration {
	switch frequency {
	case wallets.FrequencyDaily:
		return 24 * time.Hour
	case wallets.FrequencyWeekly:
		return 168 * time.Hour
	default:
		return 3 * time.Hour
	}
}
