package rewards

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Summary renders the change log for a wallet's samples over a lookback
// interval. Deltas are computed between consecutive rounded samples; rows
// where neither reward nor balance moved are omitted and do not advance the
// comparison baseline. The trailing totals only appear when positive.
func Summary(samples []Sample, lookback time.Duration) string {
	if len(samples) == 0 {
		return "There are no records yet."
	}

	var b strings.Builder
	totalRewards := decimal.Zero
	totalBalance := decimal.Zero
	lastReward := samples[0].RewardAmount.Round(2)
	lastBalance := samples[0].BalanceAmount.Round(2)

	for _, s := range samples {
		reward := s.RewardAmount.Round(2)
		balance := s.BalanceAmount.Round(2)
		diffReward := reward.Sub(lastReward)
		diffBalance := balance.Sub(lastBalance)
		if diffReward.IsZero() && diffBalance.IsZero() {
			continue
		}
		totalRewards = totalRewards.Add(diffReward)
		totalBalance = totalBalance.Add(diffBalance)

		// The sign marker is independent of the rendered value, which keeps
		// its own minus for negative deltas.
		sign := "-"
		if diffReward.IsPositive() {
			sign = "+"
		}
		b.WriteString(s.CreatedAt.Format("15:04:05"))
		b.WriteString(" – rewards: ")
		b.WriteString(sign)
		b.WriteString(" ")
		b.WriteString(diffReward.String())
		if diffBalance.IsPositive() {
			b.WriteString(" | balance: ")
			b.WriteString(diffBalance.String())
		}
		b.WriteString(" \n")

		lastReward = reward
		lastBalance = balance
	}

	if totalRewards.IsZero() && totalBalance.IsZero() && len(samples) > 1 {
		return "No balance change recorded in the last " + intervalLabel(lookback) + "."
	}
	if totalRewards.IsPositive() {
		b.WriteString("\nTotal rewards change: +")
		b.WriteString(totalRewards.String())
	}
	if totalBalance.IsPositive() {
		b.WriteString("\nTotal balance change: +")
		b.WriteString(totalBalance.String())
	}
	return b.String()
}

func intervalLabel(lookback time.Duration) string {
	switch {
	case lookback == 168*time.Hour:
		return "week"
	case lookback == 24*time.Hour:
		return "day"
	case lookback < 24*time.Hour:
		return "hour"
	default:
		return ""
	}
}
