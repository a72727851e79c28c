package amplify

import (
	"github.com/shopspring/decimal"
)

// VestedDelta linear vesting accrued between the last checkpoint and now:
//
//	amount * (min(now, end) - lastUpdate) / (end - start)
//
// Zero before the schedule starts. The caller caps the result so cumulative
// claims never exceed the entry principal.
func VestedDelta(amount decimal.Decimal, start, end, lastUpdate, now int64) decimal.Decimal {
	if end <= start || now <= start {
		return decimal.Zero
	}

	t := now
	if t > end {
		t = end
	}
	if t <= lastUpdate {
		return decimal.Zero
	}

	elapsed := decimal.NewFromInt(t - lastUpdate)
	duration := decimal.NewFromInt(end - start)

	return TruncDiv(amount.Mul(elapsed), duration)
}
