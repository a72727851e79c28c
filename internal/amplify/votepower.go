package amplify

import (
	"github.com/shopspring/decimal"
)

// FourYears maximum lock duration in seconds.
const FourYears int64 = 4 * 365 * 24 * 60 * 60

var fourYears = decimal.NewFromInt(FourYears)

// VotePower linearly decaying voting weight of a lock:
//
//	trunc(amount / FourYears) * max(0, unlockTime - now)
//
// Exactly zero once the lock has expired.
func VotePower(amount decimal.Decimal, unlockTime, now int64) decimal.Decimal {
	if now >= unlockTime {
		return decimal.Zero
	}

	return TruncDiv(amount, fourYears).Mul(decimal.NewFromInt(unlockTime - now))
}
