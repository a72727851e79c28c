package amplify

import (
	"github.com/shopspring/decimal"
)

// PoolAPY utilization-weighted pool rate at 1e18 scale:
//
//	(totalBorrows * 1e18 / (totalBorrows + totalCash)) * interestRate / 1e18
//
// The division order matters for truncation and must not be refactored.
// Zero when the pool is empty.
func PoolAPY(totalBorrows, totalCash, interestRate decimal.Decimal) decimal.Decimal {
	liquidity := totalBorrows.Add(totalCash)
	if !liquidity.IsPositive() {
		return decimal.Zero
	}

	utilization := TruncDiv(totalBorrows.Mul(Exp), liquidity)
	return TruncDiv(utilization.Mul(interestRate), Exp)
}
