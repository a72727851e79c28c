package amplify

import (
	"github.com/shopspring/decimal"
)

// IndexDelta reward index growth over deltaBlocks for one side of a pool:
//
//	(speed/2) * deltaBlocks * 1e36 / total
//
// Zero when the pool holds no balance, so the emission for empty stretches is
// simply never distributed.
func IndexDelta(speed decimal.Decimal, deltaBlocks int64, total decimal.Decimal) decimal.Decimal {
	if deltaBlocks <= 0 || !total.IsPositive() {
		return decimal.Zero
	}

	minted := Half(speed).Mul(decimal.NewFromInt(deltaBlocks)).Mul(Double)
	return TruncDiv(minted, total)
}

// AccruedDelta an account's share of the index growth since its snapshot:
//
//	balance * (newIndex - snapshotIndex) / 1e36
func AccruedDelta(balance, newIndex, snapshotIndex decimal.Decimal) decimal.Decimal {
	delta := newIndex.Sub(snapshotIndex)
	if !delta.IsPositive() || !balance.IsPositive() {
		return decimal.Zero
	}

	return TruncDiv(balance.Mul(delta), Double)
}
