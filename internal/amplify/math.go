package amplify

import (
	"github.com/shopspring/decimal"
)

var (
	// Double 1e36 fixed-point scale used by the reward indices
	Double = decimal.New(1, 36)
	// Exp 1e18 fixed-point scale used by rates and APY
	Exp = decimal.New(1, 18)

	two = decimal.NewFromInt(2)
)

// TruncDiv integer division truncated toward zero. All ledger quantities are
// integer-valued decimals, so QuoRem at precision 0 is exact.
func TruncDiv(a, b decimal.Decimal) decimal.Decimal {
	if b.IsZero() {
		return decimal.Zero
	}

	q, _ := a.QuoRem(b, 0)
	return q
}

// Half splits a per-block speed between the supply and borrow sides.
func Half(speed decimal.Decimal) decimal.Decimal {
	return TruncDiv(speed, two)
}
