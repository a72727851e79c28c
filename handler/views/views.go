package views

import (
	"amplify/core"

	"github.com/shopspring/decimal"
)

// Pool pool registry entry with its quoted rate
type Pool struct {
	core.Pool
	APY decimal.Decimal `json:"apy"`
}

// Rewards per-account reward totals
type Rewards struct {
	Account     string          `json:"account"`
	SupplyTotal decimal.Decimal `json:"supply_total"`
	BorrowTotal decimal.Decimal `json:"borrow_total"`
}

// Votes per-account vote power
type Votes struct {
	Account string          `json:"account"`
	Power   decimal.Decimal `json:"power"`
}

// VoteSupply global vote power and principal
type VoteSupply struct {
	TotalSupply decimal.Decimal `json:"total_supply"`
	TotalLocked decimal.Decimal `json:"total_locked"`
}
