package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RewardSide reward index side
type RewardSide string

const (
	// RewardSideSupply supplier side
	RewardSideSupply RewardSide = "supply"
	// RewardSideBorrow borrower side
	RewardSideBorrow RewardSide = "borrow"
)

// RewardsState per-pool dual reward index, 1e36 fixed-point, keyed by block.
type RewardsState struct {
	ID          uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Pool        string          `sql:"size:64;unique_index:rewards_pool_idx" json:"pool"`
	SupplyIndex decimal.Decimal `sql:"type:decimal(65,0)" json:"supply_index"`
	SupplyBlock int64           `json:"supply_block"`
	BorrowIndex decimal.Decimal `sql:"type:decimal(65,0)" json:"borrow_index"`
	BorrowBlock int64           `json:"borrow_block"`
	Version     int64           `sql:"default:0" json:"version"`
	CreatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// RewardUserState per-(account, pool, side) index snapshot and accrued
// rewards. Rows are created the first time a pair accrues and never deleted,
// which doubles as the append-only pool-membership list per account.
type RewardUserState struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Account   string          `sql:"size:64;unique_index:reward_user_idx" json:"account"`
	Pool      string          `sql:"size:64;unique_index:reward_user_idx" json:"pool"`
	Side      RewardSide      `sql:"size:8;unique_index:reward_user_idx" json:"side"`
	Index     decimal.Decimal `sql:"type:decimal(65,0)" json:"index"`
	Accrued   decimal.Decimal `sql:"type:decimal(65,0)" json:"accrued"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IRewardsStore rewards store interface
type IRewardsStore interface {
	// FindState returns a zero-ID state when the pool has never accrued.
	FindState(ctx context.Context, pool string) (*RewardsState, error)
	SaveState(ctx context.Context, state *RewardsState) error
	UpdateState(ctx context.Context, state *RewardsState) error
	// FindUser returns a zero-ID row when the pair has never accrued.
	FindUser(ctx context.Context, account, pool string, side RewardSide) (*RewardUserState, error)
	SaveUser(ctx context.Context, state *RewardUserState) error
	UpdateUser(ctx context.Context, state *RewardUserState) error
	ListByAccount(ctx context.Context, account string, side RewardSide) ([]*RewardUserState, error)
	// FlushByAccount zeroes the accrued amount on every row belonging to the
	// account in a single transaction and returns the flushed total.
	FlushByAccount(ctx context.Context, account string) (decimal.Decimal, error)
}

// IRewardsService reward accrual engine interface. Index syncing is lazy:
// indices move only when a supply or borrow affecting action calls in, so the
// read methods can report stale accrued values between actions.
type IRewardsService interface {
	LendAllowed(ctx context.Context, pool, account string, supplyBalance decimal.Decimal, t time.Time) error
	BorrowAllowed(ctx context.Context, pool, account string, borrowBalance decimal.Decimal, t time.Time) error
	AccruePool(ctx context.Context, pool string, t time.Time) error
	GetSupplyReward(ctx context.Context, account, pool string) (decimal.Decimal, error)
	GetBorrowReward(ctx context.Context, account, pool string) (decimal.Decimal, error)
	GetTotalSupplyReward(ctx context.Context, account string) (decimal.Decimal, error)
	GetTotalBorrowReward(ctx context.Context, account string) (decimal.Decimal, error)
	ClaimAMPT(ctx context.Context, account string) (decimal.Decimal, error)
}
