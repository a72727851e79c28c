package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Lock vote-escrow position, one per address. Delegatee is empty while the
// power is held by the lock owner.
type Lock struct {
	ID         uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Account    string          `sql:"size:64;unique_index:lock_account_idx" json:"account"`
	Amount     decimal.Decimal `sql:"type:decimal(65,0)" json:"amount"`
	UnlockTime int64           `json:"unlock_time"`
	Delegatee  string          `sql:"size:64" json:"delegatee"`
	Version    int64           `sql:"default:0" json:"version"`
	CreatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Delegation delegatee -> delegator edge. Removal deletes the edge row, so
// remaining delegators keep their order (stable-order removal).
type Delegation struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Delegatee string    `sql:"size:64;unique_index:delegation_idx" json:"delegatee"`
	Delegator string    `sql:"size:64;unique_index:delegation_idx" json:"delegator"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// EscrowState single-row aggregate carrying the running locked principal sum.
type EscrowState struct {
	ID          uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	TotalLocked decimal.Decimal `sql:"type:decimal(65,0)" json:"total_locked"`
	Version     int64           `sql:"default:0" json:"version"`
}

// IVoteEscrowStore vote-escrow store interface. Lock writes carry the
// principal delta so TotalLocked moves in the same transaction.
type IVoteEscrowStore interface {
	// FindLock returns a zero-ID lock when the account holds none.
	FindLock(ctx context.Context, account string) (*Lock, error)
	CreateLock(ctx context.Context, lock *Lock) error
	UpdateLock(ctx context.Context, lock *Lock, lockedDelta decimal.Decimal) error
	AllLocks(ctx context.Context) ([]*Lock, error)
	TotalLocked(ctx context.Context) (decimal.Decimal, error)
	ListDelegators(ctx context.Context, delegatee string) ([]*Delegation, error)
	AddDelegation(ctx context.Context, delegatee, delegator string) error
	RemoveDelegation(ctx context.Context, delegatee, delegator string) error
}

// IVoteEscrowService vote-escrow ledger interface.
type IVoteEscrowService interface {
	CreateLock(ctx context.Context, caller string, amount decimal.Decimal, unlockTime int64, now time.Time) error
	IncreaseLockAmount(ctx context.Context, caller string, amount decimal.Decimal, now time.Time) error
	IncreaseLockTime(ctx context.Context, caller string, newUnlockTime int64, now time.Time) error
	DepositFor(ctx context.Context, caller, recipient string, amount decimal.Decimal, now time.Time) error
	Withdraw(ctx context.Context, caller string, now time.Time) (decimal.Decimal, error)
	Delegate(ctx context.Context, caller, to string) error
	BalanceOf(ctx context.Context, account string, now time.Time) (decimal.Decimal, error)
	TotalSupply(ctx context.Context, now time.Time) (decimal.Decimal, error)
	TotalLocked(ctx context.Context) (decimal.Decimal, error)
}
