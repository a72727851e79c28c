package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// PoolAccess pool access type
type PoolAccess string

const (
	// PoolAccessPublic public pool
	PoolAccessPublic PoolAccess = "PUBLIC"
	// PoolAccessPrivate private pool
	PoolAccessPrivate PoolAccess = "PRIVATE"
)

// IsValid valid access type
func (a PoolAccess) IsValid() bool {
	return a == PoolAccessPublic || a == PoolAccessPrivate
}

// Pool lending pool registry entry. The pool vehicle itself is a collaborator
// ledger; the registry mirrors the read-only accessors the reward engine and
// the APY query consume (total cash, borrows, supply, principal, rate).
type Pool struct {
	ID             uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Address        string          `sql:"size:64;unique_index:pool_address_idx" json:"address"`
	Name           string          `sql:"size:64" json:"name"`
	Owner          string          `sql:"size:64" json:"owner"`
	StableCoin     string          `sql:"size:64" json:"stable_coin"`
	MinDeposit     decimal.Decimal `sql:"type:decimal(65,0)" json:"min_deposit"`
	Access         PoolAccess      `sql:"size:10" json:"access"`
	IsActive       bool            `sql:"default:true" json:"is_active"`
	AmptSpeed      decimal.Decimal `sql:"type:decimal(65,0)" json:"ampt_speed"`
	InterestRate   decimal.Decimal `sql:"type:decimal(65,0)" json:"interest_rate"`
	TotalCash      decimal.Decimal `sql:"type:decimal(65,0)" json:"total_cash"`
	TotalBorrows   decimal.Decimal `sql:"type:decimal(65,0)" json:"total_borrows"`
	TotalSupply    decimal.Decimal `sql:"type:decimal(65,0)" json:"total_supply"`
	TotalPrincipal decimal.Decimal `sql:"type:decimal(65,0)" json:"total_principal"`
	Version        int64           `sql:"default:0" json:"version"`
	CreatedAt      time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// PoolApplication lender whitelisting request, keyed by (pool, slot). At most
// one pending (created and not yet whitelisted) application per pool exists at
// a time; withdrawing deletes the row and frees the pool for a new request.
type PoolApplication struct {
	ID            uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Pool          string          `sql:"size:64;unique_index:app_pool_slot_idx" json:"pool"`
	Slot          int64           `sql:"unique_index:app_pool_slot_idx" json:"slot"`
	Lender        string          `sql:"size:64" json:"lender"`
	DepositAmount decimal.Decimal `sql:"type:decimal(65,0)" json:"deposit_amount"`
	Whitelisted   bool            `sql:"default:false" json:"whitelisted"`
	Version       int64           `sql:"default:0" json:"version"`
	CreatedAt     time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IPoolStore pool registry store interface
type IPoolStore interface {
	Save(ctx context.Context, pool *Pool) error
	Find(ctx context.Context, address string) (*Pool, error)
	Update(ctx context.Context, pool *Pool) error
	All(ctx context.Context) ([]*Pool, error)
}

// IApplicationStore pool application store interface
type IApplicationStore interface {
	Create(ctx context.Context, application *PoolApplication) error
	Find(ctx context.Context, pool string, slot int64) (*PoolApplication, error)
	// FindPending returns the zero-ID application when no request is pending.
	FindPending(ctx context.Context, pool string) (*PoolApplication, error)
	Update(ctx context.Context, application *PoolApplication) error
	Delete(ctx context.Context, id uint64) error
	CountByPool(ctx context.Context, pool string) (int64, error)
	ListByPool(ctx context.Context, pool string) ([]*PoolApplication, error)
}
