package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// VestingEntry per-recipient grant schedule. Amount holds the entry principal
// after any immediate unlock; claims do not reduce it, claimed value is
// tracked by advancing LastUpdate and accumulating Claimed. Firing freezes
// Amount at the vested-as-of-fire value and stops all further accrual.
type VestingEntry struct {
	ID         uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Recipient  string          `sql:"size:64;index:vesting_recipient_idx" json:"recipient"`
	Amount     decimal.Decimal `sql:"type:decimal(65,0)" json:"amount"`
	Start      int64           `json:"start"`
	End        int64           `json:"end"`
	Cliff      int64           `json:"cliff"`
	LastUpdate int64           `json:"last_update"`
	Claimed    decimal.Decimal `sql:"type:decimal(65,0)" json:"claimed"`
	Revocable  bool            `sql:"default:false" json:"revocable"`
	Fired      bool            `sql:"default:false" json:"fired"`
	Version    int64           `sql:"default:0" json:"version"`
	CreatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// VestingEntryReq createEntry parameters.
type VestingEntryReq struct {
	Recipient      string          `json:"recipient"`
	Amount         decimal.Decimal `json:"amount"`
	Start          int64           `json:"start"`
	End            int64           `json:"end"`
	Cliff          int64           `json:"cliff"`
	UnlockedAmount decimal.Decimal `json:"unlocked_amount"`
	Revocable      bool            `json:"revocable"`
}

// VestingEntryView read-only projection of an entry with its vested amount.
type VestingEntryView struct {
	ID        uint64          `json:"id"`
	Recipient string          `json:"recipient"`
	Amount    decimal.Decimal `json:"amount"`
	Claimed   decimal.Decimal `json:"claimed"`
	Start     int64           `json:"start"`
	End       int64           `json:"end"`
	Cliff     int64           `json:"cliff"`
	Revocable bool            `json:"revocable"`
	Fired     bool            `json:"fired"`
	Vested    decimal.Decimal `json:"vested"`
}

// IVestingStore vesting store interface
type IVestingStore interface {
	Create(ctx context.Context, entry *VestingEntry) error
	// CreateBatch persists all entries inside one transaction.
	CreateBatch(ctx context.Context, entries []*VestingEntry) error
	Find(ctx context.Context, id uint64) (*VestingEntry, error)
	ListByRecipient(ctx context.Context, recipient string) ([]*VestingEntry, error)
	Update(ctx context.Context, entry *VestingEntry) error
	// Outstanding sums amount - claimed over every non-fired entry, the
	// ledger's total unpaid obligation.
	Outstanding(ctx context.Context) (decimal.Decimal, error)
}

// IVestingService vesting ledger interface. The host-supplied current time is
// passed explicitly so accrual stays deterministic.
type IVestingService interface {
	CreateEntry(ctx context.Context, caller string, req VestingEntryReq, now time.Time) (uint64, error)
	CreateEntries(ctx context.Context, caller string, reqs []VestingEntryReq, now time.Time) error
	EntryBalance(ctx context.Context, id uint64, now time.Time) (decimal.Decimal, error)
	RecipientBalance(ctx context.Context, recipient string, now time.Time) (decimal.Decimal, error)
	TotalBalance(ctx context.Context) (decimal.Decimal, error)
	Claim(ctx context.Context, caller string, now time.Time) (decimal.Decimal, error)
	FireEntry(ctx context.Context, caller string, id uint64, now time.Time) error
	GetSnapshot(ctx context.Context, recipient string, now time.Time) ([]*VestingEntryView, error)
}
