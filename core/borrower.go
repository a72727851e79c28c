package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Borrower borrower record. Rows are never deleted: blacklisting flips the
// whitelist flag back off and keeps rating and debt ceiling in place.
type Borrower struct {
	ID             uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Address        string          `sql:"size:64;unique_index:borrower_address_idx" json:"address"`
	Whitelisted    bool            `sql:"default:false" json:"whitelisted"`
	DebtCeiling    decimal.Decimal `sql:"type:decimal(65,0)" json:"debt_ceiling"`
	RatingMantissa decimal.Decimal `sql:"type:decimal(65,0)" json:"rating_mantissa"`
	Version        int64           `sql:"default:0" json:"version"`
	CreatedAt      time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// IBorrowerStore borrower store interface
type IBorrowerStore interface {
	Save(ctx context.Context, borrower *Borrower) error
	// Find returns a zero-ID borrower when the address was never created.
	Find(ctx context.Context, address string) (*Borrower, error)
	Update(ctx context.Context, borrower *Borrower) error
	All(ctx context.Context) ([]*Borrower, error)
}
