package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RiskItem maps a rating label to the advance and interest rates quoted for it.
// Removing an item tombstones both rates to zero instead of deleting the row,
// so an absent or removed rating always quotes zero.
type RiskItem struct {
	ID           uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Rating       string          `sql:"size:20;unique_index:rating_idx" json:"rating"`
	AdvanceRate  decimal.Decimal `sql:"type:decimal(20,8)" json:"advance_rate"`
	InterestRate decimal.Decimal `sql:"type:decimal(20,8)" json:"interest_rate"`
	Version      int64           `sql:"default:0" json:"version"`
	CreatedAt    time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Asset tokenized receivable. The receivable hash is unique forever: once a
// hash has been seen it can never be tokenized again, redeemed or not.
type Asset struct {
	ID        uint64          `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Hash      string          `sql:"size:128;unique_index:asset_hash_idx" json:"hash"`
	Rating    string          `sql:"size:20" json:"rating"`
	FaceValue decimal.Decimal `sql:"type:decimal(65,0)" json:"face_value"`
	Maturity  int64           `json:"maturity"`
	URI       string          `sql:"size:256" json:"uri"`
	Owner     string          `sql:"size:64" json:"owner"`
	Redeemed  bool            `sql:"default:false" json:"redeemed"`
	Version   int64           `sql:"default:0" json:"version"`
	CreatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time       `sql:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TokenInfo is the query projection of an asset. Advance and interest rate
// are looked up against the risk table at query time, not snapshotted at
// creation, so risk-table edits retroactively change quoted rates.
type TokenInfo struct {
	ID           uint64          `json:"id"`
	FaceValue    decimal.Decimal `json:"face_value"`
	Maturity     int64           `json:"maturity"`
	AdvanceRate  decimal.Decimal `json:"advance_rate"`
	InterestRate decimal.Decimal `json:"interest_rate"`
	Rating       string          `json:"rating"`
	Hash         string          `json:"hash"`
	Owner        string          `json:"owner"`
	Redeemed     bool            `json:"redeemed"`
}

// IRiskItemStore risk table store interface
type IRiskItemStore interface {
	Save(ctx context.Context, item *RiskItem) error
	Find(ctx context.Context, rating string) (*RiskItem, error)
	Update(ctx context.Context, item *RiskItem) error
	All(ctx context.Context) ([]*RiskItem, error)
}

// IAssetStore asset store interface
type IAssetStore interface {
	Create(ctx context.Context, asset *Asset) error
	Find(ctx context.Context, id uint64) (*Asset, error)
	FindByHash(ctx context.Context, hash string) (*Asset, error)
	Update(ctx context.Context, asset *Asset) error
	ListByOwner(ctx context.Context, owner string) ([]*Asset, error)
}

// IAssetService asset registry interface
type IAssetService interface {
	AssetsFactory

	AddRiskItem(ctx context.Context, caller, rating string, advanceRate, interestRate decimal.Decimal) error
	UpdateRiskItem(ctx context.Context, caller, rating string, advanceRate, interestRate decimal.Decimal) error
	RemoveRiskItem(ctx context.Context, caller, rating string) error
	GetRiskItem(ctx context.Context, rating string) (advanceRate, interestRate decimal.Decimal, err error)
	TokenizeAsset(ctx context.Context, caller, hash, rating string, faceValue decimal.Decimal, maturity int64, uri string) (uint64, error)
	MarkAsRedeemed(ctx context.Context, caller string, id uint64) error
	GetTokenInfo(ctx context.Context, id uint64) (*TokenInfo, error)
}
