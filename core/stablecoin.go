package core

import (
	"context"
	"time"
)

// StableCoin approved settlement currency
type StableCoin struct {
	ID        uint64    `sql:"PRIMARY_KEY;AUTO_INCREMENT" json:"id"`
	Address   string    `sql:"size:64;unique_index:stable_coin_address_idx" json:"address"`
	Symbol    string    `sql:"size:20" json:"symbol"`
	CreatedAt time.Time `sql:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// IStableCoinStore stablecoin registry store interface. Membership is a set:
// saving an existing address and deleting an absent one are both no-ops.
type IStableCoinStore interface {
	Save(ctx context.Context, coin *StableCoin) error
	Delete(ctx context.Context, address string) error
	Find(ctx context.Context, address string) (*StableCoin, error)
	All(ctx context.Context) ([]*StableCoin, error)
}
