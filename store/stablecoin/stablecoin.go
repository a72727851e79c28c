package stablecoin

import (
	"context"

	"amplify/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type stableCoinStore struct {
	db *db.DB
}

// New new stablecoin registry store
func New(db *db.DB) core.IStableCoinStore {
	return &stableCoinStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.StableCoin{})
		if err := tx.AutoMigrate(core.StableCoin{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *stableCoinStore) Save(ctx context.Context, coin *core.StableCoin) error {
	return s.db.Update().Where("address = ?", coin.Address).FirstOrCreate(coin).Error
}

func (s *stableCoinStore) Delete(ctx context.Context, address string) error {
	return s.db.Update().Where("address = ?", address).Delete(core.StableCoin{}).Error
}

func (s *stableCoinStore) Find(ctx context.Context, address string) (*core.StableCoin, error) {
	var coin core.StableCoin
	err := s.db.View().Where("address = ?", address).First(&coin).Error
	if store.IsErrNotFound(err) {
		return &core.StableCoin{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &coin, nil
}

func (s *stableCoinStore) All(ctx context.Context) ([]*core.StableCoin, error) {
	var coins []*core.StableCoin
	if err := s.db.View().Order("id").Find(&coins).Error; err != nil {
		return nil, err
	}

	return coins, nil
}
