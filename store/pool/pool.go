package pool

import (
	"context"

	"amplify/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type poolStore struct {
	db *db.DB
}

// New new pool registry store
func New(db *db.DB) core.IPoolStore {
	return &poolStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Pool{})
		if err := tx.AutoMigrate(core.Pool{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *poolStore) Save(ctx context.Context, pool *core.Pool) error {
	return s.db.Update().Where("address = ?", pool.Address).FirstOrCreate(pool).Error
}

func (s *poolStore) Find(ctx context.Context, address string) (*core.Pool, error) {
	var pool core.Pool
	err := s.db.View().Where("address = ?", address).First(&pool).Error
	if store.IsErrNotFound(err) {
		return &core.Pool{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &pool, nil
}

func (s *poolStore) Update(ctx context.Context, pool *core.Pool) error {
	version := pool.Version
	pool.Version++

	tx := s.db.Update().Model(core.Pool{}).
		Where("address = ? and version = ?", pool.Address, version).
		Updates(map[string]interface{}{
			"name":            pool.Name,
			"min_deposit":     pool.MinDeposit,
			"access":          pool.Access,
			"is_active":       pool.IsActive,
			"ampt_speed":      pool.AmptSpeed,
			"interest_rate":   pool.InterestRate,
			"total_cash":      pool.TotalCash,
			"total_borrows":   pool.TotalBorrows,
			"total_supply":    pool.TotalSupply,
			"total_principal": pool.TotalPrincipal,
			"version":         pool.Version,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *poolStore) All(ctx context.Context) ([]*core.Pool, error) {
	var pools []*core.Pool
	if err := s.db.View().Order("id").Find(&pools).Error; err != nil {
		return nil, err
	}

	return pools, nil
}
