package asset

import (
	"context"

	"amplify/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type riskItemStore struct {
	db *db.DB
}

// NewRiskItemStore new risk table store
func NewRiskItemStore(db *db.DB) core.IRiskItemStore {
	return &riskItemStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.RiskItem{})
		if err := tx.AutoMigrate(core.RiskItem{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *riskItemStore) Save(ctx context.Context, item *core.RiskItem) error {
	return s.db.Update().Where("rating = ?", item.Rating).FirstOrCreate(item).Error
}

func (s *riskItemStore) Find(ctx context.Context, rating string) (*core.RiskItem, error) {
	var item core.RiskItem
	err := s.db.View().Where("rating = ?", rating).First(&item).Error
	if store.IsErrNotFound(err) {
		return &core.RiskItem{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (s *riskItemStore) Update(ctx context.Context, item *core.RiskItem) error {
	version := item.Version
	item.Version++

	tx := s.db.Update().Model(core.RiskItem{}).
		Where("rating = ? and version = ?", item.Rating, version).
		Updates(map[string]interface{}{
			"advance_rate":  item.AdvanceRate,
			"interest_rate": item.InterestRate,
			"version":       item.Version,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *riskItemStore) All(ctx context.Context) ([]*core.RiskItem, error) {
	var items []*core.RiskItem
	if err := s.db.View().Order("rating").Find(&items).Error; err != nil {
		return nil, err
	}

	return items, nil
}
