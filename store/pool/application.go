package pool

import (
	"context"

	"amplify/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/jinzhu/gorm"
)

type applicationStore struct {
	db *db.DB
}

// NewApplicationStore new pool application store
func NewApplicationStore(db *db.DB) core.IApplicationStore {
	return &applicationStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.PoolApplication{})
		if err := tx.AutoMigrate(core.PoolApplication{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *applicationStore) Create(ctx context.Context, application *core.PoolApplication) error {
	return s.db.Update().Create(application).Error
}

func (s *applicationStore) Find(ctx context.Context, pool string, slot int64) (*core.PoolApplication, error) {
	var application core.PoolApplication
	err := s.db.View().Where("pool = ? and slot = ?", pool, slot).First(&application).Error
	if gorm.IsRecordNotFoundError(err) {
		return &core.PoolApplication{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &application, nil
}

func (s *applicationStore) FindPending(ctx context.Context, pool string) (*core.PoolApplication, error) {
	var application core.PoolApplication
	err := s.db.View().Where("pool = ? and whitelisted = ?", pool, false).First(&application).Error
	if store.IsErrNotFound(err) {
		return &core.PoolApplication{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &application, nil
}

func (s *applicationStore) Update(ctx context.Context, application *core.PoolApplication) error {
	version := application.Version
	application.Version++

	tx := s.db.Update().Model(core.PoolApplication{}).
		Where("id = ? and version = ?", application.ID, version).
		Updates(map[string]interface{}{
			"whitelisted": application.Whitelisted,
			"version":     application.Version,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *applicationStore) Delete(ctx context.Context, id uint64) error {
	return s.db.Update().Where("id = ?", id).Delete(core.PoolApplication{}).Error
}

func (s *applicationStore) CountByPool(ctx context.Context, pool string) (int64, error) {
	var count int64
	if err := s.db.View().Model(core.PoolApplication{}).Where("pool = ?", pool).Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (s *applicationStore) ListByPool(ctx context.Context, pool string) ([]*core.PoolApplication, error) {
	var applications []*core.PoolApplication
	if err := s.db.View().Where("pool = ?", pool).Order("slot").Find(&applications).Error; err != nil {
		return nil, err
	}

	return applications, nil
}
