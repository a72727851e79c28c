package asset

import (
	"context"

	"amplify/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type assetStore struct {
	db *db.DB
}

// New new asset store
func New(db *db.DB) core.IAssetStore {
	return &assetStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Asset{})
		if err := tx.AutoMigrate(core.Asset{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *assetStore) Create(ctx context.Context, asset *core.Asset) error {
	return s.db.Update().Create(asset).Error
}

func (s *assetStore) Find(ctx context.Context, id uint64) (*core.Asset, error) {
	var asset core.Asset
	err := s.db.View().Where("id = ?", id).First(&asset).Error
	if store.IsErrNotFound(err) {
		return &core.Asset{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

func (s *assetStore) FindByHash(ctx context.Context, hash string) (*core.Asset, error) {
	var asset core.Asset
	err := s.db.View().Where("hash = ?", hash).First(&asset).Error
	if store.IsErrNotFound(err) {
		return &core.Asset{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

func (s *assetStore) Update(ctx context.Context, asset *core.Asset) error {
	version := asset.Version
	asset.Version++

	tx := s.db.Update().Model(core.Asset{}).
		Where("id = ? and version = ?", asset.ID, version).
		Updates(map[string]interface{}{
			"rating":   asset.Rating,
			"redeemed": asset.Redeemed,
			"version":  asset.Version,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *assetStore) ListByOwner(ctx context.Context, owner string) ([]*core.Asset, error) {
	var assets []*core.Asset
	if err := s.db.View().Where("owner = ?", owner).Order("id").Find(&assets).Error; err != nil {
		return nil, err
	}

	return assets, nil
}
