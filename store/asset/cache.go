package asset

import (
	"context"
	"fmt"

	"amplify/core"

	"github.com/bluele/gcache"
	"golang.org/x/sync/singleflight"
)

// Cache wraps an asset store with a read-through LRU. Asset rows change only
// on redemption, which re-caches, so reads stay consistent.
func Cache(store core.IAssetStore) core.IAssetStore {
	return &cacheAssetStore{
		IAssetStore: store,
		cache:       gcache.New(2048).LRU().Build(),
		sf:          &singleflight.Group{},
	}
}

type cacheAssetStore struct {
	core.IAssetStore
	cache gcache.Cache
	sf    *singleflight.Group
}

func (s *cacheAssetStore) Create(ctx context.Context, asset *core.Asset) error {
	if err := s.IAssetStore.Create(ctx, asset); err != nil {
		return err
	}
	s.cacheAsset(asset)
	return nil
}

func (s *cacheAssetStore) Find(ctx context.Context, id uint64) (*core.Asset, error) {
	key := s.idKey(id)
	if v, err := s.cache.Get(key); err == nil {
		if asset, ok := v.(*core.Asset); ok {
			return asset, nil
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		asset, err := s.IAssetStore.Find(ctx, id)
		if err != nil {
			return nil, err
		}
		if asset.ID > 0 {
			s.cacheAsset(asset)
		}
		return asset, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*core.Asset), nil
}

func (s *cacheAssetStore) Update(ctx context.Context, asset *core.Asset) error {
	if err := s.IAssetStore.Update(ctx, asset); err != nil {
		return err
	}
	s.cacheAsset(asset)
	return nil
}

func (s *cacheAssetStore) cacheAsset(asset *core.Asset) {
	s.cache.Set(s.idKey(asset.ID), asset)
}

func (s *cacheAssetStore) idKey(id uint64) string {
	return fmt.Sprintf("asset:id:%d", id)
}
