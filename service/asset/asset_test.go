package asset

import (
	"context"
	"testing"

	"amplify/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRiskStore struct {
	items  map[string]*core.RiskItem
	nextID uint64
}

func newMemRiskStore() *memRiskStore {
	return &memRiskStore{items: make(map[string]*core.RiskItem), nextID: 1}
}

func (s *memRiskStore) Save(ctx context.Context, item *core.RiskItem) error {
	item.ID = s.nextID
	s.nextID++
	clone := *item
	s.items[item.Rating] = &clone
	return nil
}

func (s *memRiskStore) Find(ctx context.Context, rating string) (*core.RiskItem, error) {
	if item, ok := s.items[rating]; ok {
		clone := *item
		return &clone, nil
	}

	return &core.RiskItem{AdvanceRate: decimal.Zero, InterestRate: decimal.Zero}, nil
}

func (s *memRiskStore) Update(ctx context.Context, item *core.RiskItem) error {
	clone := *item
	s.items[item.Rating] = &clone
	return nil
}

func (s *memRiskStore) All(ctx context.Context) ([]*core.RiskItem, error) {
	var items []*core.RiskItem
	for _, item := range s.items {
		items = append(items, item)
	}

	return items, nil
}

type memAssetStore struct {
	assets map[uint64]*core.Asset
	nextID uint64
}

func newMemAssetStore() *memAssetStore {
	return &memAssetStore{assets: make(map[uint64]*core.Asset), nextID: 1}
}

func (s *memAssetStore) Create(ctx context.Context, asset *core.Asset) error {
	asset.ID = s.nextID
	s.nextID++
	clone := *asset
	s.assets[asset.ID] = &clone
	return nil
}

func (s *memAssetStore) Find(ctx context.Context, id uint64) (*core.Asset, error) {
	if asset, ok := s.assets[id]; ok {
		clone := *asset
		return &clone, nil
	}

	return &core.Asset{}, nil
}

func (s *memAssetStore) FindByHash(ctx context.Context, hash string) (*core.Asset, error) {
	for _, asset := range s.assets {
		if asset.Hash == hash {
			clone := *asset
			return &clone, nil
		}
	}

	return &core.Asset{}, nil
}

func (s *memAssetStore) Update(ctx context.Context, asset *core.Asset) error {
	clone := *asset
	s.assets[asset.ID] = &clone
	return nil
}

func (s *memAssetStore) ListByOwner(ctx context.Context, owner string) ([]*core.Asset, error) {
	var assets []*core.Asset
	for _, asset := range s.assets {
		if asset.Owner == owner {
			assets = append(assets, asset)
		}
	}

	return assets, nil
}

func newTestService() core.IAssetService {
	return New("owner", "assets-factory", newMemRiskStore(), newMemAssetStore())
}

func TestRiskTableOwnerOnly(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	err := service.AddRiskItem(ctx, "mallory", "A", decimal.NewFromInt(90), decimal.NewFromInt(5))
	assert.Equal(t, core.ErrUnauthorized, core.ErrorCodeOf(err))

	require.Nil(t, service.AddRiskItem(ctx, "owner", "A", decimal.NewFromInt(90), decimal.NewFromInt(5)))

	advance, interest, err := service.GetRiskItem(ctx, "A")
	require.Nil(t, err)
	assert.Equal(t, "90", advance.String())
	assert.Equal(t, "5", interest.String())
}

func TestRemoveRiskItemTombstones(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	require.Nil(t, service.AddRiskItem(ctx, "owner", "B", decimal.NewFromInt(80), decimal.NewFromInt(8)))
	require.Nil(t, service.RemoveRiskItem(ctx, "owner", "B"))

	// removed rating quotes zero, same as an absent one
	advance, interest, err := service.GetRiskItem(ctx, "B")
	require.Nil(t, err)
	assert.True(t, advance.IsZero())
	assert.True(t, interest.IsZero())

	err = service.RemoveRiskItem(ctx, "owner", "missing")
	assert.Equal(t, core.ErrRiskItemNotFound, core.ErrorCodeOf(err))

	// re-adding the same label revives it
	require.Nil(t, service.AddRiskItem(ctx, "owner", "B", decimal.NewFromInt(70), decimal.NewFromInt(7)))
	advance, _, err = service.GetRiskItem(ctx, "B")
	require.Nil(t, err)
	assert.Equal(t, "70", advance.String())
}

func TestTokenizeAsset(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	id, err := service.TokenizeAsset(ctx, "alice", "hash-1", "A", decimal.NewFromInt(1000), 1700000000, "/docs/1")
	require.Nil(t, err)
	assert.Equal(t, uint64(1), id)

	id, err = service.TokenizeAsset(ctx, "bob", "hash-2", "A", decimal.NewFromInt(500), 1700000000, "")
	require.Nil(t, err)
	assert.Equal(t, uint64(2), id)

	_, err = service.TokenizeAsset(ctx, "bob", "hash-1", "A", decimal.NewFromInt(500), 1700000000, "")
	assert.Equal(t, core.ErrHashAlreadyUsed, core.ErrorCodeOf(err))

	_, err = service.TokenizeAsset(ctx, "bob", "hash-3", "A", decimal.NewFromInt(500), 1700000000, "not a uri")
	assert.Equal(t, core.ErrInvalidArgument, core.ErrorCodeOf(err))
}

func TestHashUniquenessSurvivesRedemption(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	id, err := service.TokenizeAsset(ctx, "alice", "hash-1", "A", decimal.NewFromInt(1000), 1700000000, "")
	require.Nil(t, err)

	require.Nil(t, service.MarkAsRedeemed(ctx, "alice", id))

	_, err = service.TokenizeAsset(ctx, "alice", "hash-1", "A", decimal.NewFromInt(1000), 1700000000, "")
	assert.Equal(t, core.ErrHashAlreadyUsed, core.ErrorCodeOf(err))
}

func TestMarkAsRedeemed(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	id, err := service.TokenizeAsset(ctx, "alice", "hash-1", "A", decimal.NewFromInt(1000), 1700000000, "")
	require.Nil(t, err)

	err = service.MarkAsRedeemed(ctx, "bob", id)
	assert.Equal(t, core.ErrNotOwner, core.ErrorCodeOf(err))

	require.Nil(t, service.MarkAsRedeemed(ctx, "alice", id))

	err = service.MarkAsRedeemed(ctx, "alice", id)
	assert.Equal(t, core.ErrAlreadyRedeemed, core.ErrorCodeOf(err))

	err = service.MarkAsRedeemed(ctx, "alice", 99)
	assert.Equal(t, core.ErrAssetNotFound, core.ErrorCodeOf(err))
}

func TestTokenInfoLiveRiskLookup(t *testing.T) {
	ctx := context.Background()
	service := newTestService()

	require.Nil(t, service.AddRiskItem(ctx, "owner", "A", decimal.NewFromInt(90), decimal.NewFromInt(5)))

	id, err := service.TokenizeAsset(ctx, "alice", "hash-1", "A", decimal.NewFromInt(1000), 1700000000, "")
	require.Nil(t, err)

	info, err := service.GetTokenInfo(ctx, id)
	require.Nil(t, err)
	assert.Equal(t, "90", info.AdvanceRate.String())

	// risk-table edits show through on existing assets
	require.Nil(t, service.UpdateRiskItem(ctx, "owner", "A", decimal.NewFromInt(85), decimal.NewFromInt(6)))

	info, err = service.GetTokenInfo(ctx, id)
	require.Nil(t, err)
	assert.Equal(t, "85", info.AdvanceRate.String())
	assert.Equal(t, "6", info.InterestRate.String())
}
