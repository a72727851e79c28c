package vesting

import (
	"context"

	"amplify/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type vestingStore struct {
	db *db.DB
}

// New new vesting store
func New(db *db.DB) core.IVestingStore {
	return &vestingStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.VestingEntry{})
		if err := tx.AutoMigrate(core.VestingEntry{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *vestingStore) Create(ctx context.Context, entry *core.VestingEntry) error {
	return s.db.Update().Create(entry).Error
}

func (s *vestingStore) CreateBatch(ctx context.Context, entries []*core.VestingEntry) error {
	return s.db.Tx(func(tx *db.DB) error {
		for _, entry := range entries {
			if err := tx.Update().Create(entry).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (s *vestingStore) Find(ctx context.Context, id uint64) (*core.VestingEntry, error) {
	var entry core.VestingEntry
	err := s.db.View().Where("id = ?", id).First(&entry).Error
	if store.IsErrNotFound(err) {
		return &core.VestingEntry{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

func (s *vestingStore) ListByRecipient(ctx context.Context, recipient string) ([]*core.VestingEntry, error) {
	var entries []*core.VestingEntry
	if err := s.db.View().Where("recipient = ?", recipient).Order("id").Find(&entries).Error; err != nil {
		return nil, err
	}

	return entries, nil
}

func (s *vestingStore) Update(ctx context.Context, entry *core.VestingEntry) error {
	version := entry.Version
	entry.Version++

	tx := s.db.Update().Model(core.VestingEntry{}).
		Where("id = ? and version = ?", entry.ID, version).
		Updates(map[string]interface{}{
			"amount":      entry.Amount,
			"claimed":     entry.Claimed,
			"last_update": entry.LastUpdate,
			"fired":       entry.Fired,
			"version":     entry.Version,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *vestingStore) Outstanding(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := s.db.View().Model(core.VestingEntry{}).
		Where("fired = ?", false).
		Select("coalesce(sum(amount - claimed), 0)").
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}

	return total, nil
}
