package borrower

import (
	"context"

	"amplify/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
)

type borrowerStore struct {
	db *db.DB
}

// New new borrower store
func New(db *db.DB) core.IBorrowerStore {
	return &borrowerStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update().Model(core.Borrower{})
		if err := tx.AutoMigrate(core.Borrower{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *borrowerStore) Save(ctx context.Context, borrower *core.Borrower) error {
	return s.db.Update().Where("address = ?", borrower.Address).FirstOrCreate(borrower).Error
}

func (s *borrowerStore) Find(ctx context.Context, address string) (*core.Borrower, error) {
	var borrower core.Borrower
	err := s.db.View().Where("address = ?", address).First(&borrower).Error
	if store.IsErrNotFound(err) {
		return &core.Borrower{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &borrower, nil
}

func (s *borrowerStore) Update(ctx context.Context, borrower *core.Borrower) error {
	version := borrower.Version
	borrower.Version++

	tx := s.db.Update().Model(core.Borrower{}).
		Where("address = ? and version = ?", borrower.Address, version).
		Updates(map[string]interface{}{
			"whitelisted":     borrower.Whitelisted,
			"debt_ceiling":    borrower.DebtCeiling,
			"rating_mantissa": borrower.RatingMantissa,
			"version":         borrower.Version,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *borrowerStore) All(ctx context.Context) ([]*core.Borrower, error) {
	var borrowers []*core.Borrower
	if err := s.db.View().Order("id").Find(&borrowers).Error; err != nil {
		return nil, err
	}

	return borrowers, nil
}
