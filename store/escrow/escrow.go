package escrow

import (
	"context"

	"amplify/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type voteEscrowStore struct {
	db *db.DB
}

// New new vote-escrow store
func New(db *db.DB) core.IVoteEscrowStore {
	return &voteEscrowStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update()
		if err := tx.Model(core.Lock{}).AutoMigrate(core.Lock{}).Error; err != nil {
			return err
		}
		if err := tx.Model(core.Delegation{}).AutoMigrate(core.Delegation{}).Error; err != nil {
			return err
		}
		if err := tx.Model(core.EscrowState{}).AutoMigrate(core.EscrowState{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *voteEscrowStore) FindLock(ctx context.Context, account string) (*core.Lock, error) {
	var lock core.Lock
	err := s.db.View().Where("account = ?", account).First(&lock).Error
	if store.IsErrNotFound(err) {
		return &core.Lock{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &lock, nil
}

func (s *voteEscrowStore) CreateLock(ctx context.Context, lock *core.Lock) error {
	return s.db.Tx(func(tx *db.DB) error {
		if err := tx.Update().Create(lock).Error; err != nil {
			return err
		}

		return adjustTotalLocked(tx, lock.Amount)
	})
}

func (s *voteEscrowStore) UpdateLock(ctx context.Context, lock *core.Lock, lockedDelta decimal.Decimal) error {
	return s.db.Tx(func(tx *db.DB) error {
		version := lock.Version
		lock.Version++

		inner := tx.Update().Model(core.Lock{}).
			Where("account = ? and version = ?", lock.Account, version).
			Updates(map[string]interface{}{
				"amount":      lock.Amount,
				"unlock_time": lock.UnlockTime,
				"delegatee":   lock.Delegatee,
				"version":     lock.Version,
			})
		if inner.Error != nil {
			return inner.Error
		}
		if inner.RowsAffected == 0 {
			return db.ErrOptimisticLock
		}

		if lockedDelta.IsZero() {
			return nil
		}

		return adjustTotalLocked(tx, lockedDelta)
	})
}

func (s *voteEscrowStore) AllLocks(ctx context.Context) ([]*core.Lock, error) {
	var locks []*core.Lock
	if err := s.db.View().Order("id").Find(&locks).Error; err != nil {
		return nil, err
	}

	return locks, nil
}

func (s *voteEscrowStore) TotalLocked(ctx context.Context) (decimal.Decimal, error) {
	var state core.EscrowState
	err := s.db.View().First(&state).Error
	if store.IsErrNotFound(err) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}

	return state.TotalLocked, nil
}

func (s *voteEscrowStore) ListDelegators(ctx context.Context, delegatee string) ([]*core.Delegation, error) {
	var delegations []*core.Delegation
	if err := s.db.View().Where("delegatee = ?", delegatee).Order("id").Find(&delegations).Error; err != nil {
		return nil, err
	}

	return delegations, nil
}

func (s *voteEscrowStore) AddDelegation(ctx context.Context, delegatee, delegator string) error {
	delegation := &core.Delegation{Delegatee: delegatee, Delegator: delegator}
	return s.db.Update().
		Where("delegatee = ? and delegator = ?", delegatee, delegator).
		FirstOrCreate(delegation).Error
}

func (s *voteEscrowStore) RemoveDelegation(ctx context.Context, delegatee, delegator string) error {
	return s.db.Update().
		Where("delegatee = ? and delegator = ?", delegatee, delegator).
		Delete(core.Delegation{}).Error
}

// adjustTotalLocked moves the running principal sum inside the caller's
// transaction, creating the single aggregate row on first use.
func adjustTotalLocked(tx *db.DB, delta decimal.Decimal) error {
	var state core.EscrowState
	err := tx.Update().First(&state).Error
	if store.IsErrNotFound(err) {
		state = core.EscrowState{TotalLocked: decimal.Zero}
		if err := tx.Update().Create(&state).Error; err != nil {
			return err
		}
	} else if err != nil {
		return err
	}

	version := state.Version
	inner := tx.Update().Model(core.EscrowState{}).
		Where("id = ? and version = ?", state.ID, version).
		Updates(map[string]interface{}{
			"total_locked": state.TotalLocked.Add(delta),
			"version":      version + 1,
		})
	if inner.Error != nil {
		return inner.Error
	}
	if inner.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
