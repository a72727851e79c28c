package rewards

import (
	"context"

	"amplify/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type rewardsStore struct {
	db *db.DB
}

// New new rewards store
func New(db *db.DB) core.IRewardsStore {
	return &rewardsStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update()
		if err := tx.Model(core.RewardsState{}).AutoMigrate(core.RewardsState{}).Error; err != nil {
			return err
		}
		if err := tx.Model(core.RewardUserState{}).AutoMigrate(core.RewardUserState{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *rewardsStore) FindState(ctx context.Context, pool string) (*core.RewardsState, error) {
	var state core.RewardsState
	err := s.db.View().Where("pool = ?", pool).First(&state).Error
	if store.IsErrNotFound(err) {
		return &core.RewardsState{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &state, nil
}

func (s *rewardsStore) SaveState(ctx context.Context, state *core.RewardsState) error {
	return s.db.Update().Where("pool = ?", state.Pool).FirstOrCreate(state).Error
}

func (s *rewardsStore) UpdateState(ctx context.Context, state *core.RewardsState) error {
	version := state.Version
	state.Version++

	tx := s.db.Update().Model(core.RewardsState{}).
		Where("pool = ? and version = ?", state.Pool, version).
		Updates(map[string]interface{}{
			"supply_index": state.SupplyIndex,
			"supply_block": state.SupplyBlock,
			"borrow_index": state.BorrowIndex,
			"borrow_block": state.BorrowBlock,
			"version":      state.Version,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *rewardsStore) FindUser(ctx context.Context, account, pool string, side core.RewardSide) (*core.RewardUserState, error) {
	var user core.RewardUserState
	err := s.db.View().Where("account = ? and pool = ? and side = ?", account, pool, side).First(&user).Error
	if store.IsErrNotFound(err) {
		return &core.RewardUserState{}, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *rewardsStore) SaveUser(ctx context.Context, user *core.RewardUserState) error {
	return s.db.Update().
		Where("account = ? and pool = ? and side = ?", user.Account, user.Pool, user.Side).
		FirstOrCreate(user).Error
}

func (s *rewardsStore) UpdateUser(ctx context.Context, user *core.RewardUserState) error {
	version := user.Version
	user.Version++

	tx := s.db.Update().Model(core.RewardUserState{}).
		Where("id = ? and version = ?", user.ID, version).
		Updates(map[string]interface{}{
			"index":   user.Index,
			"accrued": user.Accrued,
			"version": user.Version,
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}

func (s *rewardsStore) ListByAccount(ctx context.Context, account string, side core.RewardSide) ([]*core.RewardUserState, error) {
	var users []*core.RewardUserState
	if err := s.db.View().Where("account = ? and side = ?", account, side).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}

	return users, nil
}

func (s *rewardsStore) FlushByAccount(ctx context.Context, account string) (decimal.Decimal, error) {
	total := decimal.Zero

	err := s.db.Tx(func(tx *db.DB) error {
		var users []*core.RewardUserState
		if err := tx.Update().Where("account = ?", account).Find(&users).Error; err != nil {
			return err
		}

		for _, user := range users {
			if !user.Accrued.IsPositive() {
				continue
			}

			total = total.Add(user.Accrued)

			version := user.Version
			inner := tx.Update().Model(core.RewardUserState{}).
				Where("id = ? and version = ?", user.ID, version).
				Updates(map[string]interface{}{
					"accrued": decimal.Zero,
					"version": version + 1,
				})
			if inner.Error != nil {
				return inner.Error
			}
			if inner.RowsAffected == 0 {
				return db.ErrOptimisticLock
			}
		}

		return nil
	})
	if err != nil {
		return decimal.Zero, err
	}

	return total, nil
}
