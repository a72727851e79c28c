package wallet

import (
	"context"

	"amplify/core"

	"github.com/fox-one/pkg/store"
	"github.com/fox-one/pkg/store/db"
	"github.com/shopspring/decimal"
)

type walletStore struct {
	db *db.DB
}

// New new token ledger store
func New(db *db.DB) core.IWalletStore {
	return &walletStore{db: db}
}

func init() {
	db.RegisterMigrate(func(db *db.DB) error {
		tx := db.Update()
		if err := tx.Model(core.Balance{}).AutoMigrate(core.Balance{}).Error; err != nil {
			return err
		}
		if err := tx.Model(core.Allowance{}).AutoMigrate(core.Allowance{}).Error; err != nil {
			return err
		}
		if err := tx.Model(core.Transfer{}).AutoMigrate(core.Transfer{}).Error; err != nil {
			return err
		}

		return nil
	})
}

func (s *walletStore) FindBalance(ctx context.Context, token, account string) (*core.Balance, error) {
	var balance core.Balance
	err := s.db.View().Where("token = ? and account = ?", token, account).First(&balance).Error
	if store.IsErrNotFound(err) {
		return &core.Balance{Token: token, Account: account, Amount: decimal.Zero}, nil
	}
	if err != nil {
		return nil, err
	}

	return &balance, nil
}

func (s *walletStore) FindAllowance(ctx context.Context, token, owner, spender string) (*core.Allowance, error) {
	var allowance core.Allowance
	err := s.db.View().Where("token = ? and owner = ? and spender = ?", token, owner, spender).First(&allowance).Error
	if store.IsErrNotFound(err) {
		return &core.Allowance{Token: token, Owner: owner, Spender: spender, Amount: decimal.Zero}, nil
	}
	if err != nil {
		return nil, err
	}

	return &allowance, nil
}

func (s *walletStore) Credit(ctx context.Context, token, account string, amount decimal.Decimal) error {
	return s.db.Tx(func(tx *db.DB) error {
		return credit(tx, token, account, amount)
	})
}

func (s *walletStore) Move(ctx context.Context, token, from, to string, amount decimal.Decimal) error {
	return s.db.Tx(func(tx *db.DB) error {
		if err := debit(tx, token, from, amount); err != nil {
			return err
		}

		return credit(tx, token, to, amount)
	})
}

func (s *walletStore) MoveFrom(ctx context.Context, token, from, spender, to string, amount decimal.Decimal) error {
	return s.db.Tx(func(tx *db.DB) error {
		var allowance core.Allowance
		err := tx.Update().Where("token = ? and owner = ? and spender = ?", token, from, spender).First(&allowance).Error
		if store.IsErrNotFound(err) || (err == nil && allowance.Amount.LessThan(amount)) {
			return core.Errorf(core.ErrInsufficientAllowance, "allowance of %s for %s is below %s", from, spender, amount)
		}
		if err != nil {
			return err
		}

		version := allowance.Version
		inner := tx.Update().Model(core.Allowance{}).
			Where("id = ? and version = ?", allowance.ID, version).
			Updates(map[string]interface{}{
				"amount":  allowance.Amount.Sub(amount),
				"version": version + 1,
			})
		if inner.Error != nil {
			return inner.Error
		}
		if inner.RowsAffected == 0 {
			return db.ErrOptimisticLock
		}

		if err := debit(tx, token, from, amount); err != nil {
			return err
		}

		return credit(tx, token, to, amount)
	})
}

func (s *walletStore) SetAllowance(ctx context.Context, token, owner, spender string, amount decimal.Decimal) error {
	return s.db.Tx(func(tx *db.DB) error {
		allowance := core.Allowance{Token: token, Owner: owner, Spender: spender, Amount: amount}
		err := tx.Update().Where("token = ? and owner = ? and spender = ?", token, owner, spender).First(&allowance).Error
		if store.IsErrNotFound(err) {
			allowance.Amount = amount
			return tx.Update().Create(&allowance).Error
		}
		if err != nil {
			return err
		}

		version := allowance.Version
		inner := tx.Update().Model(core.Allowance{}).
			Where("id = ? and version = ?", allowance.ID, version).
			Updates(map[string]interface{}{
				"amount":  amount,
				"version": version + 1,
			})
		if inner.Error != nil {
			return inner.Error
		}
		if inner.RowsAffected == 0 {
			return db.ErrOptimisticLock
		}

		return nil
	})
}

func (s *walletStore) CreateTransfer(ctx context.Context, transfer *core.Transfer) error {
	return s.db.Update().Create(transfer).Error
}

func (s *walletStore) ListTransfers(ctx context.Context, account string, limit int) ([]*core.Transfer, error) {
	var transfers []*core.Transfer
	if err := s.db.View().
		Where("sender = ? or recipient = ?", account, account).
		Order("id desc").Limit(limit).Find(&transfers).Error; err != nil {
		return nil, err
	}

	return transfers, nil
}

func credit(tx *db.DB, token, account string, amount decimal.Decimal) error {
	var balance core.Balance
	err := tx.Update().Where("token = ? and account = ?", token, account).First(&balance).Error
	if store.IsErrNotFound(err) {
		balance = core.Balance{Token: token, Account: account, Amount: amount}
		return tx.Update().Create(&balance).Error
	}
	if err != nil {
		return err
	}

	return updateAmount(tx, &balance, balance.Amount.Add(amount))
}

func debit(tx *db.DB, token, account string, amount decimal.Decimal) error {
	var balance core.Balance
	err := tx.Update().Where("token = ? and account = ?", token, account).First(&balance).Error
	if store.IsErrNotFound(err) || (err == nil && balance.Amount.LessThan(amount)) {
		return core.Errorf(core.ErrInsufficientBalance, "balance of %s is below %s", account, amount)
	}
	if err != nil {
		return err
	}

	return updateAmount(tx, &balance, balance.Amount.Sub(amount))
}

func updateAmount(tx *db.DB, balance *core.Balance, amount decimal.Decimal) error {
	version := balance.Version
	inner := tx.Update().Model(core.Balance{}).
		Where("id = ? and version = ?", balance.ID, version).
		Updates(map[string]interface{}{
			"amount":  amount,
			"version": version + 1,
		})
	if inner.Error != nil {
		return inner.Error
	}
	if inner.RowsAffected == 0 {
		return db.ErrOptimisticLock
	}

	return nil
}
