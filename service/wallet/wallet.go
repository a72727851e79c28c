package wallet

import (
	"context"

	"amplify/core"

	"github.com/fox-one/pkg/logger"
	"github.com/fox-one/pkg/uuid"
	"github.com/shopspring/decimal"
)

type walletService struct {
	walletStore core.IWalletStore
}

// New new token ledger service
func New(walletStore core.IWalletStore) core.IWalletService {
	return &walletService{
		walletStore: walletStore,
	}
}

func (s *walletService) Mint(ctx context.Context, token, to string, amount decimal.Decimal) error {
	if to == "" || !amount.IsPositive() {
		return core.Errorf(core.ErrInvalidArgument, "mint to %q amount %s", to, amount)
	}

	if err := s.walletStore.Credit(ctx, token, to, amount); err != nil {
		return err
	}

	return s.record(ctx, token, "", to, amount, "mint")
}

func (s *walletService) Transfer(ctx context.Context, token, from, to string, amount decimal.Decimal, memo string) error {
	if from == "" || to == "" || !amount.IsPositive() {
		return core.Errorf(core.ErrInvalidArgument, "transfer %s from %q to %q", amount, from, to)
	}

	if err := s.walletStore.Move(ctx, token, from, to, amount); err != nil {
		return err
	}

	return s.record(ctx, token, from, to, amount, memo)
}

func (s *walletService) Approve(ctx context.Context, token, owner, spender string, amount decimal.Decimal) error {
	if owner == "" || spender == "" || amount.IsNegative() {
		return core.Errorf(core.ErrInvalidArgument, "approve %s of %q for %q", amount, owner, spender)
	}

	return s.walletStore.SetAllowance(ctx, token, owner, spender, amount)
}

func (s *walletService) TransferFrom(ctx context.Context, token, spender, from, to string, amount decimal.Decimal, memo string) error {
	if spender == "" || from == "" || to == "" || !amount.IsPositive() {
		return core.Errorf(core.ErrInvalidArgument, "transferFrom %s of %q by %q to %q", amount, from, spender, to)
	}

	if err := s.walletStore.MoveFrom(ctx, token, from, spender, to, amount); err != nil {
		return err
	}

	return s.record(ctx, token, from, to, amount, memo)
}

func (s *walletService) BalanceOf(ctx context.Context, token, account string) (decimal.Decimal, error) {
	balance, err := s.walletStore.FindBalance(ctx, token, account)
	if err != nil {
		return decimal.Zero, err
	}

	return balance.Amount, nil
}

func (s *walletService) Allowance(ctx context.Context, token, owner, spender string) (decimal.Decimal, error) {
	allowance, err := s.walletStore.FindAllowance(ctx, token, owner, spender)
	if err != nil {
		return decimal.Zero, err
	}

	return allowance.Amount, nil
}

func (s *walletService) record(ctx context.Context, token, sender, recipient string, amount decimal.Decimal, memo string) error {
	transfer := &core.Transfer{
		TraceID:   uuid.New(),
		Token:     token,
		Sender:    sender,
		Recipient: recipient,
		Amount:    amount,
		Memo:      memo,
	}

	if err := s.walletStore.CreateTransfer(ctx, transfer); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("wallet: create transfer")
		return err
	}

	return nil
}
