package escrow

import (
	"context"
	"time"

	"amplify/core"
	"amplify/internal/amplify"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type voteEscrowService struct {
	system        *core.System
	address       string
	escrowStore   core.IVoteEscrowStore
	walletService core.IWalletService
}

// New new vote-escrow ledger service. The address is the ledger's own token
// account holding the locked principal.
func New(system *core.System,
	address string,
	escrowStore core.IVoteEscrowStore,
	walletService core.IWalletService) core.IVoteEscrowService {
	return &voteEscrowService{
		system:        system,
		address:       address,
		escrowStore:   escrowStore,
		walletService: walletService,
	}
}

func (s *voteEscrowService) CreateLock(ctx context.Context, caller string, amount decimal.Decimal, unlockTime int64, now time.Time) error {
	t := now.UTC().Unix()

	if !amount.IsPositive() {
		return core.Errorf(core.ErrInvalidArgument, "lock amount %s is not positive", amount)
	}

	if unlockTime <= t || unlockTime > t+amplify.FourYears {
		return core.Errorf(core.ErrInvalidArgument, "unlock time %d out of range", unlockTime)
	}

	lock, err := s.escrowStore.FindLock(ctx, caller)
	if err != nil {
		return err
	}

	if lock.Amount.IsPositive() {
		return core.Errorf(core.ErrLockExists, "account %s already holds a lock", caller)
	}

	if err := s.walletService.Transfer(ctx, s.system.AmptAsset, caller, s.address, amount, "escrow lock"); err != nil {
		return err
	}

	// a withdrawn lock leaves its zeroed row behind, reuse it
	if lock.ID > 0 {
		lock.Amount = amount
		lock.UnlockTime = unlockTime
		lock.Delegatee = ""
		return s.escrowStore.UpdateLock(ctx, lock, amount)
	}

	return s.escrowStore.CreateLock(ctx, &core.Lock{
		Account:    caller,
		Amount:     amount,
		UnlockTime: unlockTime,
	})
}

func (s *voteEscrowService) IncreaseLockAmount(ctx context.Context, caller string, amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return core.Errorf(core.ErrInvalidArgument, "lock amount %s is not positive", amount)
	}

	return s.topUp(ctx, caller, caller, amount, now)
}

func (s *voteEscrowService) IncreaseLockTime(ctx context.Context, caller string, newUnlockTime int64, now time.Time) error {
	t := now.UTC().Unix()

	lock, err := s.activeLock(ctx, caller, now)
	if err != nil {
		return err
	}

	if newUnlockTime <= lock.UnlockTime || newUnlockTime > t+amplify.FourYears {
		return core.Errorf(core.ErrInvalidArgument, "unlock time %d out of range", newUnlockTime)
	}

	lock.UnlockTime = newUnlockTime

	return s.escrowStore.UpdateLock(ctx, lock, decimal.Zero)
}

// DepositFor anyone may top up another address's existing non-expired lock.
func (s *voteEscrowService) DepositFor(ctx context.Context, caller, recipient string, amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return core.Errorf(core.ErrInvalidArgument, "lock amount %s is not positive", amount)
	}

	return s.topUp(ctx, caller, recipient, amount, now)
}

// Withdraw zeroes an expired lock and returns its principal. The lock row
// persists before the payout goes out.
func (s *voteEscrowService) Withdraw(ctx context.Context, caller string, now time.Time) (decimal.Decimal, error) {
	lock, err := s.escrowStore.FindLock(ctx, caller)
	if err != nil {
		return decimal.Zero, err
	}

	if lock.ID == 0 || !lock.Amount.IsPositive() {
		return decimal.Zero, core.Errorf(core.ErrLockNotFound, "account %s holds no lock", caller)
	}

	if now.UTC().Unix() < lock.UnlockTime {
		return decimal.Zero, core.Errorf(core.ErrLockNotExpired, "lock of %s unlocks at %d", caller, lock.UnlockTime)
	}

	if lock.Delegatee != "" {
		if err := s.escrowStore.RemoveDelegation(ctx, lock.Delegatee, caller); err != nil {
			return decimal.Zero, err
		}
	}

	principal := lock.Amount

	lock.Amount = decimal.Zero
	lock.UnlockTime = 0
	lock.Delegatee = ""

	if err := s.escrowStore.UpdateLock(ctx, lock, principal.Neg()); err != nil {
		return decimal.Zero, err
	}

	if err := s.walletService.Transfer(ctx, s.system.AmptAsset, s.address, caller, principal, "escrow withdraw"); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("escrow: pay withdraw")
		return decimal.Zero, err
	}

	return principal, nil
}

// Delegate moves the caller's vote power to another address. An empty target
// removes the delegation and the power reverts to the caller.
func (s *voteEscrowService) Delegate(ctx context.Context, caller, to string) error {
	if to == caller {
		return core.Errorf(core.ErrInvalidArgument, "cannot delegate to self")
	}

	lock, err := s.escrowStore.FindLock(ctx, caller)
	if err != nil {
		return err
	}

	if lock.ID == 0 || !lock.Amount.IsPositive() {
		return core.Errorf(core.ErrLockNotFound, "account %s holds no lock", caller)
	}

	if to == lock.Delegatee {
		return core.Errorf(core.ErrSameDelegatee, "power of %s already delegated to %q", caller, to)
	}

	if lock.Delegatee != "" {
		if err := s.escrowStore.RemoveDelegation(ctx, lock.Delegatee, caller); err != nil {
			return err
		}
	}

	if to != "" {
		if err := s.escrowStore.AddDelegation(ctx, to, caller); err != nil {
			return err
		}
	}

	lock.Delegatee = to

	return s.escrowStore.UpdateLock(ctx, lock, decimal.Zero)
}

// BalanceOf delegatee-adjusted vote power: zero for an account that has
// delegated away, own power plus every delegator's power otherwise.
func (s *voteEscrowService) BalanceOf(ctx context.Context, account string, now time.Time) (decimal.Decimal, error) {
	t := now.UTC().Unix()

	total := decimal.Zero

	lock, err := s.escrowStore.FindLock(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}

	if lock.ID > 0 && lock.Delegatee == "" {
		total = total.Add(amplify.VotePower(lock.Amount, lock.UnlockTime, t))
	}

	delegations, err := s.escrowStore.ListDelegators(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}

	for _, delegation := range delegations {
		delegated, err := s.escrowStore.FindLock(ctx, delegation.Delegator)
		if err != nil {
			return decimal.Zero, err
		}

		total = total.Add(amplify.VotePower(delegated.Amount, delegated.UnlockTime, t))
	}

	return total, nil
}

// TotalSupply sums the power of every non-delegated-away lock. Delegated
// locks are left out entirely; their power shows up only in the
// delegatee's BalanceOf.
func (s *voteEscrowService) TotalSupply(ctx context.Context, now time.Time) (decimal.Decimal, error) {
	t := now.UTC().Unix()

	locks, err := s.escrowStore.AllLocks(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, lock := range locks {
		if lock.Delegatee != "" {
			continue
		}

		total = total.Add(amplify.VotePower(lock.Amount, lock.UnlockTime, t))
	}

	return total, nil
}

// TotalLocked raw principal sum irrespective of decay or delegation.
func (s *voteEscrowService) TotalLocked(ctx context.Context) (decimal.Decimal, error) {
	return s.escrowStore.TotalLocked(ctx)
}

func (s *voteEscrowService) topUp(ctx context.Context, payer, account string, amount decimal.Decimal, now time.Time) error {
	lock, err := s.activeLock(ctx, account, now)
	if err != nil {
		return err
	}

	if err := s.walletService.Transfer(ctx, s.system.AmptAsset, payer, s.address, amount, "escrow lock"); err != nil {
		return err
	}

	lock.Amount = lock.Amount.Add(amount)

	return s.escrowStore.UpdateLock(ctx, lock, amount)
}

func (s *voteEscrowService) activeLock(ctx context.Context, account string, now time.Time) (*core.Lock, error) {
	lock, err := s.escrowStore.FindLock(ctx, account)
	if err != nil {
		return nil, err
	}

	if lock.ID == 0 || !lock.Amount.IsPositive() {
		return nil, core.Errorf(core.ErrLockNotFound, "account %s holds no lock", account)
	}

	if now.UTC().Unix() >= lock.UnlockTime {
		return nil, core.Errorf(core.ErrLockExpired, "lock of %s expired at %d", account, lock.UnlockTime)
	}

	return lock, nil
}
