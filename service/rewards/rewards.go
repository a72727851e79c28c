package rewards

import (
	"context"
	"time"

	"amplify/core"
	"amplify/internal/amplify"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type rewardsService struct {
	system        *core.System
	address       string
	poolStore     core.IPoolStore
	rewardsStore  core.IRewardsStore
	blockService  core.IBlockService
	walletService core.IWalletService
}

// New new reward accrual engine. The address is the distributor ledger
// account claims are paid from.
func New(system *core.System,
	address string,
	poolStore core.IPoolStore,
	rewardsStore core.IRewardsStore,
	blockService core.IBlockService,
	walletService core.IWalletService) core.IRewardsService {
	return &rewardsService{
		system:        system,
		address:       address,
		poolStore:     poolStore,
		rewardsStore:  rewardsStore,
		blockService:  blockService,
		walletService: walletService,
	}
}

func (s *rewardsService) LendAllowed(ctx context.Context, pool, account string, supplyBalance decimal.Decimal, t time.Time) error {
	state, _, err := s.accrue(ctx, pool, t, core.RewardSideSupply)
	if err != nil {
		return err
	}

	return s.distribute(ctx, account, pool, core.RewardSideSupply, supplyBalance, state.SupplyIndex)
}

func (s *rewardsService) BorrowAllowed(ctx context.Context, pool, account string, borrowBalance decimal.Decimal, t time.Time) error {
	state, _, err := s.accrue(ctx, pool, t, core.RewardSideBorrow)
	if err != nil {
		return err
	}

	return s.distribute(ctx, account, pool, core.RewardSideBorrow, borrowBalance, state.BorrowIndex)
}

// AccruePool syncs both indices up to t at the pool's current speed. Called
// before a speed change so the old emission rate covers the stretch it ran.
func (s *rewardsService) AccruePool(ctx context.Context, pool string, t time.Time) error {
	if _, _, err := s.accrue(ctx, pool, t, core.RewardSideSupply); err != nil {
		return err
	}

	_, _, err := s.accrue(ctx, pool, t, core.RewardSideBorrow)
	return err
}

func (s *rewardsService) GetSupplyReward(ctx context.Context, account, pool string) (decimal.Decimal, error) {
	user, err := s.rewardsStore.FindUser(ctx, account, pool, core.RewardSideSupply)
	if err != nil {
		return decimal.Zero, err
	}

	return user.Accrued, nil
}

func (s *rewardsService) GetBorrowReward(ctx context.Context, account, pool string) (decimal.Decimal, error) {
	user, err := s.rewardsStore.FindUser(ctx, account, pool, core.RewardSideBorrow)
	if err != nil {
		return decimal.Zero, err
	}

	return user.Accrued, nil
}

func (s *rewardsService) GetTotalSupplyReward(ctx context.Context, account string) (decimal.Decimal, error) {
	return s.totalBySide(ctx, account, core.RewardSideSupply)
}

func (s *rewardsService) GetTotalBorrowReward(ctx context.Context, account string) (decimal.Decimal, error) {
	return s.totalBySide(ctx, account, core.RewardSideBorrow)
}

// ClaimAMPT zeroes every accrued row of the account first, then pays the
// total out of the distributor account. No-op when nothing has accrued. The
// distributor balance is checked before the flush, so an underfunded
// distributor fails the claim with the accrued rows intact.
func (s *rewardsService) ClaimAMPT(ctx context.Context, account string) (decimal.Decimal, error) {
	log := logger.FromContext(ctx).WithField("service", "rewards")

	supply, err := s.totalBySide(ctx, account, core.RewardSideSupply)
	if err != nil {
		return decimal.Zero, err
	}

	borrow, err := s.totalBySide(ctx, account, core.RewardSideBorrow)
	if err != nil {
		return decimal.Zero, err
	}

	pending := supply.Add(borrow)
	if !pending.IsPositive() {
		return decimal.Zero, nil
	}

	balance, err := s.walletService.BalanceOf(ctx, s.system.AmptAsset, s.address)
	if err != nil {
		return decimal.Zero, err
	}

	if balance.LessThan(pending) {
		return decimal.Zero, core.Errorf(core.ErrInsufficientBalance, "distributor holds %s, owes %s", balance, pending)
	}

	total, err := s.rewardsStore.FlushByAccount(ctx, account)
	if err != nil {
		return decimal.Zero, err
	}

	if !total.IsPositive() {
		return decimal.Zero, nil
	}

	if err := s.walletService.Transfer(ctx, s.system.AmptAsset, s.address, account, total, "reward claim"); err != nil {
		log.WithError(err).Errorln("pay claim")
		return decimal.Zero, err
	}

	return total, nil
}

func (s *rewardsService) totalBySide(ctx context.Context, account string, side core.RewardSide) (decimal.Decimal, error) {
	users, err := s.rewardsStore.ListByAccount(ctx, account, side)
	if err != nil {
		return decimal.Zero, err
	}

	total := decimal.Zero
	for _, user := range users {
		total = total.Add(user.Accrued)
	}

	return total, nil
}

// accrue moves one side's index of the pool forward to the block at t.
func (s *rewardsService) accrue(ctx context.Context, pool string, t time.Time, side core.RewardSide) (*core.RewardsState, *core.Pool, error) {
	block, err := s.blockService.GetBlock(ctx, t)
	if err != nil {
		return nil, nil, err
	}

	p, err := s.poolStore.Find(ctx, pool)
	if err != nil {
		return nil, nil, err
	}

	if p.ID == 0 {
		return nil, nil, core.Errorf(core.ErrPoolNotFound, "pool %s not found", pool)
	}

	state, err := s.rewardsStore.FindState(ctx, pool)
	if err != nil {
		return nil, nil, err
	}

	if state.ID == 0 {
		state = &core.RewardsState{
			Pool:        pool,
			SupplyIndex: decimal.Zero,
			SupplyBlock: block,
			BorrowIndex: decimal.Zero,
			BorrowBlock: block,
		}

		if err := s.rewardsStore.SaveState(ctx, state); err != nil {
			return nil, nil, err
		}

		return state, p, nil
	}

	switch side {
	case core.RewardSideSupply:
		if delta := block - state.SupplyBlock; delta > 0 {
			state.SupplyIndex = state.SupplyIndex.Add(amplify.IndexDelta(p.AmptSpeed, delta, p.TotalSupply))
			state.SupplyBlock = block

			if err := s.rewardsStore.UpdateState(ctx, state); err != nil {
				return nil, nil, err
			}
		}
	case core.RewardSideBorrow:
		if delta := block - state.BorrowBlock; delta > 0 {
			state.BorrowIndex = state.BorrowIndex.Add(amplify.IndexDelta(p.AmptSpeed, delta, p.TotalBorrows))
			state.BorrowBlock = block

			if err := s.rewardsStore.UpdateState(ctx, state); err != nil {
				return nil, nil, err
			}
		}
	}

	return state, p, nil
}

// distribute settles the account's share of the index growth since its
// snapshot and moves the snapshot forward.
func (s *rewardsService) distribute(ctx context.Context, account, pool string, side core.RewardSide, balance, index decimal.Decimal) error {
	user, err := s.rewardsStore.FindUser(ctx, account, pool, side)
	if err != nil {
		return err
	}

	delta := amplify.AccruedDelta(balance, index, user.Index)

	if user.ID == 0 {
		user.Account = account
		user.Pool = pool
		user.Side = side
		user.Index = index
		user.Accrued = delta

		return s.rewardsStore.SaveUser(ctx, user)
	}

	user.Index = index
	user.Accrued = user.Accrued.Add(delta)

	return s.rewardsStore.UpdateUser(ctx, user)
}
