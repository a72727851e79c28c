package rewards

import (
	"context"
	"testing"
	"time"

	"amplify/core"
	"amplify/service/block"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPoolStore struct {
	pools map[string]*core.Pool
}

func (s *memPoolStore) Save(ctx context.Context, pool *core.Pool) error {
	clone := *pool
	s.pools[pool.Address] = &clone
	return nil
}

func (s *memPoolStore) Find(ctx context.Context, address string) (*core.Pool, error) {
	if pool, ok := s.pools[address]; ok {
		clone := *pool
		return &clone, nil
	}

	return &core.Pool{}, nil
}

func (s *memPoolStore) Update(ctx context.Context, pool *core.Pool) error {
	return s.Save(ctx, pool)
}

func (s *memPoolStore) All(ctx context.Context) ([]*core.Pool, error) {
	var pools []*core.Pool
	for _, pool := range s.pools {
		pools = append(pools, pool)
	}

	return pools, nil
}

type memRewardsStore struct {
	states map[string]*core.RewardsState
	users  map[string]*core.RewardUserState
	nextID uint64
}

func newMemRewardsStore() *memRewardsStore {
	return &memRewardsStore{
		states: make(map[string]*core.RewardsState),
		users:  make(map[string]*core.RewardUserState),
		nextID: 1,
	}
}

func userKey(account, pool string, side core.RewardSide) string {
	return account + "/" + pool + "/" + string(side)
}

func (s *memRewardsStore) FindState(ctx context.Context, pool string) (*core.RewardsState, error) {
	if state, ok := s.states[pool]; ok {
		clone := *state
		return &clone, nil
	}

	return &core.RewardsState{}, nil
}

func (s *memRewardsStore) SaveState(ctx context.Context, state *core.RewardsState) error {
	state.ID = s.nextID
	s.nextID++
	clone := *state
	s.states[state.Pool] = &clone
	return nil
}

func (s *memRewardsStore) UpdateState(ctx context.Context, state *core.RewardsState) error {
	clone := *state
	s.states[state.Pool] = &clone
	return nil
}

func (s *memRewardsStore) FindUser(ctx context.Context, account, pool string, side core.RewardSide) (*core.RewardUserState, error) {
	if user, ok := s.users[userKey(account, pool, side)]; ok {
		clone := *user
		return &clone, nil
	}

	return &core.RewardUserState{Index: decimal.Zero, Accrued: decimal.Zero}, nil
}

func (s *memRewardsStore) SaveUser(ctx context.Context, user *core.RewardUserState) error {
	user.ID = s.nextID
	s.nextID++
	clone := *user
	s.users[userKey(user.Account, user.Pool, user.Side)] = &clone
	return nil
}

func (s *memRewardsStore) UpdateUser(ctx context.Context, user *core.RewardUserState) error {
	clone := *user
	s.users[userKey(user.Account, user.Pool, user.Side)] = &clone
	return nil
}

func (s *memRewardsStore) ListByAccount(ctx context.Context, account string, side core.RewardSide) ([]*core.RewardUserState, error) {
	var users []*core.RewardUserState
	for _, user := range s.users {
		if user.Account == account && user.Side == side {
			users = append(users, user)
		}
	}

	return users, nil
}

func (s *memRewardsStore) FlushByAccount(ctx context.Context, account string) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, user := range s.users {
		if user.Account == account && user.Accrued.IsPositive() {
			total = total.Add(user.Accrued)
			user.Accrued = decimal.Zero
		}
	}

	return total, nil
}

type memWallet struct {
	balances  map[string]decimal.Decimal
	transfers int
}

func newMemWallet() *memWallet {
	return &memWallet{balances: make(map[string]decimal.Decimal)}
}

func (w *memWallet) key(token, account string) string { return token + "/" + account }

func (w *memWallet) Mint(ctx context.Context, token, to string, amount decimal.Decimal) error {
	k := w.key(token, to)
	w.balances[k] = w.balances[k].Add(amount)
	return nil
}

func (w *memWallet) Transfer(ctx context.Context, token, from, to string, amount decimal.Decimal, memo string) error {
	fromKey := w.key(token, from)
	if w.balances[fromKey].LessThan(amount) {
		return core.Errorf(core.ErrInsufficientBalance, "balance of %s is below %s", from, amount)
	}

	w.balances[fromKey] = w.balances[fromKey].Sub(amount)
	toKey := w.key(token, to)
	w.balances[toKey] = w.balances[toKey].Add(amount)
	w.transfers++
	return nil
}

func (w *memWallet) Approve(ctx context.Context, token, owner, spender string, amount decimal.Decimal) error {
	return nil
}

func (w *memWallet) TransferFrom(ctx context.Context, token, spender, from, to string, amount decimal.Decimal, memo string) error {
	return w.Transfer(ctx, token, from, to, amount, memo)
}

func (w *memWallet) BalanceOf(ctx context.Context, token, account string) (decimal.Decimal, error) {
	return w.balances[w.key(token, account)], nil
}

func (w *memWallet) Allowance(ctx context.Context, token, owner, spender string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func newTestRewards() (core.IRewardsService, *memPoolStore, *memRewardsStore, *memWallet) {
	system := &core.System{
		Owner:           "owner",
		AmptAsset:       "ampt",
		Genesis:         0,
		SecondsPerBlock: 15,
	}

	pools := &memPoolStore{pools: make(map[string]*core.Pool)}
	rewards := newMemRewardsStore()
	wallet := newMemWallet()

	service := New(system, "distributor", pools, rewards, block.New(system), wallet)

	return service, pools, rewards, wallet
}

func TestSupplyAccrual(t *testing.T) {
	ctx := context.Background()
	service, pools, rewards, _ := newTestRewards()

	require.Nil(t, pools.Save(ctx, &core.Pool{
		ID:           1,
		Address:      "pool-1",
		IsActive:     true,
		AmptSpeed:    decimal.NewFromInt(100),
		TotalSupply:  decimal.NewFromInt(100000),
		TotalBorrows: decimal.NewFromInt(1500),
	}))

	balance := decimal.NewFromInt(100000)

	// first touch pins the index at block 0
	require.Nil(t, service.LendAllowed(ctx, "pool-1", "alice", balance, time.Unix(0, 0)))

	// 4 blocks later: index = (100/2)*4*1e36/100000 = 2e33
	require.Nil(t, service.LendAllowed(ctx, "pool-1", "alice", balance, time.Unix(60, 0)))

	state, err := rewards.FindState(ctx, "pool-1")
	require.Nil(t, err)
	assert.Equal(t, decimal.New(2, 33).String(), state.SupplyIndex.String())
	assert.Equal(t, int64(4), state.SupplyBlock)

	// reward = balance * index / 1e36 = 100000 * 2e33 / 1e36 = 200
	reward, err := service.GetSupplyReward(ctx, "alice", "pool-1")
	require.Nil(t, err)
	assert.Equal(t, "200", reward.String())
}

func TestEmptyPoolAccruesNothing(t *testing.T) {
	ctx := context.Background()
	service, pools, _, _ := newTestRewards()

	require.Nil(t, pools.Save(ctx, &core.Pool{
		ID:          1,
		Address:     "pool-1",
		IsActive:    true,
		AmptSpeed:   decimal.NewFromInt(100),
		TotalSupply: decimal.Zero,
	}))

	require.Nil(t, service.LendAllowed(ctx, "pool-1", "alice", decimal.Zero, time.Unix(0, 0)))
	require.Nil(t, service.LendAllowed(ctx, "pool-1", "alice", decimal.Zero, time.Unix(60, 0)))

	reward, err := service.GetSupplyReward(ctx, "alice", "pool-1")
	require.Nil(t, err)
	assert.True(t, reward.IsZero())
}

func TestBorrowAccrual(t *testing.T) {
	ctx := context.Background()
	service, pools, _, _ := newTestRewards()

	require.Nil(t, pools.Save(ctx, &core.Pool{
		ID:           1,
		Address:      "pool-1",
		IsActive:     true,
		AmptSpeed:    decimal.NewFromInt(100),
		TotalBorrows: decimal.NewFromInt(1000),
	}))

	balance := decimal.NewFromInt(1000)

	require.Nil(t, service.BorrowAllowed(ctx, "pool-1", "bob", balance, time.Unix(0, 0)))
	require.Nil(t, service.BorrowAllowed(ctx, "pool-1", "bob", balance, time.Unix(30, 0)))

	// index = 50*2*1e36/1000 = 1e35, reward = 1000 * 1e35 / 1e36 = 100
	reward, err := service.GetBorrowReward(ctx, "bob", "pool-1")
	require.Nil(t, err)
	assert.Equal(t, "100", reward.String())
}

func TestClaimAMPT(t *testing.T) {
	ctx := context.Background()
	service, pools, _, wallet := newTestRewards()

	require.Nil(t, pools.Save(ctx, &core.Pool{
		ID:          1,
		Address:     "pool-1",
		IsActive:    true,
		AmptSpeed:   decimal.NewFromInt(100),
		TotalSupply: decimal.NewFromInt(100000),
	}))
	require.Nil(t, wallet.Mint(ctx, "ampt", "distributor", decimal.NewFromInt(1000)))

	balance := decimal.NewFromInt(100000)
	require.Nil(t, service.LendAllowed(ctx, "pool-1", "alice", balance, time.Unix(0, 0)))
	require.Nil(t, service.LendAllowed(ctx, "pool-1", "alice", balance, time.Unix(60, 0)))

	claimed, err := service.ClaimAMPT(ctx, "alice")
	require.Nil(t, err)
	assert.Equal(t, "200", claimed.String())

	got, err := wallet.BalanceOf(ctx, "ampt", "alice")
	require.Nil(t, err)
	assert.Equal(t, "200", got.String())

	// nothing accrued in between, second claim moves nothing
	claimed, err = service.ClaimAMPT(ctx, "alice")
	require.Nil(t, err)
	assert.True(t, claimed.IsZero())
	assert.Equal(t, 1, wallet.transfers)
}

func TestClaimAMPTUnderfundedDistributor(t *testing.T) {
	ctx := context.Background()
	service, pools, _, wallet := newTestRewards()

	require.Nil(t, pools.Save(ctx, &core.Pool{
		ID:          1,
		Address:     "pool-1",
		IsActive:    true,
		AmptSpeed:   decimal.NewFromInt(100),
		TotalSupply: decimal.NewFromInt(100000),
	}))

	balance := decimal.NewFromInt(100000)
	require.Nil(t, service.LendAllowed(ctx, "pool-1", "alice", balance, time.Unix(0, 0)))
	require.Nil(t, service.LendAllowed(ctx, "pool-1", "alice", balance, time.Unix(60, 0)))

	// empty distributor: the claim fails and the accrued rows survive
	_, err := service.ClaimAMPT(ctx, "alice")
	assert.Equal(t, core.ErrInsufficientBalance, core.ErrorCodeOf(err))
	assert.Equal(t, 0, wallet.transfers)

	reward, err := service.GetSupplyReward(ctx, "alice", "pool-1")
	require.Nil(t, err)
	assert.Equal(t, "200", reward.String())

	require.Nil(t, wallet.Mint(ctx, "ampt", "distributor", decimal.NewFromInt(200)))

	claimed, err := service.ClaimAMPT(ctx, "alice")
	require.Nil(t, err)
	assert.Equal(t, "200", claimed.String())

	got, err := wallet.BalanceOf(ctx, "ampt", "alice")
	require.Nil(t, err)
	assert.Equal(t, "200", got.String())
}

func TestUnknownPool(t *testing.T) {
	ctx := context.Background()
	service, _, _, _ := newTestRewards()

	err := service.LendAllowed(ctx, "nope", "alice", decimal.NewFromInt(1), time.Unix(0, 0))
	assert.Equal(t, core.ErrPoolNotFound, core.ErrorCodeOf(err))
}
