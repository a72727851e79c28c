package controller

import (
	"context"
	"testing"
	"time"

	"amplify/core"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memPropertyStore struct {
	values map[string]string
}

func (s *memPropertyStore) Get(ctx context.Context, key string) (string, error) {
	return s.values[key], nil
}

func (s *memPropertyStore) Save(ctx context.Context, key, value string) error {
	s.values[key] = value
	return nil
}

type memBorrowerStore struct {
	borrowers map[string]*core.Borrower
	nextID    uint64
}

func (s *memBorrowerStore) Save(ctx context.Context, borrower *core.Borrower) error {
	borrower.ID = s.nextID
	s.nextID++
	clone := *borrower
	s.borrowers[borrower.Address] = &clone
	return nil
}

func (s *memBorrowerStore) Find(ctx context.Context, address string) (*core.Borrower, error) {
	if borrower, ok := s.borrowers[address]; ok {
		clone := *borrower
		return &clone, nil
	}

	return &core.Borrower{}, nil
}

func (s *memBorrowerStore) Update(ctx context.Context, borrower *core.Borrower) error {
	clone := *borrower
	s.borrowers[borrower.Address] = &clone
	return nil
}

func (s *memBorrowerStore) All(ctx context.Context) ([]*core.Borrower, error) {
	var out []*core.Borrower
	for _, b := range s.borrowers {
		out = append(out, b)
	}

	return out, nil
}

type memStableCoinStore struct {
	coins map[string]*core.StableCoin
}

func (s *memStableCoinStore) Save(ctx context.Context, coin *core.StableCoin) error {
	if _, ok := s.coins[coin.Address]; !ok {
		coin.ID = uint64(len(s.coins) + 1)
		clone := *coin
		s.coins[coin.Address] = &clone
	}

	return nil
}

func (s *memStableCoinStore) Delete(ctx context.Context, address string) error {
	delete(s.coins, address)
	return nil
}

func (s *memStableCoinStore) Find(ctx context.Context, address string) (*core.StableCoin, error) {
	if coin, ok := s.coins[address]; ok {
		clone := *coin
		return &clone, nil
	}

	return &core.StableCoin{}, nil
}

func (s *memStableCoinStore) All(ctx context.Context) ([]*core.StableCoin, error) {
	var out []*core.StableCoin
	for _, coin := range s.coins {
		out = append(out, coin)
	}

	return out, nil
}

type memPoolStore struct {
	pools  map[string]*core.Pool
	nextID uint64
}

func (s *memPoolStore) Save(ctx context.Context, pool *core.Pool) error {
	pool.ID = s.nextID
	s.nextID++
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
	clone := *pool
	s.pools[pool.Address] = &clone
	return nil
}

func (s *memPoolStore) All(ctx context.Context) ([]*core.Pool, error) {
	var out []*core.Pool
	for _, pool := range s.pools {
		out = append(out, pool)
	}

	return out, nil
}

type memApplicationStore struct {
	applications []*core.PoolApplication
	nextID       uint64
}

func (s *memApplicationStore) Create(ctx context.Context, application *core.PoolApplication) error {
	application.ID = s.nextID
	s.nextID++
	clone := *application
	s.applications = append(s.applications, &clone)
	return nil
}

func (s *memApplicationStore) Find(ctx context.Context, pool string, slot int64) (*core.PoolApplication, error) {
	for _, a := range s.applications {
		if a.Pool == pool && a.Slot == slot {
			clone := *a
			return &clone, nil
		}
	}

	return &core.PoolApplication{}, nil
}

func (s *memApplicationStore) FindPending(ctx context.Context, pool string) (*core.PoolApplication, error) {
	for _, a := range s.applications {
		if a.Pool == pool && !a.Whitelisted {
			clone := *a
			return &clone, nil
		}
	}

	return &core.PoolApplication{}, nil
}

func (s *memApplicationStore) Update(ctx context.Context, application *core.PoolApplication) error {
	for i, a := range s.applications {
		if a.ID == application.ID {
			clone := *application
			s.applications[i] = &clone
			return nil
		}
	}

	return nil
}

func (s *memApplicationStore) Delete(ctx context.Context, id uint64) error {
	out := s.applications[:0]
	for _, a := range s.applications {
		if a.ID != id {
			out = append(out, a)
		}
	}

	s.applications = out
	return nil
}

func (s *memApplicationStore) CountByPool(ctx context.Context, pool string) (int64, error) {
	var count int64
	for _, a := range s.applications {
		if a.Pool == pool {
			count++
		}
	}

	return count, nil
}

func (s *memApplicationStore) ListByPool(ctx context.Context, pool string) ([]*core.PoolApplication, error) {
	var out []*core.PoolApplication
	for _, a := range s.applications {
		if a.Pool == pool {
			out = append(out, a)
		}
	}

	return out, nil
}

type memWallet struct {
	balances   map[string]decimal.Decimal
	allowances map[string]decimal.Decimal
}

func newMemWallet() *memWallet {
	return &memWallet{
		balances:   make(map[string]decimal.Decimal),
		allowances: make(map[string]decimal.Decimal),
	}
}

func (w *memWallet) key(token, account string) string { return token + "/" + account }

func (w *memWallet) allowanceKey(token, owner, spender string) string {
	return token + "/" + owner + "/" + spender
}

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
	return nil
}

func (w *memWallet) Approve(ctx context.Context, token, owner, spender string, amount decimal.Decimal) error {
	w.allowances[w.allowanceKey(token, owner, spender)] = amount
	return nil
}

func (w *memWallet) TransferFrom(ctx context.Context, token, spender, from, to string, amount decimal.Decimal, memo string) error {
	k := w.allowanceKey(token, from, spender)
	if w.allowances[k].LessThan(amount) {
		return core.Errorf(core.ErrInsufficientAllowance, "allowance of %s for %s is below %s", from, spender, amount)
	}

	if err := w.Transfer(ctx, token, from, to, amount, memo); err != nil {
		return err
	}

	w.allowances[k] = w.allowances[k].Sub(amount)
	return nil
}

func (w *memWallet) BalanceOf(ctx context.Context, token, account string) (decimal.Decimal, error) {
	return w.balances[w.key(token, account)], nil
}

func (w *memWallet) Allowance(ctx context.Context, token, owner, spender string) (decimal.Decimal, error) {
	return w.allowances[w.allowanceKey(token, owner, spender)], nil
}

type stubRewards struct {
	accrued []string
}

func (r *stubRewards) LendAllowed(ctx context.Context, pool, account string, supplyBalance decimal.Decimal, t time.Time) error {
	return nil
}

func (r *stubRewards) BorrowAllowed(ctx context.Context, pool, account string, borrowBalance decimal.Decimal, t time.Time) error {
	return nil
}

func (r *stubRewards) AccruePool(ctx context.Context, pool string, t time.Time) error {
	r.accrued = append(r.accrued, pool)
	return nil
}

func (r *stubRewards) GetSupplyReward(ctx context.Context, account, pool string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *stubRewards) GetBorrowReward(ctx context.Context, account, pool string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *stubRewards) GetTotalSupplyReward(ctx context.Context, account string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *stubRewards) GetTotalBorrowReward(ctx context.Context, account string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (r *stubRewards) ClaimAMPT(ctx context.Context, account string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type stubContract struct {
	address string
	ok      bool
}

func (c *stubContract) Address() string { return c.address }

func (c *stubContract) IsInterestRateModel(ctx context.Context) bool { return c.ok }

func (c *stubContract) IsProvisionPool(ctx context.Context) bool { return c.ok }

func (c *stubContract) IsAssetsFactory(ctx context.Context) bool { return c.ok }

func (c *stubContract) IsAmptToken(ctx context.Context) bool { return c.ok }

type testEnv struct {
	service      core.IControllerService
	wallet       *memWallet
	pools        *memPoolStore
	applications *memApplicationStore
	rewards      *stubRewards
	property     *memPropertyStore
}

func newTestEnv() *testEnv {
	system := &core.System{
		Owner:           "owner",
		AmptAsset:       "ampt",
		DepositAmount:   decimal.NewFromInt(10),
		Genesis:         0,
		SecondsPerBlock: 15,
	}

	env := &testEnv{
		wallet:       newMemWallet(),
		pools:        &memPoolStore{pools: make(map[string]*core.Pool), nextID: 1},
		applications: &memApplicationStore{nextID: 1},
		rewards:      &stubRewards{},
		property:     &memPropertyStore{values: make(map[string]string)},
	}

	env.service = New(system, "controller", env.property,
		&memBorrowerStore{borrowers: make(map[string]*core.Borrower), nextID: 1},
		&memStableCoinStore{coins: make(map[string]*core.StableCoin)},
		env.pools, env.applications, env.wallet, env.rewards)

	return env
}

func (env *testEnv) whitelistedBorrower(t *testing.T, address string) {
	ctx := context.Background()
	require.Nil(t, env.wallet.Mint(ctx, "ampt", address, decimal.NewFromInt(100)))
	require.Nil(t, env.service.SubmitBorrower(ctx, address))
	require.Nil(t, env.service.WhitelistBorrower(ctx, "owner", address))
}

func (env *testEnv) activePool(t *testing.T, borrower string) string {
	ctx := context.Background()
	env.whitelistedBorrower(t, borrower)
	require.Nil(t, env.service.AddStableCoin(ctx, "owner", "usdc", "USDC"))

	address, err := env.service.CreatePool(ctx, borrower, "main", decimal.NewFromInt(1), "usdc", core.PoolAccessPublic)
	require.Nil(t, err)

	return address
}

func TestBorrowerLifecycle(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	require.Nil(t, env.wallet.Mint(ctx, "ampt", "alice", decimal.NewFromInt(100)))
	require.Nil(t, env.service.SubmitBorrower(ctx, "alice"))

	// the fixed deposit moved to the controller
	balance, err := env.wallet.BalanceOf(ctx, "ampt", "controller")
	require.Nil(t, err)
	assert.Equal(t, "10", balance.String())

	err = env.service.SubmitBorrower(ctx, "alice")
	assert.Equal(t, core.ErrBorrowerExists, core.ErrorCodeOf(err))

	err = env.service.WhitelistBorrower(ctx, "alice", "alice")
	assert.Equal(t, core.ErrUnauthorized, core.ErrorCodeOf(err))

	err = env.service.WhitelistBorrower(ctx, "owner", "nobody")
	assert.Equal(t, core.ErrBorrowerNotFound, core.ErrorCodeOf(err))

	require.Nil(t, env.service.WhitelistBorrower(ctx, "owner", "alice"))

	err = env.service.WhitelistBorrower(ctx, "owner", "alice")
	assert.Equal(t, core.ErrAlreadyWhitelisted, core.ErrorCodeOf(err))

	require.Nil(t, env.service.UpdateBorrowerInfo(ctx, "owner", "alice", decimal.New(8, 17), decimal.NewFromInt(50000)))
	require.Nil(t, env.service.BlacklistBorrower(ctx, "owner", "alice"))

	// blacklisted borrowers cannot open pools
	_, err = env.service.CreatePool(ctx, "alice", "main", decimal.NewFromInt(1), "usdc", core.PoolAccessPublic)
	assert.Equal(t, core.ErrBorrowerNotWhitelisted, core.ErrorCodeOf(err))
}

func TestSubmitBorrowerUsesPropertyDeposit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	require.Nil(t, env.service.SetAmptDepositAmount(ctx, "owner", decimal.NewFromInt(25)))
	require.Nil(t, env.wallet.Mint(ctx, "ampt", "bob", decimal.NewFromInt(100)))
	require.Nil(t, env.service.SubmitBorrower(ctx, "bob"))

	balance, err := env.wallet.BalanceOf(ctx, "ampt", "controller")
	require.Nil(t, err)
	assert.Equal(t, "25", balance.String())
}

func TestCreatePool(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	env.whitelistedBorrower(t, "alice")

	_, err := env.service.CreatePool(ctx, "alice", "main", decimal.NewFromInt(1), "usdc", core.PoolAccessPublic)
	assert.Equal(t, core.ErrStableCoinNotFound, core.ErrorCodeOf(err))

	require.Nil(t, env.service.AddStableCoin(ctx, "owner", "usdc", "USDC"))

	_, err = env.service.CreatePool(ctx, "alice", "main", decimal.NewFromInt(1), "usdc", core.PoolAccess("WEIRD"))
	assert.Equal(t, core.ErrInvalidArgument, core.ErrorCodeOf(err))

	address, err := env.service.CreatePool(ctx, "alice", "main", decimal.NewFromInt(1), "usdc", core.PoolAccessPublic)
	require.Nil(t, err)

	pool, err := env.pools.Find(ctx, address)
	require.Nil(t, err)
	assert.True(t, pool.IsActive)
	assert.Equal(t, "alice", pool.Owner)

	// pool addresses derive from (owner, name): reusing a name fails, a new
	// name yields a distinct address
	_, err = env.service.CreatePool(ctx, "alice", "main", decimal.NewFromInt(2), "usdc", core.PoolAccessPrivate)
	assert.Equal(t, core.ErrInvalidArgument, core.ErrorCodeOf(err))

	second, err := env.service.CreatePool(ctx, "alice", "overflow", decimal.NewFromInt(1), "usdc", core.PoolAccessPublic)
	require.Nil(t, err)
	assert.NotEqual(t, address, second)
}

func TestApplicationFlow(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	pool := env.activePool(t, "alice")

	require.Nil(t, env.wallet.Mint(ctx, "usdc", "lender", decimal.NewFromInt(1000)))

	// deposit is gated on the lender's allowance for the controller
	_, err := env.service.RequestPoolWhitelist(ctx, "lender", pool, decimal.NewFromInt(100))
	assert.Equal(t, core.ErrInsufficientAllowance, core.ErrorCodeOf(err))

	require.Nil(t, env.wallet.Approve(ctx, "usdc", "lender", "controller", decimal.NewFromInt(500)))

	slot, err := env.service.RequestPoolWhitelist(ctx, "lender", pool, decimal.NewFromInt(100))
	require.Nil(t, err)
	assert.Equal(t, int64(0), slot)

	escrowed, err := env.wallet.BalanceOf(ctx, "usdc", "controller")
	require.Nil(t, err)
	assert.Equal(t, "100", escrowed.String())

	// one pending application per pool
	_, err = env.service.RequestPoolWhitelist(ctx, "other", pool, decimal.NewFromInt(100))
	assert.Equal(t, core.ErrApplicationPending, core.ErrorCodeOf(err))

	err = env.service.WhitelistLender(ctx, "mallory", pool, slot)
	assert.Equal(t, core.ErrUnauthorized, core.ErrorCodeOf(err))

	require.Nil(t, env.service.WhitelistLender(ctx, "alice", pool, slot))

	err = env.service.WhitelistLender(ctx, "alice", pool, slot)
	assert.Equal(t, core.ErrAlreadyWhitelisted, core.ErrorCodeOf(err))

	// whitelisted deposits can no longer be withdrawn
	err = env.service.WithdrawApplicationDeposit(ctx, "lender", pool, slot)
	assert.Equal(t, core.ErrAlreadyWhitelisted, core.ErrorCodeOf(err))
}

func TestWithdrawApplicationDeposit(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	pool := env.activePool(t, "alice")

	require.Nil(t, env.wallet.Mint(ctx, "usdc", "lender", decimal.NewFromInt(1000)))
	require.Nil(t, env.wallet.Approve(ctx, "usdc", "lender", "controller", decimal.NewFromInt(500)))

	slot, err := env.service.RequestPoolWhitelist(ctx, "lender", pool, decimal.NewFromInt(100))
	require.Nil(t, err)

	err = env.service.WithdrawApplicationDeposit(ctx, "mallory", pool, slot)
	assert.Equal(t, core.ErrUnauthorized, core.ErrorCodeOf(err))

	require.Nil(t, env.service.WithdrawApplicationDeposit(ctx, "lender", pool, slot))

	balance, err := env.wallet.BalanceOf(ctx, "usdc", "lender")
	require.Nil(t, err)
	assert.Equal(t, "1000", balance.String())

	// the freed pool accepts a new request in the next slot
	slot, err = env.service.RequestPoolWhitelist(ctx, "lender", pool, decimal.NewFromInt(100))
	require.Nil(t, err)
	assert.Equal(t, int64(0), slot)
}

func TestSetAmptSpeed(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	pool := env.activePool(t, "alice")
	now := time.Unix(60, 0)

	err := env.service.SetAmptSpeed(ctx, "alice", pool, decimal.NewFromInt(100), now)
	assert.Equal(t, core.ErrUnauthorized, core.ErrorCodeOf(err))

	err = env.service.SetAmptSpeed(ctx, "owner", pool, decimal.Zero, now)
	assert.Equal(t, core.ErrInvalidSpeed, core.ErrorCodeOf(err))

	require.Nil(t, env.service.SetAmptSpeed(ctx, "owner", pool, decimal.NewFromInt(100), now))

	// indices were synced at the old speed before the change
	assert.Equal(t, []string{pool}, env.rewards.accrued)

	p, err := env.pools.Find(ctx, pool)
	require.Nil(t, err)
	assert.Equal(t, "100", p.AmptSpeed.String())
}

func TestGetPoolAPY(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	pool := env.activePool(t, "alice")

	p, err := env.pools.Find(ctx, pool)
	require.Nil(t, err)
	p.TotalBorrows = decimal.NewFromInt(500)
	p.TotalCash = decimal.NewFromInt(500)
	p.InterestRate = decimal.New(1, 17)
	require.Nil(t, env.pools.Update(ctx, p))

	apy, err := env.service.GetPoolAPY(ctx, pool)
	require.Nil(t, err)
	assert.Equal(t, decimal.New(5, 16).String(), apy.String())

	_, err = env.service.GetPoolAPY(ctx, "nope")
	assert.Equal(t, core.ErrPoolNotFound, core.ErrorCodeOf(err))
}

func TestCapabilityProbes(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	err := env.service.SetInterestRateModel(ctx, "owner", &stubContract{address: "model-1", ok: false})
	assert.Equal(t, core.ErrCapabilityCheckFailed, core.ErrorCodeOf(err))

	require.Nil(t, env.service.SetInterestRateModel(ctx, "owner", &stubContract{address: "model-1", ok: true}))
	assert.Equal(t, "model-1", env.property.values[core.PropertyInterestRateModel])

	err = env.service.SetInterestRateModel(ctx, "owner", &stubContract{address: "model-1", ok: true})
	assert.Equal(t, core.ErrAlreadySet, core.ErrorCodeOf(err))

	require.Nil(t, env.service.SetProvisionPool(ctx, "owner", &stubContract{address: "provision-1", ok: true}))
	require.Nil(t, env.service.SetAssetsFactory(ctx, "owner", &stubContract{address: "factory-1", ok: true}))
	require.Nil(t, env.service.SetAmptContract(ctx, "owner", &stubContract{address: "ampt-1", ok: true}))

	err = env.service.SetAmptDepositAmount(ctx, "owner", decimal.Zero)
	assert.Equal(t, core.ErrInvalidArgument, core.ErrorCodeOf(err))
}

func TestTransferFunds(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv()

	swept, err := env.service.TransferFunds(ctx, "owner", "treasury")
	require.Nil(t, err)
	assert.True(t, swept.IsZero())

	require.Nil(t, env.wallet.Mint(ctx, "ampt", "controller", decimal.NewFromInt(77)))

	_, err = env.service.TransferFunds(ctx, "mallory", "treasury")
	assert.Equal(t, core.ErrUnauthorized, core.ErrorCodeOf(err))

	_, err = env.service.TransferFunds(ctx, "owner", "")
	assert.Equal(t, core.ErrInvalidArgument, core.ErrorCodeOf(err))

	swept, err = env.service.TransferFunds(ctx, "owner", "treasury")
	require.Nil(t, err)
	assert.Equal(t, "77", swept.String())

	balance, err := env.wallet.BalanceOf(ctx, "ampt", "treasury")
	require.Nil(t, err)
	assert.Equal(t, "77", balance.String())
}
