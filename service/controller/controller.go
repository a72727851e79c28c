package controller

import (
	"context"
	"time"

	"amplify/core"
	"amplify/internal/amplify"
	"amplify/pkg/id"

	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

// poolNamespace seeds deterministic pool addresses from (owner, name).
const poolNamespace = "7f0e0f3e-6f64-4b2e-9f2d-1a5f3e8c9b21"

type controllerService struct {
	core.Ownable

	system           *core.System
	address          string
	propertyStore    core.IPropertyStore
	borrowerStore    core.IBorrowerStore
	stableCoinStore  core.IStableCoinStore
	poolStore        core.IPoolStore
	applicationStore core.IApplicationStore
	walletService    core.IWalletService
	rewardsService   core.IRewardsService
}

// New new controller ledger service. The address is the controller's own
// ledger account, holding borrower deposits and application escrow.
func New(system *core.System,
	address string,
	propertyStore core.IPropertyStore,
	borrowerStore core.IBorrowerStore,
	stableCoinStore core.IStableCoinStore,
	poolStore core.IPoolStore,
	applicationStore core.IApplicationStore,
	walletService core.IWalletService,
	rewardsService core.IRewardsService) core.IControllerService {
	return &controllerService{
		Ownable:          core.Ownable{Owner: system.Owner},
		system:           system,
		address:          address,
		propertyStore:    propertyStore,
		borrowerStore:    borrowerStore,
		stableCoinStore:  stableCoinStore,
		poolStore:        poolStore,
		applicationStore: applicationStore,
		walletService:    walletService,
		rewardsService:   rewardsService,
	}
}

func (s *controllerService) SubmitBorrower(ctx context.Context, caller string) error {
	if caller == "" {
		return core.Errorf(core.ErrInvalidArgument, "empty borrower address")
	}

	borrower, err := s.borrowerStore.Find(ctx, caller)
	if err != nil {
		return err
	}

	if borrower.ID > 0 {
		return core.Errorf(core.ErrBorrowerExists, "borrower %s already submitted", caller)
	}

	deposit, err := s.depositAmount(ctx)
	if err != nil {
		return err
	}

	if deposit.IsPositive() {
		if err := s.walletService.Transfer(ctx, s.system.AmptAsset, caller, s.address, deposit, "borrower deposit"); err != nil {
			return err
		}
	}

	return s.borrowerStore.Save(ctx, &core.Borrower{
		Address:        caller,
		DebtCeiling:    decimal.Zero,
		RatingMantissa: decimal.Zero,
	})
}

func (s *controllerService) WhitelistBorrower(ctx context.Context, caller, borrower string) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}

	b, err := s.borrowerStore.Find(ctx, borrower)
	if err != nil {
		return err
	}

	if b.ID == 0 {
		return core.Errorf(core.ErrBorrowerNotFound, "borrower %s not found", borrower)
	}

	if b.Whitelisted {
		return core.Errorf(core.ErrAlreadyWhitelisted, "borrower %s already whitelisted", borrower)
	}

	b.Whitelisted = true

	return s.borrowerStore.Update(ctx, b)
}

// BlacklistBorrower flips the whitelist flag back off. Rating and debt
// ceiling stay in place for a later re-whitelist.
func (s *controllerService) BlacklistBorrower(ctx context.Context, caller, borrower string) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}

	b, err := s.borrowerStore.Find(ctx, borrower)
	if err != nil {
		return err
	}

	if b.ID == 0 {
		return core.Errorf(core.ErrBorrowerNotFound, "borrower %s not found", borrower)
	}

	b.Whitelisted = false

	return s.borrowerStore.Update(ctx, b)
}

func (s *controllerService) UpdateBorrowerInfo(ctx context.Context, caller, borrower string, ratingMantissa, debtCeiling decimal.Decimal) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}

	if ratingMantissa.IsNegative() || debtCeiling.IsNegative() {
		return core.Errorf(core.ErrInvalidArgument, "negative borrower info for %s", borrower)
	}

	b, err := s.borrowerStore.Find(ctx, borrower)
	if err != nil {
		return err
	}

	if b.ID == 0 {
		return core.Errorf(core.ErrBorrowerNotFound, "borrower %s not found", borrower)
	}

	b.RatingMantissa = ratingMantissa
	b.DebtCeiling = debtCeiling

	return s.borrowerStore.Update(ctx, b)
}

// RequestPoolWhitelist escrows the deposit against the lender's allowance and
// opens an application in the next free slot. One pending application per
// pool at a time.
func (s *controllerService) RequestPoolWhitelist(ctx context.Context, caller, pool string, depositAmount decimal.Decimal) (int64, error) {
	p, err := s.findActivePool(ctx, pool)
	if err != nil {
		return 0, err
	}

	if depositAmount.LessThan(p.MinDeposit) {
		return 0, core.Errorf(core.ErrInvalidArgument, "deposit %s below pool minimum %s", depositAmount, p.MinDeposit)
	}

	pending, err := s.applicationStore.FindPending(ctx, pool)
	if err != nil {
		return 0, err
	}

	if pending.ID > 0 {
		return 0, core.Errorf(core.ErrApplicationPending, "pool %s has a pending application", pool)
	}

	slot, err := s.applicationStore.CountByPool(ctx, pool)
	if err != nil {
		return 0, err
	}

	if err := s.walletService.TransferFrom(ctx, p.StableCoin, s.address, caller, s.address, depositAmount, "application deposit"); err != nil {
		return 0, err
	}

	application := &core.PoolApplication{
		Pool:          pool,
		Slot:          slot,
		Lender:        caller,
		DepositAmount: depositAmount,
	}

	if err := s.applicationStore.Create(ctx, application); err != nil {
		logger.FromContext(ctx).WithError(err).Errorln("controller: create application")
		return 0, err
	}

	return slot, nil
}

func (s *controllerService) WhitelistLender(ctx context.Context, caller, pool string, slot int64) error {
	p, err := s.poolStore.Find(ctx, pool)
	if err != nil {
		return err
	}

	if p.ID == 0 {
		return core.Errorf(core.ErrPoolNotFound, "pool %s not found", pool)
	}

	if caller != p.Owner {
		return core.Errorf(core.ErrUnauthorized, "caller %s does not own pool %s", caller, pool)
	}

	application, err := s.applicationStore.Find(ctx, pool, slot)
	if err != nil {
		return err
	}

	if application.ID == 0 {
		return core.Errorf(core.ErrApplicationNotFound, "application %s/%d not found", pool, slot)
	}

	if application.Whitelisted {
		return core.Errorf(core.ErrAlreadyWhitelisted, "application %s/%d already whitelisted", pool, slot)
	}

	application.Whitelisted = true

	return s.applicationStore.Update(ctx, application)
}

// WithdrawApplicationDeposit refunds a not-yet-whitelisted application and
// deletes its slot. The row goes first so a refund retry cannot double-pay.
func (s *controllerService) WithdrawApplicationDeposit(ctx context.Context, caller, pool string, slot int64) error {
	p, err := s.poolStore.Find(ctx, pool)
	if err != nil {
		return err
	}

	if p.ID == 0 {
		return core.Errorf(core.ErrPoolNotFound, "pool %s not found", pool)
	}

	application, err := s.applicationStore.Find(ctx, pool, slot)
	if err != nil {
		return err
	}

	if application.ID == 0 {
		return core.Errorf(core.ErrApplicationNotFound, "application %s/%d not found", pool, slot)
	}

	if application.Lender != caller {
		return core.Errorf(core.ErrUnauthorized, "caller %s did not open application %s/%d", caller, pool, slot)
	}

	if application.Whitelisted {
		return core.Errorf(core.ErrAlreadyWhitelisted, "application %s/%d already whitelisted", pool, slot)
	}

	if err := s.applicationStore.Delete(ctx, application.ID); err != nil {
		return err
	}

	return s.walletService.Transfer(ctx, p.StableCoin, s.address, caller, application.DepositAmount, "application refund")
}

func (s *controllerService) CreatePool(ctx context.Context, caller, name string, minDeposit decimal.Decimal, stableCoin string, access core.PoolAccess) (string, error) {
	borrower, err := s.borrowerStore.Find(ctx, caller)
	if err != nil {
		return "", err
	}

	if borrower.ID == 0 || !borrower.Whitelisted {
		return "", core.Errorf(core.ErrBorrowerNotWhitelisted, "borrower %s not whitelisted", caller)
	}

	coin, err := s.stableCoinStore.Find(ctx, stableCoin)
	if err != nil {
		return "", err
	}

	if coin.ID == 0 {
		return "", core.Errorf(core.ErrStableCoinNotFound, "stablecoin %s not registered", stableCoin)
	}

	if !access.IsValid() || minDeposit.IsNegative() {
		return "", core.Errorf(core.ErrInvalidArgument, "invalid pool params for %q", name)
	}

	// the address derives from (owner, name), so a borrower cannot open two
	// pools under the same name
	address := id.GenAddress(poolNamespace, caller+"#"+name)

	existing, err := s.poolStore.Find(ctx, address)
	if err != nil {
		return "", err
	}

	if existing.ID > 0 {
		return "", core.Errorf(core.ErrInvalidArgument, "borrower %s already opened pool %q", caller, name)
	}

	pool := &core.Pool{
		Address:        address,
		Name:           name,
		Owner:          caller,
		StableCoin:     stableCoin,
		MinDeposit:     minDeposit,
		Access:         access,
		IsActive:       true,
		AmptSpeed:      decimal.Zero,
		InterestRate:   decimal.Zero,
		TotalCash:      decimal.Zero,
		TotalBorrows:   decimal.Zero,
		TotalSupply:    decimal.Zero,
		TotalPrincipal: decimal.Zero,
	}

	if err := s.poolStore.Save(ctx, pool); err != nil {
		return "", err
	}

	logger.FromContext(ctx).WithField("pool", address).Infoln("pool created by", caller)

	return address, nil
}

// SetAmptSpeed syncs both reward indices at the old speed before the new one
// takes effect, so the stretch already run keeps its emission rate.
func (s *controllerService) SetAmptSpeed(ctx context.Context, caller, pool string, speed decimal.Decimal, t time.Time) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}

	p, err := s.findActivePool(ctx, pool)
	if err != nil {
		return err
	}

	if !speed.IsPositive() {
		return core.Errorf(core.ErrInvalidSpeed, "speed %s is not positive", speed)
	}

	if err := s.rewardsService.AccruePool(ctx, pool, t); err != nil {
		return err
	}

	p.AmptSpeed = speed

	return s.poolStore.Update(ctx, p)
}

func (s *controllerService) GetPoolAPY(ctx context.Context, pool string) (decimal.Decimal, error) {
	p, err := s.poolStore.Find(ctx, pool)
	if err != nil {
		return decimal.Zero, err
	}

	if p.ID == 0 {
		return decimal.Zero, core.Errorf(core.ErrPoolNotFound, "pool %s not found", pool)
	}

	return amplify.PoolAPY(p.TotalBorrows, p.TotalCash, p.InterestRate), nil
}

func (s *controllerService) AddStableCoin(ctx context.Context, caller, address, symbol string) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}

	if address == "" {
		return core.Errorf(core.ErrInvalidArgument, "empty stablecoin address")
	}

	return s.stableCoinStore.Save(ctx, &core.StableCoin{Address: address, Symbol: symbol})
}

func (s *controllerService) RemoveStableCoin(ctx context.Context, caller, address string) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}

	if address == "" {
		return core.Errorf(core.ErrInvalidArgument, "empty stablecoin address")
	}

	return s.stableCoinStore.Delete(ctx, address)
}

func (s *controllerService) SetInterestRateModel(ctx context.Context, caller string, model core.InterestRateModel) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}

	if model == nil || !model.IsInterestRateModel(ctx) {
		return core.Errorf(core.ErrCapabilityCheckFailed, "contract is not an interest rate model")
	}

	return s.setContract(ctx, core.PropertyInterestRateModel, model.Address())
}

func (s *controllerService) SetProvisionPool(ctx context.Context, caller string, pool core.ProvisionPool) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}

	if pool == nil || !pool.IsProvisionPool(ctx) {
		return core.Errorf(core.ErrCapabilityCheckFailed, "contract is not a provision pool")
	}

	return s.setContract(ctx, core.PropertyProvisionPool, pool.Address())
}

func (s *controllerService) SetAssetsFactory(ctx context.Context, caller string, factory core.AssetsFactory) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}

	if factory == nil || !factory.IsAssetsFactory(ctx) {
		return core.Errorf(core.ErrCapabilityCheckFailed, "contract is not an assets factory")
	}

	return s.setContract(ctx, core.PropertyAssetsFactory, factory.Address())
}

func (s *controllerService) SetAmptContract(ctx context.Context, caller string, token core.AmptToken) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}

	if token == nil || !token.IsAmptToken(ctx) {
		return core.Errorf(core.ErrCapabilityCheckFailed, "contract is not the AMPT token")
	}

	return s.setContract(ctx, core.PropertyAmptContract, token.Address())
}

func (s *controllerService) SetAmptDepositAmount(ctx context.Context, caller string, amount decimal.Decimal) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}

	if !amount.IsPositive() {
		return core.Errorf(core.ErrInvalidArgument, "deposit amount %s is not positive", amount)
	}

	return s.propertyStore.Save(ctx, core.PropertyAmptDeposit, amount.String())
}

// TransferFunds sweeps the controller's full AMPT balance to the target.
func (s *controllerService) TransferFunds(ctx context.Context, caller, to string) (decimal.Decimal, error) {
	if err := s.RequireOwner(caller); err != nil {
		return decimal.Zero, err
	}

	if to == "" {
		return decimal.Zero, core.Errorf(core.ErrInvalidArgument, "empty transfer target")
	}

	balance, err := s.walletService.BalanceOf(ctx, s.system.AmptAsset, s.address)
	if err != nil {
		return decimal.Zero, err
	}

	if !balance.IsPositive() {
		return decimal.Zero, nil
	}

	if err := s.walletService.Transfer(ctx, s.system.AmptAsset, s.address, to, balance, "controller sweep"); err != nil {
		return decimal.Zero, err
	}

	return balance, nil
}

func (s *controllerService) findActivePool(ctx context.Context, pool string) (*core.Pool, error) {
	p, err := s.poolStore.Find(ctx, pool)
	if err != nil {
		return nil, err
	}

	if p.ID == 0 {
		return nil, core.Errorf(core.ErrPoolNotFound, "pool %s not found", pool)
	}

	if !p.IsActive {
		return nil, core.Errorf(core.ErrPoolInactive, "pool %s is not active", pool)
	}

	return p, nil
}

func (s *controllerService) setContract(ctx context.Context, key, address string) error {
	current, err := s.propertyStore.Get(ctx, key)
	if err != nil {
		return err
	}

	if current == address {
		return core.Errorf(core.ErrAlreadySet, "%s already set to %s", key, address)
	}

	return s.propertyStore.Save(ctx, key, address)
}

func (s *controllerService) depositAmount(ctx context.Context) (decimal.Decimal, error) {
	raw, err := s.propertyStore.Get(ctx, core.PropertyAmptDeposit)
	if err != nil {
		return decimal.Zero, err
	}

	if raw != "" {
		amount, err := decimal.NewFromString(raw)
		if err == nil && amount.IsPositive() {
			return amount, nil
		}
	}

	return s.system.DepositAmount, nil
}
