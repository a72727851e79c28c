package core

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Contract is an addressable collaborator.
type Contract interface {
	Address() string
}

// InterestRateModel collaborator capability. The marker must return true for
// the controller to accept the contract.
type InterestRateModel interface {
	Contract
	IsInterestRateModel(ctx context.Context) bool
}

// ProvisionPool collaborator capability.
type ProvisionPool interface {
	Contract
	IsProvisionPool(ctx context.Context) bool
}

// AssetsFactory collaborator capability.
type AssetsFactory interface {
	Contract
	IsAssetsFactory(ctx context.Context) bool
}

// AmptToken collaborator capability.
type AmptToken interface {
	Contract
	IsAmptToken(ctx context.Context) bool
}

// Property keys of the controller's administrative registry.
const (
	PropertyInterestRateModel = "controller_interest_rate_model"
	PropertyProvisionPool     = "controller_provision_pool"
	PropertyAssetsFactory     = "controller_assets_factory"
	PropertyAmptContract      = "controller_ampt_contract"
	PropertyAmptDeposit       = "controller_ampt_deposit_amount"
)

// IPropertyStore string-valued view of the controller's administrative
// registry. Get returns an empty string for an unset key.
type IPropertyStore interface {
	Get(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
}

// IControllerService controller ledger interface
type IControllerService interface {
	SubmitBorrower(ctx context.Context, caller string) error
	WhitelistBorrower(ctx context.Context, caller, borrower string) error
	BlacklistBorrower(ctx context.Context, caller, borrower string) error
	UpdateBorrowerInfo(ctx context.Context, caller, borrower string, ratingMantissa, debtCeiling decimal.Decimal) error

	RequestPoolWhitelist(ctx context.Context, caller, pool string, depositAmount decimal.Decimal) (int64, error)
	WhitelistLender(ctx context.Context, caller, pool string, slot int64) error
	WithdrawApplicationDeposit(ctx context.Context, caller, pool string, slot int64) error

	CreatePool(ctx context.Context, caller, name string, minDeposit decimal.Decimal, stableCoin string, access PoolAccess) (string, error)
	SetAmptSpeed(ctx context.Context, caller, pool string, speed decimal.Decimal, t time.Time) error
	GetPoolAPY(ctx context.Context, pool string) (decimal.Decimal, error)

	AddStableCoin(ctx context.Context, caller, address, symbol string) error
	RemoveStableCoin(ctx context.Context, caller, address string) error

	SetInterestRateModel(ctx context.Context, caller string, model InterestRateModel) error
	SetProvisionPool(ctx context.Context, caller string, pool ProvisionPool) error
	SetAssetsFactory(ctx context.Context, caller string, factory AssetsFactory) error
	SetAmptContract(ctx context.Context, caller string, token AmptToken) error
	SetAmptDepositAmount(ctx context.Context, caller string, amount decimal.Decimal) error

	TransferFunds(ctx context.Context, caller, to string) (decimal.Decimal, error)
}
