package cmd

import (
	"amplify/core"
	"amplify/pkg/number"

	"github.com/fox-one/pkg/store/db"
)

// ledger account names of the three token-holding subsystems
const (
	controllerAddress = "amplify-controller"
	vestingAddress    = "amplify-vesting"
	escrowAddress     = "amplify-escrow"
	factoryAddress    = "amplify-assets-factory"
)

func provideDatabase() *db.DB {
	return db.MustOpen(cfg.DB)
}

func provideSystem() *core.System {
	return &core.System{
		Owner:           cfg.App.Owner,
		Admins:          cfg.Admins,
		AmptAsset:       cfg.App.AmptAsset,
		DepositAmount:   number.Decimal(cfg.App.DepositAmount),
		Genesis:         cfg.App.Genesis,
		SecondsPerBlock: cfg.App.SecondsPerBlock,
		Location:        cfg.App.Location,
		Version:         rootCmd.Version,
	}
}
