package cmd

import (
	"amplify/core"
	assetservice "amplify/service/asset"
	"amplify/service/block"
	controllerservice "amplify/service/controller"
	escrowservice "amplify/service/escrow"
	rewardsservice "amplify/service/rewards"
	vestingservice "amplify/service/vesting"
	walletservice "amplify/service/wallet"

	"github.com/fox-one/pkg/store/db"
)

func provideBlockService(system *core.System) core.IBlockService {
	return block.New(system)
}

func provideWalletService(db *db.DB) core.IWalletService {
	return walletservice.New(provideWalletStore(db))
}

func provideAssetService(system *core.System, db *db.DB) core.IAssetService {
	return assetservice.New(system.Owner, factoryAddress, provideRiskItemStore(db), provideAssetStore(db))
}

func provideRewardsService(system *core.System, db *db.DB) core.IRewardsService {
	return rewardsservice.New(system, controllerAddress,
		providePoolStore(db),
		provideRewardsStore(db),
		provideBlockService(system),
		provideWalletService(db))
}

func provideControllerService(system *core.System, db *db.DB) core.IControllerService {
	return controllerservice.New(system, controllerAddress,
		providePropertyStore(db),
		provideBorrowerStore(db),
		provideStableCoinStore(db),
		providePoolStore(db),
		provideApplicationStore(db),
		provideWalletService(db),
		provideRewardsService(system, db))
}

func provideVestingService(system *core.System, db *db.DB) core.IVestingService {
	return vestingservice.New(system, vestingAddress, provideVestingStore(db), provideWalletService(db))
}

func provideVoteEscrowService(system *core.System, db *db.DB) core.IVoteEscrowService {
	return escrowservice.New(system, escrowAddress, provideVoteEscrowStore(db), provideWalletService(db))
}
