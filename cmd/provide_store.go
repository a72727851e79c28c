package cmd

import (
	"amplify/core"
	"amplify/store/asset"
	"amplify/store/borrower"
	"amplify/store/escrow"
	"amplify/store/pool"
	"amplify/store/property"
	"amplify/store/rewards"
	"amplify/store/stablecoin"
	"amplify/store/vesting"
	"amplify/store/wallet"

	"github.com/fox-one/pkg/store/db"
	propertystore "github.com/fox-one/pkg/store/property"
)

func provideAssetStore(db *db.DB) core.IAssetStore {
	return asset.Cache(asset.New(db))
}

func provideRiskItemStore(db *db.DB) core.IRiskItemStore {
	return asset.NewRiskItemStore(db)
}

func provideBorrowerStore(db *db.DB) core.IBorrowerStore {
	return borrower.New(db)
}

func provideStableCoinStore(db *db.DB) core.IStableCoinStore {
	return stablecoin.New(db)
}

func providePoolStore(db *db.DB) core.IPoolStore {
	return pool.New(db)
}

func provideApplicationStore(db *db.DB) core.IApplicationStore {
	return pool.NewApplicationStore(db)
}

func provideRewardsStore(db *db.DB) core.IRewardsStore {
	return rewards.New(db)
}

func provideVestingStore(db *db.DB) core.IVestingStore {
	return vesting.New(db)
}

func provideVoteEscrowStore(db *db.DB) core.IVoteEscrowStore {
	return escrow.New(db)
}

func provideWalletStore(db *db.DB) core.IWalletStore {
	return wallet.New(db)
}

func providePropertyStore(db *db.DB) core.IPropertyStore {
	return property.New(propertystore.New(db))
}
