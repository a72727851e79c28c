package core

import (
	"github.com/fox-one/pkg/store/db"
)

// Config amplify config
type Config struct {
	App    App       `json:"app"`
	DB     db.Config `json:"db"`
	Admins []string  `json:"admins"`
}

// App app config
type App struct {
	// Owner is the address allowed to run owner-only ledger operations.
	Owner string `json:"owner"`
	// AmptAsset is the address of the native reward token ledger.
	AmptAsset string `json:"ampt_asset"`
	// DepositAmount is the default AMPT deposit required from borrowers.
	DepositAmount string `json:"deposit_amount"`
	// Genesis is the unix time of block 0.
	Genesis int64 `json:"genesis"`
	// SecondsPerBlock drives the time -> block derivation. Default 15.
	SecondsPerBlock int64  `json:"seconds_per_block"`
	Location        string `json:"location"`
}
