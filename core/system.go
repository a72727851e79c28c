package core

import (
	"github.com/shopspring/decimal"
)

// System stores system information.
type System struct {
	Owner           string
	Admins          []string
	AmptAsset       string
	DepositAmount   decimal.Decimal
	Genesis         int64
	SecondsPerBlock int64
	Location        string
	Version         string
}

// IsAdmin is admin
func (s *System) IsAdmin(address string) bool {
	if len(s.Admins) == 0 {
		return false
	}

	for _, a := range s.Admins {
		if a == address {
			return true
		}
	}

	return false
}

// Ownable is the owner-gated capability shared by every ledger aggregate.
type Ownable struct {
	Owner string
}

// RequireOwner rejects callers other than the ledger owner.
func (o Ownable) RequireOwner(caller string) error {
	if caller == "" || caller != o.Owner {
		return Errorf(ErrUnauthorized, "caller %s is not the ledger owner", caller)
	}

	return nil
}
