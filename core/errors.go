package core

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrorCode int
type ErrorCode int

const (
	// ErrUnknown unknown
	ErrUnknown ErrorCode = 100000
	// ErrUnauthorized wrong caller for an owner-only or self-only action
	ErrUnauthorized ErrorCode = 100001
	// ErrInvalidArgument zero address, zero amount or malformed range
	ErrInvalidArgument ErrorCode = 100002
	// ErrCapabilityCheckFailed collaborator contract failed its marker probe
	ErrCapabilityCheckFailed ErrorCode = 100003
	// ErrAlreadySet redundant admin re-set
	ErrAlreadySet ErrorCode = 100004

	// ErrRiskItemNotFound no risk item
	ErrRiskItemNotFound ErrorCode = 100100
	// ErrAssetNotFound no asset
	ErrAssetNotFound ErrorCode = 100101
	// ErrHashAlreadyUsed duplicate receivable hash
	ErrHashAlreadyUsed ErrorCode = 100102
	// ErrNotOwner caller is not the asset owner
	ErrNotOwner ErrorCode = 100103
	// ErrAlreadyRedeemed asset already redeemed
	ErrAlreadyRedeemed ErrorCode = 100104

	// ErrBorrowerNotFound borrower was never created
	ErrBorrowerNotFound ErrorCode = 100200
	// ErrBorrowerExists borrower already submitted
	ErrBorrowerExists ErrorCode = 100201
	// ErrBorrowerNotWhitelisted borrower not whitelisted
	ErrBorrowerNotWhitelisted ErrorCode = 100202
	// ErrPoolNotFound no pool
	ErrPoolNotFound ErrorCode = 100203
	// ErrPoolInactive pool not active
	ErrPoolInactive ErrorCode = 100204
	// ErrApplicationNotFound pool application never created
	ErrApplicationNotFound ErrorCode = 100205
	// ErrApplicationPending another application is pending for the pool
	ErrApplicationPending ErrorCode = 100206
	// ErrAlreadyWhitelisted application already whitelisted
	ErrAlreadyWhitelisted ErrorCode = 100207
	// ErrStableCoinNotFound settlement currency not registered
	ErrStableCoinNotFound ErrorCode = 100208
	// ErrInvalidSpeed reward speed must be positive
	ErrInvalidSpeed ErrorCode = 100209

	// ErrInsufficientBalance token balance too low
	ErrInsufficientBalance ErrorCode = 100300
	// ErrInsufficientAllowance token allowance too low
	ErrInsufficientAllowance ErrorCode = 100301

	// ErrEntryNotFound vesting entry never created
	ErrEntryNotFound ErrorCode = 100400
	// ErrEntryNotFireable entry not revocable or already fired
	ErrEntryNotFireable ErrorCode = 100401
	// ErrExceedMaxLength batch larger than the hard cap
	ErrExceedMaxLength ErrorCode = 100402

	// ErrLockExists caller already holds a lock
	ErrLockExists ErrorCode = 100500
	// ErrLockNotFound no lock for the caller
	ErrLockNotFound ErrorCode = 100501
	// ErrLockExpired lock already expired
	ErrLockExpired ErrorCode = 100502
	// ErrLockNotExpired lock not expired yet
	ErrLockNotExpired ErrorCode = 100503
	// ErrSameDelegatee delegating to the current delegatee
	ErrSameDelegatee ErrorCode = 100504
)

func (e ErrorCode) String() string {
	return strconv.Itoa(int(e))
}

func (e ErrorCode) Error() string {
	return e.String()
}

// Error pairs a machine-checkable code with a human readable reason.
// State-changing calls surface both; nothing is mutated when one is returned.
type Error struct {
	Code   ErrorCode
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Reason)
}

// Is matches against the bare ErrorCode so callers can use errors.Is.
func (e *Error) Is(target error) bool {
	code, ok := target.(ErrorCode)
	return ok && code == e.Code
}

// Errorf builds an *Error with a formatted reason.
func Errorf(code ErrorCode, format string, args ...interface{}) error {
	return &Error{Code: code, Reason: fmt.Sprintf(format, args...)}
}

// ErrorCodeOf extracts the ledger error code, or ErrUnknown for foreign errors.
func ErrorCodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	var code ErrorCode
	if errors.As(err, &code) {
		return code
	}

	return ErrUnknown
}
