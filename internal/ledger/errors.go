package ledger

import "errors"

// Domain errors surfaced to the boundary layer, which maps them to
// transport status codes.
var (
	// ErrInvalidAmount covers non-positive operation amounts and
	// negative initial balances.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrAccountNotFound means a referenced account id does not exist.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInsufficientFunds means a withdrawal or transfer would drive
	// the source balance negative.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSelfTransfer means transfer source and destination are the
	// same account.
	ErrSelfTransfer = errors.New("transfer source and destination must differ")
)
