package ledger

import "errors"

// Every rejection is a well-typed, synchronous, non-retryable outcome. A
// rejected operation leaves balances, counters, and history untouched; the
// HTTP layer decides how much of the cause to expose to the caller.
var (
	ErrUnauthorized             = errors.New("unauthorized")
	ErrAccountNotFound          = errors.New("account not found")
	ErrAccountFrozen            = errors.New("account frozen")
	ErrInvalidAmount            = errors.New("invalid amount")
	ErrInsufficientFunds        = errors.New("insufficient funds")
	ErrInsufficientHistory      = errors.New("insufficient transaction history")
	ErrOverdraftLimitExceeded   = errors.New("overdraft limit exceeded")
	ErrSelfTransferRejected     = errors.New("cannot transfer to own account")
	ErrRecipientNotFound        = errors.New("recipient not found")
	ErrInsufficientAssetHolding = errors.New("insufficient asset holding")
	ErrOverdraftActive          = errors.New("asset purchase blocked while in overdraft")
	ErrPriceUnavailable         = errors.New("price unavailable")
)
