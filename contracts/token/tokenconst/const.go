// Package tokenconst contains constants of the token contract shared
// between the contract itself and off-chain code working with it.
package tokenconst

const (
	// ErrAlreadyInitialized is thrown by Initialize on a repeated call.
	ErrAlreadyInitialized = "already initialized"
	// ErrUninitialized is thrown by methods requiring the administrator
	// before Initialize has been called.
	ErrUninitialized = "contract is not initialized"
	// ErrInvalidAmount is thrown on a negative amount argument.
	ErrInvalidAmount = "negative amount is not allowed"
	// ErrDecimalOutOfRange is thrown by Initialize if decimals do not fit
	// in a byte.
	ErrDecimalOutOfRange = "decimals must fit in a byte"
	// ErrInvalidExpiration is thrown by Approve if a non-zero allowance is
	// set with an expiration ledger index in the past.
	ErrInvalidExpiration = "expiration must not be in the past"
	// ErrAccountFrozen is thrown when a frozen account is used as a party
	// of a value-moving operation.
	ErrAccountFrozen = "account is frozen"
	// ErrInsufficientBalance is thrown when the sender's balance does not
	// cover the requested amount.
	ErrInsufficientBalance = "insufficient balance"
	// ErrInsufficientAllowance is thrown by TransferFrom when the effective
	// allowance does not cover the requested amount.
	ErrInsufficientAllowance = "insufficient allowance"
	// ErrBalanceOverflow is thrown when crediting an account would push its
	// balance over the representable maximum.
	ErrBalanceOverflow = "balance overflow"
	// ErrInvalidAddress is thrown on an account argument of a wrong length.
	ErrInvalidAddress = "invalid address length"
)
