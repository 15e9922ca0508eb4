package domain

import "errors"

var (
	// Account errors
	ErrAccountNotFound   = errors.New("account not found")
	ErrAccountInactive   = errors.New("account is inactive")
	ErrNotAccountOwner   = errors.New("account does not belong to principal")
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Transfer errors
	ErrSameAccount          = errors.New("cannot transfer to same account")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrCurrencyMismatch     = errors.New("currency mismatch")
	ErrMissingDestination   = errors.New("internal transfer requires a destination account")
	ErrInvalidTransferClass = errors.New("invalid transfer class")
	ErrMissingBeneficiary   = errors.New("external transfer requires a beneficiary")
	ErrRoutingFailure       = errors.New("settlement routing failed")
	ErrKYCRequired          = errors.New("principal not verified for this amount")

	// Ledger errors
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateReference  = errors.New("reference already recorded")
	ErrInvalidStatus       = errors.New("invalid transaction status")

	// Fixed deposit errors
	ErrDepositNotFound         = errors.New("fixed deposit not found")
	ErrDepositNotMatured       = errors.New("fixed deposit has not matured")
	ErrDepositAlreadyWithdrawn = errors.New("fixed deposit already withdrawn")
	ErrInvalidDuration         = errors.New("invalid deposit duration")
	ErrInvalidAccountType      = errors.New("operation not allowed for this account type")
)
