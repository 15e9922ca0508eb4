package domain

import (
	"fmt"
	"time"
)

// AccountType classifies an account. The set is closed; ParseAccountType is
// the only way values enter the system.
type AccountType string

const (
	AccountTypeSavings   AccountType = "SAVINGS"
	AccountTypeChecking  AccountType = "CHECKING"
	AccountTypeBusiness  AccountType = "BUSINESS"
	AccountTypeCorporate AccountType = "CORPORATE"
)

// ParseAccountType validates a raw account type string.
func ParseAccountType(s string) (AccountType, error) {
	switch AccountType(s) {
	case AccountTypeSavings, AccountTypeChecking, AccountTypeBusiness, AccountTypeCorporate:
		return AccountType(s), nil
	default:
		return "", fmt.Errorf("%w: unknown account type %q", ErrInvalidAccountType, s)
	}
}

// Account holds a balance for an owner. Accounts are never deleted, only
// deactivated, and their balance is mutated exclusively by the ledger engine.
type Account struct {
	ID        string
	OwnerID   string
	Type      AccountType
	Balance   Money
	Active    bool
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Currency returns the account's currency code.
func (a *Account) Currency() string {
	return a.Balance.Currency
}

// ValidateDebit checks that amount can be taken from the account without
// driving the balance negative.
func (a *Account) ValidateDebit(amount Money) error {
	if !a.Active {
		return ErrAccountInactive
	}
	if amount.Currency != a.Currency() {
		return fmt.Errorf("%w: debit %s from %s account", ErrCurrencyMismatch, amount.Currency, a.Currency())
	}
	if a.Balance.LessThan(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// ValidateCredit checks that amount can be added to the account.
func (a *Account) ValidateCredit(amount Money) error {
	if !a.Active {
		return ErrAccountInactive
	}
	if amount.Currency != a.Currency() {
		return fmt.Errorf("%w: credit %s to %s account", ErrCurrencyMismatch, amount.Currency, a.Currency())
	}
	return nil
}

// ApplyDebit returns the balance after a debit.
func (a *Account) ApplyDebit(amount Money) Money {
	return Money{Amount: a.Balance.Amount.Sub(amount.Amount), Currency: a.Currency()}
}

// ApplyCredit returns the balance after a credit.
func (a *Account) ApplyCredit(amount Money) Money {
	return Money{Amount: a.Balance.Amount.Add(amount.Amount), Currency: a.Currency()}
}
