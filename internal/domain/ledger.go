package domain

import "github.com/shopspring/decimal"

// BalanceMismatch is an account whose stored balance drifted from the net of
// its completed ledger entries. A healthy ledger reports none.
type BalanceMismatch struct {
	AccountID string
	Balance   decimal.Decimal
	LedgerNet decimal.Decimal
}

// AccrualFailure is one account the accrual batch could not credit.
type AccrualFailure struct {
	AccountID string
	Reason    string
}

// AccrualSummary is the outcome of one interest accrual run.
type AccrualSummary struct {
	Period          string
	Processed       int
	Credited        int
	AlreadyCredited int
	Skipped         int
	TotalInterest   map[string]decimal.Decimal
	Failures        []AccrualFailure
}
