package domain

import "github.com/shopspring/decimal"

// RateTier is an interest policy line: the annual rate and the balance an
// account must hold to qualify.
type RateTier struct {
	AnnualRate     decimal.Decimal
	MinimumBalance decimal.Decimal
}

// DepositTier maps a duration band to an annual rate for fixed deposits.
type DepositTier struct {
	MinMonths  int
	AnnualRate decimal.Decimal
}

// InterestRateTable is the versioned, read-only rate policy consulted by the
// accrual batch and the fixed deposit manager. It is built once from config
// and injected; the engine never mutates it.
type InterestRateTable struct {
	Version      string
	tiers        map[AccountType]RateTier
	defaultTier  RateTier
	depositTiers []DepositTier
}

// NewInterestRateTable builds a table. depositTiers must be sorted by
// ascending MinMonths; lookup takes the highest band at or below the
// requested duration.
func NewInterestRateTable(version string, tiers map[AccountType]RateTier, defaultTier RateTier, depositTiers []DepositTier) *InterestRateTable {
	return &InterestRateTable{
		Version:      version,
		tiers:        tiers,
		defaultTier:  defaultTier,
		depositTiers: depositTiers,
	}
}

// TierFor returns the accrual tier for an account type, falling back to the
// default tier for unrecognized types.
func (t *InterestRateTable) TierFor(accountType AccountType) RateTier {
	if tier, ok := t.tiers[accountType]; ok {
		return tier
	}
	return t.defaultTier
}

// MonthlyRate derives the per-period rate used by the accrual batch.
func (r RateTier) MonthlyRate() decimal.Decimal {
	return r.AnnualRate.Div(decimal.NewFromInt(12))
}

// DepositRateFor returns the annual rate for a deposit duration, or false
// when no band covers it.
func (t *InterestRateTable) DepositRateFor(durationMonths int) (decimal.Decimal, bool) {
	rate := decimal.Zero
	found := false
	for _, tier := range t.depositTiers {
		if durationMonths >= tier.MinMonths {
			rate = tier.AnnualRate
			found = true
		}
	}
	return rate, found
}
