package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DepositStatus is the stored state of a fixed deposit. MATURED is derived
// from wall-clock time, never written.
type DepositStatus string

const (
	DepositStatusActive    DepositStatus = "ACTIVE"
	DepositStatusMatured   DepositStatus = "MATURED"
	DepositStatusWithdrawn DepositStatus = "WITHDRAWN"
	DepositStatusBroken    DepositStatus = "BROKEN"
)

const daysPerYear = 365

// FixedDeposit locks a principal from a savings account until maturity.
type FixedDeposit struct {
	ID             string
	OwnerID        string
	AccountID      string
	Principal      Money
	AnnualRate     decimal.Decimal
	DurationMonths int
	MaturesAt      time.Time
	Status         DepositStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsMatured reports whether maturity has passed at now.
func (d *FixedDeposit) IsMatured(now time.Time) bool {
	return !now.Before(d.MaturesAt)
}

// StatusAt derives the externally visible status: an ACTIVE deposit past
// maturity reads as MATURED even though the row still says ACTIVE.
func (d *FixedDeposit) StatusAt(now time.Time) DepositStatus {
	if d.Status == DepositStatusActive && d.IsMatured(now) {
		return DepositStatusMatured
	}
	return d.Status
}

// AccruedInterest computes simple interest on an actual/365 day count for
// the elapsed span at time at, capped at maturity. Rounding happens once,
// at the end.
func (d *FixedDeposit) AccruedInterest(at time.Time) Money {
	if at.After(d.MaturesAt) {
		at = d.MaturesAt
	}
	if !at.After(d.CreatedAt) {
		return Zero(d.Principal.Currency)
	}

	days := decimal.NewFromInt(int64(at.Sub(d.CreatedAt).Hours() / 24))
	interest := d.Principal.Amount.
		Mul(d.AnnualRate).
		Mul(days).
		Div(decimal.NewFromInt(daysPerYear))

	return NewMoney(interest, d.Principal.Currency).Round()
}
