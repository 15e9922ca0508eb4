package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TransferClass classifies how funds leave the bank.
type TransferClass string

const (
	TransferClassInternal      TransferClass = "INTERNAL"
	TransferClassExternal      TransferClass = "EXTERNAL"
	TransferClassInternational TransferClass = "INTERNATIONAL"
)

// ParseTransferClass validates a raw class string.
func ParseTransferClass(s string) (TransferClass, error) {
	switch TransferClass(s) {
	case TransferClassInternal, TransferClassExternal, TransferClassInternational:
		return TransferClass(s), nil
	default:
		return "", fmt.Errorf("%w: unknown transfer class %q", ErrInvalidTransferClass, s)
	}
}

// ExternalBeneficiary describes the receiving party of an EXTERNAL or
// INTERNATIONAL transfer. It is opaque to the ledger and forwarded to the
// routing gateway.
type ExternalBeneficiary struct {
	Name          string
	AccountNumber string
	BankCode      string
	Country       string
}

// Transfer is the ephemeral unit of work handed to the orchestrator. It is
// never persisted; it materializes as transactions plus balance deltas.
type Transfer struct {
	OwnerID              string
	SourceAccountID      string
	DestinationAccountID string
	Beneficiary          *ExternalBeneficiary
	Amount               Money
	TargetCurrency       string
	Class                TransferClass
	Reference            string
	Description          string
}

// Validate checks the request shape before any state is touched.
func (t *Transfer) Validate() error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	switch t.Class {
	case TransferClassInternal:
		if t.DestinationAccountID == "" {
			return ErrMissingDestination
		}
		if t.SourceAccountID == t.DestinationAccountID {
			return ErrSameAccount
		}
	case TransferClassExternal, TransferClassInternational:
		if t.Beneficiary == nil || t.Beneficiary.AccountNumber == "" {
			return ErrMissingBeneficiary
		}
	default:
		return fmt.Errorf("%w: %q", ErrInvalidTransferClass, t.Class)
	}

	return nil
}

// Quote is the fee and conversion outcome for a transfer.
type Quote struct {
	Fee             Money
	ExchangeRate    decimal.Decimal
	ConvertedAmount Money
}

// TransferResult is what the orchestrator returns on success or idempotent
// replay.
type TransferResult struct {
	Reference         string
	DebitTransaction  *Transaction
	CreditTransaction *Transaction
	Fee               Money
	ExchangeRate      decimal.Decimal
	ConvertedAmount   Money
	SourceBalance     Money
	SettlementID      string
	Replayed          bool
}

// RoutingRequest is the outbound movement mirrored through the corporate
// settlement account.
type RoutingRequest struct {
	Amount      Money
	Beneficiary ExternalBeneficiary
	Reference   string
}

// RoutingReceipt acknowledges a routed movement.
type RoutingReceipt struct {
	SettlementID string
	Reference    string
}
