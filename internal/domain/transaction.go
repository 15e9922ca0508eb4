package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind is the direction of a ledger entry.
type TransactionKind string

const (
	TransactionKindCredit   TransactionKind = "CREDIT"
	TransactionKindDebit    TransactionKind = "DEBIT"
	TransactionKindTransfer TransactionKind = "TRANSFER"
)

// TransactionStatus is the lifecycle state of a ledger entry. A COMPLETED
// transaction is immutable; corrections are new offsetting transactions.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "PENDING"
	TransactionStatusCompleted TransactionStatus = "COMPLETED"
	TransactionStatusFailed    TransactionStatus = "FAILED"
)

// ParseTransactionStatus validates a raw status string.
func ParseTransactionStatus(s string) (TransactionStatus, bool) {
	switch TransactionStatus(s) {
	case TransactionStatusPending, TransactionStatusCompleted, TransactionStatusFailed:
		return TransactionStatus(s), true
	default:
		return "", false
	}
}

// Transaction is one balance-affecting event on one account. IDs are ULIDs,
// so ordering by ID follows creation time. Reference correlates the entries
// of one logical operation and guards against replays. TargetCurrency and
// SettlementID are recorded on the debit leg of converted and outbound
// movements so a replay can reconstruct the original result.
type Transaction struct {
	ID                    string
	AccountID             string
	OwnerID               string
	Kind                  TransactionKind
	Amount                Money
	Description           string
	Reference             string
	Status                TransactionStatus
	CounterpartyAccountID *string
	Fee                   *Money
	NetAmount             *Money
	ExchangeRate          *decimal.Decimal
	TargetCurrency        *string
	SettlementID          *string
	CreatedAt             time.Time
}

// EffectiveDelta is the signed balance change this entry represents: credits
// add Amount, debits remove NetAmount (amount plus fee) when present.
func (t *Transaction) EffectiveDelta() decimal.Decimal {
	switch t.Kind {
	case TransactionKindCredit:
		return t.Amount.Amount
	case TransactionKindDebit:
		if t.NetAmount != nil {
			return t.NetAmount.Amount.Neg()
		}
		return t.Amount.Amount.Neg()
	default:
		return decimal.Zero
	}
}

// TransactionFilter narrows ledger listings.
type TransactionFilter struct {
	Status *TransactionStatus
	Limit  int
	Offset int
}
