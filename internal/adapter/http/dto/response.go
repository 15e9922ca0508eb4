package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/corebank/internal/domain"
	"github.com/iho/corebank/internal/usecase"
)

// MoneyResponse represents an amount with its currency.
type MoneyResponse struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// MoneyFromDomain converts domain money to response.
func MoneyFromDomain(m domain.Money) MoneyResponse {
	return MoneyResponse{Amount: m.Amount, Currency: m.Currency}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"owner_id"`
	Type      string          `json:"type"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Active    bool            `json:"active"`
	Version   int64           `json:"version"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// AccountFromDomain converts a domain account to a response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		OwnerID:   a.OwnerID,
		Type:      string(a.Type),
		Currency:  a.Currency(),
		Balance:   a.Balance.Amount,
		Active:    a.Active,
		Version:   a.Version,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// TransactionResponse represents a ledger entry in API responses.
type TransactionResponse struct {
	ID                    string           `json:"id"`
	AccountID             string           `json:"account_id"`
	Kind                  string           `json:"kind"`
	Amount                decimal.Decimal  `json:"amount"`
	Currency              string           `json:"currency"`
	Description           string           `json:"description,omitempty"`
	Reference             string           `json:"reference"`
	Status                string           `json:"status"`
	CounterpartyAccountID *string          `json:"counterparty_account_id,omitempty"`
	Fee                   *decimal.Decimal `json:"fee,omitempty"`
	NetAmount             *decimal.Decimal `json:"net_amount,omitempty"`
	ExchangeRate          *decimal.Decimal `json:"exchange_rate,omitempty"`
	TargetCurrency        *string          `json:"target_currency,omitempty"`
	SettlementID          *string          `json:"settlement_id,omitempty"`
	CreatedAt             time.Time        `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to a response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	resp := &TransactionResponse{
		ID:                    t.ID,
		AccountID:             t.AccountID,
		Kind:                  string(t.Kind),
		Amount:                t.Amount.Amount,
		Currency:              t.Amount.Currency,
		Description:           t.Description,
		Reference:             t.Reference,
		Status:                string(t.Status),
		CounterpartyAccountID: t.CounterpartyAccountID,
		ExchangeRate:          t.ExchangeRate,
		TargetCurrency:        t.TargetCurrency,
		SettlementID:          t.SettlementID,
		CreatedAt:             t.CreatedAt,
	}

	if t.Fee != nil {
		resp.Fee = &t.Fee.Amount
	}
	if t.NetAmount != nil {
		resp.NetAmount = &t.NetAmount.Amount
	}

	return resp
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(transactions []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(transactions))
	for i, t := range transactions {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// TransferResultResponse represents a settled transfer in API responses.
type TransferResultResponse struct {
	Reference         string               `json:"reference"`
	DebitTransaction  *TransactionResponse `json:"debit_transaction"`
	CreditTransaction *TransactionResponse `json:"credit_transaction,omitempty"`
	Fee               MoneyResponse        `json:"fee"`
	ExchangeRate      decimal.Decimal      `json:"exchange_rate"`
	ConvertedAmount   MoneyResponse        `json:"converted_amount"`
	SourceBalance     MoneyResponse        `json:"source_balance"`
	SettlementID      string               `json:"settlement_id,omitempty"`
	Replayed          bool                 `json:"replayed"`
}

// TransferResultFromDomain converts a domain transfer result to a response.
func TransferResultFromDomain(r *domain.TransferResult) *TransferResultResponse {
	resp := &TransferResultResponse{
		Reference:       r.Reference,
		Fee:             MoneyFromDomain(r.Fee),
		ExchangeRate:    r.ExchangeRate,
		ConvertedAmount: MoneyFromDomain(r.ConvertedAmount),
		SourceBalance:   MoneyFromDomain(r.SourceBalance),
		SettlementID:    r.SettlementID,
		Replayed:        r.Replayed,
	}

	if r.DebitTransaction != nil {
		resp.DebitTransaction = TransactionFromDomain(r.DebitTransaction)
	}
	if r.CreditTransaction != nil {
		resp.CreditTransaction = TransactionFromDomain(r.CreditTransaction)
	}

	return resp
}

// DepositResponse represents a fixed deposit in API responses.
type DepositResponse struct {
	ID             string          `json:"id"`
	OwnerID        string          `json:"owner_id"`
	AccountID      string          `json:"account_id"`
	Principal      MoneyResponse   `json:"principal"`
	AnnualRate     decimal.Decimal `json:"annual_rate"`
	DurationMonths int             `json:"duration_months"`
	MaturesAt      time.Time       `json:"matures_at"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// DepositFromDomain converts a domain deposit to a response.
func DepositFromDomain(d *domain.FixedDeposit) *DepositResponse {
	return &DepositResponse{
		ID:             d.ID,
		OwnerID:        d.OwnerID,
		AccountID:      d.AccountID,
		Principal:      MoneyFromDomain(d.Principal),
		AnnualRate:     d.AnnualRate,
		DurationMonths: d.DurationMonths,
		MaturesAt:      d.MaturesAt,
		Status:         string(d.Status),
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
}

// DepositsFromDomain converts domain deposits to responses.
func DepositsFromDomain(deposits []*domain.FixedDeposit) []*DepositResponse {
	result := make([]*DepositResponse, len(deposits))
	for i, d := range deposits {
		result[i] = DepositFromDomain(d)
	}
	return result
}

// WithdrawalResponse represents a deposit redemption in API responses.
type WithdrawalResponse struct {
	Deposit     *DepositResponse     `json:"deposit"`
	Interest    MoneyResponse        `json:"interest"`
	Credited    MoneyResponse        `json:"credited"`
	Transaction *TransactionResponse `json:"transaction"`
}

// WithdrawalFromUseCase converts a withdrawal result to a response.
func WithdrawalFromUseCase(r *usecase.WithdrawalResult) *WithdrawalResponse {
	return &WithdrawalResponse{
		Deposit:     DepositFromDomain(r.Deposit),
		Interest:    MoneyFromDomain(r.Interest),
		Credited:    MoneyFromDomain(r.Credited),
		Transaction: TransactionFromDomain(r.Transaction),
	}
}

// AccrualFailureResponse is one account the accrual run could not credit.
type AccrualFailureResponse struct {
	AccountID string `json:"account_id"`
	Reason    string `json:"reason"`
}

// AccrualSummaryResponse represents an accrual run outcome.
type AccrualSummaryResponse struct {
	Period          string                     `json:"period"`
	Processed       int                        `json:"processed"`
	Credited        int                        `json:"credited"`
	AlreadyCredited int                        `json:"already_credited"`
	Skipped         int                        `json:"skipped"`
	TotalInterest   map[string]decimal.Decimal `json:"total_interest"`
	Failures        []AccrualFailureResponse   `json:"failures,omitempty"`
}

// AccrualSummaryFromDomain converts a domain accrual summary to a response.
func AccrualSummaryFromDomain(s *domain.AccrualSummary) *AccrualSummaryResponse {
	resp := &AccrualSummaryResponse{
		Period:          s.Period,
		Processed:       s.Processed,
		Credited:        s.Credited,
		AlreadyCredited: s.AlreadyCredited,
		Skipped:         s.Skipped,
		TotalInterest:   s.TotalInterest,
	}

	for _, f := range s.Failures {
		resp.Failures = append(resp.Failures, AccrualFailureResponse{
			AccountID: f.AccountID,
			Reason:    f.Reason,
		})
	}

	return resp
}

// BalanceMismatchResponse is one account whose balance disagrees with its
// ledger entries.
type BalanceMismatchResponse struct {
	AccountID string          `json:"account_id"`
	Balance   decimal.Decimal `json:"balance"`
	LedgerNet decimal.Decimal `json:"ledger_net"`
}

// ConsistencyResponse represents a ledger consistency report.
type ConsistencyResponse struct {
	Consistent bool                      `json:"consistent"`
	Mismatches []BalanceMismatchResponse `json:"mismatches,omitempty"`
}

// ConsistencyFromUseCase converts a consistency report to a response.
func ConsistencyFromUseCase(r *usecase.ConsistencyReport) *ConsistencyResponse {
	resp := &ConsistencyResponse{Consistent: r.Consistent}

	for _, m := range r.Mismatches {
		resp.Mismatches = append(resp.Mismatches, BalanceMismatchResponse{
			AccountID: m.AccountID,
			Balance:   m.Balance,
			LedgerNet: m.LedgerNet,
		})
	}

	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
