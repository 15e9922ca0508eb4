package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/corebank/internal/domain"
	"github.com/iho/corebank/internal/usecase"
)

// CreateAccountRequest represents a request to open an account.
type CreateAccountRequest struct {
	Type     string `json:"type"`
	Currency string `json:"currency"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(ownerID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		OwnerID:  ownerID,
		Type:     r.Type,
		Currency: r.Currency,
	}
}

// BeneficiaryRequest identifies the receiving party of an outbound transfer.
type BeneficiaryRequest struct {
	Name          string `json:"name"`
	AccountNumber string `json:"account_number"`
	BankCode      string `json:"bank_code"`
	Country       string `json:"country,omitempty"`
}

// CreateTransferRequest represents a request to execute a transfer.
type CreateTransferRequest struct {
	SourceAccountID      string              `json:"source_account_id"`
	DestinationAccountID string              `json:"destination_account_id,omitempty"`
	Beneficiary          *BeneficiaryRequest `json:"beneficiary,omitempty"`
	Amount               decimal.Decimal     `json:"amount"`
	Currency             string              `json:"currency"`
	TargetCurrency       string              `json:"target_currency,omitempty"`
	Class                string              `json:"class"`
	Reference            string              `json:"reference,omitempty"`
	Description          string              `json:"description,omitempty"`
}

// ToDomain converts to a domain transfer request.
func (r *CreateTransferRequest) ToDomain(ownerID string) (domain.Transfer, error) {
	class, err := domain.ParseTransferClass(r.Class)
	if err != nil {
		return domain.Transfer{}, err
	}

	transfer := domain.Transfer{
		OwnerID:              ownerID,
		SourceAccountID:      r.SourceAccountID,
		DestinationAccountID: r.DestinationAccountID,
		Amount:               domain.NewMoney(r.Amount, r.Currency),
		TargetCurrency:       r.TargetCurrency,
		Class:                class,
		Reference:            r.Reference,
		Description:          r.Description,
	}

	if r.Beneficiary != nil {
		transfer.Beneficiary = &domain.ExternalBeneficiary{
			Name:          r.Beneficiary.Name,
			AccountNumber: r.Beneficiary.AccountNumber,
			BankCode:      r.Beneficiary.BankCode,
			Country:       r.Beneficiary.Country,
		}
	}

	return transfer, nil
}

// CashRequest represents a teller-style cash credit or debit.
type CashRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Reference   string          `json:"reference"`
	Description string          `json:"description,omitempty"`
}

// CreateDepositRequest represents a request to open a fixed deposit.
type CreateDepositRequest struct {
	AccountID      string          `json:"account_id"`
	Principal      decimal.Decimal `json:"principal"`
	Currency       string          `json:"currency"`
	DurationMonths int             `json:"duration_months"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateDepositRequest) ToUseCaseInput(ownerID string) usecase.CreateDepositInput {
	return usecase.CreateDepositInput{
		OwnerID:        ownerID,
		AccountID:      r.AccountID,
		Principal:      domain.NewMoney(r.Principal, r.Currency),
		DurationMonths: r.DurationMonths,
	}
}

// RunAccrualRequest represents a request to run monthly interest accrual.
type RunAccrualRequest struct {
	Period string `json:"period"` // YYYY-MM
}
