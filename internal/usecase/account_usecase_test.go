package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iho/corebank/internal/domain"
	"github.com/iho/corebank/internal/usecase"
	"github.com/iho/corebank/internal/usecase/mocks"
)

func newAccountUseCase() (*usecase.AccountUseCase, *mocks.MockAccountRepository, *mocks.MockTransactionRepository) {
	accounts := mocks.NewMockAccountRepository()
	ledger := mocks.NewMockTransactionRepository()
	uc := usecase.NewAccountUseCase(accounts, ledger, mocks.NewMockIDGenerator(), nil)
	return uc, accounts, ledger
}

func TestAccountUseCase_CreateAccount(t *testing.T) {
	tests := []struct {
		name    string
		input   usecase.CreateAccountInput
		wantErr error
	}{
		{
			name:  "savings account",
			input: usecase.CreateAccountInput{OwnerID: "owner-1", Type: "SAVINGS", Currency: "USD"},
		},
		{
			name:  "corporate account",
			input: usecase.CreateAccountInput{OwnerID: "owner-2", Type: "CORPORATE", Currency: "EUR"},
		},
		{
			name:    "unknown type",
			input:   usecase.CreateAccountInput{OwnerID: "owner-1", Type: "PREMIUM", Currency: "USD"},
			wantErr: domain.ErrInvalidAccountType,
		},
		{
			name:    "unknown currency",
			input:   usecase.CreateAccountInput{OwnerID: "owner-1", Type: "SAVINGS", Currency: "XYZ"},
			wantErr: domain.ErrInvalidCurrency,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, _, _ := newAccountUseCase()

			account, err := uc.CreateAccount(context.Background(), tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if !account.Active {
				t.Error("new account must be active")
			}
			if !account.Balance.Amount.IsZero() {
				t.Errorf("new account balance = %s, want 0", account.Balance.Amount)
			}
			if account.Currency() != tt.input.Currency {
				t.Errorf("currency = %s, want %s", account.Currency(), tt.input.Currency)
			}
			if account.ID == "" {
				t.Error("expected a generated id")
			}
		})
	}
}

func TestAccountUseCase_DeactivateAccount(t *testing.T) {
	uc, accounts, _ := newAccountUseCase()
	accounts.Seed(activeAccount("acc-1", "owner-1", "USD", "0"))

	if err := uc.DeactivateAccount(context.Background(), "acc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	account, _ := accounts.GetByID(context.Background(), "acc-1")
	if account.Active {
		t.Error("account still active after deactivation")
	}

	// Deactivating twice is a no-op, not an error.
	if err := uc.DeactivateAccount(context.Background(), "acc-1"); err != nil {
		t.Fatalf("second deactivation failed: %v", err)
	}

	if err := uc.DeactivateAccount(context.Background(), "ghost"); !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountUseCase_ListTransactions(t *testing.T) {
	uc, accounts, ledger := newAccountUseCase()
	accounts.Seed(activeAccount("acc-1", "owner-1", "USD", "100"))

	entries := []*domain.Transaction{
		{ID: "tx-1", AccountID: "acc-1", Kind: domain.TransactionKindCredit, Reference: "r1", Status: domain.TransactionStatusCompleted},
		{ID: "tx-2", AccountID: "acc-1", Kind: domain.TransactionKindDebit, Reference: "r2", Status: domain.TransactionStatusFailed},
		{ID: "tx-3", AccountID: "acc-other", Kind: domain.TransactionKindCredit, Reference: "r3", Status: domain.TransactionStatusCompleted},
	}
	for _, entry := range entries {
		if err := ledger.Create(context.Background(), nil, entry); err != nil {
			t.Fatalf("seeding ledger: %v", err)
		}
	}

	all, err := uc.ListTransactions(context.Background(), usecase.ListTransactionsInput{AccountID: "acc-1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("entries = %d, want 2", len(all))
	}

	completed, err := uc.ListTransactions(context.Background(), usecase.ListTransactionsInput{
		AccountID: "acc-1",
		Status:    "COMPLETED",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(completed) != 1 || completed[0].ID != "tx-1" {
		t.Errorf("completed filter returned %d entries", len(completed))
	}

	_, err = uc.ListTransactions(context.Background(), usecase.ListTransactionsInput{
		AccountID: "acc-1",
		Status:    "SETTLED",
	})
	if !errors.Is(err, domain.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	_, err = uc.ListTransactions(context.Background(), usecase.ListTransactionsInput{AccountID: "ghost"})
	if !errors.Is(err, domain.ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestAccountUseCase_ListAccounts(t *testing.T) {
	uc, accounts, _ := newAccountUseCase()
	accounts.Seed(
		activeAccount("acc-1", "owner-1", "USD", "0"),
		activeAccount("acc-2", "owner-2", "USD", "0"),
	)

	listed, err := uc.ListAccounts(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(listed) != 2 {
		t.Errorf("accounts = %d, want 2", len(listed))
	}
}
