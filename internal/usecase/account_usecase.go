package usecase

import (
	"context"
	"time"

	"github.com/iho/corebank/internal/domain"
	"github.com/iho/corebank/internal/infrastructure/metrics"
)

// AccountUseCase handles account lifecycle and read paths. Balance mutation
// lives in TransferUseCase; this type never changes a balance.
type AccountUseCase struct {
	accountRepo AccountRepository
	ledgerRepo  TransactionRepository
	idGen       IDGenerator
	metrics     *metrics.Metrics
}

// NewAccountUseCase creates an AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, ledgerRepo TransactionRepository, idGen IDGenerator, m *metrics.Metrics) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		idGen:       idGen,
		metrics:     m,
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	OwnerID  string
	Type     string
	Currency string
}

// CreateAccount opens a new, active, zero-balance account.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	accountType, err := domain.ParseAccountType(input.Type)
	if err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(input.Currency); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	account := &domain.Account{
		ID:        uc.idGen.Generate(),
		OwnerID:   input.OwnerID,
		Type:      accountType,
		Balance:   domain.Zero(input.Currency),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.AccountsCreated.Inc()
	}

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccounts lists accounts with pagination.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.accountRepo.List(ctx, limit, offset)
}

// DeactivateAccount retires an account. Accounts are never deleted.
func (uc *AccountUseCase) DeactivateAccount(ctx context.Context, id string) error {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !account.Active {
		return nil
	}

	if err := uc.accountRepo.SetActive(ctx, id, false, time.Now().UTC()); err != nil {
		return err
	}

	if uc.metrics != nil {
		uc.metrics.AccountOperations.WithLabelValues("deactivate").Inc()
	}

	return nil
}

// ListTransactionsInput represents input for listing ledger entries.
type ListTransactionsInput struct {
	AccountID string
	Status    string
	Limit     int
	Offset    int
}

// ListTransactions returns an account's ledger entries, newest first.
func (uc *AccountUseCase) ListTransactions(ctx context.Context, input ListTransactionsInput) ([]*domain.Transaction, error) {
	if _, err := uc.accountRepo.GetByID(ctx, input.AccountID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)
	filter := domain.TransactionFilter{Limit: limit, Offset: offset}

	if input.Status != "" {
		status, ok := domain.ParseTransactionStatus(input.Status)
		if !ok {
			return nil, domain.ErrInvalidStatus
		}
		filter.Status = &status
	}

	return uc.ledgerRepo.ListByAccount(ctx, input.AccountID, filter)
}
