package usecase

import (
	"context"
	"time"

	"github.com/iho/corebank/internal/domain"
)

// CreditInput describes a single-account credit: interest payments, cash
// deposits, fixed-deposit redemptions.
type CreditInput struct {
	AccountID   string
	Amount      domain.Money
	Reference   string
	Description string
}

// DebitInput describes a single-account debit.
type DebitInput struct {
	AccountID   string
	OwnerID     string
	Amount      domain.Money
	Reference   string
	Description string
}

// Credit applies a single-account credit in one atomic scope: balance change
// and ledger entry commit together. The reference makes the operation
// idempotent; replays return domain.ErrDuplicateReference.
func (uc *TransferUseCase) Credit(ctx context.Context, input CreditInput) (*domain.Transaction, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if input.Reference == "" {
		input.Reference = uc.idGen.Generate()
	}

	var transaction *domain.Transaction
	err := uc.retry(ctx, func() error {
		var opErr error
		transaction, opErr = uc.credit(ctx, input)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

func (uc *TransferUseCase) credit(ctx context.Context, input CreditInput) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if err := account.ValidateCredit(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transaction := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   account.ID,
		OwnerID:     account.OwnerID,
		Kind:        domain.TransactionKindCredit,
		Amount:      input.Amount,
		Description: input.Description,
		Reference:   input.Reference,
		Status:      domain.TransactionStatusCompleted,
		CreatedAt:   now,
	}

	if err := uc.ledgerRepo.Create(txCtx, tx, transaction); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, account.ApplyCredit(input.Amount), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return transaction, nil
}

// Debit applies a single-account debit in one atomic scope, rejecting any
// movement that would drive the balance negative.
func (uc *TransferUseCase) Debit(ctx context.Context, input DebitInput) (*domain.Transaction, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if input.Reference == "" {
		input.Reference = uc.idGen.Generate()
	}

	var transaction *domain.Transaction
	err := uc.retry(ctx, func() error {
		var opErr error
		transaction, opErr = uc.debit(ctx, input)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return transaction, nil
}

func (uc *TransferUseCase) debit(ctx context.Context, input DebitInput) (*domain.Transaction, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, input.AccountID)
	if err != nil {
		return nil, err
	}
	if input.OwnerID != "" && account.OwnerID != input.OwnerID {
		return nil, domain.ErrNotAccountOwner
	}
	if err := account.ValidateDebit(input.Amount); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	transaction := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   account.ID,
		OwnerID:     account.OwnerID,
		Kind:        domain.TransactionKindDebit,
		Amount:      input.Amount,
		Description: input.Description,
		Reference:   input.Reference,
		Status:      domain.TransactionStatusCompleted,
		CreatedAt:   now,
	}

	if err := uc.ledgerRepo.Create(txCtx, tx, transaction); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, account.ApplyDebit(input.Amount), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	return transaction, nil
}
