package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/corebank/internal/domain"
	"github.com/iho/corebank/internal/infrastructure/metrics"
)

// DepositPolicy bounds fixed deposit terms and governs early withdrawal.
type DepositPolicy struct {
	MinDurationMonths int
	MaxDurationMonths int
	// BreakRetention is the fraction of accrued interest kept on early
	// withdrawal. Zero forfeits all interest; principal always returns.
	BreakRetention decimal.Decimal
}

// FixedDepositUseCase manages the fixed deposit lifecycle. Principal moves
// are atomic with the deposit state change in both directions.
type FixedDepositUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	ledgerRepo  TransactionRepository
	depositRepo DepositRepository
	rateTable   *domain.InterestRateTable
	policy      DepositPolicy
	idGen       IDGenerator
	retrier     Retryer
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewFixedDepositUseCase creates a FixedDepositUseCase.
func NewFixedDepositUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	ledgerRepo TransactionRepository,
	depositRepo DepositRepository,
	rateTable *domain.InterestRateTable,
	policy DepositPolicy,
	idGen IDGenerator,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *FixedDepositUseCase {
	return &FixedDepositUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		depositRepo: depositRepo,
		rateTable:   rateTable,
		policy:      policy,
		idGen:       idGen,
		logger:      logger,
		metrics:     m,
	}
}

// WithRetrier re-runs atomic scopes through retrier when they fail with a
// transient database error. Failed attempts roll back fully, so a re-run
// starts from clean state.
func (uc *FixedDepositUseCase) WithRetrier(retrier Retryer) *FixedDepositUseCase {
	uc.retrier = retrier
	return uc
}

func (uc *FixedDepositUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

// CreateDepositInput represents input for creating a fixed deposit.
type CreateDepositInput struct {
	OwnerID        string
	AccountID      string
	Principal      domain.Money
	DurationMonths int
}

// CreateDeposit opens a fixed deposit, debiting the principal from the
// linked savings account atomically with the deposit row.
func (uc *FixedDepositUseCase) CreateDeposit(ctx context.Context, input CreateDepositInput) (*domain.FixedDeposit, error) {
	if err := domain.ValidateAmount(input.Principal.Amount); err != nil {
		return nil, err
	}
	if input.DurationMonths < uc.policy.MinDurationMonths || input.DurationMonths > uc.policy.MaxDurationMonths {
		return nil, fmt.Errorf("%w: duration must be between %d and %d months",
			domain.ErrInvalidDuration, uc.policy.MinDurationMonths, uc.policy.MaxDurationMonths)
	}

	rate, ok := uc.rateTable.DepositRateFor(input.DurationMonths)
	if !ok {
		return nil, fmt.Errorf("%w: no rate tier covers %d months", domain.ErrInvalidDuration, input.DurationMonths)
	}

	var deposit *domain.FixedDeposit
	err := uc.retry(ctx, func() error {
		var opErr error
		deposit, opErr = uc.createDeposit(ctx, input, rate)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return deposit, nil
}

func (uc *FixedDepositUseCase) createDeposit(ctx context.Context, input CreateDepositInput, rate decimal.Decimal) (*domain.FixedDeposit, error) {
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
	if account.OwnerID != input.OwnerID {
		return nil, domain.ErrNotAccountOwner
	}
	if account.Type != domain.AccountTypeSavings {
		return nil, fmt.Errorf("%w: fixed deposits require a savings account", domain.ErrInvalidAccountType)
	}
	if err := account.ValidateDebit(input.Principal); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	deposit := &domain.FixedDeposit{
		ID:             uc.idGen.Generate(),
		OwnerID:        input.OwnerID,
		AccountID:      input.AccountID,
		Principal:      input.Principal,
		AnnualRate:     rate,
		DurationMonths: input.DurationMonths,
		MaturesAt:      now.AddDate(0, input.DurationMonths, 0),
		Status:         domain.DepositStatusActive,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.depositRepo.Create(txCtx, tx, deposit); err != nil {
		return nil, err
	}

	debitTx := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   account.ID,
		OwnerID:     account.OwnerID,
		Kind:        domain.TransactionKindDebit,
		Amount:      input.Principal,
		Description: fmt.Sprintf("fixed deposit %s opened, %d months", deposit.ID, input.DurationMonths),
		Reference:   depositReference(deposit.ID, "open"),
		Status:      domain.TransactionStatusCompleted,
		CreatedAt:   now,
	}
	if err := uc.ledgerRepo.Create(txCtx, tx, debitTx); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, account.ApplyDebit(input.Principal), now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.DepositsCreated.Inc()
	}

	uc.logger.Info().
		Str("deposit_id", deposit.ID).
		Str("account_id", account.ID).
		Str("principal", input.Principal.String()).
		Int("duration_months", input.DurationMonths).
		Msg("fixed deposit created")

	return deposit, nil
}

// WithdrawalResult is the outcome of a deposit withdrawal or break.
type WithdrawalResult struct {
	Deposit     *domain.FixedDeposit
	Interest    domain.Money
	Credited    domain.Money
	Transaction *domain.Transaction
}

// WithdrawDeposit redeems a matured deposit: principal plus actual/365
// simple interest is credited back atomically with the WITHDRAWN mark.
func (uc *FixedDepositUseCase) WithdrawDeposit(ctx context.Context, depositID, ownerID string) (*WithdrawalResult, error) {
	return uc.redeem(ctx, depositID, ownerID, false)
}

// BreakDeposit withdraws early. Accrued interest is reduced to the policy's
// retention fraction; the principal returns in full.
func (uc *FixedDepositUseCase) BreakDeposit(ctx context.Context, depositID, ownerID string) (*WithdrawalResult, error) {
	return uc.redeem(ctx, depositID, ownerID, true)
}

func (uc *FixedDepositUseCase) redeem(ctx context.Context, depositID, ownerID string, breakEarly bool) (*WithdrawalResult, error) {
	var result *WithdrawalResult
	err := uc.retry(ctx, func() error {
		var opErr error
		result, opErr = uc.redeemOnce(ctx, depositID, ownerID, breakEarly)
		return opErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *FixedDepositUseCase) redeemOnce(ctx context.Context, depositID, ownerID string, breakEarly bool) (*WithdrawalResult, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	deposit, err := uc.depositRepo.GetByIDForUpdate(txCtx, tx, depositID)
	if err != nil {
		return nil, err
	}
	if ownerID != "" && deposit.OwnerID != ownerID {
		return nil, domain.ErrNotAccountOwner
	}

	switch deposit.Status {
	case domain.DepositStatusWithdrawn, domain.DepositStatusBroken:
		return nil, domain.ErrDepositAlreadyWithdrawn
	case domain.DepositStatusActive:
	default:
		return nil, domain.ErrDepositAlreadyWithdrawn
	}

	now := time.Now().UTC()

	// A break requested after maturity is just a withdrawal.
	if breakEarly && deposit.IsMatured(now) {
		breakEarly = false
	}

	var interest domain.Money
	var finalStatus domain.DepositStatus
	var reference string

	if breakEarly {
		interest = deposit.AccruedInterest(now).Mul(uc.policy.BreakRetention).Round()
		finalStatus = domain.DepositStatusBroken
		reference = depositReference(deposit.ID, "break")
	} else {
		if !deposit.IsMatured(now) {
			return nil, domain.ErrDepositNotMatured
		}
		interest = deposit.AccruedInterest(now)
		finalStatus = domain.DepositStatusWithdrawn
		reference = depositReference(deposit.ID, "withdraw")
	}

	credited, err := deposit.Principal.Add(interest)
	if err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByIDForUpdate(txCtx, tx, deposit.AccountID)
	if err != nil {
		return nil, err
	}
	if err := account.ValidateCredit(credited); err != nil {
		return nil, err
	}

	creditTx := &domain.Transaction{
		ID:          uc.idGen.Generate(),
		AccountID:   account.ID,
		OwnerID:     account.OwnerID,
		Kind:        domain.TransactionKindCredit,
		Amount:      credited,
		Description: fmt.Sprintf("fixed deposit %s redeemed, interest %s", deposit.ID, interest.String()),
		Reference:   reference,
		Status:      domain.TransactionStatusCompleted,
		CreatedAt:   now,
	}
	if err := uc.ledgerRepo.Create(txCtx, tx, creditTx); err != nil {
		return nil, err
	}

	if err := uc.accountRepo.UpdateBalance(txCtx, tx, account.ID, account.ApplyCredit(credited), now); err != nil {
		return nil, err
	}

	if err := uc.depositRepo.UpdateStatus(txCtx, tx, deposit.ID, finalStatus, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	deposit.Status = finalStatus
	deposit.UpdatedAt = now

	if uc.metrics != nil {
		if breakEarly {
			uc.metrics.DepositsBroken.Inc()
		} else {
			uc.metrics.DepositsWithdrawn.Inc()
		}
	}

	uc.logger.Info().
		Str("deposit_id", deposit.ID).
		Str("status", string(finalStatus)).
		Str("credited", credited.String()).
		Msg("fixed deposit redeemed")

	return &WithdrawalResult{
		Deposit:     deposit,
		Interest:    interest,
		Credited:    credited,
		Transaction: creditTx,
	}, nil
}

// GetDeposit retrieves a deposit with its derived status.
func (uc *FixedDepositUseCase) GetDeposit(ctx context.Context, depositID string) (*domain.FixedDeposit, error) {
	deposit, err := uc.depositRepo.GetByID(ctx, depositID)
	if err != nil {
		return nil, err
	}
	deposit.Status = deposit.StatusAt(time.Now().UTC())
	return deposit, nil
}

// ListDeposits lists an owner's deposits with derived statuses.
func (uc *FixedDepositUseCase) ListDeposits(ctx context.Context, ownerID string, limit, offset int) ([]*domain.FixedDeposit, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	deposits, err := uc.depositRepo.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	for _, d := range deposits {
		d.Status = d.StatusAt(now)
	}
	return deposits, nil
}

func depositReference(depositID, stage string) string {
	return fmt.Sprintf("deposit:%s:%s", depositID, stage)
}
