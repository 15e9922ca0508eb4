package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/corebank/internal/domain"
	"github.com/iho/corebank/internal/infrastructure/metrics"
)

// TransferUseCase is the transfer orchestrator. Every balance-affecting
// operation in the engine goes through its atomic scopes: two-account
// transfers via Execute, single-account movements via Credit and Debit.
type TransferUseCase struct {
	txManager    TransactionManager
	accountRepo  AccountRepository
	ledgerRepo   TransactionRepository
	quotes       *QuoteCalculator
	routing      RoutingGateway
	kyc          KYCProvider
	idGen        IDGenerator
	retrier      Retryer
	kycThreshold decimal.Decimal
	logger       zerolog.Logger
	metrics      *metrics.Metrics
}

// NewTransferUseCase creates a TransferUseCase. routing, kyc and metrics may
// be nil; the corresponding checks are skipped.
func NewTransferUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	ledgerRepo TransactionRepository,
	quotes *QuoteCalculator,
	routing RoutingGateway,
	kyc KYCProvider,
	idGen IDGenerator,
	kycThreshold decimal.Decimal,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *TransferUseCase {
	return &TransferUseCase{
		txManager:    txManager,
		accountRepo:  accountRepo,
		ledgerRepo:   ledgerRepo,
		quotes:       quotes,
		routing:      routing,
		kyc:          kyc,
		idGen:        idGen,
		kycThreshold: kycThreshold,
		logger:       logger,
		metrics:      m,
	}
}

// WithRetrier re-runs atomic scopes through retrier when they fail with a
// transient database error. Safe because a failed attempt rolls back fully
// and the ledger reference turns a re-run after commit into a replay.
func (uc *TransferUseCase) WithRetrier(retrier Retryer) *TransferUseCase {
	uc.retrier = retrier
	return uc
}

func (uc *TransferUseCase) retry(ctx context.Context, operation func() error) error {
	if uc.retrier == nil {
		return operation()
	}
	return uc.retrier.Retry(ctx, operation)
}

// Execute runs a transfer as one atomic unit. On success the source debit,
// the destination credit (INTERNAL) and both ledger entries are durable
// together; on any failure nothing is. Retrying with the same reference
// returns the original result without re-applying balance changes.
func (uc *TransferUseCase) Execute(ctx context.Context, transfer domain.Transfer) (*domain.TransferResult, error) {
	start := time.Now()

	// The reference must stay fixed across retry attempts so a re-run can
	// never double-apply.
	if transfer.Reference == "" {
		transfer.Reference = uc.idGen.Generate()
	}

	var result *domain.TransferResult
	err := uc.retry(ctx, func() error {
		var execErr error
		result, execErr = uc.execute(ctx, transfer)
		return execErr
	})
	if err != nil {
		if uc.metrics != nil {
			uc.metrics.TransferErrors.WithLabelValues(errorType(err)).Inc()
		}
		return nil, err
	}

	if uc.metrics != nil {
		if result.Replayed {
			uc.metrics.TransferReplays.Inc()
		} else {
			uc.metrics.TransfersExecuted.WithLabelValues(string(transfer.Class)).Inc()
			uc.metrics.TransferAmount.Observe(transfer.Amount.Amount.InexactFloat64())
		}
		uc.metrics.TransferDuration.Observe(time.Since(start).Seconds())
	}

	return result, nil
}

func (uc *TransferUseCase) execute(ctx context.Context, transfer domain.Transfer) (*domain.TransferResult, error) {
	// Validate the request shape before touching any state.
	if err := transfer.Validate(); err != nil {
		return nil, err
	}
	if err := domain.ValidateAmount(transfer.Amount.Amount); err != nil {
		return nil, err
	}
	if err := domain.ValidateCurrency(transfer.Amount.Currency); err != nil {
		return nil, err
	}
	if transfer.TargetCurrency == "" {
		transfer.TargetCurrency = transfer.Amount.Currency
	}
	if err := domain.ValidateCurrency(transfer.TargetCurrency); err != nil {
		return nil, err
	}

	// Idempotent replay: a reference already on the ledger short-circuits
	// to the recorded outcome.
	if existing, err := uc.ledgerRepo.GetByReference(ctx, transfer.Reference); err != nil {
		return nil, err
	} else if len(existing) > 0 {
		return uc.replayResult(ctx, transfer.Reference, existing)
	}

	source, err := uc.accountRepo.GetByID(ctx, transfer.SourceAccountID)
	if err != nil {
		return nil, err
	}
	if transfer.OwnerID != "" && source.OwnerID != transfer.OwnerID {
		return nil, domain.ErrNotAccountOwner
	}
	if !source.Active {
		return nil, domain.ErrAccountInactive
	}

	if err := uc.checkKYC(ctx, source.OwnerID, transfer.Amount); err != nil {
		return nil, err
	}

	quote, err := uc.quotes.Quote(ctx, transfer.Amount, transfer.TargetCurrency, transfer.Class)
	if err != nil {
		return nil, err
	}

	// Fee is always charged in the source currency.
	totalDebit, err := transfer.Amount.Add(quote.Fee)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	// Lock accounts in ascending ID order so two opposing transfers between
	// the same pair cannot deadlock.
	lockIDs := []string{transfer.SourceAccountID}
	if transfer.Class == domain.TransferClassInternal {
		lockIDs = append(lockIDs, transfer.DestinationAccountID)
	}
	sort.Strings(lockIDs)

	accounts, err := uc.accountRepo.GetByIDsForUpdate(txCtx, tx, lockIDs)
	if err != nil {
		return nil, err
	}
	if len(accounts) != len(lockIDs) {
		return nil, domain.ErrAccountNotFound
	}

	accountMap := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		accountMap[a.ID] = a
	}
	source = accountMap[transfer.SourceAccountID]

	var destination *domain.Account
	if transfer.Class == domain.TransferClassInternal {
		destination = accountMap[transfer.DestinationAccountID]
		if destination == nil {
			return nil, domain.ErrAccountNotFound
		}
		if destination.Currency() != quote.ConvertedAmount.Currency {
			return nil, fmt.Errorf("%w: destination holds %s, transfer targets %s",
				domain.ErrCurrencyMismatch, destination.Currency(), quote.ConvertedAmount.Currency)
		}
		if err := destination.ValidateCredit(quote.ConvertedAmount); err != nil {
			return nil, err
		}
	}

	if err := source.ValidateDebit(totalDebit); err != nil {
		return nil, err
	}

	// External movements are mirrored through the settlement account before
	// commit; a routing failure rolls the local debit back.
	var settlementID string
	if transfer.Class != domain.TransferClassInternal {
		receipt, err := uc.routeOutbound(ctx, transfer, quote)
		if err != nil {
			return nil, err
		}
		settlementID = receipt.SettlementID
	}

	now := time.Now().UTC()
	rate := quote.ExchangeRate

	debitTx := &domain.Transaction{
		ID:           uc.idGen.Generate(),
		AccountID:    source.ID,
		OwnerID:      source.OwnerID,
		Kind:         domain.TransactionKindDebit,
		Amount:       transfer.Amount,
		Description:  transfer.Description,
		Reference:    transfer.Reference,
		Status:       domain.TransactionStatusCompleted,
		Fee:          &quote.Fee,
		NetAmount:    &totalDebit,
		ExchangeRate: &rate,
		CreatedAt:    now,
	}
	if destination != nil {
		debitTx.CounterpartyAccountID = &destination.ID
	}
	if quote.ConvertedAmount.Currency != transfer.Amount.Currency {
		debitTx.TargetCurrency = &quote.ConvertedAmount.Currency
	}
	if settlementID != "" {
		debitTx.SettlementID = &settlementID
	}

	if err := uc.ledgerRepo.Create(txCtx, tx, debitTx); err != nil {
		if errors.Is(err, domain.ErrDuplicateReference) {
			// A concurrent request with the same reference won the race.
			_ = tx.Rollback(txCtx)
			return uc.fetchReplay(ctx, transfer.Reference)
		}
		return nil, err
	}

	sourceBalance := source.ApplyDebit(totalDebit)
	if err := uc.accountRepo.UpdateBalance(txCtx, tx, source.ID, sourceBalance, now); err != nil {
		return nil, err
	}

	var creditTx *domain.Transaction
	if destination != nil {
		creditTx = &domain.Transaction{
			ID:                    uc.idGen.Generate(),
			AccountID:             destination.ID,
			OwnerID:               destination.OwnerID,
			Kind:                  domain.TransactionKindCredit,
			Amount:                quote.ConvertedAmount,
			Description:           transfer.Description,
			Reference:             transfer.Reference,
			Status:                domain.TransactionStatusCompleted,
			CounterpartyAccountID: &source.ID,
			ExchangeRate:          &rate,
			CreatedAt:             now,
		}

		if err := uc.ledgerRepo.Create(txCtx, tx, creditTx); err != nil {
			return nil, err
		}

		destinationBalance := destination.ApplyCredit(quote.ConvertedAmount)
		if err := uc.accountRepo.UpdateBalance(txCtx, tx, destination.ID, destinationBalance, now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, err
	}

	uc.logger.Info().
		Str("reference", transfer.Reference).
		Str("class", string(transfer.Class)).
		Str("source_account", source.ID).
		Str("amount", transfer.Amount.String()).
		Str("fee", quote.Fee.String()).
		Msg("transfer completed")

	return &domain.TransferResult{
		Reference:         transfer.Reference,
		DebitTransaction:  debitTx,
		CreditTransaction: creditTx,
		Fee:               quote.Fee,
		ExchangeRate:      quote.ExchangeRate,
		ConvertedAmount:   quote.ConvertedAmount,
		SourceBalance:     sourceBalance,
		SettlementID:      settlementID,
	}, nil
}

func (uc *TransferUseCase) checkKYC(ctx context.Context, ownerID string, amount domain.Money) error {
	if uc.kyc == nil || amount.Amount.LessThan(uc.kycThreshold) {
		return nil
	}

	verified, err := uc.kyc.IsVerified(ctx, ownerID)
	if err != nil {
		// Fail closed above the threshold.
		return fmt.Errorf("%w: verification unavailable", domain.ErrKYCRequired)
	}
	if !verified {
		return domain.ErrKYCRequired
	}

	return nil
}

func (uc *TransferUseCase) routeOutbound(ctx context.Context, transfer domain.Transfer, quote *domain.Quote) (*domain.RoutingReceipt, error) {
	if uc.routing == nil {
		return nil, domain.ErrRoutingFailure
	}

	start := time.Now()
	receipt, err := uc.routing.RouteOutbound(ctx, domain.RoutingRequest{
		Amount:      quote.ConvertedAmount,
		Beneficiary: *transfer.Beneficiary,
		Reference:   transfer.Reference,
	})

	if uc.metrics != nil {
		status := "ok"
		if err != nil {
			status = "failed"
		}
		uc.metrics.RoutingCalls.WithLabelValues(status).Inc()
		uc.metrics.RoutingDuration.Observe(time.Since(start).Seconds())
	}

	if err != nil {
		uc.logger.Warn().Err(err).Str("reference", transfer.Reference).Msg("settlement routing failed")
		if errors.Is(err, domain.ErrRoutingFailure) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrRoutingFailure, err)
	}

	return receipt, nil
}

func (uc *TransferUseCase) fetchReplay(ctx context.Context, reference string) (*domain.TransferResult, error) {
	existing, err := uc.ledgerRepo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}
	if len(existing) == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	return uc.replayResult(ctx, reference, existing)
}

// replayResult rebuilds a TransferResult from the ledger entries recorded
// by the original execution.
func (uc *TransferUseCase) replayResult(ctx context.Context, reference string, entries []*domain.Transaction) (*domain.TransferResult, error) {
	var debitTx, creditTx *domain.Transaction
	for _, e := range entries {
		switch e.Kind {
		case domain.TransactionKindDebit:
			debitTx = e
		case domain.TransactionKindCredit:
			creditTx = e
		}
	}
	if debitTx == nil {
		return nil, domain.ErrTransactionNotFound
	}

	result := &domain.TransferResult{
		Reference:        reference,
		DebitTransaction: debitTx,
		Replayed:         true,
	}

	if debitTx.Fee != nil {
		result.Fee = *debitTx.Fee
	} else {
		result.Fee = domain.Zero(debitTx.Amount.Currency)
	}

	rate := decimal.NewFromInt(1)
	if debitTx.ExchangeRate != nil {
		rate = *debitTx.ExchangeRate
	}
	result.ExchangeRate = rate

	if creditTx != nil {
		result.CreditTransaction = creditTx
		result.ConvertedAmount = creditTx.Amount
	} else {
		// Outbound legs have no credit entry; the debit leg carries the
		// target currency so the converted amount comes back tagged right.
		currency := debitTx.Amount.Currency
		if debitTx.TargetCurrency != nil {
			currency = *debitTx.TargetCurrency
		}
		result.ConvertedAmount = debitTx.Amount.Convert(rate, currency).Round()
	}

	if debitTx.SettlementID != nil {
		result.SettlementID = *debitTx.SettlementID
	}

	if source, err := uc.accountRepo.GetByID(ctx, debitTx.AccountID); err == nil {
		result.SourceBalance = source.Balance
	}

	uc.logger.Info().Str("reference", reference).Msg("transfer replay detected, returning recorded result")

	return result, nil
}

// errorType buckets an error for metrics labels.
func errorType(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrRoutingFailure):
		return "routing_failure"
	case errors.Is(err, domain.ErrKYCRequired):
		return "kyc_required"
	case errors.Is(err, domain.ErrAccountInactive):
		return "account_inactive"
	default:
		return "validation"
	}
}
