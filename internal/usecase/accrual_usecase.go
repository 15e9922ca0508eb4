package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/corebank/internal/domain"
	"github.com/iho/corebank/internal/infrastructure/metrics"
)

const accrualPageSize = 500

// InterestCrediter is the single-account credit path the batch drives.
// Satisfied by TransferUseCase.
type InterestCrediter interface {
	Credit(ctx context.Context, input CreditInput) (*domain.Transaction, error)
}

// InterestAccrualUseCase walks all active accounts once per period and
// credits interest per the rate table. Each account's credit is its own
// atomic operation, so accounts are processed by a bounded worker pool and
// a failure on one never aborts the run.
type InterestAccrualUseCase struct {
	accountRepo AccountRepository
	crediter    InterestCrediter
	rateTable   *domain.InterestRateTable
	workers     int
	logger      zerolog.Logger
	metrics     *metrics.Metrics
}

// NewInterestAccrualUseCase creates an InterestAccrualUseCase.
func NewInterestAccrualUseCase(
	accountRepo AccountRepository,
	crediter InterestCrediter,
	rateTable *domain.InterestRateTable,
	workers int,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *InterestAccrualUseCase {
	if workers <= 0 {
		workers = 4
	}
	return &InterestAccrualUseCase{
		accountRepo: accountRepo,
		crediter:    crediter,
		rateTable:   rateTable,
		workers:     workers,
		logger:      logger,
		metrics:     m,
	}
}

// Run executes one accrual pass for period. The credit reference is derived
// from (account, period), so re-running the same period is a no-op per
// account rather than a double credit.
func (uc *InterestAccrualUseCase) Run(ctx context.Context, period string) (*domain.AccrualSummary, error) {
	if period == "" {
		return nil, fmt.Errorf("%w: accrual period is required", domain.ErrInvalidAmount)
	}

	start := time.Now()
	summary := &domain.AccrualSummary{
		Period:        period,
		TotalInterest: make(map[string]decimal.Decimal),
	}

	jobs := make(chan *domain.Account)
	var mu sync.Mutex
	var wg sync.WaitGroup

	for i := 0; i < uc.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for account := range jobs {
				outcome := uc.processAccount(ctx, account, period)

				mu.Lock()
				summary.Processed++
				switch {
				case outcome.err != nil:
					summary.Failures = append(summary.Failures, domain.AccrualFailure{
						AccountID: account.ID,
						Reason:    outcome.err.Error(),
					})
				case outcome.replayed:
					summary.AlreadyCredited++
				case outcome.interest.IsPositive():
					summary.Credited++
					currency := outcome.interest.Currency
					summary.TotalInterest[currency] = summary.TotalInterest[currency].Add(outcome.interest.Amount)
				default:
					summary.Skipped++
				}
				mu.Unlock()
			}
		}()
	}

	var feedErr error
	offset := 0
	for {
		accounts, err := uc.accountRepo.ListActive(ctx, accrualPageSize, offset)
		if err != nil {
			feedErr = err
			break
		}
		for _, account := range accounts {
			jobs <- account
		}
		if len(accounts) < accrualPageSize {
			break
		}
		offset += accrualPageSize
	}
	close(jobs)
	wg.Wait()

	if feedErr != nil {
		return nil, feedErr
	}

	if uc.metrics != nil {
		uc.metrics.AccrualRuns.Inc()
		uc.metrics.AccrualCredited.Add(float64(summary.Credited))
		uc.metrics.AccrualFailures.Add(float64(len(summary.Failures)))
		uc.metrics.AccrualRunDuration.Observe(time.Since(start).Seconds())
	}

	uc.logger.Info().
		Str("period", period).
		Int("processed", summary.Processed).
		Int("credited", summary.Credited).
		Int("already_credited", summary.AlreadyCredited).
		Int("failures", len(summary.Failures)).
		Msg("interest accrual run finished")

	return summary, nil
}

type accrualOutcome struct {
	interest domain.Money
	replayed bool
	err      error
}

func (uc *InterestAccrualUseCase) processAccount(ctx context.Context, account *domain.Account, period string) accrualOutcome {
	if !account.Active || !account.Balance.IsPositive() {
		return accrualOutcome{}
	}

	tier := uc.rateTable.TierFor(account.Type)
	if account.Balance.Amount.LessThan(tier.MinimumBalance) {
		return accrualOutcome{}
	}

	interest := account.Balance.Mul(tier.MonthlyRate()).Round()
	if !interest.IsPositive() {
		return accrualOutcome{}
	}

	_, err := uc.crediter.Credit(ctx, CreditInput{
		AccountID:   account.ID,
		Amount:      interest,
		Reference:   AccrualReference(account.ID, period),
		Description: fmt.Sprintf("interest for %s", period),
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateReference) {
			return accrualOutcome{replayed: true}
		}
		uc.logger.Error().Err(err).
			Str("account_id", account.ID).
			Str("period", period).
			Msg("interest credit failed")
		return accrualOutcome{err: err}
	}

	return accrualOutcome{interest: interest}
}

// AccrualReference is the idempotency reference for one account and period.
func AccrualReference(accountID, period string) string {
	return fmt.Sprintf("interest:%s:%s", period, accountID)
}
