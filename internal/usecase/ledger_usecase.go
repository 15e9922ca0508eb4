package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/iho/corebank/internal/domain"
)

// LedgerUseCase handles ledger-wide reads.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
	logger     zerolog.Logger
}

// NewLedgerUseCase creates a LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository, logger zerolog.Logger) *LedgerUseCase {
	return &LedgerUseCase{ledgerRepo: ledgerRepo, logger: logger}
}

// ConsistencyReport is the outcome of a ledger consistency check.
type ConsistencyReport struct {
	Consistent bool
	Mismatches []domain.BalanceMismatch
}

// CheckConsistency verifies that every account balance equals the net of
// its completed ledger entries.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (*ConsistencyReport, error) {
	mismatches, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return nil, err
	}

	if len(mismatches) > 0 {
		uc.logger.Error().Int("mismatches", len(mismatches)).Msg("ledger consistency check failed")
	}

	return &ConsistencyReport{
		Consistent: len(mismatches) == 0,
		Mismatches: mismatches,
	}, nil
}
