package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/corebank/internal/domain"
	"github.com/iho/corebank/internal/usecase"
)

type stubLedgerRepository struct {
	mismatches []domain.BalanceMismatch
	err        error
}

func (s *stubLedgerRepository) CheckConsistency(ctx context.Context) ([]domain.BalanceMismatch, error) {
	return s.mismatches, s.err
}

func TestLedgerUseCase_CheckConsistency(t *testing.T) {
	t.Run("healthy ledger", func(t *testing.T) {
		uc := usecase.NewLedgerUseCase(&stubLedgerRepository{}, zerolog.Nop())

		report, err := uc.CheckConsistency(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !report.Consistent {
			t.Error("empty mismatch list must report consistent")
		}
	})

	t.Run("drifted balance", func(t *testing.T) {
		uc := usecase.NewLedgerUseCase(&stubLedgerRepository{
			mismatches: []domain.BalanceMismatch{
				{
					AccountID: "acc-1",
					Balance:   decimal.NewFromInt(100),
					LedgerNet: decimal.NewFromInt(90),
				},
			},
		}, zerolog.Nop())

		report, err := uc.CheckConsistency(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if report.Consistent {
			t.Error("mismatches must flip the report to inconsistent")
		}
		if len(report.Mismatches) != 1 || report.Mismatches[0].AccountID != "acc-1" {
			t.Errorf("mismatches = %+v", report.Mismatches)
		}
	})

	t.Run("repository error", func(t *testing.T) {
		repoErr := errors.New("query failed")
		uc := usecase.NewLedgerUseCase(&stubLedgerRepository{err: repoErr}, zerolog.Nop())

		if _, err := uc.CheckConsistency(context.Background()); !errors.Is(err, repoErr) {
			t.Fatalf("expected repository error, got %v", err)
		}
	})
}
