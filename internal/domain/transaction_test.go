package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseTransactionStatus(t *testing.T) {
	for _, valid := range []string{"PENDING", "COMPLETED", "FAILED"} {
		if _, ok := ParseTransactionStatus(valid); !ok {
			t.Errorf("ParseTransactionStatus(%s) rejected valid status", valid)
		}
	}

	if _, ok := ParseTransactionStatus("SETTLED"); ok {
		t.Fatalf("expected SETTLED to be rejected")
	}
}

func TestTransaction_EffectiveDelta(t *testing.T) {
	net := NewMoney(decimal.RequireFromString("102.00"), "USD")

	tests := []struct {
		name        string
		transaction Transaction
		want        string
	}{
		{
			name: "credit adds amount",
			transaction: Transaction{
				Kind:   TransactionKindCredit,
				Amount: NewMoney(decimal.RequireFromString("50"), "USD"),
			},
			want: "50",
		},
		{
			name: "debit without net removes amount",
			transaction: Transaction{
				Kind:   TransactionKindDebit,
				Amount: NewMoney(decimal.RequireFromString("50"), "USD"),
			},
			want: "-50",
		},
		{
			name: "debit with net removes amount plus fee",
			transaction: Transaction{
				Kind:      TransactionKindDebit,
				Amount:    NewMoney(decimal.RequireFromString("100"), "USD"),
				NetAmount: &net,
			},
			want: "-102",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.transaction.EffectiveDelta()

			if !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("EffectiveDelta() = %s, want %s", got, tt.want)
			}
		})
	}
}
