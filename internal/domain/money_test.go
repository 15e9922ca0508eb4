package domain

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		currency string
		want     int32
	}{
		{"USD", 2},
		{"EUR", 2},
		{"JPY", 0},
		{"KRW", 0},
		{"BHD", 3},
		{"KWD", 3},
		{"NGN", 2},
	}

	for _, tt := range tests {
		if got := MinorUnits(tt.currency); got != tt.want {
			t.Errorf("MinorUnits(%s) = %d, want %d", tt.currency, got, tt.want)
		}
	}
}

func TestMoney_AddCurrencyMismatch(t *testing.T) {
	usd := NewMoney(decimal.NewFromInt(10), "USD")
	eur := NewMoney(decimal.NewFromInt(10), "EUR")

	if _, err := usd.Add(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}

	if _, err := usd.Sub(eur); !errors.Is(err, ErrCurrencyMismatch) {
		t.Fatalf("expected ErrCurrencyMismatch, got %v", err)
	}
}

func TestMoney_AddSub(t *testing.T) {
	a := NewMoney(decimal.RequireFromString("100.25"), "USD")
	b := NewMoney(decimal.RequireFromString("0.75"), "USD")

	sum, err := a.Add(b)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !sum.Amount.Equal(decimal.RequireFromString("101")) {
		t.Fatalf("expected 101, got %s", sum.Amount)
	}

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("sub failed: %v", err)
	}
	if !diff.Amount.Equal(decimal.RequireFromString("99.5")) {
		t.Fatalf("expected 99.5, got %s", diff.Amount)
	}
}

func TestMoney_RoundHalfUp(t *testing.T) {
	tests := []struct {
		name     string
		amount   string
		currency string
		want     string
	}{
		{"half rounds up", "2.675", "USD", "2.68"},
		{"below half rounds down", "2.674", "USD", "2.67"},
		{"zero decimal currency", "100.5", "JPY", "101"},
		{"three decimal currency", "1.2345", "BHD", "1.235"},
		{"already exact", "10.10", "USD", "10.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMoney(decimal.RequireFromString(tt.amount), tt.currency)

			got := m.Round()

			if !got.Amount.Equal(decimal.RequireFromString(tt.want)) {
				t.Fatalf("Round(%s %s) = %s, want %s", tt.amount, tt.currency, got.Amount, tt.want)
			}
		})
	}
}

func TestMoney_ConvertKeepsPrecision(t *testing.T) {
	m := NewMoney(decimal.RequireFromString("100.00"), "USD")

	converted := m.Convert(decimal.RequireFromString("0.8567"), "EUR")

	if converted.Currency != "EUR" {
		t.Fatalf("expected EUR, got %s", converted.Currency)
	}
	// No rounding until Round is called.
	if !converted.Amount.Equal(decimal.RequireFromString("85.67")) {
		t.Fatalf("expected 85.67, got %s", converted.Amount)
	}
}

func TestMoney_String(t *testing.T) {
	m := NewMoney(decimal.RequireFromString("102"), "USD")

	if got := m.String(); got != "102.00 USD" {
		t.Fatalf("expected %q, got %q", "102.00 USD", got)
	}

	yen := NewMoney(decimal.RequireFromString("1500"), "JPY")
	if got := yen.String(); got != "1500 JPY" {
		t.Fatalf("expected %q, got %q", "1500 JPY", got)
	}
}

func TestNewMoneyFromString(t *testing.T) {
	m, err := NewMoneyFromString("42.50", "USD")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !m.Amount.Equal(decimal.RequireFromString("42.5")) || m.Currency != "USD" {
		t.Fatalf("unexpected money: %+v", m)
	}

	if _, err := NewMoneyFromString("not-a-number", "USD"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}
