package usecase

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/corebank/internal/domain"
)

// Fee policy. INTERNAL same-currency transfers are free; cross-currency
// internal transfers pay a percentage of the source amount, external
// transfers a flat fee, international transfers a higher percentage.
var (
	internalFXFeeRate    = decimal.RequireFromString("0.01")
	internationalFeeRate = decimal.RequireFromString("0.02")
)

// QuoteCalculator prices a transfer: fee, exchange rate, converted amount.
// It performs no I/O beyond the injected rate provider and never mutates
// state, so a quote can be recomputed freely.
type QuoteCalculator struct {
	rates           RateProvider
	externalFlatFee decimal.Decimal
}

// NewQuoteCalculator creates a QuoteCalculator. externalFlatFee is charged
// in the source currency on EXTERNAL transfers.
func NewQuoteCalculator(rates RateProvider, externalFlatFee decimal.Decimal) *QuoteCalculator {
	return &QuoteCalculator{
		rates:           rates,
		externalFlatFee: externalFlatFee,
	}
}

// Quote computes the fee and conversion for amount moving to targetCurrency
// under class. All intermediate math keeps full precision; rounding to the
// minor unit happens once per output value, at the end.
func (c *QuoteCalculator) Quote(ctx context.Context, amount domain.Money, targetCurrency string, class domain.TransferClass) (*domain.Quote, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if targetCurrency == "" {
		targetCurrency = amount.Currency
	}

	rate := decimal.NewFromInt(1)
	if amount.Currency != targetCurrency {
		r, err := c.rates.Rate(ctx, amount.Currency, targetCurrency)
		if err != nil {
			return nil, err
		}
		rate = r
	}

	var fee decimal.Decimal
	switch class {
	case domain.TransferClassInternal:
		if amount.Currency != targetCurrency {
			fee = amount.Amount.Mul(internalFXFeeRate)
		}
	case domain.TransferClassExternal:
		fee = c.externalFlatFee
	case domain.TransferClassInternational:
		fee = amount.Amount.Mul(internationalFeeRate)
	default:
		return nil, domain.ErrInvalidTransferClass
	}

	return &domain.Quote{
		Fee:             domain.NewMoney(fee, amount.Currency).Round(),
		ExchangeRate:    rate,
		ConvertedAmount: amount.Convert(rate, targetCurrency).Round(),
	}, nil
}
