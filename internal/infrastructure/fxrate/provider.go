package fxrate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/corebank/internal/infrastructure/metrics"
	"github.com/iho/corebank/internal/usecase"
)

// usdRates is the static fallback table, quoted as units of currency per
// one USD. Cross rates are derived through USD. Covers every currency the
// validation layer accepts, so a validated pair can always be priced.
var usdRates = map[string]string{
	"USD": "1",
	"EUR": "0.92",
	"GBP": "0.79",
	"JPY": "149.50",
	"CNY": "7.24",
	"AUD": "1.53",
	"CAD": "1.36",
	"CHF": "0.88",
	"SEK": "10.45",
	"NZD": "1.66",
	"KRW": "1330",
	"SGD": "1.34",
	"NOK": "10.60",
	"MXN": "17.10",
	"INR": "83.20",
	"BRL": "4.97",
	"ZAR": "18.70",
	"TRY": "32.10",
	"HKD": "7.82",
	"NGN": "1550",
}

// StaticProvider prices any supported pair from the built-in USD cross-rate
// table. It is the fallback when the live provider is unreachable and the
// whole provider in environments without one.
type StaticProvider struct{}

// NewStaticProvider creates a new StaticProvider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{}
}

// Rate returns the static cross rate from one currency to another.
func (p *StaticProvider) Rate(_ context.Context, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	fromUSD, ok := usdRates[from]
	if !ok {
		return decimal.Zero, fmt.Errorf("no static rate for %s", from)
	}
	toUSD, ok := usdRates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no static rate for %s", to)
	}

	fromRate := decimal.RequireFromString(fromUSD)
	toRate := decimal.RequireFromString(toUSD)

	// to/from via USD, e.g. EUR->GBP = (GBP per USD) / (EUR per USD).
	return toRate.DivRound(fromRate, 12), nil
}

type rateResponse struct {
	Rate string `json:"rate"`
}

// HTTPProvider fetches rates from an external rate service, caches them in
// Redis, and falls back to the static table when the service is down. It
// never fails for a validated currency pair.
type HTTPProvider struct {
	baseURL  string
	client   *http.Client
	cache    usecase.Cache
	cacheTTL time.Duration
	fallback *StaticProvider
	logger   zerolog.Logger
	metrics  *metrics.Metrics
}

// NewHTTPProvider creates a new HTTPProvider.
func NewHTTPProvider(baseURL string, timeout time.Duration, cache usecase.Cache, cacheTTL time.Duration, logger zerolog.Logger, m *metrics.Metrics) *HTTPProvider {
	return &HTTPProvider{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: timeout},
		cache:    cache,
		cacheTTL: cacheTTL,
		fallback: NewStaticProvider(),
		logger:   logger,
		metrics:  m,
	}
}

// Rate returns the rate from one currency to another, preferring the cache,
// then the live service, then the static table.
func (p *HTTPProvider) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	cacheKey := "fx:" + from + ":" + to

	if cached, err := p.cache.Get(ctx, cacheKey); err == nil {
		if rate, err := decimal.NewFromString(cached); err == nil {
			p.countLookup("cache")
			return rate, nil
		}
	}

	rate, err := p.fetch(ctx, from, to)
	if err != nil {
		p.logger.Warn().Err(err).
			Str("from", from).
			Str("to", to).
			Msg("fx provider unreachable, using static rate")

		p.countLookup("static")
		return p.fallback.Rate(ctx, from, to)
	}

	if err := p.cache.Set(ctx, cacheKey, rate.String(), p.cacheTTL); err != nil {
		p.logger.Warn().Err(err).Msg("failed to cache fx rate")
	}

	p.countLookup("provider")
	return rate, nil
}

// countLookup records where a rate came from. metrics may be nil.
func (p *HTTPProvider) countLookup(source string) {
	if p.metrics != nil {
		p.metrics.FXRateLookups.WithLabelValues(source).Inc()
	}
}

func (p *HTTPProvider) fetch(ctx context.Context, from, to string) (decimal.Decimal, error) {
	var rate decimal.Decimal

	operation := func() error {
		endpoint := fmt.Sprintf("%s/rates?from=%s&to=%s", p.baseURL, url.QueryEscape(from), url.QueryEscape(to))

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("rate service returned %d", resp.StatusCode)
		}

		var body rateResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return err
		}

		parsed, err := decimal.NewFromString(body.Rate)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("invalid rate %q: %w", body.Rate, err))
		}

		rate = parsed
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 2), ctx)
	if err := backoff.Retry(operation, bo); err != nil {
		return decimal.Zero, err
	}

	return rate, nil
}
