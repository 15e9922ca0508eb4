package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	adaptershttp "github.com/iho/corebank/internal/adapter/http"
	"github.com/iho/corebank/internal/adapter/http/handler"
	"github.com/iho/corebank/internal/adapter/http/middleware"
	postgresrepo "github.com/iho/corebank/internal/adapter/repository/postgres"
	redisrepo "github.com/iho/corebank/internal/adapter/repository/redis"
	"github.com/iho/corebank/internal/domain"
	"github.com/iho/corebank/internal/infrastructure/fxrate"
	"github.com/iho/corebank/internal/infrastructure/kyc"
	"github.com/iho/corebank/internal/infrastructure/metrics"
	infraredis "github.com/iho/corebank/internal/infrastructure/redis"
	"github.com/iho/corebank/internal/infrastructure/routing"
	"github.com/iho/corebank/internal/usecase"
	"github.com/iho/corebank/tests/testutil"
)

// suite wires the full engine over a real database and redis, the way
// cmd/server does, so requests exercise the production stack end to end.
type suite struct {
	db       *testutil.TestDB
	router   http.Handler
	accounts *postgresrepo.AccountRepository
}

func newSuite(t *testing.T) *suite {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}

	ctx := context.Background()

	testDB := testutil.NewTestDB(t)
	t.Cleanup(testDB.Cleanup)

	pool := testDB.Pool
	txManager := postgresrepo.NewTxManager(pool)
	accountRepo := postgresrepo.NewAccountRepository(pool)
	transactionRepo := postgresrepo.NewTransactionRepository(pool)
	depositRepo := postgresrepo.NewDepositRepository(pool)
	ledgerRepo := postgresrepo.NewLedgerRepository(pool)
	idGen := postgresrepo.NewULIDGenerator()

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis://localhost:6379"
	}

	redisClient, err := infraredis.NewClient(ctx, redisURL)
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	t.Cleanup(func() { redisClient.Close() })

	idempotencyStore := redisrepo.NewIdempotencyStore(redisClient)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	log := zerolog.Nop()

	rateTable := domain.NewInterestRateTable("test",
		map[domain.AccountType]domain.RateTier{
			domain.AccountTypeSavings: {AnnualRate: decimal.RequireFromString("0.04")},
		},
		domain.RateTier{AnnualRate: decimal.RequireFromString("0.01")},
		[]domain.DepositTier{
			{MinMonths: 3, AnnualRate: decimal.RequireFromString("0.05")},
			{MinMonths: 12, AnnualRate: decimal.RequireFromString("0.06")},
		},
	)

	quotes := usecase.NewQuoteCalculator(fxrate.NewStaticProvider(), decimal.RequireFromString("5.00"))
	transferUC := usecase.NewTransferUseCase(txManager, accountRepo, transactionRepo, quotes,
		routing.NewLoopbackGateway(), kyc.NewAllowAllProvider(), idGen,
		decimal.RequireFromString("1000000"), log, m).WithRetrier(postgresrepo.NewRetrier())
	accountUC := usecase.NewAccountUseCase(accountRepo, transactionRepo, idGen, m)
	depositUC := usecase.NewFixedDepositUseCase(txManager, accountRepo, transactionRepo, depositRepo,
		rateTable, usecase.DepositPolicy{
			MinDurationMonths: 3,
			MaxDurationMonths: 60,
			BreakRetention:    decimal.RequireFromString("0.5"),
		}, idGen, log, m).WithRetrier(postgresrepo.NewRetrier())
	accrualUC := usecase.NewInterestAccrualUseCase(accountRepo, transferUC, rateTable, 4, log, m)
	ledgerUC := usecase.NewLedgerUseCase(ledgerRepo, log)

	router := adaptershttp.NewRouter(adaptershttp.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(accountUC, transferUC),
		TransferHandler:  handler.NewTransferHandler(transferUC),
		DepositHandler:   handler.NewDepositHandler(depositUC),
		AccrualHandler:   handler.NewAccrualHandler(accrualUC),
		LedgerHandler:    handler.NewLedgerHandler(ledgerUC),
		HealthHandler:    handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   time.Minute,
		Logger:           log,
		Metrics:          m,
		Registry:         registry,
	})

	return &suite{
		db:       testDB,
		router:   router,
		accounts: accountRepo,
	}
}

// do sends a JSON request through the router as the given principal.
func (s *suite) do(t *testing.T, method, path, principal string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if principal != "" {
		req.Header.Set(middleware.PrincipalHeader, principal)
	}

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

// doWithKey posts a JSON request with an Idempotency-Key header.
func (s *suite) doWithKey(t *testing.T, path, principal, key string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal request body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.PrincipalHeader, principal)
	req.Header.Set(middleware.IdempotencyKeyHeader, key)

	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func decodeJSON(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), out); err != nil {
		t.Fatalf("failed to parse response %q: %v", rr.Body.String(), err)
	}
}
