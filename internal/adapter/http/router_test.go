package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/iho/corebank/internal/adapter/http/dto"
	"github.com/iho/corebank/internal/adapter/http/handler"
	"github.com/iho/corebank/internal/adapter/http/middleware"
	"github.com/iho/corebank/internal/domain"
	"github.com/iho/corebank/internal/infrastructure/metrics"
	"github.com/iho/corebank/internal/usecase"
	"github.com/iho/corebank/internal/usecase/mocks"
)

type healthyLedgerStub struct{}

func (healthyLedgerStub) CheckConsistency(ctx context.Context) ([]domain.BalanceMismatch, error) {
	return nil, nil
}

// testServer wires the full router against in-memory repositories.
type testServer struct {
	handler  http.Handler
	accounts *mocks.MockAccountRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	accounts := mocks.NewMockAccountRepository()
	ledger := mocks.NewMockTransactionRepository()
	deposits := mocks.NewMockDepositRepository()
	txMgr := mocks.NewMockTransactionManager()
	idGen := mocks.NewMockIDGenerator()
	rates := mocks.NewMockRateProvider(gomock.NewController(t))
	logger := zerolog.Nop()

	rateTable := domain.NewInterestRateTable(
		"test",
		map[domain.AccountType]domain.RateTier{
			domain.AccountTypeSavings: {AnnualRate: decimal.RequireFromString("0.04")},
		},
		domain.RateTier{AnnualRate: decimal.RequireFromString("0.01")},
		[]domain.DepositTier{
			{MinMonths: 3, AnnualRate: decimal.RequireFromString("0.05")},
			{MinMonths: 12, AnnualRate: decimal.RequireFromString("0.06")},
		},
	)

	quotes := usecase.NewQuoteCalculator(rates, decimal.RequireFromString("5.00"))
	transferUC := usecase.NewTransferUseCase(
		txMgr, accounts, ledger, quotes,
		nil, nil, idGen,
		decimal.NewFromInt(1_000_000), logger, nil,
	)
	accountUC := usecase.NewAccountUseCase(accounts, ledger, idGen, nil)
	depositUC := usecase.NewFixedDepositUseCase(
		txMgr, accounts, ledger, deposits, rateTable,
		usecase.DepositPolicy{MinDurationMonths: 3, MaxDurationMonths: 60, BreakRetention: decimal.Zero},
		idGen, logger, nil,
	)
	accrualUC := usecase.NewInterestAccrualUseCase(accounts, transferUC, rateTable, 2, logger, nil)
	ledgerUC := usecase.NewLedgerUseCase(healthyLedgerStub{}, logger)

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	router := NewRouter(RouterConfig{
		AccountHandler:  handler.NewAccountHandler(accountUC, transferUC),
		TransferHandler: handler.NewTransferHandler(transferUC),
		DepositHandler:  handler.NewDepositHandler(depositUC),
		AccrualHandler:  handler.NewAccrualHandler(accrualUC),
		LedgerHandler:   handler.NewLedgerHandler(ledgerUC),
		HealthHandler:   handler.NewHealthHandler(nil, nil),
		Logger:          logger,
		Metrics:         m,
		Registry:        registry,
	})

	return &testServer{handler: router, accounts: accounts}
}

func (s *testServer) do(method, path, principal string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if principal != "" {
		req.Header.Set(middleware.PrincipalHeader, principal)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodGet, "/health", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRouter_Metrics(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/health", "", nil)

	rr := s.do(http.MethodGet, "/metrics", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("corebank_http_requests_total")) {
		t.Fatal("expected request counter in metrics exposition")
	}
}

func TestRouter_RequiresPrincipal(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodPost, "/api/v1/accounts", "", dto.CreateAccountRequest{Type: "SAVINGS", Currency: "USD"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without principal, got %d", rr.Code)
	}
}

func TestRouter_AccountLifecycle(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodPost, "/api/v1/accounts", "owner-1", dto.CreateAccountRequest{Type: "SAVINGS", Currency: "USD"})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var account dto.AccountResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &account); err != nil {
		t.Fatalf("decoding account: %v", err)
	}

	rr = s.do(http.MethodGet, "/api/v1/accounts/"+account.ID, "owner-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", rr.Code)
	}

	rr = s.do(http.MethodPost, "/api/v1/accounts/"+account.ID+"/credit", "", dto.CashRequest{
		Amount:    decimal.NewFromInt(200),
		Currency:  "USD",
		Reference: "cash:1",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("credit: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = s.do(http.MethodPost, "/api/v1/accounts/"+account.ID+"/debit", "owner-1", dto.CashRequest{
		Amount:    decimal.NewFromInt(500),
		Currency:  "USD",
		Reference: "cash:2",
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("overdraft debit: expected 422, got %d", rr.Code)
	}

	rr = s.do(http.MethodGet, "/api/v1/accounts/"+account.ID+"/transactions", "owner-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("transactions: expected 200, got %d", rr.Code)
	}
	var entries []*dto.TransactionResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &entries); err != nil {
		t.Fatalf("decoding transactions: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}

	rr = s.do(http.MethodGet, "/api/v1/accounts/ghost", "owner-1", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown account: expected 404, got %d", rr.Code)
	}
}

func TestRouter_TransferAndReplay(t *testing.T) {
	s := newTestServer(t)
	s.accounts.Seed(
		&domain.Account{ID: "acc-1", OwnerID: "owner-1", Type: domain.AccountTypeChecking, Balance: domain.NewMoney(decimal.NewFromInt(500), "USD"), Active: true},
		&domain.Account{ID: "acc-2", OwnerID: "owner-2", Type: domain.AccountTypeChecking, Balance: domain.NewMoney(decimal.NewFromInt(0), "USD"), Active: true},
	)

	body := dto.CreateTransferRequest{
		SourceAccountID:      "acc-1",
		DestinationAccountID: "acc-2",
		Amount:               decimal.NewFromInt(100),
		Currency:             "USD",
		Class:                "INTERNAL",
		Reference:            "ref-1",
	}

	rr := s.do(http.MethodPost, "/api/v1/transfers", "owner-1", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("transfer: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	// Same reference again returns the recorded result with 200.
	rr = s.do(http.MethodPost, "/api/v1/transfers", "owner-1", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("replay: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var result dto.TransferResultResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding replay: %v", err)
	}
	if !result.Replayed {
		t.Fatal("expected replayed result")
	}
}

func TestRouter_DepositFlow(t *testing.T) {
	s := newTestServer(t)
	s.accounts.Seed(&domain.Account{
		ID: "acc-1", OwnerID: "owner-1", Type: domain.AccountTypeSavings,
		Balance: domain.NewMoney(decimal.NewFromInt(5000), "USD"), Active: true,
	})

	rr := s.do(http.MethodPost, "/api/v1/deposits", "owner-1", dto.CreateDepositRequest{
		AccountID:      "acc-1",
		Principal:      decimal.NewFromInt(1000),
		Currency:       "USD",
		DurationMonths: 12,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create deposit: expected 201, got %d: %s", rr.Code, rr.Body.String())
	}
	var deposit dto.DepositResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &deposit); err != nil {
		t.Fatalf("decoding deposit: %v", err)
	}

	rr = s.do(http.MethodGet, "/api/v1/deposits/"+deposit.ID, "owner-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get deposit: expected 200, got %d", rr.Code)
	}

	// Withdrawing before maturity is rejected; breaking succeeds.
	rr = s.do(http.MethodPost, "/api/v1/deposits/"+deposit.ID+"/withdraw", "owner-1", nil)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("early withdraw: expected 422, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = s.do(http.MethodPost, "/api/v1/deposits/"+deposit.ID+"/break", "owner-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("break: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var withdrawal dto.WithdrawalResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &withdrawal); err != nil {
		t.Fatalf("decoding withdrawal: %v", err)
	}
	if withdrawal.Deposit.Status != "BROKEN" {
		t.Fatalf("status = %s, want BROKEN", withdrawal.Deposit.Status)
	}
}

func TestRouter_AccrualRun(t *testing.T) {
	s := newTestServer(t)
	s.accounts.Seed(&domain.Account{
		ID: "acc-1", OwnerID: "owner-1", Type: domain.AccountTypeSavings,
		Balance: domain.NewMoney(decimal.NewFromInt(1000), "USD"), Active: true,
	})

	rr := s.do(http.MethodPost, "/api/v1/interest/runs", "", dto.RunAccrualRequest{Period: "2025-08"})
	if rr.Code != http.StatusOK {
		t.Fatalf("accrual: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	var summary dto.AccrualSummaryResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &summary); err != nil {
		t.Fatalf("decoding summary: %v", err)
	}
	if summary.Credited != 1 {
		t.Fatalf("credited = %d, want 1", summary.Credited)
	}

	rr = s.do(http.MethodPost, "/api/v1/interest/runs", "", dto.RunAccrualRequest{Period: "2025-13"})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("bad period: expected 400, got %d", rr.Code)
	}
}

func TestRouter_LedgerConsistency(t *testing.T) {
	s := newTestServer(t)

	rr := s.do(http.MethodGet, "/api/v1/ledger/consistency", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var report dto.ConsistencyResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &report); err != nil {
		t.Fatalf("decoding report: %v", err)
	}
	if !report.Consistent {
		t.Fatal("expected a consistent report")
	}
}
