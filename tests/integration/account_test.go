package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/iho/corebank/internal/adapter/http/dto"
	"github.com/iho/corebank/tests/testutil"
)

func TestAccountLifecycle(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	s.db.TruncateAll(ctx)

	// Open an account.
	rr := s.do(t, http.MethodPost, "/api/v1/accounts", "owner-1", dto.CreateAccountRequest{
		Type:     "SAVINGS",
		Currency: "USD",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	var account dto.AccountResponse
	decodeJSON(t, rr, &account)
	if account.ID == "" || !account.Active || !account.Balance.IsZero() {
		t.Fatalf("unexpected new account: %+v", account)
	}

	// Cash deposit.
	rr = s.do(t, http.MethodPost, "/api/v1/accounts/"+account.ID+"/credit", "owner-1", dto.CashRequest{
		Amount:    decimal.NewFromInt(500),
		Currency:  "USD",
		Reference: "cash-" + testutil.GenerateID(),
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("credit failed: %d %s", rr.Code, rr.Body.String())
	}

	// Cash withdrawal.
	rr = s.do(t, http.MethodPost, "/api/v1/accounts/"+account.ID+"/debit", "owner-1", dto.CashRequest{
		Amount:    decimal.NewFromInt(120),
		Currency:  "USD",
		Reference: "atm-" + testutil.GenerateID(),
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("debit failed: %d %s", rr.Code, rr.Body.String())
	}

	// Balance reflects both cash movements.
	rr = s.do(t, http.MethodGet, "/api/v1/accounts/"+account.ID, "owner-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get failed: %d %s", rr.Code, rr.Body.String())
	}
	decodeJSON(t, rr, &account)
	if !account.Balance.Equal(decimal.NewFromInt(380)) {
		t.Errorf("expected balance 380, got %s", account.Balance)
	}

	// The ledger holds one entry per movement.
	rr = s.do(t, http.MethodGet, "/api/v1/accounts/"+account.ID+"/transactions", "owner-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("transactions list failed: %d %s", rr.Code, rr.Body.String())
	}
	var transactions []dto.TransactionResponse
	decodeJSON(t, rr, &transactions)
	if len(transactions) != 2 {
		t.Fatalf("expected 2 ledger entries, got %d", len(transactions))
	}

	// Close the account; further debits are refused.
	rr = s.do(t, http.MethodPost, "/api/v1/accounts/"+account.ID+"/deactivate", "owner-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("deactivate failed: %d %s", rr.Code, rr.Body.String())
	}

	rr = s.do(t, http.MethodPost, "/api/v1/accounts/"+account.ID+"/debit", "owner-1", dto.CashRequest{
		Amount:    decimal.NewFromInt(10),
		Currency:  "USD",
		Reference: "atm-" + testutil.GenerateID(),
	})
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d on inactive account, got %d", http.StatusUnprocessableEntity, rr.Code)
	}
}

func TestLedgerConsistency(t *testing.T) {
	s := newSuite(t)
	ctx := context.Background()
	s.db.TruncateAll(ctx)

	// Build both accounts through the API so every unit of balance has a
	// matching ledger entry.
	openAccount := func(owner string) string {
		rr := s.do(t, http.MethodPost, "/api/v1/accounts", owner, dto.CreateAccountRequest{
			Type:     "CHECKING",
			Currency: "USD",
		})
		if rr.Code != http.StatusCreated {
			t.Fatalf("account creation failed: %d %s", rr.Code, rr.Body.String())
		}
		var account dto.AccountResponse
		decodeJSON(t, rr, &account)
		return account.ID
	}

	sourceID := openAccount("owner-1")
	destID := openAccount("owner-2")

	rr := s.do(t, http.MethodPost, "/api/v1/accounts/"+sourceID+"/credit", "owner-1", dto.CashRequest{
		Amount:    decimal.NewFromInt(1000),
		Currency:  "USD",
		Reference: "seed-" + testutil.GenerateID(),
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("seed credit failed: %d %s", rr.Code, rr.Body.String())
	}

	rr = s.do(t, http.MethodPost, "/api/v1/transfers", "owner-1", dto.CreateTransferRequest{
		SourceAccountID:      sourceID,
		DestinationAccountID: destID,
		Amount:               decimal.NewFromInt(250),
		Currency:             "USD",
		Class:                "INTERNAL",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("transfer failed: %d %s", rr.Code, rr.Body.String())
	}

	rr = s.do(t, http.MethodGet, "/api/v1/ledger/consistency", "owner-1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("consistency check failed: %d %s", rr.Code, rr.Body.String())
	}

	var report dto.ConsistencyResponse
	decodeJSON(t, rr, &report)
	if !report.Consistent {
		t.Errorf("expected consistent ledger, got mismatches: %+v", report.Mismatches)
	}
}
