package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/corebank/internal/adapter/http/dto"
	"github.com/iho/corebank/internal/adapter/http/middleware"
	"github.com/iho/corebank/internal/usecase"
)

// DepositHandler handles fixed deposit HTTP requests.
type DepositHandler struct {
	depositUC *usecase.FixedDepositUseCase
}

// NewDepositHandler creates a new DepositHandler.
func NewDepositHandler(depositUC *usecase.FixedDepositUseCase) *DepositHandler {
	return &DepositHandler{depositUC: depositUC}
}

// Create opens a fixed deposit.
func (h *DepositHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.PrincipalID(r.Context())
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "missing principal", "")
		return
	}

	var req dto.CreateDepositRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	deposit, err := h.depositUC.CreateDeposit(r.Context(), req.ToUseCaseInput(ownerID))
	if err != nil {
		writeError(w, mapDomainError(err), "failed to create deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, dto.DepositFromDomain(deposit))
}

// Get retrieves a deposit by ID.
func (h *DepositHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing deposit ID", "")
		return
	}

	deposit, err := h.depositUC.GetDeposit(r.Context(), id)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositFromDomain(deposit))
}

// List lists the principal's deposits.
func (h *DepositHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.PrincipalID(r.Context())
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "missing principal", "")
		return
	}

	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	deposits, err := h.depositUC.ListDeposits(r.Context(), ownerID, limit, offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list deposits", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.DepositsFromDomain(deposits))
}

// Withdraw redeems a matured deposit.
func (h *DepositHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	h.redeem(w, r, false)
}

// Break redeems a deposit before maturity.
func (h *DepositHandler) Break(w http.ResponseWriter, r *http.Request) {
	h.redeem(w, r, true)
}

func (h *DepositHandler) redeem(w http.ResponseWriter, r *http.Request, breakEarly bool) {
	ownerID := middleware.PrincipalID(r.Context())
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "missing principal", "")
		return
	}

	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing deposit ID", "")
		return
	}

	var (
		result *usecase.WithdrawalResult
		err    error
	)
	if breakEarly {
		result, err = h.depositUC.BreakDeposit(r.Context(), id, ownerID)
	} else {
		result, err = h.depositUC.WithdrawDeposit(r.Context(), id, ownerID)
	}
	if err != nil {
		writeError(w, mapDomainError(err), "failed to redeem deposit", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.WithdrawalFromUseCase(result))
}
