package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/iho/corebank/internal/adapter/http/dto"
	"github.com/iho/corebank/internal/usecase"
)

// AccrualHandler triggers interest accrual runs.
type AccrualHandler struct {
	accrualUC *usecase.InterestAccrualUseCase
}

// NewAccrualHandler creates a new AccrualHandler.
func NewAccrualHandler(accrualUC *usecase.InterestAccrualUseCase) *AccrualHandler {
	return &AccrualHandler{accrualUC: accrualUC}
}

// Run executes an accrual run for the given period. Defaults to the current
// month; reruns for a period are no-ops per account.
func (h *AccrualHandler) Run(w http.ResponseWriter, r *http.Request) {
	var req dto.RunAccrualRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	period := req.Period
	if period == "" {
		period = time.Now().UTC().Format("2006-01")
	}
	if _, err := time.Parse("2006-01", period); err != nil {
		writeError(w, http.StatusBadRequest, "invalid period", "expected YYYY-MM")
		return
	}

	summary, err := h.accrualUC.Run(r.Context(), period)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "accrual run failed", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.AccrualSummaryFromDomain(summary))
}
