package handler

import (
	"encoding/json"
	"net/http"

	"github.com/iho/corebank/internal/adapter/http/dto"
	"github.com/iho/corebank/internal/adapter/http/middleware"
	"github.com/iho/corebank/internal/usecase"
)

// TransferHandler handles transfer-related HTTP requests.
type TransferHandler struct {
	transferUC *usecase.TransferUseCase
}

// NewTransferHandler creates a new TransferHandler.
func NewTransferHandler(transferUC *usecase.TransferUseCase) *TransferHandler {
	return &TransferHandler{transferUC: transferUC}
}

// Create executes a transfer. Replays of a known reference return the
// original outcome with 200 instead of 201.
func (h *TransferHandler) Create(w http.ResponseWriter, r *http.Request) {
	ownerID := middleware.PrincipalID(r.Context())
	if ownerID == "" {
		writeError(w, http.StatusUnauthorized, "missing principal", "")
		return
	}

	var req dto.CreateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	transfer, err := req.ToDomain(ownerID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid transfer class", err.Error())
		return
	}

	result, err := h.transferUC.Execute(r.Context(), transfer)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to execute transfer", err.Error())
		return
	}

	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	writeJSON(w, status, dto.TransferResultFromDomain(result))
}
