package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/corebank/internal/domain"
)

type routeRequest struct {
	Reference         string `json:"reference"`
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	BeneficiaryName   string `json:"beneficiary_name"`
	BeneficiaryNumber string `json:"beneficiary_account_number"`
	BankCode          string `json:"bank_code"`
	Country           string `json:"country,omitempty"`
}

type routeResponse struct {
	SettlementID string `json:"settlement_id"`
	Reference    string `json:"reference"`
}

// HTTPGateway routes outbound transfers through the settlement network. Any
// failure, including timeout, surfaces as domain.ErrRoutingFailure so the
// orchestrator rolls the transfer back.
type HTTPGateway struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewHTTPGateway creates a new HTTPGateway.
func NewHTTPGateway(baseURL string, timeout time.Duration, logger zerolog.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// RouteOutbound submits an outbound movement for settlement.
func (g *HTTPGateway) RouteOutbound(ctx context.Context, req domain.RoutingRequest) (*domain.RoutingReceipt, error) {
	payload, err := json.Marshal(routeRequest{
		Reference:         req.Reference,
		Amount:            req.Amount.Amount.String(),
		Currency:          req.Amount.Currency,
		BeneficiaryName:   req.Beneficiary.Name,
		BeneficiaryNumber: req.Beneficiary.AccountNumber,
		BankCode:          req.Beneficiary.BankCode,
		Country:           req.Beneficiary.Country,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRoutingFailure, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/outbound", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRoutingFailure, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRoutingFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: gateway returned %d", domain.ErrRoutingFailure, resp.StatusCode)
	}

	var body routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRoutingFailure, err)
	}

	g.logger.Debug().
		Str("reference", req.Reference).
		Str("settlement_id", body.SettlementID).
		Msg("outbound transfer routed")

	return &domain.RoutingReceipt{
		SettlementID: body.SettlementID,
		Reference:    body.Reference,
	}, nil
}

// LoopbackGateway acknowledges outbound movements locally without touching
// a settlement network. Development and test environments only.
type LoopbackGateway struct{}

// NewLoopbackGateway creates a new LoopbackGateway.
func NewLoopbackGateway() *LoopbackGateway {
	return &LoopbackGateway{}
}

// RouteOutbound acknowledges the movement with a synthetic settlement ID.
func (g *LoopbackGateway) RouteOutbound(_ context.Context, req domain.RoutingRequest) (*domain.RoutingReceipt, error) {
	return &domain.RoutingReceipt{
		SettlementID: "loopback-" + req.Reference,
		Reference:    req.Reference,
	}, nil
}
