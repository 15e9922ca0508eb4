package kyc

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

type verificationResponse struct {
	Verified bool `json:"verified"`
}

// HTTPProvider queries an external KYC service for owner verification. The
// orchestrator fails closed on errors, so this client does not retry.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
}

// NewHTTPProvider creates a new HTTPProvider.
func NewHTTPProvider(baseURL string, timeout time.Duration) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

// IsVerified reports whether the owner cleared verification.
func (p *HTTPProvider) IsVerified(ctx context.Context, ownerID string) (bool, error) {
	endpoint := fmt.Sprintf("%s/verifications/%s", p.baseURL, url.PathEscape(ownerID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("kyc service returned %d", resp.StatusCode)
	}

	var body verificationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}

	return body.Verified, nil
}

// AllowAllProvider treats every owner as verified. Development and test
// environments only.
type AllowAllProvider struct{}

// NewAllowAllProvider creates a new AllowAllProvider.
func NewAllowAllProvider() *AllowAllProvider {
	return &AllowAllProvider{}
}

// IsVerified always reports true.
func (p *AllowAllProvider) IsVerified(context.Context, string) (bool, error) {
	return true, nil
}
