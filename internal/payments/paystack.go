// Package payments wraps the Paystack REST API for payment
// initialization and verification. Amounts are accepted in cedis and
// converted to pesewas on the wire.
package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"time"
)

// InitializeResult is the subset of Paystack's transaction
// initialization response the storefront uses.
type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifyResult is the subset of Paystack's transaction verification
// response the storefront uses. Status is "success" for a settled
// payment.
type VerifyResult struct {
	Status    string `json:"status"`
	Reference string `json:"reference"`
	Amount    int64  `json:"amount"` // pesewas
	PaidAt    string `json:"paid_at,omitempty"`
}

// Client calls the Paystack API with a secret key.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Paystack client. baseURL is overridable for tests.
func NewClient(secretKey, baseURL string, logger *slog.Logger) *Client {
	return &Client{
		secretKey:  secretKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// Configured reports whether a secret key is set.
func (c *Client) Configured() bool {
	return c.secretKey != ""
}

type apiResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Initialize starts a transaction for the given email and amount in
// cedis. The metadata carries the cart items so they survive in the
// provider's dashboard.
func (c *Client) Initialize(ctx context.Context, email string, amount float64, items any) (*InitializeResult, error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order items: %w", err)
	}

	payload := map[string]any{
		"email":    email,
		"amount":   int64(math.Round(amount * 100)),
		"currency": "GHS",
		"metadata": map[string]any{
			"items": string(itemsJSON),
			"custom_fields": []map[string]string{
				{
					"display_name":  "Order Type",
					"variable_name": "order_type",
					"value":         "Online Order",
				},
			},
		},
	}

	var result InitializeResult
	if err := c.post(ctx, "/transaction/initialize", payload, &result); err != nil {
		return nil, err
	}

	c.logger.Info("payment initialized", slog.String("reference", result.Reference))
	return &result, nil
}

// Verify fetches the settlement status of a transaction by reference.
func (c *Client) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	var result VerifyResult
	if err := c.get(ctx, "/transaction/verify/"+url.PathEscape(reference), &result); err != nil {
		return nil, err
	}

	c.logger.Info("payment verified",
		slog.String("reference", reference),
		slog.String("status", result.Status))
	return &result, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("paystack request failed: %w", err)
	}
	defer resp.Body.Close()

	var apiResp apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("failed to decode paystack response: %w", err)
	}

	if resp.StatusCode >= 400 || !apiResp.Status {
		msg := apiResp.Message
		if msg == "" {
			msg = resp.Status
		}
		return fmt.Errorf("paystack error: %s", msg)
	}

	if err := json.Unmarshal(apiResp.Data, out); err != nil {
		return fmt.Errorf("failed to decode paystack data: %w", err)
	}

	return nil
}
