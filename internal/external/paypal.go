package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	apperrors "eventbook/internal/errors"
)

// OrderStatusCompleted is the gateway status meaning the payment was captured
const OrderStatusCompleted = "COMPLETED"

// PayPalClient talks to the PayPal Orders v2 REST API. It owns a cached
// OAuth2 access token refreshed on expiry.
type PayPalClient struct {
	baseURL      string
	clientID     string
	clientSecret string
	currency     string
	brandName    string
	httpClient   *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

type PayPalConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	Currency     string
	BrandName    string
	Timeout      time.Duration
}

// CaptureResult is the slice of the capture response this system reads
type CaptureResult struct {
	Status    string
	CaptureID string
}

type orderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func NewPayPalClient(cfg PayPalConfig) *PayPalClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Currency == "" {
		cfg.Currency = "USD"
	}

	return &PayPalClient{
		baseURL:      cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		currency:     cfg.Currency,
		brandName:    cfg.BrandName,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Currency returns the currency code all orders are created in
func (pc *PayPalClient) Currency() string {
	return pc.currency
}

func (pc *PayPalClient) getAccessToken(ctx context.Context) (string, error) {
	pc.mu.Lock()
	defer pc.mu.Unlock()

	if pc.accessToken != "" && time.Now().Before(pc.tokenExpiry) {
		return pc.accessToken, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		pc.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: failed to build token request: %v", apperrors.ErrGateway, err)
	}
	req.SetBasicAuth(pc.clientID, pc.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: token request failed: %v", apperrors.ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: token request returned %d: %s",
			apperrors.ErrGateway, resp.StatusCode, string(body))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("%w: failed to decode token response: %v", apperrors.ErrGateway, err)
	}

	pc.accessToken = token.AccessToken
	// Refresh one minute early to avoid using a token mid-expiry.
	pc.tokenExpiry = time.Now().Add(time.Duration(token.ExpiresIn-60) * time.Second)

	return pc.accessToken, nil
}

// CreateOrder opens an external payment order for the given amount and
// returns its id. The amount is a two-decimal string, e.g. "49.90".
func (pc *PayPalClient) CreateOrder(ctx context.Context, amount, description, returnURL, cancelURL string) (string, error) {
	reqBody := map[string]interface{}{
		"intent": "CAPTURE",
		"purchase_units": []map[string]interface{}{
			{
				"amount": map[string]string{
					"currency_code": pc.currency,
					"value":         amount,
				},
				"description": description,
			},
		},
		"application_context": map[string]string{
			"brand_name":   pc.brandName,
			"landing_page": "NO_PREFERENCE",
			"user_action":  "PAY_NOW",
			"return_url":   returnURL,
			"cancel_url":   cancelURL,
		},
	}

	var order orderResponse
	if err := pc.post(ctx, "/v2/checkout/orders", reqBody, &order); err != nil {
		return "", err
	}

	if order.ID == "" {
		return "", fmt.Errorf("%w: order creation returned no id", apperrors.ErrGateway)
	}

	return order.ID, nil
}

// CaptureOrder captures a previously created order. The returned status must
// be checked by the caller; a non-COMPLETED status is not an error here.
func (pc *PayPalClient) CaptureOrder(ctx context.Context, orderID string) (*CaptureResult, error) {
	var order orderResponse
	path := fmt.Sprintf("/v2/checkout/orders/%s/capture", orderID)
	if err := pc.post(ctx, path, map[string]interface{}{}, &order); err != nil {
		return nil, err
	}

	result := &CaptureResult{Status: order.Status}
	if len(order.PurchaseUnits) > 0 && len(order.PurchaseUnits[0].Payments.Captures) > 0 {
		result.CaptureID = order.PurchaseUnits[0].Payments.Captures[0].ID
	}

	return result, nil
}

// GetOrder returns the current gateway status of an order
func (pc *PayPalClient) GetOrder(ctx context.Context, orderID string) (string, error) {
	token, err := pc.getAccessToken(ctx)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		pc.baseURL+"/v2/checkout/orders/"+orderID, nil)
	if err != nil {
		return "", fmt.Errorf("%w: failed to build request: %v", apperrors.ErrGateway, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: request failed: %v", apperrors.ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: order lookup returned %d", apperrors.ErrGateway, resp.StatusCode)
	}

	var order orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", apperrors.ErrGateway, err)
	}

	return order.Status, nil
}

func (pc *PayPalClient) post(ctx context.Context, path string, body interface{}, out *orderResponse) error {
	token, err := pc.getAccessToken(ctx)
	if err != nil {
		return err
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%w: failed to marshal request: %v", apperrors.ErrGateway, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		pc.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("%w: failed to build request: %v", apperrors.ErrGateway, err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := pc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", apperrors.ErrGateway, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s returned %d: %s",
			apperrors.ErrGateway, path, resp.StatusCode, string(respBody))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", apperrors.ErrGateway, err)
	}

	return nil
}
