package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"braindump_backend/internal/logger"
)

// PayPalClient is the thin REST client over the recurring-billing API.
// Both calls happen server-side only.
type PayPalClient interface {
	GetAccessToken(ctx context.Context) (string, error)
	// EnsurePlan returns a billing plan id, creating the product and the
	// monthly plan optimistically and falling back to the configured ids
	// when creation fails.
	EnsurePlan(ctx context.Context, accessToken string) (string, error)
	CreateSubscription(ctx context.Context, accessToken, planID, email string) (*PayPalSubscription, error)
	GetSubscription(ctx context.Context, accessToken, subscriptionID string) (*PayPalSubscription, error)
}

var ErrPayPalNotConfigured = errors.New("paypal credentials are not configured")

// PayPalSubscription is the subset of the provider's subscription resource
// this service consumes.
type PayPalSubscription struct {
	ID          string
	Status      string
	ApprovalURL string
	// NextBillingTime is zero when the provider omitted it.
	NextBillingTime time.Time
}

type PayPalConfig struct {
	ClientID  string
	Secret    string
	BaseURL   string
	ProductID string
	PlanID    string
	ReturnURL string
	CancelURL string
}

type PayPalClientImpl struct {
	config PayPalConfig
	client *http.Client
}

func NewPayPalClient(config PayPalConfig) PayPalClient {
	return &PayPalClientImpl{
		config: config,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (p *PayPalClientImpl) GetAccessToken(ctx context.Context) (string, error) {
	if p.config.ClientID == "" || p.config.Secret == "" {
		return "", ErrPayPalNotConfigured
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(p.config.ClientID, p.config.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal auth failed: HTTP %d: %s", resp.StatusCode, truncateBody(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tokenResp); err != nil {
		return "", fmt.Errorf("invalid token response: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("paypal auth returned an empty access token")
	}

	return tokenResp.AccessToken, nil
}

func (p *PayPalClientImpl) EnsurePlan(ctx context.Context, accessToken string) (string, error) {
	productID, err := p.createProduct(ctx, accessToken)
	if err != nil {
		// Create-or-fallback-to-known-id, not lookup-then-create.
		if p.config.ProductID == "" {
			return "", fmt.Errorf("product creation failed and no fallback product id is configured: %w", err)
		}
		logger.CtxWarn(ctx, "product creation failed, falling back to configured product", "error", err.Error())
		productID = p.config.ProductID
	}

	planID, err := p.createPlan(ctx, accessToken, productID)
	if err != nil {
		if p.config.PlanID == "" {
			return "", fmt.Errorf("plan creation failed and no fallback plan id is configured: %w", err)
		}
		logger.CtxWarn(ctx, "plan creation failed, falling back to configured plan", "error", err.Error())
		planID = p.config.PlanID
	}

	return planID, nil
}

func (p *PayPalClientImpl) createProduct(ctx context.Context, accessToken string) (string, error) {
	payload := map[string]interface{}{
		"name":        "BrainDump Premium",
		"description": "Unlimited daily brain dumps",
		"type":        "SERVICE",
		"category":    "SOFTWARE",
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := p.post(ctx, accessToken, "/v1/catalogs/products", payload, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("product creation returned no id")
	}
	return result.ID, nil
}

func (p *PayPalClientImpl) createPlan(ctx context.Context, accessToken, productID string) (string, error) {
	payload := map[string]interface{}{
		"product_id": productID,
		"name":       "BrainDump Premium Monthly",
		"billing_cycles": []map[string]interface{}{
			{
				"frequency": map[string]interface{}{
					"interval_unit":  "MONTH",
					"interval_count": 1,
				},
				"tenure_type": "REGULAR",
				"sequence":    1,
				"total_cycles": 0,
				"pricing_scheme": map[string]interface{}{
					"fixed_price": map[string]string{
						"value":         "4.99",
						"currency_code": "USD",
					},
				},
			},
		},
		"payment_preferences": map[string]interface{}{
			"auto_bill_outstanding": true,
			"payment_failure_threshold": 3,
		},
	}

	var result struct {
		ID string `json:"id"`
	}
	if err := p.post(ctx, accessToken, "/v1/billing/plans", payload, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", fmt.Errorf("plan creation returned no id")
	}
	return result.ID, nil
}

func (p *PayPalClientImpl) CreateSubscription(ctx context.Context, accessToken, planID, email string) (*PayPalSubscription, error) {
	payload := map[string]interface{}{
		"plan_id": planID,
		"subscriber": map[string]interface{}{
			"email_address": email,
		},
		"application_context": map[string]interface{}{
			"brand_name":  "BrainDump",
			"user_action": "SUBSCRIBE_NOW",
			"return_url":  p.config.ReturnURL,
			"cancel_url":  p.config.CancelURL,
		},
	}

	var result struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		Links  []struct {
			Href string `json:"href"`
			Rel  string `json:"rel"`
		} `json:"links"`
	}
	if err := p.post(ctx, accessToken, "/v1/billing/subscriptions", payload, &result); err != nil {
		return nil, err
	}

	sub := &PayPalSubscription{
		ID:     result.ID,
		Status: result.Status,
	}
	for _, link := range result.Links {
		if link.Rel == "approve" {
			sub.ApprovalURL = link.Href
			break
		}
	}
	if sub.ID == "" || sub.ApprovalURL == "" {
		return nil, fmt.Errorf("subscription creation returned no id or approval link")
	}

	return sub, nil
}

func (p *PayPalClientImpl) GetSubscription(ctx context.Context, accessToken, subscriptionID string) (*PayPalSubscription, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		p.config.BaseURL+"/v1/billing/subscriptions/"+url.PathEscape(subscriptionID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("subscription fetch failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("subscription fetch failed: HTTP %d: %s", resp.StatusCode, truncateBody(body))
	}

	var result struct {
		ID          string `json:"id"`
		Status      string `json:"status"`
		BillingInfo struct {
			NextBillingTime time.Time `json:"next_billing_time"`
		} `json:"billing_info"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("invalid subscription response: %w", err)
	}

	return &PayPalSubscription{
		ID:              result.ID,
		Status:          result.Status,
		NextBillingTime: result.BillingInfo.NextBillingTime,
	}, nil
}

func (p *PayPalClientImpl) post(ctx context.Context, accessToken, path string, payload interface{}, out interface{}) error {
	bodyJSON, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.config.BaseURL+path, bytes.NewReader(bodyJSON))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s returned HTTP %d: %s", path, resp.StatusCode, truncateBody(body))
	}

	return json.Unmarshal(body, out)
}

func truncateBody(body []byte) string {
	const max = 256
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
