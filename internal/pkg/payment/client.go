package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/WeOneApp/wardsponsor/internal/pkg/env"
)

const defaultRazorpayAPIBaseURL = "https://api.razorpay.com/v1"

// RazorpayClient talks to the Razorpay orders API with basic auth.
type RazorpayClient struct {
	keyID      string
	keySecret  string
	APIBaseURL string

	HTTPClient *http.Client
}

// NewRazorpayClientFromEnv builds a client from RAZORPAY_KEY_ID /
// RAZORPAY_KEY_SECRET.
func NewRazorpayClientFromEnv() *RazorpayClient {
	return &RazorpayClient{
		keyID:      strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_ID", "")),
		keySecret:  strings.TrimSpace(env.GetEnv("RAZORPAY_KEY_SECRET", "")),
		APIBaseURL: strings.TrimSpace(env.GetEnv("RAZORPAY_API_BASE_URL", defaultRazorpayAPIBaseURL)),
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// KeyID returns the public key identifier the frontend checkout widget needs.
func (c *RazorpayClient) KeyID() string {
	return c.keyID
}

// CreateOrder registers a payment order at the gateway. The amount arrives
// in rupees and is converted to paise exactly here.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amountRupees int64, receipt string, notes map[string]string) (*Order, error) {
	if c.keyID == "" || c.keySecret == "" {
		return nil, errors.New("RAZORPAY_KEY_ID/RAZORPAY_KEY_SECRET are not configured")
	}
	if amountRupees <= 0 {
		return nil, fmt.Errorf("order amount must be positive, got %d", amountRupees)
	}

	payload := map[string]interface{}{
		"amount":   ToPaise(amountRupees),
		"currency": "INR",
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		payload["notes"] = notes
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := strings.TrimRight(c.APIBaseURL, "/") + "/orders"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("razorpay order creation failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var out Order
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.ID) == "" {
		return nil, errors.New("razorpay order response missing id")
	}
	return &out, nil
}

// VerifySignature checks the checkout signature with the configured secret.
func (c *RazorpayClient) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(orderID, paymentID, signature, c.keySecret)
}
