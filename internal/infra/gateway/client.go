package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"palmgrove-bookings/internal/domain/pricing"
	"palmgrove-bookings/internal/pkg/config"
	"palmgrove-bookings/internal/pkg/errs"
)

// Client talks to the external payment gateway's order API. Calls are bounded
// by the configured timeout and retried on transient failures; a booking is
// never blocked on an unbounded gateway call.
type Client struct {
	baseURL    string
	keyID      string
	keySecret  string
	maxRetries int
	httpClient *http.Client
}

func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		keyID:      cfg.KeyID,
		keySecret:  cfg.KeySecret,
		maxRetries: cfg.MaxRetries,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type createOrderRequest struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type createOrderResponse struct {
	ID string `json:"id"`
}

// CreateOrder registers an order with the gateway and returns its order ID.
// Amounts are minor units (paise for INR).
func (c *Client) CreateOrder(ctx context.Context, amount pricing.Money, currency, receipt string) (string, error) {
	body, err := json.Marshal(createOrderRequest{
		Amount:   amount.Int64(),
		Currency: currency,
		Receipt:  receipt,
	})
	if err != nil {
		return "", errs.Wrap(err, "failed to encode order request")
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", errs.Wrap(ctx.Err(), "order creation cancelled")
			case <-time.After(backoff(attempt)):
			}
		}

		orderID, retryable, err := c.postOrder(ctx, body)
		if err == nil {
			return orderID, nil
		}
		lastErr = err
		if !retryable {
			break
		}
		slog.Warn("gateway order creation failed, retrying",
			"attempt", attempt+1, "error", err.Error())
	}
	return "", errs.Wrap(lastErr, "gateway order creation failed")
}

func (c *Client) postOrder(ctx context.Context, body []byte) (orderID string, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return "", false, errs.Wrap(err, "failed to build order request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.keySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", true, errs.Wrap(err, "gateway request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		io.Copy(io.Discard, resp.Body)
		return "", true, errs.New(fmt.Sprintf("gateway returned status %d", resp.StatusCode))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		io.Copy(io.Discard, resp.Body)
		return "", false, errs.New(fmt.Sprintf("gateway rejected order with status %d", resp.StatusCode))
	}

	var decoded createOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", false, errs.Wrap(err, "failed to decode order response")
	}
	if decoded.ID == "" {
		return "", false, errs.New("gateway returned empty order id")
	}
	return decoded.ID, false, nil
}

func backoff(attempt int) time.Duration {
	return time.Duration(attempt) * 200 * time.Millisecond
}
