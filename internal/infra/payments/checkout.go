package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"roamstay/internal/app/policies"
	"roamstay/internal/domain/shared/money"
)

// CheckoutClient creates checkout sessions on the external payment
// gateway over HTTP.
type CheckoutClient struct {
	Client   *http.Client
	Endpoint string
	Logger   *slog.Logger
}

func NewCheckoutClient(endpoint string, timeout time.Duration, logger *slog.Logger) *CheckoutClient {
	return &CheckoutClient{
		Client:   &http.Client{Timeout: timeout},
		Endpoint: endpoint,
		Logger:   logger,
	}
}

type createSessionRequest struct {
	BookingID string `json:"booking_id"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

type createSessionResponse struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

func (c *CheckoutClient) CreateCheckoutSession(ctx context.Context, bookingID string, amount money.Money) (policies.CheckoutSession, error) {
	var zero policies.CheckoutSession
	if c == nil || c.Client == nil {
		return zero, errors.New("payments: http client not configured")
	}
	if c.Endpoint == "" {
		return zero, errors.New("payments: endpoint not configured")
	}

	body, err := json.Marshal(createSessionRequest{
		BookingID: bookingID,
		Amount:    amount.Amount,
		Currency:  amount.Currency,
	})
	if err != nil {
		return zero, err
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, bytes.NewReader(body))
	if err != nil {
		return zero, err
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(request)
	if err != nil {
		c.logError("checkout session request failed", bookingID, err)
		return zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("payments gateway returned status %d: %s", resp.StatusCode, string(snippet))
		c.logError("checkout session rejected", bookingID, err)
		return zero, err
	}

	var payload createSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.logError("checkout session decode failed", bookingID, err)
		return zero, err
	}
	if payload.SessionID == "" {
		return zero, errors.New("payments: gateway returned empty session id")
	}
	return policies.CheckoutSession{ID: payload.SessionID, URL: payload.CheckoutURL}, nil
}

func (c *CheckoutClient) logError(msg, bookingID string, err error) {
	if c.Logger != nil {
		c.Logger.Warn(msg, "booking_id", bookingID, "error", err)
	}
}

var _ policies.PaymentsPort = (*CheckoutClient)(nil)
