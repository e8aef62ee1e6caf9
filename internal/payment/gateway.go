// Package payment talks to the external payment gateway through its
// request/response contract. Gateway internals (tokenization, 3DS, retries)
// live on the gateway side and are out of scope here.
package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

type ChargeRequest struct {
	OrderID  uint    `json:"order_id"`
	ClientID int     `json:"client_id"`
	Amount   float64 `json:"amount"`
}

type ChargeResult struct {
	Approved bool `json:"approved"`
	// Reference is the gateway's charge identifier, returned to checkout
	// callers as ordenId.
	Reference string `json:"reference"`
	Reason    string `json:"reason"`
}

type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
	Refund(ctx context.Context, reference string) error
}

type HTTPGateway struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewHTTPGateway(baseURL string, timeout time.Duration, logger *zap.Logger) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

func (g *HTTPGateway) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encoding charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling payment gateway: %w", err)
	}
	defer resp.Body.Close()

	// 402 carries a decline payload; anything else non-2xx is a transport
	// failure.
	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusPaymentRequired {
		return nil, fmt.Errorf("payment gateway returned status %d", resp.StatusCode)
	}

	var result ChargeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding charge response: %w", err)
	}

	g.logger.Info("charge processed",
		zap.Uint("orderId", req.OrderID),
		zap.Bool("approved", result.Approved),
		zap.String("reference", result.Reference),
	)

	return &result, nil
}

func (g *HTTPGateway) Refund(ctx context.Context, reference string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/%s/refund", g.baseURL, reference), nil)
	if err != nil {
		return fmt.Errorf("building refund request: %w", err)
	}

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("calling payment gateway for refund: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("refund returned status %d", resp.StatusCode)
	}

	g.logger.Info("charge refunded", zap.String("reference", reference))
	return nil
}
