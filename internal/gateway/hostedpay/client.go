// Package hostedpay talks to the external hosted-checkout provider. The
// provider hosts the payment page; we only create sessions and receive the
// redirect URL.
package hostedpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"storefront/internal/domain"
)

type LineItem struct {
	PriceCode string `json:"price"`
	Quantity  int    `json:"quantity"`
}

type SessionRequest struct {
	OrderCode int64
	LineItems []LineItem
}

type SessionResponse struct {
	SessionID   string
	RedirectURL string
}

type Config struct {
	APIURL     string
	SecretKey  string
	SuccessURL string
	CancelURL  string
	Timeout    time.Duration
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *log.Logger
}

func NewClient(cfg Config, logger *log.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type createPayload struct {
	Mode       string            `json:"mode"`
	LineItems  []LineItem        `json:"line_items"`
	SuccessURL string            `json:"success_url"`
	CancelURL  string            `json:"cancel_url"`
	Metadata   map[string]string `json:"metadata"`
}

type createResponse struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// CreateSession asks the provider for a hosted checkout session. The order
// code travels as metadata and comes back in the settlement event. Transport
// failures, timeouts and provider rejections all wrap domain.ErrGateway so
// callers can treat them as retryable.
func (c *Client) CreateSession(ctx context.Context, req SessionRequest) (*SessionResponse, error) {
	payload := createPayload{
		Mode:       "payment",
		LineItems:  req.LineItems,
		SuccessURL: c.cfg.SuccessURL,
		CancelURL:  c.cfg.CancelURL,
		Metadata:   map[string]string{"order_code": fmt.Sprintf("%d", req.OrderCode)},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal session payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build session request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.SecretKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Printf("hostedpay: create session order_code=%d error=%v", req.OrderCode, err)
		return nil, fmt.Errorf("%w: %v", domain.ErrGateway, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", domain.ErrGateway, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Printf("hostedpay: create session order_code=%d status=%d body=%s", req.OrderCode, resp.StatusCode, respBody)
		return nil, fmt.Errorf("%w: provider returned status %d", domain.ErrGateway, resp.StatusCode)
	}

	var out createResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, fmt.Errorf("%w: parse response: %v", domain.ErrGateway, err)
	}
	if out.Error != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrGateway, out.Error.Message)
	}
	if out.ID == "" || out.URL == "" {
		return nil, fmt.Errorf("%w: provider returned incomplete session", domain.ErrGateway)
	}

	c.logger.Printf("hostedpay: created session order_code=%d session_id=%s", req.OrderCode, out.ID)
	return &SessionResponse{SessionID: out.ID, RedirectURL: out.URL}, nil
}
