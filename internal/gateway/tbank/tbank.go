package tbank

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/corray333/storefront/internal/service/models/order"
	"github.com/spf13/viper"
)

const (
	defaultBaseURL = "https://securepay.tinkoff.ru/v2"
	initPath       = "/Init"

	requestTimeout = 10 * time.Second
)

var (
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayRejected    = errors.New("payment gateway rejected the request")
	ErrInvalidSignature   = errors.New("invalid notification signature")
	ErrMalformedPayload   = errors.New("malformed notification payload")
)

// Client talks to the payment provider. It is stateless: it builds signed
// requests and validates inbound notifications, nothing more.
type Client struct {
	baseURL     string
	terminalKey string
	password    string
	httpClient  *http.Client
}

// PaymentSession is the result of a successful payment initiation.
type PaymentSession struct {
	PaymentReference string
	RedirectURL      string
}

// Notification is a verified provider callback.
type Notification struct {
	OrderID       string
	Outcome       Outcome
	PaymentID     string
	AmountKopecks int64
}

// option is a function that configures the Client.
type option func(*Client)

// MustNewClient creates a new payment gateway client. Credentials come from the
// environment and are never accepted from inbound requests.
func MustNewClient(opts ...option) *Client {
	baseURL := viper.GetString("payment.base_url")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	c := &Client{
		baseURL:     baseURL,
		terminalKey: os.Getenv("TBANK_TERMINAL_KEY"),
		password:    os.Getenv("TBANK_PASSWORD"),
		httpClient:  &http.Client{Timeout: requestTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.terminalKey == "" || c.password == "" {
		panic("payment gateway credentials are not configured")
	}

	return c
}

// WithBaseURL overrides the provider endpoint.
func WithBaseURL(baseURL string) option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithCredentials overrides the terminal credentials.
func WithCredentials(terminalKey, password string) option {
	return func(c *Client) {
		c.terminalKey = terminalKey
		c.password = password
	}
}

type initRequest struct {
	TerminalKey string `json:"TerminalKey"`
	Amount      int64  `json:"Amount"`
	OrderID     string `json:"OrderId"`
	Description string `json:"Description,omitempty"`
	Token       string `json:"Token"`
}

type initResponse struct {
	Success    bool   `json:"Success"`
	ErrorCode  string `json:"ErrorCode"`
	Message    string `json:"Message"`
	PaymentID  string `json:"PaymentId"`
	PaymentURL string `json:"PaymentURL"`
}

// Init opens a payment session for the order. The amount is always taken from
// the stored order record, never from anything client-supplied.
func (c *Client) Init(ctx context.Context, ord *order.Order) (*PaymentSession, error) {
	description := fmt.Sprintf("Order %s", ord.ID)

	fields := amountFields(c.terminalKey, ord.ID, ord.TotalPriceKopecks, description)
	req := initRequest{
		TerminalKey: c.terminalKey,
		Amount:      ord.TotalPriceKopecks,
		OrderID:     ord.ID,
		Description: description,
		Token:       computeToken(fields, c.password),
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal init request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+initPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build init request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrGatewayUnavailable, resp.StatusCode)
	}

	var initResp initResponse
	if err := json.NewDecoder(resp.Body).Decode(&initResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrGatewayUnavailable, err)
	}

	if !initResp.Success || (initResp.ErrorCode != "" && initResp.ErrorCode != "0") {
		return nil, fmt.Errorf("%w: code %s: %s", ErrGatewayRejected, initResp.ErrorCode, initResp.Message)
	}

	return &PaymentSession{
		PaymentReference: initResp.PaymentID,
		RedirectURL:      initResp.PaymentURL,
	}, nil
}

// VerifyNotification recomputes the signature over the inbound fields, compares
// it with the payload token in constant time, and parses the outcome. Requests
// with a mismatched token are rejected without touching any state.
func (c *Client) VerifyNotification(payload []byte) (*Notification, error) {
	var raw map[string]any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	got, ok := raw[tokenField].(string)
	if !ok || got == "" {
		return nil, ErrInvalidSignature
	}

	fields := scalarFields(raw)
	if !tokenEqual(got, computeToken(fields, c.password)) {
		return nil, ErrInvalidSignature
	}

	orderID, _ := raw["OrderId"].(string)
	if orderID == "" {
		return nil, fmt.Errorf("%w: missing order id", ErrMalformedPayload)
	}

	providerStatus, _ := raw["Status"].(string)
	outcome, err := ParseOutcome(providerStatus)
	if err != nil {
		return nil, fmt.Errorf("%w: status %q", ErrMalformedPayload, providerStatus)
	}

	notification := &Notification{
		OrderID: orderID,
		Outcome: outcome,
	}
	if paymentID, ok := raw["PaymentId"].(float64); ok {
		notification.PaymentID = fmt.Sprintf("%.0f", paymentID)
	} else if paymentID, ok := raw["PaymentId"].(string); ok {
		notification.PaymentID = paymentID
	}
	if amount, ok := raw["Amount"].(float64); ok {
		notification.AmountKopecks = int64(amount)
	}

	return notification, nil
}
