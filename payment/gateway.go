package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/shopspring/decimal"
)

// Session is the gateway's handle for one payment attempt.
type Session struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status,omitempty"`
}

type SessionRequest struct {
	Amount   int64
	Currency string
	Receipt  string
}

// Gateway opens payment sessions with an external provider.
type Gateway interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
}

var ErrGatewayNotConfigured = errors.New("payment gateway configuration missing")

// ToMinorUnits scales an amount to the smallest currency unit (×100),
// rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// ReceiptFor labels a session with the paying user.
func ReceiptFor(userID string) string {
	return "receipt_order_" + userID
}

type createOrderPayload struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type gatewayResponse struct {
	Session
	Error *struct {
		Code        string `json:"code"`
		Description string `json:"description"`
	} `json:"error,omitempty"`
}

// HTTPGateway talks to an orders-style payment API authenticated with a
// key id and secret.
type HTTPGateway struct {
	apiURL    string
	keyID     string
	keySecret string
	client    *http.Client
}

func NewHTTPGateway(apiURL, keyID, keySecret string, client *http.Client) *HTTPGateway {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPGateway{apiURL: apiURL, keyID: keyID, keySecret: keySecret, client: client}
}

func (g *HTTPGateway) CreateSession(ctx context.Context, req SessionRequest) (*Session, error) {
	if g.apiURL == "" || g.keyID == "" || g.keySecret == "" {
		return nil, ErrGatewayNotConfigured
	}

	body, err := json.Marshal(createOrderPayload{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(g.keyID, g.keySecret)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read payment gateway response: %w", err)
	}

	var parsed gatewayResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &parsed); err != nil && resp.StatusCode == http.StatusOK {
			return nil, fmt.Errorf("parse payment gateway response: %w", err)
		}
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("payment gateway error (%d): %s: %s", resp.StatusCode, parsed.Error.Code, parsed.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("payment gateway error (%d)", resp.StatusCode)
	}
	if parsed.ID == "" {
		return nil, errors.New("payment gateway returned empty session id")
	}
	return &parsed.Session, nil
}
