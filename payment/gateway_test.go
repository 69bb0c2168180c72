package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMinorUnits(t *testing.T) {
	assert.Equal(t, int64(2000), ToMinorUnits(decimal.NewFromInt(20)))
	assert.Equal(t, int64(1999), ToMinorUnits(decimal.RequireFromString("19.99")))
	assert.Equal(t, int64(1), ToMinorUnits(decimal.RequireFromString("0.005")))
	assert.Equal(t, int64(0), ToMinorUnits(decimal.Zero))
}

func TestReceiptFor(t *testing.T) {
	assert.Equal(t, "receipt_order_u-42", ReceiptFor("u-42"))
}

func TestHTTPGatewayCreateSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		var payload createOrderPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, int64(2000), payload.Amount)
		assert.Equal(t, "INR", payload.Currency)
		assert.Equal(t, "receipt_order_u1", payload.Receipt)

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id": "order_abc", "amount": payload.Amount, "currency": payload.Currency,
			"receipt": payload.Receipt, "status": "created",
		})
	}))
	defer srv.Close()

	gw := NewHTTPGateway(srv.URL, "key", "secret", srv.Client())
	session, err := gw.CreateSession(context.Background(), SessionRequest{Amount: 2000, Currency: "INR", Receipt: "receipt_order_u1"})
	require.NoError(t, err)
	assert.Equal(t, "order_abc", session.ID)
	assert.Equal(t, int64(2000), session.Amount)
	assert.Equal(t, "created", session.Status)
}

func TestHTTPGatewayErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR","description":"amount too small"}}`))
	}))
	defer srv.Close()

	_, err := NewHTTPGateway(srv.URL, "key", "secret", srv.Client()).
		CreateSession(context.Background(), SessionRequest{Amount: 1, Currency: "INR"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount too small")

	_, err = NewHTTPGateway("", "", "", nil).CreateSession(context.Background(), SessionRequest{})
	assert.ErrorIs(t, err, ErrGatewayNotConfigured)
}

func TestHTTPGatewayHonoursContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := NewHTTPGateway(srv.URL, "key", "secret", srv.Client()).
		CreateSession(ctx, SessionRequest{Amount: 100, Currency: "INR"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
