package tbank

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/corray333/storefront/internal/service/models/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeToken(t *testing.T) {
	fields := map[string]string{
		"TerminalKey": "tk",
		"OrderId":     "abc",
		"Amount":      "1000",
	}

	// sorted keys: Amount, OrderId, Password, TerminalKey
	// sha256("1000" + "abc" + "pw" + "tk")
	assert.Equal(t, "40143b633a371be8fee3b63847b68bdeaf0983444e1ab35817a17da70e291f4c", computeToken(fields, "pw"))
}

func TestComputeToken_ExcludesTokenField(t *testing.T) {
	fields := map[string]string{
		"TerminalKey": "tk",
		"OrderId":     "abc",
		"Amount":      "1000",
	}
	withToken := map[string]string{
		"TerminalKey": "tk",
		"OrderId":     "abc",
		"Amount":      "1000",
		"Token":       "anything",
	}

	assert.Equal(t, computeToken(fields, "pw"), computeToken(withToken, "pw"))
}

func TestComputeToken_PasswordChangesToken(t *testing.T) {
	fields := map[string]string{"OrderId": "abc"}

	assert.NotEqual(t, computeToken(fields, "pw1"), computeToken(fields, "pw2"))
}

func TestScalarFields(t *testing.T) {
	fields := scalarFields(map[string]any{
		"Status":    "CONFIRMED",
		"PaymentId": float64(123),
		"Success":   true,
		"RebillId":  nil,
		"Data":      map[string]any{"nested": "skipped"},
		"Receipts":  []any{"skipped"},
	})

	assert.Equal(t, map[string]string{
		"Status":    "CONFIRMED",
		"PaymentId": "123",
		"Success":   "true",
		"RebillId":  "",
	}, fields)
}

func notifyPayload(t *testing.T, token string) []byte {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"TerminalKey": "TermA",
		"OrderId":     "ord-7",
		"Status":      "CONFIRMED",
		"PaymentId":   100435,
		"Success":     true,
		"Token":       token,
	})
	require.NoError(t, err)

	return payload
}

func TestClient_VerifyNotification(t *testing.T) {
	client := MustNewClient(WithCredentials("TermA", "secret"), WithBaseURL("http://localhost"))

	// sorted keys: OrderId, Password, PaymentId, Status, Success, TerminalKey
	// sha256("ord-7" + "secret" + "100435" + "CONFIRMED" + "true" + "TermA")
	validToken := "79b4594fdb4b2b576c18f7223a81ab5bbc179dc49023577940bb0162e6fbf723"

	notification, err := client.VerifyNotification(notifyPayload(t, validToken))
	require.NoError(t, err)
	assert.Equal(t, "ord-7", notification.OrderID)
	assert.Equal(t, OutcomeConfirmed, notification.Outcome)
	assert.Equal(t, "100435", notification.PaymentID)
}

func TestClient_VerifyNotification_TamperedToken(t *testing.T) {
	client := MustNewClient(WithCredentials("TermA", "secret"), WithBaseURL("http://localhost"))

	_, err := client.VerifyNotification(notifyPayload(t, "deadbeef"))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestClient_VerifyNotification_MissingToken(t *testing.T) {
	client := MustNewClient(WithCredentials("TermA", "secret"), WithBaseURL("http://localhost"))

	_, err := client.VerifyNotification([]byte(`{"OrderId":"ord-7","Status":"CONFIRMED"}`))
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestClient_VerifyNotification_Malformed(t *testing.T) {
	client := MustNewClient(WithCredentials("TermA", "secret"), WithBaseURL("http://localhost"))

	_, err := client.VerifyNotification([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestClient_VerifyNotification_UnknownStatus(t *testing.T) {
	client := MustNewClient(WithCredentials("TermA", "secret"), WithBaseURL("http://localhost"))

	payload := map[string]any{
		"OrderId": "ord-7",
		"Status":  "TELEPORTED",
	}
	raw, err := json.Marshal(payload)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	decoded["Token"] = computeToken(scalarFields(decoded), "secret")
	signed, err := json.Marshal(decoded)
	require.NoError(t, err)

	_, err = client.VerifyNotification(signed)
	assert.ErrorIs(t, err, ErrMalformedPayload)
}

func TestClient_Init(t *testing.T) {
	var gotReq initRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/Init", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		_ = json.NewEncoder(w).Encode(initResponse{
			Success:    true,
			ErrorCode:  "0",
			PaymentID:  "13660",
			PaymentURL: "https://pay.example/s/13660",
		})
	}))
	defer srv.Close()

	client := MustNewClient(WithCredentials("TermA", "secret"), WithBaseURL(srv.URL))

	session, err := client.Init(context.Background(), &order.Order{
		ID:                "ord-42",
		TotalPriceKopecks: 158000,
	})
	require.NoError(t, err)
	assert.Equal(t, "13660", session.PaymentReference)
	assert.Equal(t, "https://pay.example/s/13660", session.RedirectURL)

	assert.Equal(t, "TermA", gotReq.TerminalKey)
	assert.Equal(t, int64(158000), gotReq.Amount)
	assert.Equal(t, "ord-42", gotReq.OrderID)

	wantFields := amountFields("TermA", "ord-42", 158000, gotReq.Description)
	assert.Equal(t, computeToken(wantFields, "secret"), gotReq.Token)
}

func TestClient_Init_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(initResponse{
			Success:   false,
			ErrorCode: "9999",
			Message:   "terminal blocked",
		})
	}))
	defer srv.Close()

	client := MustNewClient(WithCredentials("TermA", "secret"), WithBaseURL(srv.URL))

	_, err := client.Init(context.Background(), &order.Order{ID: "ord-42", TotalPriceKopecks: 100})
	assert.ErrorIs(t, err, ErrGatewayRejected)
}

func TestClient_Init_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := MustNewClient(WithCredentials("TermA", "secret"), WithBaseURL(srv.URL))

	_, err := client.Init(context.Background(), &order.Order{ID: "ord-42", TotalPriceKopecks: 100})
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestParseOutcome(t *testing.T) {
	tests := []struct {
		provider string
		outcome  Outcome
	}{
		{"AUTHORIZED", OutcomeAuthorized},
		{"CONFIRMED", OutcomeConfirmed},
		{"REJECTED", OutcomeRejected},
		{"CANCELED", OutcomeCanceled},
		{"REVERSED", OutcomeCanceled},
		{"REFUNDED", OutcomeRefunded},
	}
	for _, tt := range tests {
		outcome, err := ParseOutcome(tt.provider)
		assert.NoError(t, err)
		assert.Equal(t, tt.outcome, outcome)
	}

	_, err := ParseOutcome("DEADLINE_EXPIRED")
	assert.ErrorIs(t, err, ErrUnknownOutcome)
}
