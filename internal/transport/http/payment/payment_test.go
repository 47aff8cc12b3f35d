package payment

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/corray333/storefront/internal/gateway/tbank"
	"github.com/corray333/storefront/internal/service/models/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockService struct{ mock.Mock }

func (m *mockService) StartPayment(ctx context.Context, orderID string) (string, error) {
	args := m.Called(ctx, orderID)
	return args.String(0), args.Error(1)
}

func (m *mockService) HandleNotification(ctx context.Context, payload []byte) error {
	return m.Called(ctx, payload).Error(0)
}

func TestHandleNotification_AcknowledgesWithOK(t *testing.T) {
	svc := &mockService{}
	svc.On("HandleNotification", mock.Anything, []byte(`{"Status":"CONFIRMED"}`)).Return(nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/notify", strings.NewReader(`{"Status":"CONFIRMED"}`))

	HandleNotification(rec, req, svc)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestHandleNotification_InvalidSignature(t *testing.T) {
	svc := &mockService{}
	svc.On("HandleNotification", mock.Anything, mock.Anything).Return(tbank.ErrInvalidSignature)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/notify", strings.NewReader(`{}`))

	HandleNotification(rec, req, svc)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.NotEqual(t, "OK", rec.Body.String())
}

func TestHandleNotification_Conflict(t *testing.T) {
	svc := &mockService{}
	svc.On("HandleNotification", mock.Anything, mock.Anything).Return(order.ErrConflict)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/payments/notify", strings.NewReader(`{}`))

	HandleNotification(rec, req, svc)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestStartPayment_GatewayDown(t *testing.T) {
	svc := &mockService{}
	svc.On("StartPayment", mock.Anything, mock.Anything).Return("", tbank.ErrGatewayUnavailable)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/ord-1/pay", nil)

	StartPayment(rec, req, svc)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
