package checkout

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/corray333/storefront/internal/service/models/order"
	"github.com/corray333/storefront/internal/service/services/ordersvc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockService struct{ mock.Mock }

func (m *mockService) BeginCheckout(ctx context.Context, draft ordersvc.CheckoutDraft) (*order.Order, error) {
	args := m.Called(ctx, draft)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

const validBody = `{
	"ownerId": "user-1",
	"customer": {
		"name": "Ivan Petrov",
		"phone": "+79990001122",
		"email": "ivan@example.com",
		"address": "Moscow, Tverskaya 1"
	},
	"items": [{"productId": "p-1", "quantity": 2}]
}`

func TestCheckout(t *testing.T) {
	svc := &mockService{}
	svc.On("BeginCheckout", mock.Anything, mock.MatchedBy(func(draft ordersvc.CheckoutDraft) bool {
		return draft.OwnerID == "user-1" &&
			len(draft.Items) == 1 &&
			draft.Items[0].ProductID == "p-1" &&
			draft.Items[0].Quantity == 2
	})).Return(&order.Order{ID: "ord-1", Status: order.StatusPending}, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(validBody))

	Checkout(rec, req, svc)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ord-1"`)
}

func TestCheckout_RejectsInvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty items", `{"customer":{"name":"a","phone":"b","email":"a@b.c","address":"d"},"items":[]}`},
		{"zero quantity", `{"customer":{"name":"a","phone":"b","email":"a@b.c","address":"d"},"items":[{"productId":"p-1","quantity":0}]}`},
		{"bad email", `{"customer":{"name":"a","phone":"b","email":"nope","address":"d"},"items":[{"productId":"p-1","quantity":1}]}`},
		{"not json", `{{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(tt.body))

			Checkout(rec, req, svc)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			svc.AssertNotCalled(t, "BeginCheckout", mock.Anything, mock.Anything)
		})
	}
}

func TestCheckout_DuplicateOrder(t *testing.T) {
	svc := &mockService{}
	svc.On("BeginCheckout", mock.Anything, mock.Anything).Return(nil, order.ErrDuplicateOrder)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/checkout", strings.NewReader(validBody))

	Checkout(rec, req, svc)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
