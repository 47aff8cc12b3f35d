package checkout

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/storefront/internal/service/models/order"
	"github.com/corray333/storefront/internal/service/services/ordersvc"
	"github.com/corray333/storefront/internal/transport/http/respond"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	BeginCheckout(ctx context.Context, draft ordersvc.CheckoutDraft) (*order.Order, error)
}

// itemInCheckoutRequest represents a cart line in a checkout request.
type itemInCheckoutRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  int    `json:"quantity"  validate:"gte=1"`
}

// customerInCheckoutRequest represents buyer contact data in a checkout request.
type customerInCheckoutRequest struct {
	Name      string   `json:"name"    validate:"required"`
	Phone     string   `json:"phone"   validate:"required"`
	Email     string   `json:"email"   validate:"required,email"`
	Address   string   `json:"address" validate:"required"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// checkoutRequest represents a checkout request.
type checkoutRequest struct {
	OrderID  string                    `json:"orderId"`
	OwnerID  string                    `json:"ownerId"`
	Customer customerInCheckoutRequest `json:"customer" validate:"required"`
	Items    []itemInCheckoutRequest   `json:"items"    validate:"required,min=1,dive"`
}

// Validate validates the checkout request.
func (r *checkoutRequest) Validate() error {
	return validator.New().Struct(r)
}

// toDraft converts checkoutRequest to an ordersvc.CheckoutDraft.
func (r *checkoutRequest) toDraft() ordersvc.CheckoutDraft {
	items := make([]ordersvc.CheckoutItem, len(r.Items))
	for i, item := range r.Items {
		items[i] = ordersvc.CheckoutItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
	}

	return ordersvc.CheckoutDraft{
		OrderID: r.OrderID,
		OwnerID: r.OwnerID,
		Customer: order.Customer{
			Name:      r.Customer.Name,
			Phone:     r.Customer.Phone,
			Email:     r.Customer.Email,
			Address:   r.Customer.Address,
			Latitude:  r.Customer.Latitude,
			Longitude: r.Customer.Longitude,
		},
		Items: items,
	}
}

// Checkout handles the checkout request.
func Checkout(w http.ResponseWriter, r *http.Request, service service) {
	req := checkoutRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error decoding request body for checkout", "error", err)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		slog.Error("Error validating request body for checkout", "error", err)

		return
	}

	created, err := service.BeginCheckout(r.Context(), req.toDraft())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error performing checkout", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}
