package order

import (
	"errors"
	"time"

	"github.com/corray333/storefront/internal/service/models/orderitem"
)

var (
	ErrNotFound          = errors.New("order not found")
	ErrDuplicateOrder    = errors.New("order already exists")
	ErrConflict          = errors.New("order status changed concurrently")
	ErrInvalidState      = errors.New("operation not allowed in current order status")
	ErrInvalidTransition = errors.New("illegal order status transition")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrInvalidDraft      = errors.New("invalid order draft")
)

// Customer holds buyer contact data captured at checkout time.
type Customer struct {
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Email     string   `json:"email"`
	Address   string   `json:"address"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Order represents a confirmed purchase of a snapshot of cart contents at a fixed
// price. TotalPriceKopecks and OrderItems never change after creation; only Status
// and PaymentReference are mutated later, and only through the order service.
type Order struct {
	ID                string                `json:"id"`
	Customer          Customer              `json:"customer"`
	TotalPriceKopecks int64                 `json:"totalPriceKopecks"`
	Status            Status                `json:"status"`
	PaymentReference  string                `json:"paymentReference,omitempty"`
	OwnerID           string                `json:"ownerId,omitempty"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
	OrderItems        []orderitem.OrderItem `json:"orderItems"`
}
