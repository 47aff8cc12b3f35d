package iorderrepo

import (
	"context"

	"github.com/corray333/storefront/internal/service/models/order"
)

// IOrderRepository owns all order row mutation. SetStatus is the single
// synchronization point for concurrent status writes: when expected is
// non-empty the update only applies if the stored status still matches, and
// order.ErrConflict is returned otherwise.
type IOrderRepository interface {
	Insert(ctx context.Context, o order.Order) (*order.Order, error)
	Get(ctx context.Context, id string) (*order.Order, error)
	SetStatus(ctx context.Context, id string, newStatus, expected order.Status, paymentReference *string) (*order.Order, error)
	ListByOwner(ctx context.Context, ownerID string) ([]order.Order, error)
}
