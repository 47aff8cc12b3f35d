package iorderitemrepo

import (
	"context"

	"github.com/corray333/storefront/internal/service/models/orderitem"
)

// IOrderItemRepository stores order line items. Items are written once at
// order creation and never updated afterwards.
type IOrderItemRepository interface {
	BulkInsert(ctx context.Context, items []orderitem.OrderItem) ([]orderitem.OrderItem, error)
	QueryByOrderIDs(ctx context.Context, orderIDs []string) ([]orderitem.OrderItem, error)
}
