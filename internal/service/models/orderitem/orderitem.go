package orderitem

import (
	"time"
)

// OrderItem is a line item within an order. ProductName and UnitPriceKopecks are
// snapshots copied from the catalog at order-creation time and never re-derived.
type OrderItem struct {
	ID                int64     `json:"id"`
	OrderID           string    `json:"orderId"`
	ProductID         string    `json:"productId"`
	ProductName       string    `json:"productName"`
	UnitPriceKopecks  int64     `json:"unitPriceKopecks"`
	Quantity          int       `json:"quantity"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// TotalKopecks returns the line total.
func (i OrderItem) TotalKopecks() int64 {
	return i.UnitPriceKopecks * int64(i.Quantity)
}
