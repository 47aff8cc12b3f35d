package pickuppoint

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("pickup point not found")

// PickupPoint is a map marker where orders can be collected. Read-mostly
// reference data, mutated only through admin operations.
type PickupPoint struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	StoreID   string    `json:"storeId,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
