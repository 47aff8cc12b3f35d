package product

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("product not found")

// Product is a locally cached catalog entry. It is entirely derived from the
// inventory system: RawPayload keeps the provider response verbatim, the parsed
// fields are what the storefront serves.
type Product struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Description  string    `json:"description"`
	PriceKopecks int64     `json:"priceKopecks"`
	ImageURL     string    `json:"imageUrl"`
	RawPayload   []byte    `json:"-"`
	CachedAt     time.Time `json:"cachedAt"`
}
