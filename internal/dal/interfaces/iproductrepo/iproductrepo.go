package iproductrepo

import (
	"context"
	"time"

	"github.com/corray333/storefront/internal/service/models/product"
)

// IProductRepository is the local catalog cache. Rows are entirely derived
// from the inventory system and upserted wholesale on refresh.
type IProductRepository interface {
	Upsert(ctx context.Context, products []product.Product) error
	List(ctx context.Context) ([]product.Product, error)
	Get(ctx context.Context, id string) (*product.Product, error)
	OldestCachedAt(ctx context.Context) (time.Time, error)
}
