package catalogsvc

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/corray333/storefront/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/storefront/internal/service/models/product"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

const upsertBatchSize = 100

// CatalogService serves products from the local cache, refreshing it from the
// inventory system when the cache goes stale. The inventory credentials stay
// on the server; clients only ever see cache contents.
type CatalogService struct {
	productRepo iproductrepo.IProductRepository
	inventory   inventoryClient
	cacheTTL    time.Duration
}

type inventoryClient interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
}

// option is a function that configures the CatalogService.
type option func(*CatalogService)

// MustNewCatalogService creates a new CatalogService.
func MustNewCatalogService(opts ...option) *CatalogService {
	ttlSeconds := viper.GetInt("inventory.cache_ttl_seconds")
	if ttlSeconds == 0 {
		ttlSeconds = 600
	}

	s := &CatalogService{
		cacheTTL: time.Duration(ttlSeconds) * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithProductRepository sets the product cache repository.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.IProductRepository) option {
	return func(s *CatalogService) {
		s.productRepo = repo
	}
}

// WithInventoryClient sets the inventory system client.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithInventoryClient(client inventoryClient) option {
	return func(s *CatalogService) {
		s.inventory = client
	}
}

// WithCacheTTL overrides the cache freshness window.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithCacheTTL(ttl time.Duration) option {
	return func(s *CatalogService) {
		s.cacheTTL = ttl
	}
}

// ListProducts returns the cached catalog, refreshing it first if stale. A
// refresh failure falls back to serving stale data rather than erroring out.
func (s *CatalogService) ListProducts(ctx context.Context) ([]product.Product, error) {
	oldest, err := s.productRepo.OldestCachedAt(ctx)
	if err != nil {
		return nil, err
	}

	if oldest.IsZero() || time.Since(oldest) > s.cacheTTL {
		if err := s.Refresh(ctx); err != nil {
			if oldest.IsZero() {
				return nil, err
			}
			slog.Warn("Catalog refresh failed, serving stale cache", "error", err)
		}
	}

	return s.productRepo.List(ctx)
}

// GetProduct retrieves a single cached product.
func (s *CatalogService) GetProduct(ctx context.Context, id string) (*product.Product, error) {
	return s.productRepo.Get(ctx, id)
}

// Refresh pulls the catalog from the inventory system and upserts it into the
// cache in concurrent batches.
func (s *CatalogService) Refresh(ctx context.Context) error {
	products, err := s.inventory.ListProducts(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch catalog: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(3)

	for start := 0; start < len(products); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(products) {
			end = len(products)
		}
		batch := products[start:end]

		g.Go(func() error {
			return s.productRepo.Upsert(ctx, batch)
		})
	}

	if err := g.Wait(); err != nil {
		return fmt.Errorf("failed to update product cache: %w", err)
	}

	slog.Info("Product cache refreshed", "count", len(products))

	return nil
}
