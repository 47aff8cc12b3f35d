package catalogsvc

import (
	"context"
	"testing"
	"time"

	"github.com/corray333/storefront/internal/integration/moysklad"
	"github.com/corray333/storefront/internal/service/models/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProductRepo struct{ mock.Mock }

func (m *mockProductRepo) Upsert(ctx context.Context, products []product.Product) error {
	return m.Called(ctx, products).Error(0)
}

func (m *mockProductRepo) List(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *mockProductRepo) Get(ctx context.Context, id string) (*product.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *mockProductRepo) OldestCachedAt(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Error(1)
}

type mockInventory struct{ mock.Mock }

func (m *mockInventory) ListProducts(ctx context.Context) ([]product.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func newService(repo *mockProductRepo, inventory *mockInventory) *CatalogService {
	return MustNewCatalogService(
		WithProductRepository(repo),
		WithInventoryClient(inventory),
		WithCacheTTL(10*time.Minute),
	)
}

func TestListProducts_FreshCacheSkipsRefresh(t *testing.T) {
	repo := &mockProductRepo{}
	inventory := &mockInventory{}
	svc := newService(repo, inventory)

	cached := []product.Product{{ID: "p-1", Name: "Mug"}}
	repo.On("OldestCachedAt", mock.Anything).Return(time.Now().Add(-time.Minute), nil)
	repo.On("List", mock.Anything).Return(cached, nil)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cached, products)
	inventory.AssertNotCalled(t, "ListProducts", mock.Anything)
}

func TestListProducts_StaleCacheRefreshes(t *testing.T) {
	repo := &mockProductRepo{}
	inventory := &mockInventory{}
	svc := newService(repo, inventory)

	fetched := []product.Product{{ID: "p-1", Name: "Mug"}, {ID: "p-2", Name: "Teapot"}}
	repo.On("OldestCachedAt", mock.Anything).Return(time.Now().Add(-time.Hour), nil)
	inventory.On("ListProducts", mock.Anything).Return(fetched, nil)
	repo.On("Upsert", mock.Anything, fetched).Return(nil)
	repo.On("List", mock.Anything).Return(fetched, nil)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 2)
	repo.AssertCalled(t, "Upsert", mock.Anything, fetched)
}

func TestListProducts_RefreshFailureServesStale(t *testing.T) {
	repo := &mockProductRepo{}
	inventory := &mockInventory{}
	svc := newService(repo, inventory)

	cached := []product.Product{{ID: "p-1", Name: "Mug"}}
	repo.On("OldestCachedAt", mock.Anything).Return(time.Now().Add(-time.Hour), nil)
	inventory.On("ListProducts", mock.Anything).Return(nil, moysklad.ErrUnavailable)
	repo.On("List", mock.Anything).Return(cached, nil)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cached, products)
}

func TestListProducts_EmptyCacheSurfacesRefreshFailure(t *testing.T) {
	repo := &mockProductRepo{}
	inventory := &mockInventory{}
	svc := newService(repo, inventory)

	repo.On("OldestCachedAt", mock.Anything).Return(time.Time{}, nil)
	inventory.On("ListProducts", mock.Anything).Return(nil, moysklad.ErrUnavailable)

	_, err := svc.ListProducts(context.Background())
	assert.ErrorIs(t, err, moysklad.ErrUnavailable)
	repo.AssertNotCalled(t, "List", mock.Anything)
}

func TestRefresh_UpsertsInBatches(t *testing.T) {
	repo := &mockProductRepo{}
	inventory := &mockInventory{}
	svc := newService(repo, inventory)

	fetched := make([]product.Product, 250)
	for i := range fetched {
		fetched[i] = product.Product{ID: string(rune('a' + i%26))}
	}
	inventory.On("ListProducts", mock.Anything).Return(fetched, nil)
	repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.Refresh(context.Background()))
	repo.AssertNumberOfCalls(t, "Upsert", 3)
}
