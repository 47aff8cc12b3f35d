package pickupsvc

import (
	"context"
	"testing"

	"github.com/corray333/storefront/internal/service/models/pickuppoint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepo struct{ mock.Mock }

func (m *mockRepo) Insert(ctx context.Context, p pickuppoint.PickupPoint) (*pickuppoint.PickupPoint, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pickuppoint.PickupPoint), args.Error(1)
}

func (m *mockRepo) Update(ctx context.Context, p pickuppoint.PickupPoint) (*pickuppoint.PickupPoint, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pickuppoint.PickupPoint), args.Error(1)
}

func (m *mockRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}

func (m *mockRepo) ListActive(ctx context.Context) ([]pickuppoint.PickupPoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pickuppoint.PickupPoint), args.Error(1)
}

func (m *mockRepo) List(ctx context.Context) ([]pickuppoint.PickupPoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pickuppoint.PickupPoint), args.Error(1)
}

func TestCreate_ActivatesAndStamps(t *testing.T) {
	repo := &mockRepo{}
	svc := NewPickupService(repo)

	repo.On("Insert", mock.Anything, mock.MatchedBy(func(p pickuppoint.PickupPoint) bool {
		return p.Active && !p.CreatedAt.IsZero() && !p.UpdatedAt.IsZero()
	})).Return(&pickuppoint.PickupPoint{ID: 1, Name: "Central", Active: true}, nil)

	created, err := svc.Create(context.Background(), pickuppoint.PickupPoint{Name: "Central", Address: "Tverskaya 1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.True(t, created.Active)
}

func TestDeactivate(t *testing.T) {
	repo := &mockRepo{}
	svc := NewPickupService(repo)

	repo.On("SetActive", mock.Anything, int64(7), false).Return(nil)

	require.NoError(t, svc.Deactivate(context.Background(), 7))
	repo.AssertCalled(t, "SetActive", mock.Anything, int64(7), false)
}

func TestDeactivate_NotFound(t *testing.T) {
	repo := &mockRepo{}
	svc := NewPickupService(repo)

	repo.On("SetActive", mock.Anything, int64(999), false).Return(pickuppoint.ErrNotFound)

	err := svc.Deactivate(context.Background(), 999)
	assert.ErrorIs(t, err, pickuppoint.ErrNotFound)
}
