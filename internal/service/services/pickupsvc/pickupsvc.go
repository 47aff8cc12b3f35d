package pickupsvc

import (
	"context"
	"time"

	"github.com/corray333/storefront/internal/dal/interfaces/ipickuprepo"
	"github.com/corray333/storefront/internal/service/models/pickuppoint"
)

// PickupService manages pickup point reference data. Reads are public, writes
// are admin-only and go through the transport's authorization.
type PickupService struct {
	repo ipickuprepo.IPickupPointRepository
}

// NewPickupService creates a new PickupService.
func NewPickupService(repo ipickuprepo.IPickupPointRepository) *PickupService {
	return &PickupService{
		repo: repo,
	}
}

// ListActive returns pickup points shown on the storefront map.
func (s *PickupService) ListActive(ctx context.Context) ([]pickuppoint.PickupPoint, error) {
	return s.repo.ListActive(ctx)
}

// ListAll returns every pickup point for the admin panel.
func (s *PickupService) ListAll(ctx context.Context) ([]pickuppoint.PickupPoint, error) {
	return s.repo.List(ctx)
}

// Create adds a pickup point.
func (s *PickupService) Create(ctx context.Context, p pickuppoint.PickupPoint) (*pickuppoint.PickupPoint, error) {
	now := time.Now()
	p.Active = true
	p.CreatedAt = now
	p.UpdatedAt = now

	return s.repo.Insert(ctx, p)
}

// Update replaces a pickup point's fields.
func (s *PickupService) Update(ctx context.Context, p pickuppoint.PickupPoint) (*pickuppoint.PickupPoint, error) {
	return s.repo.Update(ctx, p)
}

// Deactivate hides a pickup point from the storefront without deleting it.
func (s *PickupService) Deactivate(ctx context.Context, id int64) error {
	return s.repo.SetActive(ctx, id, false)
}
