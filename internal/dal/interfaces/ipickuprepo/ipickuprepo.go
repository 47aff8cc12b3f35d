package ipickuprepo

import (
	"context"

	"github.com/corray333/storefront/internal/service/models/pickuppoint"
)

// IPickupPointRepository stores pickup point reference data.
type IPickupPointRepository interface {
	Insert(ctx context.Context, p pickuppoint.PickupPoint) (*pickuppoint.PickupPoint, error)
	Update(ctx context.Context, p pickuppoint.PickupPoint) (*pickuppoint.PickupPoint, error)
	SetActive(ctx context.Context, id int64, active bool) error
	ListActive(ctx context.Context) ([]pickuppoint.PickupPoint, error)
	List(ctx context.Context) ([]pickuppoint.PickupPoint, error)
}
