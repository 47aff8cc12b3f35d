package pickup

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/corray333/storefront/internal/service/models/pickuppoint"
	"github.com/corray333/storefront/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// service is an interface for the service layer.
type service interface {
	ListActive(ctx context.Context) ([]pickuppoint.PickupPoint, error)
	ListAll(ctx context.Context) ([]pickuppoint.PickupPoint, error)
	Create(ctx context.Context, p pickuppoint.PickupPoint) (*pickuppoint.PickupPoint, error)
	Update(ctx context.Context, p pickuppoint.PickupPoint) (*pickuppoint.PickupPoint, error)
	Deactivate(ctx context.Context, id int64) error
}

// pickupPointRequest represents a create/update pickup point request.
type pickupPointRequest struct {
	Name      string  `json:"name"      validate:"required"`
	Address   string  `json:"address"   validate:"required"`
	Latitude  float64 `json:"latitude"  validate:"required"`
	Longitude float64 `json:"longitude" validate:"required"`
	StoreID   string  `json:"storeId"`
	Active    *bool   `json:"active"`
}

// Validate validates the pickup point request.
func (r *pickupPointRequest) Validate() error {
	return validator.New().Struct(r)
}

// toModel converts pickupPointRequest to a pickuppoint.PickupPoint.
func (r *pickupPointRequest) toModel() pickuppoint.PickupPoint {
	p := pickuppoint.PickupPoint{
		Name:      r.Name,
		Address:   r.Address,
		Latitude:  r.Latitude,
		Longitude: r.Longitude,
		StoreID:   r.StoreID,
		Active:    true,
	}
	if r.Active != nil {
		p.Active = *r.Active
	}

	return p
}

// ListActive handles the storefront map request.
func ListActive(w http.ResponseWriter, r *http.Request, service service) {
	points, err := service.ListActive(r.Context())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing pickup points", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, points)
}

// ListAll handles the admin listing request.
func ListAll(w http.ResponseWriter, r *http.Request, service service) {
	points, err := service.ListAll(r.Context())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing pickup points", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, points)
}

// Create handles the admin create request.
func Create(w http.ResponseWriter, r *http.Request, service service) {
	req := pickupPointRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	created, err := service.Create(r.Context(), req.toModel())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error creating pickup point", "error", err)

		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

// Update handles the admin update request.
func Update(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "pointID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid pickup point id", http.StatusBadRequest)

		return
	}

	req := pickupPointRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	if err := req.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}

	point := req.toModel()
	point.ID = id

	updated, err := service.Update(r.Context(), point)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error updating pickup point", "point_id", id, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, updated)
}

// Deactivate handles the admin deactivation request.
func Deactivate(w http.ResponseWriter, r *http.Request, service service) {
	id, err := strconv.ParseInt(chi.URLParam(r, "pointID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid pickup point id", http.StatusBadRequest)

		return
	}

	if err := service.Deactivate(r.Context(), id); err != nil {
		respond.Error(w, err)
		slog.Error("Error deactivating pickup point", "point_id", id, "error", err)

		return
	}

	w.WriteHeader(http.StatusNoContent)
}
