package orders

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/corray333/storefront/internal/service/models/order"
	"github.com/corray333/storefront/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	ListOrdersByOwner(ctx context.Context, ownerID string) ([]order.Order, error)
	Cancel(ctx context.Context, orderID, actor string) (*order.Order, error)
	AdvanceFulfillment(ctx context.Context, orderID string, target order.Status, actor string) (*order.Order, error)
}

// GetOrder handles the single order view request.
func GetOrder(w http.ResponseWriter, r *http.Request, service service) {
	orderID := chi.URLParam(r, "orderID")

	ord, err := service.GetOrder(r.Context(), orderID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting order", "order_id", orderID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, ord)
}

// ListByOwner handles the order history request.
func ListByOwner(w http.ResponseWriter, r *http.Request, service service) {
	ownerID := chi.URLParam(r, "ownerID")

	orders, err := service.ListOrdersByOwner(r.Context(), ownerID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing orders", "owner_id", ownerID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, orders)
}

type actorRequest struct {
	Actor string `json:"actor"`
}

// Cancel handles the admin cancel request.
func Cancel(w http.ResponseWriter, r *http.Request, service service) {
	orderID := chi.URLParam(r, "orderID")

	var req actorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}
	if req.Actor == "" {
		req.Actor = "admin"
	}

	ord, err := service.Cancel(r.Context(), orderID, req.Actor)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error canceling order", "order_id", orderID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, ord)
}

type advanceRequest struct {
	Target string `json:"target"`
	Actor  string `json:"actor"`
}

// Advance handles the admin fulfillment transition request.
func Advance(w http.ResponseWriter, r *http.Request, service service) {
	orderID := chi.URLParam(r, "orderID")

	var req advanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return
	}
	if req.Actor == "" {
		req.Actor = "admin"
	}

	target, err := order.ParseStatus(req.Target)
	if err != nil {
		respond.Error(w, err)

		return
	}

	ord, err := service.AdvanceFulfillment(r.Context(), orderID, target, req.Actor)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error advancing order", "order_id", orderID, "target", req.Target, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, ord)
}
