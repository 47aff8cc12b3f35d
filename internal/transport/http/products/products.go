package products

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corray333/storefront/internal/service/models/product"
	"github.com/corray333/storefront/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

// service is an interface for the service layer.
type service interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
	GetProduct(ctx context.Context, id string) (*product.Product, error)
}

// List handles the catalog listing request.
func List(w http.ResponseWriter, r *http.Request, service service) {
	items, err := service.ListProducts(r.Context())
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error listing products", "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, items)
}

// Get handles the single product request.
func Get(w http.ResponseWriter, r *http.Request, service service) {
	productID := chi.URLParam(r, "productID")

	item, err := service.GetProduct(r.Context(), productID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error getting product", "product_id", productID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, item)
}
