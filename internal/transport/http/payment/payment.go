package payment

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/corray333/storefront/internal/transport/http/respond"
	"github.com/go-chi/chi/v5"
)

// maxNotificationSize bounds provider callback bodies.
const maxNotificationSize = 1 << 20

// service is an interface for the service layer.
type service interface {
	StartPayment(ctx context.Context, orderID string) (string, error)
	HandleNotification(ctx context.Context, payload []byte) error
}

type startPaymentResponse struct {
	RedirectURL string `json:"redirectUrl"`
}

// StartPayment handles the payment initiation request.
func StartPayment(w http.ResponseWriter, r *http.Request, service service) {
	orderID := chi.URLParam(r, "orderID")

	redirectURL, err := service.StartPayment(r.Context(), orderID)
	if err != nil {
		respond.Error(w, err)
		slog.Error("Error starting payment", "order_id", orderID, "error", err)

		return
	}

	respond.JSON(w, http.StatusOK, startPaymentResponse{RedirectURL: redirectURL})
}

// HandleNotification handles the asynchronous provider callback. The provider
// expects a plain "OK" body to stop retrying; anything else is redelivered.
func HandleNotification(w http.ResponseWriter, r *http.Request, service service) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxNotificationSize))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		slog.Error("Error reading notification body", "error", err)

		return
	}

	if err := service.HandleNotification(r.Context(), payload); err != nil {
		respond.Error(w, err)
		slog.Error("Error handling payment notification", "error", err)

		return
	}

	w.Header().Set("Content-Type", "text/plain")
	if _, err := w.Write([]byte("OK")); err != nil {
		slog.Error("Error writing notification response", "error", err)
	}
}
