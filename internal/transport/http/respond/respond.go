package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corray333/storefront/internal/gateway/tbank"
	"github.com/corray333/storefront/internal/integration/moysklad"
	"github.com/corray333/storefront/internal/service/models/order"
	"github.com/corray333/storefront/internal/service/models/pickuppoint"
	"github.com/corray333/storefront/internal/service/models/product"
)

type errorResponse struct {
	Error string `json:"error"`
}

// JSON writes a JSON response body.
func JSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("Error writing response", "error", err)
	}
}

// Error maps service errors to HTTP status codes and writes a JSON error body.
func Error(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, product.ErrNotFound),
		errors.Is(err, pickuppoint.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, order.ErrDuplicateOrder),
		errors.Is(err, order.ErrConflict),
		errors.Is(err, order.ErrInvalidState),
		errors.Is(err, order.ErrInvalidTransition):
		status = http.StatusConflict
	case errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidDraft),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, tbank.ErrMalformedPayload),
		errors.Is(err, tbank.ErrUnknownOutcome):
		status = http.StatusBadRequest
	case errors.Is(err, tbank.ErrInvalidSignature):
		status = http.StatusForbidden
	case errors.Is(err, tbank.ErrGatewayUnavailable),
		errors.Is(err, tbank.ErrGatewayRejected),
		errors.Is(err, moysklad.ErrUnavailable):
		status = http.StatusBadGateway
	}

	JSON(w, status, errorResponse{Error: err.Error()})
}
