package httptransport

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"os"

	"github.com/corray333/storefront/internal/service/models/order"
	"github.com/corray333/storefront/internal/service/models/pickuppoint"
	"github.com/corray333/storefront/internal/service/models/product"
	"github.com/corray333/storefront/internal/service/services/ordersvc"
	"github.com/corray333/storefront/internal/transport/http/checkout"
	"github.com/corray333/storefront/internal/transport/http/orders"
	"github.com/corray333/storefront/internal/transport/http/payment"
	"github.com/corray333/storefront/internal/transport/http/pickup"
	"github.com/corray333/storefront/internal/transport/http/products"
	"github.com/corray333/storefront/pkg/http/middleware/trace"
	"github.com/corray333/storefront/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spf13/viper"
)

type orderService interface {
	BeginCheckout(ctx context.Context, draft ordersvc.CheckoutDraft) (*order.Order, error)
	StartPayment(ctx context.Context, orderID string) (string, error)
	HandleNotification(ctx context.Context, payload []byte) error
	Cancel(ctx context.Context, orderID, actor string) (*order.Order, error)
	AdvanceFulfillment(ctx context.Context, orderID string, target order.Status, actor string) (*order.Order, error)
	GetOrder(ctx context.Context, orderID string) (*order.Order, error)
	ListOrdersByOwner(ctx context.Context, ownerID string) ([]order.Order, error)
}

type catalogService interface {
	ListProducts(ctx context.Context) ([]product.Product, error)
	GetProduct(ctx context.Context, id string) (*product.Product, error)
}

type pickupService interface {
	ListActive(ctx context.Context) ([]pickuppoint.PickupPoint, error)
	ListAll(ctx context.Context) ([]pickuppoint.PickupPoint, error)
	Create(ctx context.Context, p pickuppoint.PickupPoint) (*pickuppoint.PickupPoint, error)
	Update(ctx context.Context, p pickuppoint.PickupPoint) (*pickuppoint.PickupPoint, error)
	Deactivate(ctx context.Context, id int64) error
}

type HTTPTransport struct {
	server     *http.Server
	router     *chi.Mux
	orderSvc   orderService
	catalogSvc catalogService
	pickupSvc  pickupService
}

func NewHTTPTransport(orderSvc orderService, catalogSvc catalogService, pickupSvc pickupService) *HTTPTransport {
	router := newRouter()
	server := newServer(router)

	return &HTTPTransport{
		server:     server,
		router:     router,
		orderSvc:   orderSvc,
		catalogSvc: catalogSvc,
		pickupSvc:  pickupSvc,
	}
}

func (h *HTTPTransport) Run() error {
	return h.server.ListenAndServe()
}

func (h *HTTPTransport) Shutdown(ctx context.Context) error {
	return h.server.Shutdown(ctx)
}

// RegisterRoutes registers the routes for the HTTPTransport.
func (h *HTTPTransport) RegisterRoutes() {
	h.router.Route("/api", func(r chi.Router) {
		r.Post("/checkout", h.checkout)
		r.Get("/orders/{orderID}", h.getOrder)
		r.Get("/orders/user/{ownerID}", h.listOrdersByOwner)
		r.Post("/orders/{orderID}/pay", h.startPayment)
		r.Post("/payments/notify", h.handleNotification)

		r.Get("/products", h.listProducts)
		r.Get("/products/{productID}", h.getProduct)
		r.Get("/pickup-points", h.listPickupPoints)

		r.Route("/admin", func(r chi.Router) {
			r.Use(adminOnly)
			r.Post("/orders/{orderID}/cancel", h.cancelOrder)
			r.Post("/orders/{orderID}/advance", h.advanceOrder)
			r.Get("/pickup-points", h.listAllPickupPoints)
			r.Post("/pickup-points", h.createPickupPoint)
			r.Put("/pickup-points/{pointID}", h.updatePickupPoint)
			r.Delete("/pickup-points/{pointID}", h.deactivatePickupPoint)
		})
	})
}

func (h *HTTPTransport) checkout(w http.ResponseWriter, r *http.Request) {
	checkout.Checkout(w, r, h.orderSvc)
}

func (h *HTTPTransport) getOrder(w http.ResponseWriter, r *http.Request) {
	orders.GetOrder(w, r, h.orderSvc)
}

func (h *HTTPTransport) listOrdersByOwner(w http.ResponseWriter, r *http.Request) {
	orders.ListByOwner(w, r, h.orderSvc)
}

func (h *HTTPTransport) startPayment(w http.ResponseWriter, r *http.Request) {
	payment.StartPayment(w, r, h.orderSvc)
}

func (h *HTTPTransport) handleNotification(w http.ResponseWriter, r *http.Request) {
	payment.HandleNotification(w, r, h.orderSvc)
}

func (h *HTTPTransport) cancelOrder(w http.ResponseWriter, r *http.Request) {
	orders.Cancel(w, r, h.orderSvc)
}

func (h *HTTPTransport) advanceOrder(w http.ResponseWriter, r *http.Request) {
	orders.Advance(w, r, h.orderSvc)
}

func (h *HTTPTransport) listProducts(w http.ResponseWriter, r *http.Request) {
	products.List(w, r, h.catalogSvc)
}

func (h *HTTPTransport) getProduct(w http.ResponseWriter, r *http.Request) {
	products.Get(w, r, h.catalogSvc)
}

func (h *HTTPTransport) listPickupPoints(w http.ResponseWriter, r *http.Request) {
	pickup.ListActive(w, r, h.pickupSvc)
}

func (h *HTTPTransport) listAllPickupPoints(w http.ResponseWriter, r *http.Request) {
	pickup.ListAll(w, r, h.pickupSvc)
}

func (h *HTTPTransport) createPickupPoint(w http.ResponseWriter, r *http.Request) {
	pickup.Create(w, r, h.pickupSvc)
}

func (h *HTTPTransport) updatePickupPoint(w http.ResponseWriter, r *http.Request) {
	pickup.Update(w, r, h.pickupSvc)
}

func (h *HTTPTransport) deactivatePickupPoint(w http.ResponseWriter, r *http.Request) {
	pickup.Deactivate(w, r, h.pickupSvc)
}

// adminOnly guards admin routes with a server-held token.
func adminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := os.Getenv("ADMIN_TOKEN")
		got := r.Header.Get("X-Admin-Token")
		if token == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			http.Error(w, "forbidden", http.StatusForbidden)

			return
		}

		next.ServeHTTP(w, r)
	})
}

func newRouter() *chi.Mux {
	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(trace.NewTraceMiddleware)
	router.Use(logger.NewLoggerMiddleware(slog.Default()))

	allowedOrigins := viper.GetStringSlice("server.http.cors.allowed_origins")
	allowedMethods := viper.GetStringSlice("server.http.cors.allowed_methods")
	allowedHeaders := viper.GetStringSlice("server.http.cors.allowed_headers")
	exposedHeaders := viper.GetStringSlice("server.http.cors.exposed_headers")
	allowCredentials := viper.GetBool("server.http.cors.allow_credentials")
	maxAge := viper.GetInt("server.http.cors.max_age")

	c := cors.New(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   allowedMethods,
		AllowedHeaders:   allowedHeaders,
		ExposedHeaders:   exposedHeaders,
		AllowCredentials: allowCredentials,
		MaxAge:           maxAge,
	})

	router.Use(c.Handler)

	return router
}

func newServer(router http.Handler) *http.Server {
	return &http.Server{
		Addr:    "0.0.0.0:" + viper.GetString("server.http.port"),
		Handler: router,
	}
}
