package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/corray333/storefront/internal/dal/postgres"
	"github.com/corray333/storefront/internal/dal/rabbitmq"
	outboxrepo "github.com/corray333/storefront/internal/dal/repositories/outbox/postgres"
	pickuprepo "github.com/corray333/storefront/internal/dal/repositories/pickup/postgres"
	productrepo "github.com/corray333/storefront/internal/dal/repositories/product/postgres"
	"github.com/corray333/storefront/internal/gateway/tbank"
	"github.com/corray333/storefront/internal/integration/moysklad"
	"github.com/corray333/storefront/internal/otel"
	"github.com/corray333/storefront/internal/service/services/catalogsvc"
	"github.com/corray333/storefront/internal/service/services/ordersvc"
	"github.com/corray333/storefront/internal/service/services/pickupsvc"
	httptransport "github.com/corray333/storefront/internal/transport/http"
	outboxworker "github.com/corray333/storefront/internal/worker/outbox"
)

// App represents the application.
type App struct {
	orderSvc       *ordersvc.OrderService
	catalogSvc     *catalogsvc.CatalogService
	pickupSvc      *pickupsvc.PickupService
	transport      *httptransport.HTTPTransport
	postgresClient *postgres.Client
	rabbitClient   *rabbitmq.Client
	otelController *otel.OtelController
	outboxWorker   *outboxworker.Worker
	workerCancel   context.CancelFunc
}

// MustNewApp creates a new application.
func MustNewApp() *App {
	otelController := otel.MustInitOtel()

	postgresClient := postgres.MustNewClient()
	rabbitClient := rabbitmq.MustNewClient()

	if _, err := rabbitClient.DeclareQueue(rabbitmq.DeclareQueueConfig{
		Name:    ordersvc.StatusQueueName,
		Durable: true,
	}); err != nil {
		panic(err)
	}

	productRepo := productrepo.NewPostgresProductRepository(postgresClient.Pool())
	pickupRepo := pickuprepo.NewPostgresPickupPointRepository(postgresClient.Pool())
	outboxRepo := outboxrepo.NewOutboxRepository(postgresClient.Pool())

	gateway := tbank.MustNewClient()
	inventory := moysklad.MustNewClient()

	orderSvc := ordersvc.MustNewOrderService(
		ordersvc.WithPostgresClient(postgresClient),
		ordersvc.WithPaymentGateway(gateway),
		ordersvc.WithProductRepository(productRepo),
	)

	catalogSvc := catalogsvc.MustNewCatalogService(
		catalogsvc.WithProductRepository(productRepo),
		catalogsvc.WithInventoryClient(inventory),
	)

	pickupSvc := pickupsvc.NewPickupService(pickupRepo)

	transport := httptransport.NewHTTPTransport(orderSvc, catalogSvc, pickupSvc)
	transport.RegisterRoutes()

	worker := outboxworker.NewWorker(outboxRepo, rabbitClient)

	return &App{
		orderSvc:       orderSvc,
		catalogSvc:     catalogSvc,
		pickupSvc:      pickupSvc,
		transport:      transport,
		postgresClient: postgresClient,
		rabbitClient:   rabbitClient,
		otelController: otelController,
		outboxWorker:   worker,
	}
}

// Run starts the application.
// Tracks interrupt signal to gracefully shut down the application.
func (a *App) Run() {
	// Create a channel to receive OS signals
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	workerCtx, cancel := context.WithCancel(context.Background())
	a.workerCancel = cancel
	go a.outboxWorker.Start(workerCtx)

	go func() {
		slog.Info("Starting HTTP server")
		if err := a.transport.Run(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	<-stop
	slog.Info("Shutdown signal received")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := a.transport.Shutdown(ctx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped gracefully")
	}

	a.workerCancel()

	if err := a.rabbitClient.Close(); err != nil {
		slog.Error("RabbitMQ connection close error", "error", err)
	} else {
		slog.Info("RabbitMQ connection closed gracefully")
	}

	if err := a.postgresClient.Close(); err != nil {
		slog.Error("Database connection close error", "error", err)
	} else {
		slog.Info("Database connection closed gracefully")
	}

	if err := a.otelController.Shutdown(); err != nil {
		slog.Error("Tracer provider shutdown error", "error", err)
	}

	slog.Info("Application shutdown complete")
}
