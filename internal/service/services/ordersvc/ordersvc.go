package ordersvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/corray333/storefront/internal/dal/interfaces/iorderitemrepo"
	"github.com/corray333/storefront/internal/dal/interfaces/iorderrepo"
	"github.com/corray333/storefront/internal/dal/interfaces/ioutboxrepo"
	"github.com/corray333/storefront/internal/dal/interfaces/iproductrepo"
	"github.com/corray333/storefront/internal/dal/postgres"
	"github.com/corray333/storefront/internal/dal/uow"
	"github.com/corray333/storefront/internal/gateway/tbank"
	"github.com/corray333/storefront/internal/service/models/order"
	"github.com/corray333/storefront/internal/service/models/orderitem"
	"github.com/corray333/storefront/internal/service/models/outbox"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// StatusQueueName is the queue order status events are published to via the
// default exchange.
const StatusQueueName = "storefront.order.status"

// OrderService coordinates the order lifecycle: checkout, payment initiation,
// provider notifications and fulfillment. All status writes go through the
// order repository's conditional update, so concurrent callers are resolved by
// optimistic-concurrency rejection, never by last-write-wins.
type OrderService struct {
	pgClient    *postgres.Client
	gateway     paymentGateway
	productRepo iproductrepo.IProductRepository
	uowFactory  func() unitOfWork
}

type unitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	OrderRepository() iorderrepo.IOrderRepository
	OrderItemRepository() iorderitemrepo.IOrderItemRepository
	OutboxRepository() ioutboxrepo.IOutboxRepository
}

type paymentGateway interface {
	Init(ctx context.Context, ord *order.Order) (*tbank.PaymentSession, error)
	VerifyNotification(payload []byte) (*tbank.Notification, error)
}

func (s *OrderService) newUOW() unitOfWork {
	if s.uowFactory != nil {
		return s.uowFactory()
	}

	return uow.NewUnitOfWork(s.pgClient)
}

// option is a function that configures the OrderService.
type option func(*OrderService)

// MustNewOrderService creates a new OrderService.
func MustNewOrderService(opts ...option) *OrderService {
	s := &OrderService{}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// WithPostgresClient sets the Postgres client for the OrderService.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPostgresClient(pgClient *postgres.Client) option {
	return func(s *OrderService) {
		s.pgClient = pgClient
	}
}

// WithPaymentGateway sets the payment gateway adapter.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithPaymentGateway(gateway paymentGateway) option {
	return func(s *OrderService) {
		s.gateway = gateway
	}
}

// WithProductRepository sets the catalog cache used for price snapshots.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithProductRepository(repo iproductrepo.IProductRepository) option {
	return func(s *OrderService) {
		s.productRepo = repo
	}
}

// WithUnitOfWorkFactory overrides transaction construction.
//
//goland:noinspection GoExportedFuncWithUnexportedType
func WithUnitOfWorkFactory(factory func() unitOfWork) option {
	return func(s *OrderService) {
		s.uowFactory = factory
	}
}

// CheckoutItem is a product reference in a checkout request. Prices are never
// taken from the client: the snapshot is resolved from the catalog cache.
type CheckoutItem struct {
	ProductID string
	Quantity  int
}

// CheckoutDraft is everything a checkout request carries.
type CheckoutDraft struct {
	OrderID  string
	Customer order.Customer
	OwnerID  string
	Items    []CheckoutItem
}

// BeginCheckout validates the draft, snapshots catalog prices into line items
// and creates the order in pending status. Order id, total and items are
// immutable from here on.
func (s *OrderService) BeginCheckout(ctx context.Context, draft CheckoutDraft) (*order.Order, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}

	orderID := draft.OrderID
	if orderID == "" {
		orderID = uuid.NewString()
	}

	now := time.Now()

	items := make([]orderitem.OrderItem, 0, len(draft.Items))
	var total int64
	for _, item := range draft.Items {
		p, err := s.productRepo.Get(ctx, item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve product %s: %w", item.ProductID, err)
		}

		items = append(items, orderitem.OrderItem{
			OrderID:          orderID,
			ProductID:        p.ID,
			ProductName:      p.Name,
			UnitPriceKopecks: p.PriceKopecks,
			Quantity:         item.Quantity,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
		total += p.PriceKopecks * int64(item.Quantity)
	}

	ord := order.Order{
		ID:                orderID,
		Customer:          draft.Customer,
		TotalPriceKopecks: total,
		Status:            order.StatusPending,
		OwnerID:           draft.OwnerID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer work.Rollback(ctx) //nolint:errcheck // no-op after commit

	created, err := work.OrderRepository().Insert(ctx, ord)
	if err != nil {
		return nil, err
	}

	insertedItems, err := work.OrderItemRepository().BulkInsert(ctx, items)
	if err != nil {
		return nil, err
	}
	created.OrderItems = insertedItems

	if err := work.OutboxRepository().Insert(ctx, newStatusEvent(created, "", created.Status, "checkout")); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

// StartPayment opens a payment session for a pending order and moves it to
// awaiting_payment. The conditional update guards against double initiation:
// of two concurrent callers exactly one wins, the other observes a conflict.
// A gateway failure leaves the order in pending so the caller may retry.
func (s *OrderService) StartPayment(ctx context.Context, orderID string) (string, error) {
	work := s.newUOW()

	ord, err := work.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return "", err
	}
	if ord.Status != order.StatusPending {
		return "", fmt.Errorf("%w: status %s", order.ErrInvalidState, ord.Status)
	}

	session, err := s.gateway.Init(ctx, ord)
	if err != nil {
		return "", fmt.Errorf("failed to initiate payment for order %s: %w", orderID, err)
	}

	if _, err := s.transition(ctx, ord, order.StatusAwaitingPayment, &session.PaymentReference, "payment"); err != nil {
		return "", err
	}

	return session.RedirectURL, nil
}

// HandleNotification verifies and applies a provider callback. Replays against
// a terminal order are acknowledged without mutation so provider retries stop.
// A concurrent transition is retried once with a fresh read before the
// conflict is surfaced; the provider will redeliver.
func (s *OrderService) HandleNotification(ctx context.Context, payload []byte) error {
	notification, err := s.gateway.VerifyNotification(payload)
	if err != nil {
		return err
	}

	target, err := outcomeStatus(notification.Outcome)
	if err != nil {
		return err
	}

	work := s.newUOW()

	for attempt := 0; ; attempt++ {
		ord, err := work.OrderRepository().Get(ctx, notification.OrderID)
		if err != nil {
			return err
		}

		if ord.Status.IsTerminal() || ord.Status == target {
			slog.Info("Notification replay ignored",
				"order_id", ord.ID,
				"status", ord.Status,
				"outcome", notification.Outcome,
			)

			return nil
		}

		if !ord.Status.CanTransitionTo(target) {
			return fmt.Errorf("%w: %s -> %s", order.ErrInvalidTransition, ord.Status, target)
		}

		var paymentRef *string
		if notification.PaymentID != "" {
			paymentRef = &notification.PaymentID
		}

		_, err = s.transition(ctx, ord, target, paymentRef, "notification")
		if err == nil {
			return nil
		}
		if !errors.Is(err, order.ErrConflict) || attempt > 0 {
			return err
		}
	}
}

// Cancel moves any non-terminal order to canceled.
func (s *OrderService) Cancel(ctx context.Context, orderID, actor string) (*order.Order, error) {
	work := s.newUOW()

	ord, err := work.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if ord.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: status %s", order.ErrInvalidState, ord.Status)
	}

	return s.transition(ctx, ord, order.StatusCanceled, nil, actor)
}

// AdvanceFulfillment applies an admin fulfillment transition, rejecting
// targets that are not legal successors of the current status.
func (s *OrderService) AdvanceFulfillment(
	ctx context.Context,
	orderID string,
	target order.Status,
	actor string,
) (*order.Order, error) {
	work := s.newUOW()

	ord, err := work.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !ord.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", order.ErrInvalidTransition, ord.Status, target)
	}

	return s.transition(ctx, ord, target, nil, actor)
}

// GetOrder retrieves an order with its line items.
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*order.Order, error) {
	work := s.newUOW()

	ord, err := work.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	items, err := work.OrderItemRepository().QueryByOrderIDs(ctx, []string{ord.ID})
	if err != nil {
		return nil, err
	}
	ord.OrderItems = items

	return ord, nil
}

// ListOrdersByOwner retrieves the owner's orders, newest first, with items.
func (s *OrderService) ListOrdersByOwner(ctx context.Context, ownerID string) ([]order.Order, error) {
	work := s.newUOW()

	orders, err := work.OrderRepository().ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if len(orders) == 0 {
		return []order.Order{}, nil
	}

	orderIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.ID)
	}

	items, err := work.OrderItemRepository().QueryByOrderIDs(ctx, orderIDs)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		for _, item := range items {
			if item.OrderID == orders[i].ID {
				orders[i].OrderItems = append(orders[i].OrderItems, item)
			}
		}
	}

	return orders, nil
}

// transition applies a single conditional status update together with its
// outbox event in one transaction.
func (s *OrderService) transition(
	ctx context.Context,
	ord *order.Order,
	target order.Status,
	paymentReference *string,
	actor string,
) (*order.Order, error) {
	work := s.newUOW()
	if err := work.Begin(ctx); err != nil {
		return nil, err
	}
	defer work.Rollback(ctx) //nolint:errcheck // no-op after commit

	updated, err := work.OrderRepository().SetStatus(ctx, ord.ID, target, ord.Status, paymentReference)
	if err != nil {
		return nil, err
	}

	if err := work.OutboxRepository().Insert(ctx, newStatusEvent(updated, ord.Status, target, actor)); err != nil {
		return nil, err
	}

	if err := work.Commit(ctx); err != nil {
		return nil, err
	}

	slog.Info("Order status changed",
		"order_id", ord.ID,
		"from", ord.Status,
		"to", target,
		"actor", actor,
	)

	return updated, nil
}

// outcomeStatus maps a verified payment outcome to the target order status.
func outcomeStatus(outcome tbank.Outcome) (order.Status, error) {
	switch outcome {
	case tbank.OutcomeAuthorized, tbank.OutcomeConfirmed:
		return order.StatusPaid, nil
	case tbank.OutcomeRejected:
		return order.StatusRejected, nil
	case tbank.OutcomeCanceled:
		return order.StatusCanceled, nil
	case tbank.OutcomeRefunded:
		return order.StatusRefunded, nil
	default:
		return "", tbank.ErrUnknownOutcome
	}
}

type statusEvent struct {
	EventID    string       `json:"eventId"`
	OrderID    string       `json:"orderId"`
	From       order.Status `json:"from,omitempty"`
	To         order.Status `json:"to"`
	Actor      string       `json:"actor"`
	OccurredAt time.Time    `json:"occurredAt"`
}

func newStatusEvent(ord *order.Order, from, to order.Status, actor string) outbox.OutboxMessage {
	now := time.Now()

	payload, _ := json.Marshal(statusEvent{
		EventID:    uuid.NewString(),
		OrderID:    ord.ID,
		From:       from,
		To:         to,
		Actor:      actor,
		OccurredAt: now,
	})

	maxRetries := viper.GetInt("rabbitmq.outbox.max_retries")
	if maxRetries == 0 {
		maxRetries = 5
	}

	return outbox.OutboxMessage{
		QueueName:   StatusQueueName,
		RoutingKey:  StatusQueueName,
		Payload:     payload,
		ContentType: "application/json",
		MaxRetries:  maxRetries,
		CreatedAt:   now,
		UpdatedAt:   now,
		NextRetryAt: now,
	}
}

func validateDraft(draft CheckoutDraft) error {
	if len(draft.Items) == 0 {
		return order.ErrEmptyCart
	}
	for _, item := range draft.Items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: quantity must be at least 1", order.ErrInvalidDraft)
		}
		if item.ProductID == "" {
			return fmt.Errorf("%w: product id is required", order.ErrInvalidDraft)
		}
	}

	customer := draft.Customer
	for field, value := range map[string]string{
		"name":    customer.Name,
		"phone":   customer.Phone,
		"email":   customer.Email,
		"address": customer.Address,
	} {
		if strings.TrimSpace(value) == "" {
			return fmt.Errorf("%w: customer %s is required", order.ErrInvalidDraft, field)
		}
	}

	return nil
}
