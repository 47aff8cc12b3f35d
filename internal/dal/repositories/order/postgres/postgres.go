package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/storefront/internal/dal/postgres"
	"github.com/corray333/storefront/internal/service/models/order"
	"github.com/corray333/storefront/internal/service/models/orderitem"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolationCode = "23505"

var orderColumns = []string{
	"id",
	"customer_name",
	"customer_phone",
	"customer_email",
	"delivery_address",
	"latitude",
	"longitude",
	"total_price_kopecks",
	"status",
	"payment_reference",
	"owner_id",
	"created_at",
	"updated_at",
}

// OrderDal represents order data access layer model
type OrderDal struct {
	Id                string    `db:"id"`
	CustomerName      string    `db:"customer_name"`
	CustomerPhone     string    `db:"customer_phone"`
	CustomerEmail     string    `db:"customer_email"`
	DeliveryAddress   string    `db:"delivery_address"`
	Latitude          *float64  `db:"latitude"`
	Longitude         *float64  `db:"longitude"`
	TotalPriceKopecks int64     `db:"total_price_kopecks"`
	Status            string    `db:"status"`
	PaymentReference  *string   `db:"payment_reference"`
	OwnerId           *string   `db:"owner_id"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// ToModel converts OrderDal to service layer Order model
func (o *OrderDal) ToModel() (*order.Order, error) {
	status, err := order.ParseStatus(o.Status)
	if err != nil {
		return nil, err
	}

	model := &order.Order{
		ID: o.Id,
		Customer: order.Customer{
			Name:      o.CustomerName,
			Phone:     o.CustomerPhone,
			Email:     o.CustomerEmail,
			Address:   o.DeliveryAddress,
			Latitude:  o.Latitude,
			Longitude: o.Longitude,
		},
		TotalPriceKopecks: o.TotalPriceKopecks,
		Status:            status,
		CreatedAt:         o.CreatedAt,
		UpdatedAt:         o.UpdatedAt,
		OrderItems:        []orderitem.OrderItem{}, // Will be populated separately
	}
	if o.PaymentReference != nil {
		model.PaymentReference = *o.PaymentReference
	}
	if o.OwnerId != nil {
		model.OwnerID = *o.OwnerId
	}

	return model, nil
}

type PostgresOrderRepository struct {
	conn postgres.Querier
}

func NewPostgresOrderRepository(conn postgres.Querier) *PostgresOrderRepository {
	return &PostgresOrderRepository{
		conn: conn,
	}
}

func (r *PostgresOrderRepository) scanOrder(row pgx.Row) (*order.Order, error) {
	var dal OrderDal
	err := row.Scan(
		&dal.Id,
		&dal.CustomerName,
		&dal.CustomerPhone,
		&dal.CustomerEmail,
		&dal.DeliveryAddress,
		&dal.Latitude,
		&dal.Longitude,
		&dal.TotalPriceKopecks,
		&dal.Status,
		&dal.PaymentReference,
		&dal.OwnerId,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel()
}

// Insert creates an order row in its initial status.
func (r *PostgresOrderRepository) Insert(ctx context.Context, o order.Order) (*order.Order, error) {
	var ownerID *string
	if o.OwnerID != "" {
		ownerID = &o.OwnerID
	}

	query, args, err := sq.Insert("orders").
		Columns(
			"id",
			"customer_name",
			"customer_phone",
			"customer_email",
			"delivery_address",
			"latitude",
			"longitude",
			"total_price_kopecks",
			"status",
			"owner_id",
			"created_at",
			"updated_at",
		).
		Values(
			o.ID,
			o.Customer.Name,
			o.Customer.Phone,
			o.Customer.Email,
			o.Customer.Address,
			o.Customer.Latitude,
			o.Customer.Longitude,
			o.TotalPriceKopecks,
			o.Status.String(),
			ownerID,
			o.CreatedAt,
			o.UpdatedAt,
		).
		Suffix("RETURNING " + joinColumns()).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := r.scanOrder(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, order.ErrDuplicateOrder
		}

		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	return inserted, nil
}

// Get retrieves a single order by id.
func (r *PostgresOrderRepository) Get(ctx context.Context, id string) (*order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	found, err := r.scanOrder(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, order.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	return found, nil
}

// SetStatus performs the conditional status update. With a non-empty expected
// status the write is a single compare-and-swap on the row; a concurrent
// transition makes it match zero rows, reported as order.ErrConflict.
func (r *PostgresOrderRepository) SetStatus(
	ctx context.Context,
	id string,
	newStatus, expected order.Status,
	paymentReference *string,
) (*order.Order, error) {
	builder := sq.Update("orders").
		Set("status", newStatus.String()).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns())

	if paymentReference != nil {
		builder = builder.Set("payment_reference", *paymentReference)
	}
	if expected != "" {
		builder = builder.Where(sq.Eq{"status": expected.String()})
	}

	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := r.scanOrder(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			if _, getErr := r.Get(ctx, id); getErr != nil {
				return nil, getErr
			}

			return nil, order.ErrConflict
		}

		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	return updated, nil
}

// ListByOwner retrieves all orders that belong to the owner, newest first.
func (r *PostgresOrderRepository) ListByOwner(ctx context.Context, ownerID string) ([]order.Order, error) {
	query, args, err := sq.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"owner_id": ownerID}).
		OrderBy("created_at DESC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var result []order.Order
	for rows.Next() {
		model, err := r.scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

func joinColumns() string {
	return strings.Join(orderColumns, ", ")
}
