package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/storefront/internal/dal/postgres"
	"github.com/corray333/storefront/internal/service/models/pickuppoint"
	"github.com/jackc/pgx/v5"
)

var pickupPointColumns = []string{
	"id",
	"name",
	"address",
	"latitude",
	"longitude",
	"store_id",
	"active",
	"created_at",
	"updated_at",
}

// PickupPointDal represents pickup point data access layer model
type PickupPointDal struct {
	Id        int64     `db:"id"`
	Name      string    `db:"name"`
	Address   string    `db:"address"`
	Latitude  float64   `db:"latitude"`
	Longitude float64   `db:"longitude"`
	StoreId   *string   `db:"store_id"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// ToModel converts PickupPointDal to service layer PickupPoint model
func (p *PickupPointDal) ToModel() *pickuppoint.PickupPoint {
	model := &pickuppoint.PickupPoint{
		ID:        p.Id,
		Name:      p.Name,
		Address:   p.Address,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	if p.StoreId != nil {
		model.StoreID = *p.StoreId
	}

	return model
}

type PostgresPickupPointRepository struct {
	conn postgres.Querier
}

func NewPostgresPickupPointRepository(conn postgres.Querier) *PostgresPickupPointRepository {
	return &PostgresPickupPointRepository{
		conn: conn,
	}
}

func (r *PostgresPickupPointRepository) scanPoint(row pgx.Row) (*pickuppoint.PickupPoint, error) {
	var dal PickupPointDal
	err := row.Scan(
		&dal.Id,
		&dal.Name,
		&dal.Address,
		&dal.Latitude,
		&dal.Longitude,
		&dal.StoreId,
		&dal.Active,
		&dal.CreatedAt,
		&dal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return dal.ToModel(), nil
}

// Insert creates a pickup point.
func (r *PostgresPickupPointRepository) Insert(
	ctx context.Context,
	p pickuppoint.PickupPoint,
) (*pickuppoint.PickupPoint, error) {
	var storeID *string
	if p.StoreID != "" {
		storeID = &p.StoreID
	}

	query, args, err := sq.Insert("pickup_points").
		Columns("name", "address", "latitude", "longitude", "store_id", "active", "created_at", "updated_at").
		Values(p.Name, p.Address, p.Latitude, p.Longitude, storeID, p.Active, p.CreatedAt, p.UpdatedAt).
		Suffix("RETURNING id, name, address, latitude, longitude, store_id, active, created_at, updated_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build insert query: %w", err)
	}

	inserted, err := r.scanPoint(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("failed to insert pickup point: %w", err)
	}

	return inserted, nil
}

// Update replaces the mutable fields of a pickup point.
func (r *PostgresPickupPointRepository) Update(
	ctx context.Context,
	p pickuppoint.PickupPoint,
) (*pickuppoint.PickupPoint, error) {
	var storeID *string
	if p.StoreID != "" {
		storeID = &p.StoreID
	}

	query, args, err := sq.Update("pickup_points").
		Set("name", p.Name).
		Set("address", p.Address).
		Set("latitude", p.Latitude).
		Set("longitude", p.Longitude).
		Set("store_id", storeID).
		Set("active", p.Active).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": p.ID}).
		Suffix("RETURNING id, name, address, latitude, longitude, store_id, active, created_at, updated_at").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build update query: %w", err)
	}

	updated, err := r.scanPoint(r.conn.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, pickuppoint.ErrNotFound
		}

		return nil, fmt.Errorf("failed to update pickup point: %w", err)
	}

	return updated, nil
}

// SetActive flips the active flag.
func (r *PostgresPickupPointRepository) SetActive(ctx context.Context, id int64, active bool) error {
	query, args, err := sq.Update("pickup_points").
		Set("active", active).
		Set("updated_at", time.Now()).
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update query: %w", err)
	}

	tag, err := r.conn.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update pickup point: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return pickuppoint.ErrNotFound
	}

	return nil
}

// ListActive returns pickup points visible to the storefront.
func (r *PostgresPickupPointRepository) ListActive(ctx context.Context) ([]pickuppoint.PickupPoint, error) {
	return r.list(ctx, sq.Eq{"active": true})
}

// List returns all pickup points, including deactivated ones.
func (r *PostgresPickupPointRepository) List(ctx context.Context) ([]pickuppoint.PickupPoint, error) {
	return r.list(ctx, nil)
}

func (r *PostgresPickupPointRepository) list(
	ctx context.Context,
	where any,
) ([]pickuppoint.PickupPoint, error) {
	builder := sq.Select(pickupPointColumns...).
		From("pickup_points").
		OrderBy("name ASC")
	if where != nil {
		builder = builder.Where(where)
	}

	query, args, err := builder.PlaceholderFormat(sq.Dollar).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query pickup points: %w", err)
	}
	defer rows.Close()

	var result []pickuppoint.PickupPoint
	for rows.Next() {
		model, err := r.scanPoint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pickup point: %w", err)
		}
		result = append(result, *model)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}
