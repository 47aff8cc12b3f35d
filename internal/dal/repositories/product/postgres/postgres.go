package postgresrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/corray333/storefront/internal/dal/postgres"
	"github.com/corray333/storefront/internal/service/models/product"
	"github.com/jackc/pgx/v5"
)

var productColumns = []string{
	"id",
	"name",
	"code",
	"description",
	"price_kopecks",
	"image_url",
	"raw_payload",
	"cached_at",
}

// ProductDal represents product cache data access layer model
type ProductDal struct {
	Id           string    `db:"id"`
	Name         string    `db:"name"`
	Code         string    `db:"code"`
	Description  string    `db:"description"`
	PriceKopecks int64     `db:"price_kopecks"`
	ImageUrl     string    `db:"image_url"`
	RawPayload   []byte    `db:"raw_payload"`
	CachedAt     time.Time `db:"cached_at"`
}

// ToModel converts ProductDal to service layer Product model
func (p *ProductDal) ToModel() *product.Product {
	return &product.Product{
		ID:           p.Id,
		Name:         p.Name,
		Code:         p.Code,
		Description:  p.Description,
		PriceKopecks: p.PriceKopecks,
		ImageURL:     p.ImageUrl,
		RawPayload:   p.RawPayload,
		CachedAt:     p.CachedAt,
	}
}

type PostgresProductRepository struct {
	conn postgres.Querier
}

func NewPostgresProductRepository(conn postgres.Querier) *PostgresProductRepository {
	return &PostgresProductRepository{
		conn: conn,
	}
}

// Upsert replaces cache entries for the given products.
func (r *PostgresProductRepository) Upsert(ctx context.Context, products []product.Product) error {
	if len(products) == 0 {
		return nil
	}

	builder := sq.Insert("products").Columns(productColumns...)
	for _, p := range products {
		builder = builder.Values(
			p.ID,
			p.Name,
			p.Code,
			p.Description,
			p.PriceKopecks,
			p.ImageURL,
			p.RawPayload,
			p.CachedAt,
		)
	}

	query, args, err := builder.
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			code = EXCLUDED.code,
			description = EXCLUDED.description,
			price_kopecks = EXCLUDED.price_kopecks,
			image_url = EXCLUDED.image_url,
			raw_payload = EXCLUDED.raw_payload,
			cached_at = EXCLUDED.cached_at`).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert query: %w", err)
	}

	if _, err := r.conn.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to upsert products: %w", err)
	}

	return nil
}

// List returns all cached products.
func (r *PostgresProductRepository) List(ctx context.Context) ([]product.Product, error) {
	query, args, err := sq.Select(productColumns...).
		From("products").
		OrderBy("name ASC").
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var result []product.Product
	for rows.Next() {
		var dal ProductDal
		err := rows.Scan(
			&dal.Id,
			&dal.Name,
			&dal.Code,
			&dal.Description,
			&dal.PriceKopecks,
			&dal.ImageUrl,
			&dal.RawPayload,
			&dal.CachedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		result = append(result, *dal.ToModel())
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return result, nil
}

// Get retrieves a single cached product by id.
func (r *PostgresProductRepository) Get(ctx context.Context, id string) (*product.Product, error) {
	query, args, err := sq.Select(productColumns...).
		From("products").
		Where(sq.Eq{"id": id}).
		PlaceholderFormat(sq.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var dal ProductDal
	err = r.conn.QueryRow(ctx, query, args...).Scan(
		&dal.Id,
		&dal.Name,
		&dal.Code,
		&dal.Description,
		&dal.PriceKopecks,
		&dal.ImageUrl,
		&dal.RawPayload,
		&dal.CachedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, product.ErrNotFound
		}

		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	return dal.ToModel(), nil
}

// OldestCachedAt returns the oldest cache timestamp, or zero time if the cache
// is empty.
func (r *PostgresProductRepository) OldestCachedAt(ctx context.Context) (time.Time, error) {
	var oldest *time.Time
	err := r.conn.QueryRow(ctx, "SELECT MIN(cached_at) FROM products").Scan(&oldest)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get cache age: %w", err)
	}

	if oldest == nil {
		return time.Time{}, nil
	}

	return *oldest, nil
}
