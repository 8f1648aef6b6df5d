package customer

import (
	"context"
	"errors"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"puremilk/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const customerColumns = `id::text, name, email, phone, address, milk_type,
       daily_quantity::float8, rate_per_liter::float8, morning_delivery, evening_delivery,
       is_active, coalesce(created_by::text, ''), created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
INSERT INTO customers (
    name, email, phone, address, milk_type, daily_quantity, rate_per_liter,
    morning_delivery, evening_delivery, is_active, created_by
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + customerColumns
	return r.scanCustomer(r.pool.QueryRow(
		ctx,
		q,
		c.Name,
		strings.ToLower(c.Email),
		c.Phone,
		c.Address,
		c.MilkType,
		c.DailyQuantity,
		c.RatePerLiter,
		c.MorningDelivery,
		c.EveningDelivery,
		c.IsActive,
		nullable(c.CreatedBy),
	))
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Customer, error) {
	q := `SELECT ` + customerColumns + ` FROM customers`
	args := []interface{}{}
	if s := strings.TrimSpace(f.Search); s != "" {
		q += ` WHERE name ILIKE '%' || $1 || '%' OR email ILIKE '%' || $1 || '%' OR phone ILIKE '%' || $1 || '%'`
		args = append(args, s)
	}
	q += ` ORDER BY created_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if f.Skip > 0 {
		args = append(args, f.Skip)
		q += ` OFFSET $` + strconv.Itoa(len(args))
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Customer
	for rows.Next() {
		c, err := r.scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE id = $1 LIMIT 1`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	const q = `SELECT ` + customerColumns + ` FROM customers WHERE lower(email) = lower($1) LIMIT 1`
	return r.scanCustomer(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) Update(ctx context.Context, c domain.Customer) (*domain.Customer, error) {
	const q = `
UPDATE customers
SET name = $2, email = $3, phone = $4, address = $5, milk_type = $6,
    daily_quantity = $7, rate_per_liter = $8, morning_delivery = $9,
    evening_delivery = $10, is_active = $11, updated_at = now()
WHERE id = $1
RETURNING ` + customerColumns
	return r.scanCustomer(r.pool.QueryRow(
		ctx,
		q,
		c.ID,
		c.Name,
		strings.ToLower(c.Email),
		c.Phone,
		c.Address,
		c.MilkType,
		c.DailyQuantity,
		c.RatePerLiter,
		c.MorningDelivery,
		c.EveningDelivery,
		c.IsActive,
	))
}

func (r *postgresRepo) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM customers WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Count(ctx context.Context, activeOnly bool) (int, error) {
	q := `SELECT count(*) FROM customers`
	if activeOnly {
		q += ` WHERE is_active`
	}
	var n int
	if err := r.pool.QueryRow(ctx, q).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresRepo) scanCustomer(row pgx.Row) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.Address,
		&c.MilkType,
		&c.DailyQuantity,
		&c.RatePerLiter,
		&c.MorningDelivery,
		&c.EveningDelivery,
		&c.IsActive,
		&c.CreatedBy,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("customer repo: scan error=%v", err)
		return nil, err
	}
	return &c, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

