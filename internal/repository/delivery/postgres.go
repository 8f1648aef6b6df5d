package delivery

import (
	"context"
	"errors"
	"io"
	"log"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
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

const deliveryColumns = `id::text, customer_id::text, delivery_date, delivery_time, milk_type,
       quantity::float8, status, notes, delivered_at, created_at`

func (r *postgresRepo) UpsertSlot(ctx context.Context, d domain.Delivery) (*domain.Delivery, error) {
	const q = `
INSERT INTO deliveries (customer_id, delivery_date, delivery_time, milk_type, quantity, status, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (customer_id, delivery_date, delivery_time) DO UPDATE
SET quantity = EXCLUDED.quantity,
    notes = EXCLUDED.notes
RETURNING ` + deliveryColumns
	return r.scanDelivery(r.pool.QueryRow(
		ctx,
		q,
		d.CustomerID,
		d.DeliveryDate,
		d.DeliveryTime,
		d.MilkType,
		d.Quantity,
		d.Status,
		d.Notes,
	))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Delivery, error) {
	const q = `SELECT ` + deliveryColumns + ` FROM deliveries WHERE id = $1 LIMIT 1`
	return r.scanDelivery(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) Update(ctx context.Context, id string, in UpdateInput) (*domain.Delivery, error) {
	const q = `
UPDATE deliveries
SET quantity = coalesce($2, quantity),
    status = coalesce($3, status),
    delivered_at = coalesce($4, delivered_at)
WHERE id = $1
RETURNING ` + deliveryColumns
	var status interface{}
	if in.Status != nil {
		status = string(*in.Status)
	}
	return r.scanDelivery(r.pool.QueryRow(ctx, q, id, in.Quantity, status, in.DeliveredAt))
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Delivery, error) {
	q := `SELECT ` + deliveryColumns + ` FROM deliveries WHERE true`
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.CustomerID != "" {
		q += ` AND customer_id = ` + arg(f.CustomerID)
	}
	switch {
	case f.Date != nil:
		q += ` AND delivery_date = ` + arg(*f.Date)
	case f.Start != nil && f.End != nil:
		q += ` AND delivery_date BETWEEN ` + arg(*f.Start) + ` AND ` + arg(*f.End)
	}
	if f.Status != "" {
		q += ` AND status = ` + arg(string(f.Status))
	}
	q += ` ORDER BY delivery_date DESC, delivery_time`
	if f.Limit > 0 {
		q += ` LIMIT ` + arg(f.Limit)
	}
	if f.Skip > 0 {
		q += ` OFFSET ` + arg(f.Skip)
	}

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Delivery
	for rows.Next() {
		d, err := r.scanDelivery(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

func (r *postgresRepo) CountForDate(ctx context.Context, day time.Time, customerID string, status domain.DeliveryStatus) (int, error) {
	q := `SELECT count(*) FROM deliveries WHERE delivery_date = $1`
	args := []interface{}{day}
	if customerID != "" {
		args = append(args, customerID)
		q += ` AND customer_id = $` + strconv.Itoa(len(args))
	}
	if status != "" {
		args = append(args, string(status))
		q += ` AND status = $` + strconv.Itoa(len(args))
	}
	var n int
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresRepo) scanDelivery(row pgx.Row) (*domain.Delivery, error) {
	var d domain.Delivery
	err := row.Scan(
		&d.ID,
		&d.CustomerID,
		&d.DeliveryDate,
		&d.DeliveryTime,
		&d.MilkType,
		&d.Quantity,
		&d.Status,
		&d.Notes,
		&d.DeliveredAt,
		&d.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("delivery repo: scan error=%v", err)
		return nil, err
	}
	return &d, nil
}
