package payment

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

const paymentColumns = `id::text, customer_id::text, amount::float8, payment_date,
       billing_period_start, billing_period_end, status, payment_method, notes, created_at`

func (r *postgresRepo) Create(ctx context.Context, p domain.Payment) (*domain.Payment, error) {
	const q = `
INSERT INTO payments (customer_id, amount, payment_date, billing_period_start, billing_period_end, status, payment_method, notes)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + paymentColumns
	method := p.PaymentMethod
	if method == "" {
		method = "Cash"
	}
	return r.scanPayment(r.pool.QueryRow(
		ctx,
		q,
		p.CustomerID,
		p.Amount,
		p.PaymentDate,
		p.BillingPeriodStart,
		p.BillingPeriodEnd,
		p.Status,
		method,
		p.Notes,
	))
}

func (r *postgresRepo) List(ctx context.Context, f ListFilter) ([]domain.Payment, error) {
	q := `SELECT ` + paymentColumns + ` FROM payments`
	args := []interface{}{}
	if f.CustomerID != "" {
		args = append(args, f.CustomerID)
		q += ` WHERE customer_id = $1`
	}
	q += ` ORDER BY payment_date DESC`
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

	var out []domain.Payment
	for rows.Next() {
		p, err := r.scanPayment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (r *postgresRepo) SumPaidBetween(ctx context.Context, start, end time.Time, customerID string) (float64, error) {
	q := `
SELECT coalesce(sum(amount), 0)::float8
FROM payments
WHERE status = 'paid' AND payment_date >= $1 AND payment_date < $2`
	args := []interface{}{start, end}
	if customerID != "" {
		args = append(args, customerID)
		q += ` AND customer_id = $3`
	}
	var total float64
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *postgresRepo) SumOutstanding(ctx context.Context, customerID string) (float64, error) {
	q := `
SELECT coalesce(sum(amount), 0)::float8
FROM payments
WHERE status IN ('pending', 'overdue')`
	args := []interface{}{}
	if customerID != "" {
		args = append(args, customerID)
		q += ` AND customer_id = $1`
	}
	var total float64
	if err := r.pool.QueryRow(ctx, q, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *postgresRepo) scanPayment(row pgx.Row) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(
		&p.ID,
		&p.CustomerID,
		&p.Amount,
		&p.PaymentDate,
		&p.BillingPeriodStart,
		&p.BillingPeriodEnd,
		&p.Status,
		&p.PaymentMethod,
		&p.Notes,
		&p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("payment repo: scan error=%v", err)
		return nil, err
	}
	return &p, nil
}
