package user

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"time"

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

const userColumns = `id::text, email, password_hash, role, name, phone, is_active,
       failed_login_attempts, locked_until, last_login, created_at, updated_at`

func (r *postgresRepo) Create(ctx context.Context, u domain.User) (*domain.User, error) {
	const q = `
INSERT INTO users (email, password_hash, role, name, phone, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + userColumns
	return r.scanUser(r.pool.QueryRow(
		ctx,
		q,
		strings.ToLower(u.Email),
		u.PasswordHash,
		u.Role,
		u.Name,
		u.Phone,
		u.IsActive,
	))
}

func (r *postgresRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE lower(email) = lower($1) LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, q, email))
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1 LIMIT 1`
	return r.scanUser(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) CountByRole(ctx context.Context, role domain.Role) (int, error) {
	const q = `SELECT count(*) FROM users WHERE role = $1`
	var n int
	if err := r.pool.QueryRow(ctx, q, role).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *postgresRepo) RecordLoginFailure(ctx context.Context, id string, attempts int, lockedUntil *time.Time) error {
	const q = `
UPDATE users
SET failed_login_attempts = $2, locked_until = $3, updated_at = now()
WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id, attempts, lockedUntil)
	return err
}

func (r *postgresRepo) RecordLoginSuccess(ctx context.Context, id string, at time.Time) error {
	const q = `
UPDATE users
SET failed_login_attempts = 0, locked_until = NULL, last_login = $2, updated_at = now()
WHERE id = $1`
	_, err := r.pool.Exec(ctx, q, id, at)
	return err
}

func (r *postgresRepo) DeleteByEmail(ctx context.Context, email string) error {
	const q = `DELETE FROM users WHERE lower(email) = lower($1)`
	_, err := r.pool.Exec(ctx, q, email)
	return err
}

func (r *postgresRepo) scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.Name,
		&u.Phone,
		&u.IsActive,
		&u.FailedLoginAttempts,
		&u.LockedUntil,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, domain.ErrAlreadyExists
		}
		r.logger.Printf("user repo: scan error=%v", err)
		return nil, err
	}
	return &u, nil
}
