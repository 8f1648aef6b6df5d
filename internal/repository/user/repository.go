package user

import (
	"context"
	"time"

	"puremilk/internal/domain"
)

// Repository persists and fetches login users.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	CountByRole(ctx context.Context, role domain.Role) (int, error)
	RecordLoginFailure(ctx context.Context, id string, attempts int, lockedUntil *time.Time) error
	RecordLoginSuccess(ctx context.Context, id string, at time.Time) error
	DeleteByEmail(ctx context.Context, email string) error
}
