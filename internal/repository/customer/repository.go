package customer

import (
	"context"

	"puremilk/internal/domain"
)

// ListFilter narrows and pages the customer listing.
type ListFilter struct {
	Search string
	Skip   int
	Limit  int
}

// Repository persists and fetches customer profiles.
type Repository interface {
	Create(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	List(ctx context.Context, f ListFilter) ([]domain.Customer, error)
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) (*domain.Customer, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, activeOnly bool) (int, error)
}
