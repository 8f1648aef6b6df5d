package payment

import (
	"context"
	"time"

	"puremilk/internal/domain"
)

// ListFilter narrows and pages the payment listing.
type ListFilter struct {
	CustomerID string
	Skip       int
	Limit      int
}

// Repository fetches payment records and their aggregates. Payments have no
// API creation flow; Create exists for seeding and imports.
type Repository interface {
	Create(ctx context.Context, p domain.Payment) (*domain.Payment, error)
	List(ctx context.Context, f ListFilter) ([]domain.Payment, error)
	// SumPaidBetween totals paid amounts with payment_date in [start, end).
	SumPaidBetween(ctx context.Context, start, end time.Time, customerID string) (float64, error)
	// SumOutstanding totals pending and overdue amounts.
	SumOutstanding(ctx context.Context, customerID string) (float64, error)
}
