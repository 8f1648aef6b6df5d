package delivery

import (
	"context"
	"time"

	"puremilk/internal/domain"
)

// ListFilter narrows and pages the delivery listing. Date selects one day;
// Start/End select an inclusive range. Date and the range are exclusive of
// each other.
type ListFilter struct {
	CustomerID string
	Date       *time.Time
	Start      *time.Time
	End        *time.Time
	Status     domain.DeliveryStatus
	Skip       int
	Limit      int
}

// UpdateInput carries the mutable delivery fields; nil means unchanged.
type UpdateInput struct {
	Quantity    *float64
	Status      *domain.DeliveryStatus
	DeliveredAt *time.Time
}

// Repository persists and fetches delivery records.
type Repository interface {
	// UpsertSlot inserts a delivery, or updates quantity and notes when the
	// (customer, date, slot) row already exists.
	UpsertSlot(ctx context.Context, d domain.Delivery) (*domain.Delivery, error)
	GetByID(ctx context.Context, id string) (*domain.Delivery, error)
	Update(ctx context.Context, id string, in UpdateInput) (*domain.Delivery, error)
	List(ctx context.Context, f ListFilter) ([]domain.Delivery, error)
	CountForDate(ctx context.Context, day time.Time, customerID string, status domain.DeliveryStatus) (int, error)
}
