package delivery

import (
	"context"
	"strings"
	"time"

	"puremilk/internal/calendar"
	"puremilk/internal/domain"
	custrepo "puremilk/internal/repository/customer"
	delrepo "puremilk/internal/repository/delivery"
)

var (
	// ErrQuantityRange rejects quantities outside (0, 50] liters.
	ErrQuantityRange = domain.Validation("quantity must be between 0.1 and 50 liters")
	// ErrNothingToUpdate is returned when an update carries no fields.
	ErrNothingToUpdate = domain.Validation("no valid fields to update")
)

const maxQuantity = 50

// Service manages delivery records and derives calendar views from them.
type Service struct {
	deliveries delrepo.Repository
	customers  custrepo.Repository
	now        func() time.Time
}

// New creates a Service.
func New(deliveries delrepo.Repository, customers custrepo.Repository) *Service {
	return &Service{deliveries: deliveries, customers: customers, now: time.Now}
}

// CreateInput captures the fields expected by the create endpoint.
type CreateInput struct {
	CustomerID   string          `json:"customer_id"`
	DeliveryDate time.Time       `json:"delivery_date"`
	DeliveryTime domain.TimeSlot `json:"delivery_time"`
	Quantity     float64         `json:"quantity"`
	Notes        string          `json:"notes"`
}

// Create records a delivery for a slot. The milk type is copied from the
// customer's profile and the status starts pending. Writing to an occupied
// slot updates its quantity instead of failing.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Delivery, error) {
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, domain.Validation("customer id required")
	}
	if !in.DeliveryTime.Valid() {
		return nil, domain.Validation("delivery time must be morning or evening")
	}
	if in.Quantity <= 0 || in.Quantity > maxQuantity {
		return nil, ErrQuantityRange
	}

	c, err := s.customers.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}

	return s.deliveries.UpsertSlot(ctx, domain.Delivery{
		CustomerID:   c.ID,
		DeliveryDate: in.DeliveryDate.UTC().Truncate(24 * time.Hour),
		DeliveryTime: in.DeliveryTime,
		MilkType:     c.MilkType,
		Quantity:     in.Quantity,
		Status:       domain.DeliveryPending,
		Notes:        strings.TrimSpace(in.Notes),
	})
}

// UpdateInput carries the mutable delivery fields; nil means unchanged.
type UpdateInput struct {
	Quantity *float64               `json:"quantity"`
	Status   *domain.DeliveryStatus `json:"status"`
}

// Update changes a delivery's quantity and/or status. Moving to delivered
// stamps the delivery timestamp.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Delivery, error) {
	if in.Quantity == nil && in.Status == nil {
		return nil, ErrNothingToUpdate
	}
	if in.Quantity != nil && (*in.Quantity <= 0 || *in.Quantity > maxQuantity) {
		return nil, ErrQuantityRange
	}

	repoIn := delrepo.UpdateInput{Quantity: in.Quantity}
	if in.Status != nil {
		if !in.Status.Valid() {
			return nil, domain.Validation("status must be pending, delivered, or cancelled")
		}
		repoIn.Status = in.Status
		if *in.Status == domain.DeliveryDelivered {
			now := s.now()
			repoIn.DeliveredAt = &now
		}
	}
	return s.deliveries.Update(ctx, id, repoIn)
}

// UpdateStatus changes only the status of a delivery.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.DeliveryStatus) (*domain.Delivery, error) {
	return s.Update(ctx, id, UpdateInput{Status: &status})
}

// List returns deliveries matching the filter, capped at 100 per page.
func (s *Service) List(ctx context.Context, f delrepo.ListFilter) ([]domain.Delivery, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 100
	}
	return s.deliveries.List(ctx, f)
}

// MonthView holds a derived calendar for one customer and month, together
// with its aggregate summary. It is computed on demand and never stored.
type MonthView struct {
	Customer *domain.Customer
	View     calendar.View
	Summary  calendar.Summary
}

// Month loads the customer's deliveries for the month and derives the
// calendar view and summary.
func (s *Service) Month(ctx context.Context, customerID string, month calendar.Month) (*MonthView, error) {
	c, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	start := month.First()
	end := start.AddDate(0, 1, -1)
	deliveries, err := s.deliveries.List(ctx, delrepo.ListFilter{
		CustomerID: customerID,
		Start:      &start,
		End:        &end,
	})
	if err != nil {
		return nil, err
	}

	view := calendar.Fill(*c, deliveries, month, s.now().UTC())
	return &MonthView{
		Customer: c,
		View:     view,
		Summary:  calendar.Summarize(view, c.RatePerLiter),
	}, nil
}
