package dashboard

import (
	"context"
	"errors"
	"time"

	"puremilk/internal/domain"
	custrepo "puremilk/internal/repository/customer"
	delrepo "puremilk/internal/repository/delivery"
	payrepo "puremilk/internal/repository/payment"
)

// Service computes the landing-page counters. Admins get system-wide
// numbers; customers get only the slice belonging to their own profile.
type Service struct {
	customers  custrepo.Repository
	deliveries delrepo.Repository
	payments   payrepo.Repository
	now        func() time.Time
}

// New creates a Service.
func New(customers custrepo.Repository, deliveries delrepo.Repository, payments payrepo.Repository) *Service {
	return &Service{
		customers:  customers,
		deliveries: deliveries,
		payments:   payments,
		now:        time.Now,
	}
}

// Stats computes the dashboard counters for the given user.
func (s *Service) Stats(ctx context.Context, user domain.User) (*domain.DashboardStats, error) {
	today := s.now().UTC().Truncate(24 * time.Hour)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	if user.Role == domain.RoleAdmin {
		return s.adminStats(ctx, today, monthStart, monthEnd)
	}
	return s.customerStats(ctx, user, today, monthStart, monthEnd)
}

func (s *Service) adminStats(ctx context.Context, today, monthStart, monthEnd time.Time) (*domain.DashboardStats, error) {
	total, err := s.customers.Count(ctx, false)
	if err != nil {
		return nil, err
	}
	active, err := s.customers.Count(ctx, true)
	if err != nil {
		return nil, err
	}
	return s.fill(ctx, domain.DashboardStats{
		TotalCustomers:  total,
		ActiveCustomers: active,
	}, "", today, monthStart, monthEnd)
}

func (s *Service) customerStats(ctx context.Context, user domain.User, today, monthStart, monthEnd time.Time) (*domain.DashboardStats, error) {
	c, err := s.customers.GetByEmail(ctx, user.Email)
	if errors.Is(err, domain.ErrNotFound) {
		// A customer login without a profile sees an all-zero dashboard.
		return &domain.DashboardStats{}, nil
	}
	if err != nil {
		return nil, err
	}
	return s.fill(ctx, domain.DashboardStats{
		TotalCustomers:  1,
		ActiveCustomers: 1,
	}, c.ID, today, monthStart, monthEnd)
}

// fill completes the delivery and payment counters, scoped to customerID
// when it is non-empty.
func (s *Service) fill(ctx context.Context, stats domain.DashboardStats, customerID string, today, monthStart, monthEnd time.Time) (*domain.DashboardStats, error) {
	var err error
	stats.TodayDeliveries, err = s.deliveries.CountForDate(ctx, today, customerID, "")
	if err != nil {
		return nil, err
	}
	stats.PendingDeliveries, err = s.deliveries.CountForDate(ctx, today, customerID, domain.DeliveryPending)
	if err != nil {
		return nil, err
	}
	stats.TodayRevenue, err = s.payments.SumPaidBetween(ctx, today, today.AddDate(0, 0, 1), customerID)
	if err != nil {
		return nil, err
	}
	stats.MonthlyRevenue, err = s.payments.SumPaidBetween(ctx, monthStart, monthEnd, customerID)
	if err != nil {
		return nil, err
	}
	stats.PendingPayments, err = s.payments.SumOutstanding(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
