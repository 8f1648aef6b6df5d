package customer

import (
	"context"
	"errors"
	"strings"

	"puremilk/internal/domain"
	custrepo "puremilk/internal/repository/customer"
	userrepo "puremilk/internal/repository/user"
	"puremilk/internal/service/auth"
)

var (
	// ErrPasswordMismatch is returned when password and confirmation differ.
	ErrPasswordMismatch = domain.Validation("passwords do not match")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = domain.Validation("customer with this email already exists")
	// ErrLimitReached is returned when the customer cap is hit.
	ErrLimitReached = domain.Validation("maximum customer limit reached")
)

const (
	maxDailyQuantity = 50
	maxRatePerLiter  = 1000
)

// Service manages customer profiles. Creating a customer also provisions a
// customer-role login; deleting one removes the login and, via the schema,
// the customer's deliveries and payments.
type Service struct {
	customers    custrepo.Repository
	users        userrepo.Repository
	maxCustomers int
}

// New creates a Service enforcing the given customer cap.
func New(customers custrepo.Repository, users userrepo.Repository, maxCustomers int) *Service {
	return &Service{customers: customers, users: users, maxCustomers: maxCustomers}
}

// CreateInput captures the fields expected by the create endpoint.
type CreateInput struct {
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Address         string          `json:"address"`
	MilkType        domain.MilkType `json:"milk_type"`
	DailyQuantity   float64         `json:"daily_quantity"`
	RatePerLiter    float64         `json:"rate_per_liter"`
	MorningDelivery bool            `json:"morning_delivery"`
	EveningDelivery bool            `json:"evening_delivery"`
	Password        string          `json:"password"`
	ConfirmPassword string          `json:"confirm_password"`
}

func (in CreateInput) validate() error {
	if len(strings.TrimSpace(in.Name)) < 2 {
		return domain.Validation("name must be at least 2 characters")
	}
	email := strings.TrimSpace(in.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Validation("valid email required")
	}
	if !in.MilkType.Valid() {
		return domain.Validation("milk type must be cow, buffalo, goat, or mixed")
	}
	if in.DailyQuantity <= 0 || in.DailyQuantity > maxDailyQuantity {
		return domain.Validation("daily quantity must be between 0.1 and 50 liters")
	}
	if in.RatePerLiter <= 0 || in.RatePerLiter > maxRatePerLiter {
		return domain.Validation("rate per liter must be between 0.1 and 1000")
	}
	return nil
}

// Create validates the input, creates the customer record, and provisions a
// login user with the supplied password.
func (s *Service) Create(ctx context.Context, adminID string, in CreateInput) (*domain.Customer, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if err := auth.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	if s.maxCustomers > 0 {
		total, err := s.customers.Count(ctx, false)
		if err != nil {
			return nil, err
		}
		if total >= s.maxCustomers {
			return nil, ErrLimitReached
		}
	}

	email := strings.TrimSpace(strings.ToLower(in.Email))
	if _, err := s.customers.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	c, err := s.customers.Create(ctx, domain.Customer{
		Name:            strings.TrimSpace(in.Name),
		Email:           email,
		Phone:           strings.TrimSpace(in.Phone),
		Address:         strings.TrimSpace(in.Address),
		MilkType:        in.MilkType,
		DailyQuantity:   in.DailyQuantity,
		RatePerLiter:    in.RatePerLiter,
		MorningDelivery: in.MorningDelivery,
		EveningDelivery: in.EveningDelivery,
		IsActive:        true,
		CreatedBy:       adminID,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	if _, err := s.users.Create(ctx, domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCustomer,
		Name:         c.Name,
		Phone:        c.Phone,
		IsActive:     true,
	}); err != nil {
		return nil, err
	}
	return c, nil
}

// List returns customers matching the filter, capped at 100 per page.
func (s *Service) List(ctx context.Context, f custrepo.ListFilter) ([]domain.Customer, error) {
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 100
	}
	return s.customers.List(ctx, f)
}

// Get returns one customer by id.
func (s *Service) Get(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

// GetByEmail returns the customer profile bound to a login email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	return s.customers.GetByEmail(ctx, email)
}

// UpdateInput carries the mutable customer fields; nil means unchanged.
type UpdateInput struct {
	Name            *string          `json:"name"`
	Email           *string          `json:"email"`
	Phone           *string          `json:"phone"`
	Address         *string          `json:"address"`
	MilkType        *domain.MilkType `json:"milk_type"`
	DailyQuantity   *float64         `json:"daily_quantity"`
	RatePerLiter    *float64         `json:"rate_per_liter"`
	MorningDelivery *bool            `json:"morning_delivery"`
	EveningDelivery *bool            `json:"evening_delivery"`
	IsActive        *bool            `json:"is_active"`
}

// Update applies the non-nil fields to the customer and returns the result.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*domain.Customer, error) {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		c.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		c.Email = strings.TrimSpace(strings.ToLower(*in.Email))
	}
	if in.Phone != nil {
		c.Phone = strings.TrimSpace(*in.Phone)
	}
	if in.Address != nil {
		c.Address = strings.TrimSpace(*in.Address)
	}
	if in.MilkType != nil {
		if !in.MilkType.Valid() {
			return nil, domain.Validation("milk type must be cow, buffalo, goat, or mixed")
		}
		c.MilkType = *in.MilkType
	}
	if in.DailyQuantity != nil {
		if *in.DailyQuantity <= 0 || *in.DailyQuantity > maxDailyQuantity {
			return nil, domain.Validation("daily quantity must be between 0.1 and 50 liters")
		}
		c.DailyQuantity = *in.DailyQuantity
	}
	if in.RatePerLiter != nil {
		if *in.RatePerLiter <= 0 || *in.RatePerLiter > maxRatePerLiter {
			return nil, domain.Validation("rate per liter must be between 0.1 and 1000")
		}
		c.RatePerLiter = *in.RatePerLiter
	}
	if in.MorningDelivery != nil {
		c.MorningDelivery = *in.MorningDelivery
	}
	if in.EveningDelivery != nil {
		c.EveningDelivery = *in.EveningDelivery
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}

	updated, err := s.customers.Update(ctx, *c)
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return updated, nil
}

// Delete permanently removes the customer, their login, and (through the
// schema's cascades) their deliveries and payments.
func (s *Service) Delete(ctx context.Context, id string) error {
	c, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}
	return s.users.DeleteByEmail(ctx, c.Email)
}
