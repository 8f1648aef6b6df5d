package seed

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"puremilk/internal/config"
	"puremilk/internal/domain"
	custrepo "puremilk/internal/repository/customer"
	userrepo "puremilk/internal/repository/user"
	"puremilk/internal/service/auth"
	"puremilk/internal/service/customer"
)

// Bootstrap credentials for manual testing. Change the password right after
// the first login.
const (
	adminEmail    = "admin@puremilk.com"
	adminPassword = "admin123456"
)

type customerSeed struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	MilkType domain.MilkType
	Quantity float64
	Rate     float64
	Morning  bool
	Evening  bool
	Password string
}

// Apply creates the first admin account and a couple of demo customers for
// manual testing. It is idempotent: existing records are left alone.
func Apply(ctx context.Context, cfg config.Config, pool *pgxpool.Pool, logger *log.Logger) error {
	users := userrepo.NewPostgres(pool, logger)
	customers := custrepo.NewPostgres(pool, logger)

	authSvc := auth.New(users, cfg.JWTSecret, cfg.JWTExpiry)
	customerSvc := customer.New(customers, users, cfg.MaxCustomers)

	adminID, err := ensureAdmin(ctx, authSvc, users, logger)
	if err != nil {
		return fmt.Errorf("ensure admin: %w", err)
	}

	seeds := []customerSeed{
		{
			Name:     "Rani Devi",
			Email:    "rani@puremilk.com",
			Phone:    "9876543210",
			Address:  "12 Dairy Lane",
			MilkType: domain.MilkBuffalo,
			Quantity: 2.0,
			Rate:     60,
			Morning:  true,
			Password: "ranimilk1",
		},
		{
			Name:     "Suresh Kumar",
			Email:    "suresh@puremilk.com",
			Phone:    "9876500001",
			Address:  "4 Market Street",
			MilkType: domain.MilkCow,
			Quantity: 1.5,
			Rate:     55,
			Morning:  true,
			Evening:  true,
			Password: "sureshmilk1",
		},
	}

	for _, s := range seeds {
		if err := ensureCustomer(ctx, customerSvc, adminID, s, logger); err != nil {
			return fmt.Errorf("ensure customer %s: %w", s.Email, err)
		}
	}

	return nil
}

func ensureAdmin(ctx context.Context, authSvc *auth.Service, users userrepo.Repository, logger *log.Logger) (string, error) {
	existing, err := users.GetByEmail(ctx, adminEmail)
	if err == nil {
		logger.Printf("admin %s already present, skipping", adminEmail)
		return existing.ID, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	u, _, err := authSvc.Register(ctx, auth.RegisterInput{
		Email:    adminEmail,
		Password: adminPassword,
		Role:     domain.RoleAdmin,
		Name:     "Admin User",
		Phone:    "1234567890",
	})
	if err != nil {
		return "", err
	}
	logger.Printf("created admin account %s", adminEmail)
	return u.ID, nil
}

func ensureCustomer(ctx context.Context, svc *customer.Service, adminID string, s customerSeed, logger *log.Logger) error {
	_, err := svc.Create(ctx, adminID, customer.CreateInput{
		Name:            s.Name,
		Email:           s.Email,
		Phone:           s.Phone,
		Address:         s.Address,
		MilkType:        s.MilkType,
		DailyQuantity:   s.Quantity,
		RatePerLiter:    s.Rate,
		MorningDelivery: s.Morning,
		EveningDelivery: s.Evening,
		Password:        s.Password,
		ConfirmPassword: s.Password,
	})
	if errors.Is(err, customer.ErrEmailTaken) {
		logger.Printf("customer %s already present, skipping", s.Email)
		return nil
	}
	if err != nil {
		return err
	}
	logger.Printf("created customer %s", s.Email)
	return nil
}
