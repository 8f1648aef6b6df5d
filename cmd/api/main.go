package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"puremilk/internal/config"
	"puremilk/internal/db"
	"puremilk/internal/httpserver"
	customerrepo "puremilk/internal/repository/customer"
	deliveryrepo "puremilk/internal/repository/delivery"
	paymentrepo "puremilk/internal/repository/payment"
	userrepo "puremilk/internal/repository/user"
	authsvc "puremilk/internal/service/auth"
	customersvc "puremilk/internal/service/customer"
	dashboardsvc "puremilk/internal/service/dashboard"
	deliverysvc "puremilk/internal/service/delivery"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	users := userrepo.NewPostgres(dbpool, logger)
	customers := customerrepo.NewPostgres(dbpool, logger)
	deliveries := deliveryrepo.NewPostgres(dbpool, logger)
	payments := paymentrepo.NewPostgres(dbpool, logger)

	authService := authsvc.New(users, cfg.JWTSecret, cfg.JWTExpiry)
	customerService := customersvc.New(customers, users, cfg.MaxCustomers)
	deliveryService := deliverysvc.New(deliveries, customers)
	dashboardService := dashboardsvc.New(customers, deliveries, payments)

	srv := httpserver.New(cfg, logger, dbpool, httpserver.Deps{
		Auth:       authService,
		Customers:  customerService,
		Deliveries: deliveryService,
		Dashboard:  dashboardService,
		Payments:   payments,
	})

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
