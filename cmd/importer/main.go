package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"puremilk/internal/config"
	"puremilk/internal/db"
	"puremilk/internal/importer"
	customerrepo "puremilk/internal/repository/customer"
	userrepo "puremilk/internal/repository/user"
	customersvc "puremilk/internal/service/customer"
)

func main() {
	var (
		filePath   string
		adminEmail string
	)
	flag.StringVar(&filePath, "file", "", "Path to customer roster CSV")
	flag.StringVar(&adminEmail, "admin", "", "Email of the admin account to attribute the import to")
	flag.Parse()

	if filePath == "" || adminEmail == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	users := userrepo.NewPostgres(pool, logger)
	admin, err := users.GetByEmail(ctx, adminEmail)
	if err != nil {
		logger.Fatalf("look up admin %q: %v", adminEmail, err)
	}

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	customers := customerrepo.NewPostgres(pool, logger)
	svc := customersvc.New(customers, users, cfg.MaxCustomers)
	imp := importer.NewCSVImporter(f, svc, admin.ID)

	start := time.Now()
	imported, skipped, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d customers (%d skipped) in %s\n", imported, skipped, time.Since(start).Truncate(time.Millisecond))
}
