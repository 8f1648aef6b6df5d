package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"puremilk/internal/domain"
	"puremilk/internal/service/customer"
)

// CustomerWriter provisions a customer together with their login account.
type CustomerWriter interface {
	Create(ctx context.Context, adminID string, in customer.CreateInput) (*domain.Customer, error)
}

// CSVImporter reads customer rosters exported as CSV and registers each row
// through the customer service, so every import also provisions logins.
type CSVImporter struct {
	reader    *csv.Reader
	customers CustomerWriter
	adminID   string
}

func NewCSVImporter(r io.Reader, customers CustomerWriter, adminID string) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:    csvr,
		customers: customers,
		adminID:   adminID,
	}
}

type csvRow struct {
	Name     string
	Email    string
	Phone    string
	Address  string
	MilkType string
	Quantity float64
	Rate     float64
	Morning  bool
	Evening  bool
	Password string
}

// Run parses CSV rows and registers each customer. Rows whose email is
// already registered are skipped and counted separately.
func (i *CSVImporter) Run(ctx context.Context) (imported, skipped int, err error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	line := 1
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, skipped, fmt.Errorf("read row: %w", err)
		}
		line++

		row := parseRow(record, index)
		if row == nil {
			continue
		}

		switch err := i.save(ctx, row); {
		case errors.Is(err, customer.ErrEmailTaken):
			skipped++
		case err != nil:
			return imported, skipped, fmt.Errorf("line %d: %w", line, err)
		default:
			imported++
		}
	}

	return imported, skipped, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.Email == "" || row.Name == "" {
		return fmt.Errorf("row for %q is missing required fields", row.Email)
	}

	_, err := i.customers.Create(ctx, i.adminID, customer.CreateInput{
		Name:            row.Name,
		Email:           row.Email,
		Phone:           row.Phone,
		Address:         row.Address,
		MilkType:        domain.MilkType(row.MilkType),
		DailyQuantity:   row.Quantity,
		RatePerLiter:    row.Rate,
		MorningDelivery: row.Morning,
		EveningDelivery: row.Evening,
		Password:        row.Password,
		ConfirmPassword: row.Password,
	})
	return err
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	name := pick(record, index, "name")
	email := pick(record, index, "email")

	if name == "" && email == "" {
		return nil
	}

	quantity, _ := strconv.ParseFloat(pick(record, index, "daily_quantity"), 64)
	rate, _ := strconv.ParseFloat(pick(record, index, "rate_per_liter"), 64)

	return &csvRow{
		Name:     name,
		Email:    email,
		Phone:    pick(record, index, "phone"),
		Address:  pick(record, index, "address"),
		MilkType: strings.ToLower(pick(record, index, "milk_type")),
		Quantity: quantity,
		Rate:     rate,
		Morning:  parseBool(pick(record, index, "morning_delivery")),
		Evening:  parseBool(pick(record, index, "evening_delivery")),
		Password: pick(record, index, "password"),
	}
}

func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
