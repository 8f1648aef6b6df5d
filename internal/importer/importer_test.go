package importer

import (
	"context"
	"strings"
	"testing"

	"puremilk/internal/domain"
	"puremilk/internal/service/customer"
)

type stubCustomerWriter struct {
	created []customer.CreateInput
	taken   map[string]bool
}

func (s *stubCustomerWriter) Create(_ context.Context, _ string, in customer.CreateInput) (*domain.Customer, error) {
	if s.taken[in.Email] {
		return nil, customer.ErrEmailTaken
	}
	s.created = append(s.created, in)
	return &domain.Customer{ID: "cust-1", Email: in.Email}, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `name,email,phone,address,milk_type,daily_quantity,rate_per_liter,morning_delivery,evening_delivery,password
Rani Devi,rani@puremilk.com,9876543210,12 Dairy Lane,buffalo,2.0,60,yes,no,ranimilk1
Suresh Kumar,suresh@puremilk.com,9876500001,4 Market Street,cow,1.5,55,true,true,sureshmilk1`

	writer := &stubCustomerWriter{}
	imp := NewCSVImporter(strings.NewReader(csvData), writer, "admin-1")

	imported, skipped, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if imported != 2 || skipped != 0 {
		t.Fatalf("expected 2 imported and 0 skipped, got %d/%d", imported, skipped)
	}

	first := writer.created[0]
	if first.Email != "rani@puremilk.com" || first.MilkType != domain.MilkBuffalo {
		t.Fatalf("unexpected row data: %+v", first)
	}
	if first.DailyQuantity != 2.0 || first.RatePerLiter != 60 {
		t.Fatalf("numeric fields not parsed: %+v", first)
	}
	if !first.MorningDelivery || first.EveningDelivery {
		t.Fatalf("slot flags not parsed: %+v", first)
	}
	if first.Password != "ranimilk1" || first.ConfirmPassword != "ranimilk1" {
		t.Fatalf("password must be mirrored into the confirmation field")
	}

	second := writer.created[1]
	if !second.MorningDelivery || !second.EveningDelivery {
		t.Fatalf("boolean spellings vary per export, both should parse: %+v", second)
	}
}

func TestCSVImporter_SkipsTakenEmails(t *testing.T) {
	csvData := `name,email,milk_type,daily_quantity,rate_per_liter,password
Rani Devi,rani@puremilk.com,buffalo,2.0,60,ranimilk1
Suresh Kumar,suresh@puremilk.com,cow,1.5,55,sureshmilk1`

	writer := &stubCustomerWriter{taken: map[string]bool{"rani@puremilk.com": true}}
	imp := NewCSVImporter(strings.NewReader(csvData), writer, "admin-1")

	imported, skipped, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if imported != 1 || skipped != 1 {
		t.Fatalf("expected 1 imported and 1 skipped, got %d/%d", imported, skipped)
	}
}

func TestCSVImporter_RejectsIncompleteRows(t *testing.T) {
	csvData := `name,email,milk_type,daily_quantity,rate_per_liter,password
Rani Devi,,buffalo,2.0,60,ranimilk1`

	imp := NewCSVImporter(strings.NewReader(csvData), &stubCustomerWriter{}, "admin-1")
	if _, _, err := imp.Run(context.Background()); err == nil {
		t.Fatalf("rows without an email must fail the import")
	}
}

func TestCSVImporter_IgnoresBlankRows(t *testing.T) {
	csvData := `name,email,milk_type,daily_quantity,rate_per_liter,password
,,,,,
Rani Devi,rani@puremilk.com,buffalo,2.0,60,ranimilk1`

	writer := &stubCustomerWriter{}
	imp := NewCSVImporter(strings.NewReader(csvData), writer, "admin-1")

	imported, _, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if imported != 1 {
		t.Fatalf("expected 1 imported, got %d", imported)
	}
}
