package calendar

import (
	"testing"
	"time"

	"puremilk/internal/domain"
)

func TestSummarizeFutureMonthScenario(t *testing.T) {
	// daily_quantity=2.0, rate=60, morning only, future 30-day month:
	// 30 planned entries, 60.0 liters, 3600.00 amount.
	today := utcDate(2025, time.August, 20)
	view := Fill(testProfile(), nil, Month{2025, time.September}, today)

	sum := Summarize(view, 60)

	if sum.Planned.Slots != 30 {
		t.Fatalf("expected 30 planned slots, got %d", sum.Planned.Slots)
	}
	if sum.Planned.Liters != 60.0 {
		t.Fatalf("expected 60.0 planned liters, got %v", sum.Planned.Liters)
	}
	if sum.Planned.Amount != 3600.00 {
		t.Fatalf("expected 3600.00 planned amount, got %v", sum.Planned.Amount)
	}
	if sum.Delivered.Slots != 0 || sum.Delivered.Liters != 0 || sum.Delivered.Amount != 0 {
		t.Fatalf("expected empty delivered bucket, got %+v", sum.Delivered)
	}
}

func TestSummarizeBucketsAndCombined(t *testing.T) {
	today := utcDate(2025, time.August, 15)
	viewed := MonthOf(today)
	deliveries := []domain.Delivery{
		{
			ID:           "del-1",
			DeliveryDate: utcDate(2025, time.August, 10),
			DeliveryTime: domain.SlotMorning,
			Quantity:     3.0,
			Status:       domain.DeliveryDelivered,
		},
		{
			ID:           "del-2",
			DeliveryDate: utcDate(2025, time.August, 11),
			DeliveryTime: domain.SlotMorning,
			Quantity:     1.5,
			Status:       domain.DeliveryDelivered,
		},
		{
			// Pending recorded delivery: in neither bucket.
			ID:           "del-3",
			DeliveryDate: utcDate(2025, time.August, 20),
			DeliveryTime: domain.SlotMorning,
			Quantity:     2.0,
			Status:       domain.DeliveryPending,
		},
	}

	view := Fill(testProfile(), deliveries, viewed, today)
	sum := Summarize(view, 60)

	if sum.Delivered.Slots != 2 || sum.Delivered.Liters != 4.5 || sum.Delivered.Amount != 270.00 {
		t.Fatalf("unexpected delivered bucket: %+v", sum.Delivered)
	}
	// Days 15..31 minus the recorded day 20 leaves 16 planned mornings.
	if sum.Planned.Slots != 16 || sum.Planned.Liters != 32.0 || sum.Planned.Amount != 1920.00 {
		t.Fatalf("unexpected planned bucket: %+v", sum.Planned)
	}
	if sum.Combined.Slots != sum.Delivered.Slots+sum.Planned.Slots {
		t.Fatalf("combined slots must equal bucket sum")
	}
	if sum.Combined.Liters != 36.5 {
		t.Fatalf("expected 36.5 combined liters, got %v", sum.Combined.Liters)
	}
	if sum.Combined.Amount != 2190.00 {
		t.Fatalf("expected 2190.00 combined amount, got %v", sum.Combined.Amount)
	}
}

func TestSummarizeRounding(t *testing.T) {
	profile := testProfile()
	profile.DailyQuantity = 1.33
	today := utcDate(2025, time.September, 28) // plans days 28, 29, 30
	view := Fill(profile, nil, MonthOf(today), today)

	sum := Summarize(view, 60.55)

	// 3 x 1.33 = 3.99 liters; 3.99 x 60.55 = 241.5945 -> 241.59.
	if sum.Planned.Liters != 4.0 {
		t.Fatalf("expected liters rounded to one decimal (4.0), got %v", sum.Planned.Liters)
	}
	if sum.Planned.Amount != 241.59 {
		t.Fatalf("expected amount rounded to two decimals (241.59), got %v", sum.Planned.Amount)
	}
}

func TestSummarizeCombinedIsSumOfRoundedBuckets(t *testing.T) {
	profile := testProfile()
	profile.DailyQuantity = 1.11
	today := utcDate(2025, time.September, 30) // plans day 30 only
	deliveries := []domain.Delivery{
		{
			ID:           "del-1",
			DeliveryDate: utcDate(2025, time.September, 10),
			DeliveryTime: domain.SlotMorning,
			Quantity:     1.11,
			Status:       domain.DeliveryDelivered,
		},
	}

	view := Fill(profile, deliveries, MonthOf(today), today)
	sum := Summarize(view, 1.015)

	// Each bucket rounds on its own: 1.11 x 1.015 = 1.12665 -> 1.13.
	if sum.Delivered.Amount != 1.13 || sum.Planned.Amount != 1.13 {
		t.Fatalf("unexpected bucket amounts: delivered %v, planned %v",
			sum.Delivered.Amount, sum.Planned.Amount)
	}
	// Combined is the sum of the rounded buckets (2.26), not a fresh
	// rounding of the raw liters (2.22 x 1.015 = 2.2533 -> 2.25).
	if sum.Combined.Amount != sum.Delivered.Amount+sum.Planned.Amount {
		t.Fatalf("combined amount %v must equal %v + %v",
			sum.Combined.Amount, sum.Delivered.Amount, sum.Planned.Amount)
	}
	if sum.Combined.Liters != 2.2 || sum.Combined.Slots != 2 {
		t.Fatalf("unexpected combined totals: %+v", sum.Combined)
	}
}

func TestPendingAmount(t *testing.T) {
	month := Month{2025, time.August}
	payments := []domain.Payment{
		{Amount: 1200.50, PaymentDate: utcDate(2025, time.August, 5), Status: domain.PaymentPending},
		{Amount: 300, PaymentDate: utcDate(2025, time.August, 12), Status: domain.PaymentOverdue},
		{Amount: 999, PaymentDate: utcDate(2025, time.August, 13), Status: domain.PaymentPaid},
		{Amount: 50, PaymentDate: utcDate(2025, time.July, 30), Status: domain.PaymentPending},
	}

	if got := PendingAmount(payments, month); got != 1500.50 {
		t.Fatalf("expected 1500.50 pending, got %v", got)
	}
	if got := PendingAmount(nil, month); got != 0 {
		t.Fatalf("expected zero pending for no payments, got %v", got)
	}
}
