package calendar

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestValidateEdit(t *testing.T) {
	today := time.Date(2025, time.August, 15, 9, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		viewed   Month
		day      int
		quantity float64
		want     error
	}{
		{"past month", Month{2025, time.July}, 31, 2.5, ErrPastMonth},
		{"past year", Month{2024, time.December}, 1, 2.5, ErrPastMonth},
		{"past day in current month", Month{2025, time.August}, 14, 2.5, ErrPastDate},
		{"today is editable", Month{2025, time.August}, 15, 2.5, nil},
		{"future day in current month", Month{2025, time.August}, 20, 2.5, nil},
		{"future month any day", Month{2025, time.September}, 1, 2.5, nil},
		{"zero quantity", Month{2025, time.September}, 1, 0, ErrInvalidQuantity},
		{"negative quantity", Month{2025, time.September}, 1, -1, ErrInvalidQuantity},
		{"nan quantity", Month{2025, time.September}, 1, math.NaN(), ErrInvalidQuantity},
		{"infinite quantity", Month{2025, time.September}, 1, math.Inf(1), ErrInvalidQuantity},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := ValidateEdit(c.viewed, c.day, today, c.quantity)
			if !errors.Is(err, c.want) {
				t.Fatalf("expected %v, got %v", c.want, err)
			}
		})
	}
}

func TestValidateEditMonthRuleBeforeQuantityRule(t *testing.T) {
	// A bad quantity on a past month must still surface the month error,
	// matching the ordered evaluation of the rules.
	today := time.Date(2025, time.August, 15, 0, 0, 0, 0, time.UTC)
	err := ValidateEdit(Month{2025, time.July}, 1, today, -5)
	if !errors.Is(err, ErrPastMonth) {
		t.Fatalf("expected ErrPastMonth, got %v", err)
	}
}
