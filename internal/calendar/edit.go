package calendar

import (
	"errors"
	"math"
	"time"
)

// Edit rejection errors carry the exact message surfaced to the user. A
// failed validation must abort before any network or storage call is made.
var (
	ErrPastMonth       = errors.New("cannot edit past months")
	ErrPastDate        = errors.New("cannot edit past dates in current month")
	ErrInvalidQuantity = errors.New("quantity must be a positive number")
)

// ValidateEdit applies the edit-authorization rules, in order, for saving a
// quantity into (viewed month, day). The rules are evaluated against today's
// real date, not the record's state.
func ValidateEdit(viewed Month, day int, today time.Time, quantity float64) error {
	current := MonthOf(today)
	if viewed.Before(current) {
		return ErrPastMonth
	}
	if viewed == current && day < today.Day() {
		return ErrPastDate
	}
	if quantity <= 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return ErrInvalidQuantity
	}
	return nil
}
