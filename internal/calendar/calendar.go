// Package calendar derives monthly delivery views from a customer profile and
// the persisted delivery records of a month. Everything in this package is
// pure: views are recomputed on every read and never stored.
package calendar

import "time"

// Month identifies a calendar month in the Gregorian calendar.
type Month struct {
	Year  int
	Month time.Month
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: t.Month()}
}

// Before reports whether m is strictly earlier than o.
func (m Month) Before(o Month) bool {
	if m.Year != o.Year {
		return m.Year < o.Year
	}
	return m.Month < o.Month
}

// After reports whether m is strictly later than o.
func (m Month) After(o Month) bool {
	return o.Before(m)
}

// Next returns the following month.
func (m Month) Next() Month {
	t := m.First().AddDate(0, 1, 0)
	return MonthOf(t)
}

// Prev returns the preceding month.
func (m Month) Prev() Month {
	t := m.First().AddDate(0, -1, 0)
	return MonthOf(t)
}

// Days returns the number of days in the month, accounting for leap years.
func (m Month) Days() int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// First returns midnight UTC on the first day of the month.
func (m Month) First() time.Time {
	return time.Date(m.Year, m.Month, 1, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t falls inside the month.
func (m Month) Contains(t time.Time) bool {
	return t.Year() == m.Year && t.Month() == m.Month
}

// Grid lays out the month as week rows starting on Sunday. Cells holds one
// entry per grid position: 0 for the leading placeholders before the 1st,
// then the day numbers 1..Days.
type Grid struct {
	LeadingBlanks int
	Cells         []int
}

// MonthGrid builds the weekday-aligned grid for m. The number of leading
// placeholders equals the weekday index of the 1st (Sunday = 0).
func MonthGrid(m Month) Grid {
	blanks := int(m.First().Weekday())
	days := m.Days()

	cells := make([]int, 0, blanks+days)
	for i := 0; i < blanks; i++ {
		cells = append(cells, 0)
	}
	for day := 1; day <= days; day++ {
		cells = append(cells, day)
	}
	return Grid{LeadingBlanks: blanks, Cells: cells}
}
