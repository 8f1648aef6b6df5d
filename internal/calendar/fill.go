package calendar

import (
	"sort"
	"time"

	"puremilk/internal/domain"
)

// CellState classifies one (day, slot) cell of the derived view.
type CellState string

const (
	// StateRecorded marks a cell backed by a persisted delivery record.
	StateRecorded CellState = "recorded"
	// StatePlanned marks a cell auto-filled from the profile defaults.
	StatePlanned CellState = "planned"
	// StateEmpty marks a cell with no record and no auto-fill eligibility.
	StateEmpty CellState = "empty"
)

// SlotKey addresses one delivery opportunity inside a month.
type SlotKey struct {
	Day  int
	Slot domain.TimeSlot
}

// Entry is the derived content of a non-empty cell. Recorded entries carry
// the backing delivery's id and status; planned entries carry the profile's
// daily quantity and IsDefault set.
type Entry struct {
	Day        int                   `json:"day"`
	Slot       domain.TimeSlot       `json:"slot"`
	Quantity   float64               `json:"quantity"`
	Status     domain.DeliveryStatus `json:"status,omitempty"`
	IsDefault  bool                  `json:"is_default"`
	DeliveryID string                `json:"delivery_id,omitempty"`
}

// View is the fully derived calendar for one (customer, month) pair.
type View struct {
	Month   Month
	Grid    Grid
	Entries map[SlotKey]Entry
}

// State returns the cell classification for (day, slot).
func (v View) State(day int, slot domain.TimeSlot) CellState {
	e, ok := v.Entries[SlotKey{Day: day, Slot: slot}]
	switch {
	case !ok:
		return StateEmpty
	case e.IsDefault:
		return StatePlanned
	default:
		return StateRecorded
	}
}

// Sorted returns the entries ordered by day, morning before evening.
func (v View) Sorted() []Entry {
	out := make([]Entry, 0, len(v.Entries))
	for _, e := range v.Entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Day != out[j].Day {
			return out[i].Day < out[j].Day
		}
		return out[i].Slot == domain.SlotMorning && out[j].Slot == domain.SlotEvening
	})
	return out
}

var slots = []domain.TimeSlot{domain.SlotMorning, domain.SlotEvening}

// Fill computes the derived view for one customer and month. Recorded
// deliveries strictly shadow planned entries for the same slot. Planned
// entries are produced only for slot-enabled days inside the eligibility
// window: every day of a future month, today onward in the current month,
// and never in a past month. The computation has no side effects, so
// re-running it on unchanged inputs yields an identical view.
func Fill(profile domain.Customer, deliveries []domain.Delivery, viewed Month, today time.Time) View {
	view := View{
		Month:   viewed,
		Grid:    MonthGrid(viewed),
		Entries: make(map[SlotKey]Entry),
	}

	for _, d := range deliveries {
		if !viewed.Contains(d.DeliveryDate) || !d.DeliveryTime.Valid() {
			continue
		}
		key := SlotKey{Day: d.DeliveryDate.Day(), Slot: d.DeliveryTime}
		view.Entries[key] = Entry{
			Day:        key.Day,
			Slot:       key.Slot,
			Quantity:   d.Quantity,
			Status:     d.Status,
			DeliveryID: d.ID,
		}
	}

	firstDay, ok := fillWindowStart(viewed, today)
	if !ok {
		return view
	}

	for day := firstDay; day <= viewed.Days(); day++ {
		for _, slot := range slots {
			if !profile.SlotEnabled(slot) {
				continue
			}
			key := SlotKey{Day: day, Slot: slot}
			if _, exists := view.Entries[key]; exists {
				continue
			}
			view.Entries[key] = Entry{
				Day:       day,
				Slot:      slot,
				Quantity:  profile.DailyQuantity,
				Status:    domain.DeliveryPending,
				IsDefault: true,
			}
		}
	}
	return view
}

// fillWindowStart returns the first auto-fill eligible day of the viewed
// month, or false when no day is eligible.
func fillWindowStart(viewed Month, today time.Time) (int, bool) {
	current := MonthOf(today)
	switch {
	case viewed.Before(current):
		return 0, false
	case viewed.After(current):
		return 1, true
	default:
		return today.Day(), true
	}
}
