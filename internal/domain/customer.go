package domain

import "time"

// MilkType enumerates the milk varieties a customer can subscribe to.
type MilkType string

const (
	MilkCow     MilkType = "cow"
	MilkBuffalo MilkType = "buffalo"
	MilkGoat    MilkType = "goat"
	MilkMixed   MilkType = "mixed"
)

// Valid reports whether m is a known milk type.
func (m MilkType) Valid() bool {
	switch m {
	case MilkCow, MilkBuffalo, MilkGoat, MilkMixed:
		return true
	}
	return false
}

// Customer is a subscription profile created and maintained by an admin.
// DailyQuantity and RatePerLiter feed the calendar default-fill and all
// revenue aggregation; the delivery-slot flags gate which slots are planned.
type Customer struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	Address         string    `json:"address"`
	MilkType        MilkType  `json:"milk_type"`
	DailyQuantity   float64   `json:"daily_quantity"`
	RatePerLiter    float64   `json:"rate_per_liter"`
	MorningDelivery bool      `json:"morning_delivery"`
	EveningDelivery bool      `json:"evening_delivery"`
	IsActive        bool      `json:"is_active"`
	CreatedBy       string    `json:"created_by"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// SlotEnabled reports whether deliveries in the given slot are part of the
// customer's subscription.
func (c Customer) SlotEnabled(slot TimeSlot) bool {
	switch slot {
	case SlotMorning:
		return c.MorningDelivery
	case SlotEvening:
		return c.EveningDelivery
	}
	return false
}
