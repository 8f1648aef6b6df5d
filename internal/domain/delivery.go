package domain

import "time"

// TimeSlot identifies one of the two delivery opportunities per day.
type TimeSlot string

const (
	SlotMorning TimeSlot = "morning"
	SlotEvening TimeSlot = "evening"
)

// Valid reports whether s is a known slot.
func (s TimeSlot) Valid() bool {
	return s == SlotMorning || s == SlotEvening
}

// DeliveryStatus tracks the lifecycle of a delivery record.
type DeliveryStatus string

const (
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryCancelled DeliveryStatus = "cancelled"
)

// Valid reports whether s is a known delivery status.
func (s DeliveryStatus) Valid() bool {
	switch s {
	case DeliveryPending, DeliveryDelivered, DeliveryCancelled:
		return true
	}
	return false
}

// Delivery is one persisted milk drop for a (customer, date, slot). At most
// one record exists per slot; writing to an occupied slot updates it.
type Delivery struct {
	ID           string         `json:"id"`
	CustomerID   string         `json:"customer_id"`
	DeliveryDate time.Time      `json:"delivery_date"`
	DeliveryTime TimeSlot       `json:"delivery_time"`
	MilkType     MilkType       `json:"milk_type"`
	Quantity     float64        `json:"quantity"`
	Status       DeliveryStatus `json:"status"`
	Notes        string         `json:"notes,omitempty"`
	DeliveredAt  *time.Time     `json:"delivered_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
