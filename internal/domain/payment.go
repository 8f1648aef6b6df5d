package domain

import "time"

// PaymentStatus tracks whether a payment has been settled.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentOverdue PaymentStatus = "overdue"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentOverdue:
		return true
	}
	return false
}

// Outstanding reports whether the payment still counts toward the
// pending-amount aggregation.
func (s PaymentStatus) Outstanding() bool {
	return s == PaymentPending || s == PaymentOverdue
}

// Payment is a billing record for a customer. Payments are read-only through
// the API; there is no creation flow.
type Payment struct {
	ID                 string        `json:"id"`
	CustomerID         string        `json:"customer_id"`
	Amount             float64       `json:"amount"`
	PaymentDate        time.Time     `json:"payment_date"`
	BillingPeriodStart time.Time     `json:"billing_period_start"`
	BillingPeriodEnd   time.Time     `json:"billing_period_end"`
	Status             PaymentStatus `json:"status"`
	PaymentMethod      string        `json:"payment_method,omitempty"`
	Notes              string        `json:"notes,omitempty"`
	CreatedAt          time.Time     `json:"created_at"`
}
