package client

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"puremilk/internal/calendar"
	"puremilk/internal/domain"
)

// MonthData is one fetched calendar month as served by the API.
type MonthData struct {
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	LeadingBlanks int              `json:"leading_blanks"`
	Days          int              `json:"days"`
	Entries       []calendar.Entry `json:"entries"`
	Summary       calendar.Summary `json:"summary"`
}

// Planner drives the month-by-month delivery calendar for one customer.
// Edits are validated locally before any request goes out, and every saved
// edit is followed by exactly one refetch of the viewed month.
//
// Navigation is not serialized: a response landing after the user has moved
// on carries a stale generation, which the caller can compare against
// Generation() to decide whether to apply it.
type Planner struct {
	client     *Client
	customerID string

	viewed     calendar.Month
	generation uint64

	now func() time.Time
}

// NewPlanner creates a Planner. customerID may be empty for customer-role
// sessions, where the server resolves the caller's own record.
func NewPlanner(c *Client, customerID string) *Planner {
	return &Planner{
		client:     c,
		customerID: customerID,
		viewed:     calendar.MonthOf(time.Now().UTC()),
		now:        time.Now,
	}
}

// Viewed returns the currently viewed month.
func (p *Planner) Viewed() calendar.Month {
	return p.viewed
}

// Generation returns the fetch counter. It increments on every navigation,
// so callers can discard responses from months they have already left.
func (p *Planner) Generation() uint64 {
	return p.generation
}

// Load fetches the viewed month.
func (p *Planner) Load(ctx context.Context) (*MonthData, uint64, error) {
	p.generation++
	gen := p.generation

	q := pageQuery(0, 0)
	q.Set("year", strconv.Itoa(p.viewed.Year))
	q.Set("month", strconv.Itoa(int(p.viewed.Month)))
	if p.customerID != "" {
		q.Set("customer_id", p.customerID)
	}

	var out MonthData
	if err := p.client.do(ctx, http.MethodGet, "/deliveries/calendar", q, nil, &out); err != nil {
		return nil, gen, err
	}
	return &out, gen, nil
}

// Next moves the view one month forward and fetches it.
func (p *Planner) Next(ctx context.Context) (*MonthData, uint64, error) {
	p.viewed = p.viewed.Next()
	return p.Load(ctx)
}

// Prev moves the view one month back and fetches it.
func (p *Planner) Prev(ctx context.Context) (*MonthData, uint64, error) {
	p.viewed = p.viewed.Prev()
	return p.Load(ctx)
}

// SaveEdit validates the edit against the viewed month and, when valid,
// writes the slot and refetches the month. A rejected edit makes no request
// at all.
func (p *Planner) SaveEdit(ctx context.Context, day int, slot domain.TimeSlot, quantity float64) (*MonthData, uint64, error) {
	if err := calendar.ValidateEdit(p.viewed, day, p.now().UTC(), quantity); err != nil {
		return nil, p.generation, err
	}

	_, err := p.client.CreateDelivery(ctx, DeliveryInput{
		CustomerID:   p.customerID,
		DeliveryDate: time.Date(p.viewed.Year, p.viewed.Month, day, 0, 0, 0, 0, time.UTC),
		DeliveryTime: string(slot),
		Quantity:     quantity,
	})
	if err != nil {
		return nil, p.generation, err
	}

	return p.Load(ctx)
}
