package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"puremilk/internal/config"
	"puremilk/internal/domain"
	custrepo "puremilk/internal/repository/customer"
	delrepo "puremilk/internal/repository/delivery"
	payrepo "puremilk/internal/repository/payment"
	"puremilk/internal/service/auth"
	"puremilk/internal/service/customer"
	"puremilk/internal/service/dashboard"
	"puremilk/internal/service/delivery"
)

// In-memory repositories backing the router tests.

type memUsers struct {
	seq   int
	users map[string]*domain.User
}

func newMemUsers() *memUsers { return &memUsers{users: make(map[string]*domain.User)} }

func (m *memUsers) Create(_ context.Context, u domain.User) (*domain.User, error) {
	if _, ok := m.users[strings.ToLower(u.Email)]; ok {
		return nil, domain.ErrAlreadyExists
	}
	m.seq++
	u.ID = "user-" + strconv.Itoa(m.seq)
	u.CreatedAt = time.Now().UTC()
	m.users[strings.ToLower(u.Email)] = &u
	out := u
	return &out, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := m.users[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			out := *u
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) CountByRole(_ context.Context, role domain.Role) (int, error) {
	n := 0
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (m *memUsers) RecordLoginFailure(_ context.Context, id string, attempts int, lockedUntil *time.Time) error {
	for _, u := range m.users {
		if u.ID == id {
			u.FailedLoginAttempts = attempts
			u.LockedUntil = lockedUntil
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memUsers) RecordLoginSuccess(_ context.Context, id string, at time.Time) error {
	for _, u := range m.users {
		if u.ID == id {
			u.FailedLoginAttempts = 0
			u.LockedUntil = nil
			u.LastLogin = &at
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memUsers) DeleteByEmail(_ context.Context, email string) error {
	delete(m.users, strings.ToLower(email))
	return nil
}

type memCustomers struct {
	seq       int
	customers map[string]*domain.Customer
}

func newMemCustomers() *memCustomers {
	return &memCustomers{customers: make(map[string]*domain.Customer)}
}

func (m *memCustomers) Create(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	for _, existing := range m.customers {
		if existing.Email == c.Email {
			return nil, domain.ErrAlreadyExists
		}
	}
	m.seq++
	c.ID = "cust-" + strconv.Itoa(m.seq)
	c.CreatedAt = time.Now().UTC()
	m.customers[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memCustomers) List(_ context.Context, f custrepo.ListFilter) ([]domain.Customer, error) {
	out := make([]domain.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memCustomers) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (m *memCustomers) GetByEmail(_ context.Context, email string) (*domain.Customer, error) {
	for _, c := range m.customers {
		if c.Email == strings.ToLower(email) {
			out := *c
			return &out, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memCustomers) Update(_ context.Context, c domain.Customer) (*domain.Customer, error) {
	if _, ok := m.customers[c.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	m.customers[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memCustomers) Delete(_ context.Context, id string) error {
	if _, ok := m.customers[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.customers, id)
	return nil
}

func (m *memCustomers) Count(_ context.Context, activeOnly bool) (int, error) {
	n := 0
	for _, c := range m.customers {
		if !activeOnly || c.IsActive {
			n++
		}
	}
	return n, nil
}

type memDeliveries struct {
	seq        int
	deliveries map[string]*domain.Delivery
}

func newMemDeliveries() *memDeliveries {
	return &memDeliveries{deliveries: make(map[string]*domain.Delivery)}
}

func (m *memDeliveries) UpsertSlot(_ context.Context, d domain.Delivery) (*domain.Delivery, error) {
	for _, existing := range m.deliveries {
		if existing.CustomerID == d.CustomerID &&
			existing.DeliveryDate.Equal(d.DeliveryDate) &&
			existing.DeliveryTime == d.DeliveryTime {
			existing.Quantity = d.Quantity
			existing.Notes = d.Notes
			out := *existing
			return &out, nil
		}
	}
	m.seq++
	d.ID = "del-" + strconv.Itoa(m.seq)
	d.CreatedAt = time.Now().UTC()
	m.deliveries[d.ID] = &d
	out := d
	return &out, nil
}

func (m *memDeliveries) GetByID(_ context.Context, id string) (*domain.Delivery, error) {
	d, ok := m.deliveries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *d
	return &out, nil
}

func (m *memDeliveries) Update(_ context.Context, id string, in delrepo.UpdateInput) (*domain.Delivery, error) {
	d, ok := m.deliveries[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.Quantity != nil {
		d.Quantity = *in.Quantity
	}
	if in.Status != nil {
		d.Status = *in.Status
	}
	if in.DeliveredAt != nil {
		d.DeliveredAt = in.DeliveredAt
	}
	out := *d
	return &out, nil
}

func (m *memDeliveries) List(_ context.Context, f delrepo.ListFilter) ([]domain.Delivery, error) {
	out := make([]domain.Delivery, 0, len(m.deliveries))
	for _, d := range m.deliveries {
		if f.CustomerID != "" && d.CustomerID != f.CustomerID {
			continue
		}
		if f.Status != "" && d.Status != f.Status {
			continue
		}
		if f.Date != nil && !d.DeliveryDate.Equal(f.Date.Truncate(24*time.Hour)) {
			continue
		}
		if f.Start != nil && d.DeliveryDate.Before(*f.Start) {
			continue
		}
		if f.End != nil && d.DeliveryDate.After(*f.End) {
			continue
		}
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memDeliveries) CountForDate(_ context.Context, day time.Time, customerID string, status domain.DeliveryStatus) (int, error) {
	n := 0
	for _, d := range m.deliveries {
		if !d.DeliveryDate.Equal(day.Truncate(24 * time.Hour)) {
			continue
		}
		if customerID != "" && d.CustomerID != customerID {
			continue
		}
		if status != "" && d.Status != status {
			continue
		}
		n++
	}
	return n, nil
}

type memPayments struct {
	seq      int
	payments map[string]*domain.Payment
}

func newMemPayments() *memPayments { return &memPayments{payments: make(map[string]*domain.Payment)} }

func (m *memPayments) Create(_ context.Context, p domain.Payment) (*domain.Payment, error) {
	m.seq++
	p.ID = "pay-" + strconv.Itoa(m.seq)
	p.CreatedAt = time.Now().UTC()
	m.payments[p.ID] = &p
	out := p
	return &out, nil
}

func (m *memPayments) List(_ context.Context, f payrepo.ListFilter) ([]domain.Payment, error) {
	out := make([]domain.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		if f.CustomerID != "" && p.CustomerID != f.CustomerID {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memPayments) SumPaidBetween(_ context.Context, start, end time.Time, customerID string) (float64, error) {
	var total float64
	for _, p := range m.payments {
		if p.Status != domain.PaymentPaid {
			continue
		}
		if customerID != "" && p.CustomerID != customerID {
			continue
		}
		if p.PaymentDate.Before(start) || !p.PaymentDate.Before(end) {
			continue
		}
		total += p.Amount
	}
	return total, nil
}

func (m *memPayments) SumOutstanding(_ context.Context, customerID string) (float64, error) {
	var total float64
	for _, p := range m.payments {
		if !p.Status.Outstanding() {
			continue
		}
		if customerID != "" && p.CustomerID != customerID {
			continue
		}
		total += p.Amount
	}
	return total, nil
}

// testEnv wires real services over in-memory storage behind the full router.
type testEnv struct {
	router     *gin.Engine
	users      *memUsers
	customers  *memCustomers
	deliveries *memDeliveries
	payments   *memPayments
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newMemUsers()
	customers := newMemCustomers()
	deliveries := newMemDeliveries()
	payments := newMemPayments()

	cfg := config.Config{
		HTTPAddr:        ":0",
		JWTSecret:       "test-secret",
		JWTExpiry:       time.Hour,
		CORSOrigins:     []string{"*"},
		RateLimitMax:    1000,
		RateLimitWindow: time.Hour,
		MaxCustomers:    10000,
	}

	deps := Deps{
		Auth:       auth.New(users, cfg.JWTSecret, cfg.JWTExpiry),
		Customers:  customer.New(customers, users, cfg.MaxCustomers),
		Deliveries: delivery.New(deliveries, customers),
		Dashboard:  dashboard.New(customers, deliveries, payments),
		Payments:   payments,
	}

	logger := log.New(io.Discard, "", 0)
	router := buildRouter(cfg, logger, nil, deps)

	return &testEnv{
		router:     router,
		users:      users,
		customers:  customers,
		deliveries: deliveries,
		payments:   payments,
	}
}

// do performs a request and decodes the JSON body into out when non-nil.
func (e *testEnv) do(t *testing.T, method, path, token string, body, out interface{}) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	if out != nil && rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), out); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec.Code
}

// registerAdmin creates the first admin account and returns its token.
func (e *testEnv) registerAdmin(t *testing.T) string {
	t.Helper()
	var resp authResponse
	code := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "admin@dairy.test",
		"password": "secret123",
		"role":     "admin",
		"name":     "Admin",
	}, &resp)
	if code != http.StatusOK {
		t.Fatalf("admin registration failed with status %d", code)
	}
	return resp.Token
}

// createCustomer provisions a customer through the API and returns its ID.
func (e *testEnv) createCustomer(t *testing.T, adminToken, email string) string {
	t.Helper()
	var created domain.Customer
	code := e.do(t, http.MethodPost, "/api/customers", adminToken, map[string]interface{}{
		"name":             "Rani Devi",
		"email":            email,
		"phone":            "9876543210",
		"milk_type":        "buffalo",
		"daily_quantity":   2.0,
		"rate_per_liter":   60.0,
		"morning_delivery": true,
		"password":         "milkman12",
		"confirm_password": "milkman12",
	}, &created)
	if code != http.StatusOK {
		t.Fatalf("customer creation failed with status %d", code)
	}
	return created.ID
}
