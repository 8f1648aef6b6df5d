package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"puremilk/internal/domain"
)

// APIError is a non-2xx answer from the server, carrying the detail message
// from the error envelope.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Detail)
}

// Client is a typed consumer of the delivery API. All calls attach the
// session's bearer token when present; a 401 answer clears the session.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	retry   RetryPolicy
}

// New creates a Client for the given base URL (scheme and host, no /api
// suffix).
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		session: &Session{},
		retry:   DefaultRetryPolicy(),
	}
}

// WithRetryPolicy overrides the GET retry behavior.
func (c *Client) WithRetryPolicy(p RetryPolicy) *Client {
	c.retry = p
	return c
}

// Session exposes the client's session for inspection.
func (c *Client) Session() *Session {
	return c.session
}

// do performs one API call. GETs are retried per the policy; everything else
// goes out exactly once.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	var payload []byte
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = raw
	}

	endpoint := c.baseURL + "/api" + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	attempts := 1
	if method == http.MethodGet {
		attempts = c.retry.attempts()
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			c.retry.pause(attempt - 1)
		}

		status, respBody, err := c.roundTrip(ctx, method, endpoint, payload)
		if err == nil && status < http.StatusInternalServerError {
			return c.finish(status, respBody, out)
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = c.finish(status, respBody, out)
		}
		if !retryable(status, err) {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) roundTrip(ctx context.Context, method, endpoint string, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token := c.session.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// finish decodes a completed response. Expired or rejected credentials drop
// the session so the caller can re-authenticate.
func (c *Client) finish(status int, body []byte, out interface{}) error {
	if status == http.StatusUnauthorized {
		c.session.Clear()
	}
	if status < 200 || status >= 300 {
		apiErr := &APIError{Status: status, Detail: strings.TrimSpace(string(body))}
		var envelope struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(body, &envelope) == nil && envelope.Detail != "" {
			apiErr.Detail = envelope.Detail
		}
		return apiErr
	}
	if out == nil || len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

type authResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

// CheckAdmin reports whether the system already has an admin account.
func (c *Client) CheckAdmin(ctx context.Context) (bool, error) {
	var out struct {
		AdminExists bool `json:"admin_exists"`
	}
	err := c.do(ctx, http.MethodGet, "/auth/check-admin", nil, nil, &out)
	return out.AdminExists, err
}

// RegisterInput is the self-registration request body.
type RegisterInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Phone    string `json:"phone,omitempty"`
}

// Register creates an account and starts a session for it.
func (c *Client) Register(ctx context.Context, in RegisterInput) (UserInfo, error) {
	var out authResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, in, &out); err != nil {
		return UserInfo{}, err
	}
	c.session.Set(out.Token, out.User)
	return out.User, nil
}

// Login authenticates and starts a session.
func (c *Client) Login(ctx context.Context, email, password string) (UserInfo, error) {
	var out authResponse
	in := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, in, &out); err != nil {
		return UserInfo{}, err
	}
	c.session.Set(out.Token, out.User)
	return out.User, nil
}

// Logout drops the session locally. The token simply expires server-side.
func (c *Client) Logout() {
	c.session.Clear()
}

// Me fetches the full record of the logged-in user.
func (c *Client) Me(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &out)
	return out, err
}

// CustomerInput is the create-customer request body.
type CustomerInput struct {
	Name            string  `json:"name"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	Address         string  `json:"address,omitempty"`
	MilkType        string  `json:"milk_type"`
	DailyQuantity   float64 `json:"daily_quantity"`
	RatePerLiter    float64 `json:"rate_per_liter"`
	MorningDelivery bool    `json:"morning_delivery"`
	EveningDelivery bool    `json:"evening_delivery"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
}

// CustomerUpdate carries the mutable customer fields; nil means unchanged.
type CustomerUpdate struct {
	Name            *string  `json:"name,omitempty"`
	Email           *string  `json:"email,omitempty"`
	Phone           *string  `json:"phone,omitempty"`
	Address         *string  `json:"address,omitempty"`
	MilkType        *string  `json:"milk_type,omitempty"`
	DailyQuantity   *float64 `json:"daily_quantity,omitempty"`
	RatePerLiter    *float64 `json:"rate_per_liter,omitempty"`
	MorningDelivery *bool    `json:"morning_delivery,omitempty"`
	EveningDelivery *bool    `json:"evening_delivery,omitempty"`
	IsActive        *bool    `json:"is_active,omitempty"`
}

// Customers lists customers, optionally filtered by a search term.
func (c *Client) Customers(ctx context.Context, search string, skip, limit int) ([]domain.Customer, error) {
	q := pageQuery(skip, limit)
	if search != "" {
		q.Set("search", search)
	}
	var out []domain.Customer
	err := c.do(ctx, http.MethodGet, "/customers", q, nil, &out)
	return out, err
}

// CreateCustomer registers a customer and their login account.
func (c *Client) CreateCustomer(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.do(ctx, http.MethodPost, "/customers", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Customer fetches one customer by id.
func (c *Client) Customer(ctx context.Context, id string) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.do(ctx, http.MethodGet, "/customers/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCustomer applies a partial update.
func (c *Client) UpdateCustomer(ctx context.Context, id string, in CustomerUpdate) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.do(ctx, http.MethodPut, "/customers/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCustomer removes the customer, their login, and their records.
func (c *Client) DeleteCustomer(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/customers/"+url.PathEscape(id), nil, nil, nil)
}

// DeliveryFilter narrows the delivery listing.
type DeliveryFilter struct {
	CustomerID string
	Date       string
	StartDate  string
	EndDate    string
	Status     string
	Skip       int
	Limit      int
}

// Deliveries lists delivery records.
func (c *Client) Deliveries(ctx context.Context, f DeliveryFilter) ([]domain.Delivery, error) {
	q := pageQuery(f.Skip, f.Limit)
	for key, val := range map[string]string{
		"customer_id": f.CustomerID,
		"date":        f.Date,
		"start_date":  f.StartDate,
		"end_date":    f.EndDate,
		"status":      f.Status,
	} {
		if val != "" {
			q.Set(key, val)
		}
	}
	var out []domain.Delivery
	err := c.do(ctx, http.MethodGet, "/deliveries", q, nil, &out)
	return out, err
}

// DeliveryInput is the create-delivery request body.
type DeliveryInput struct {
	CustomerID   string    `json:"customer_id"`
	DeliveryDate time.Time `json:"delivery_date"`
	DeliveryTime string    `json:"delivery_time"`
	Quantity     float64   `json:"quantity"`
	Notes        string    `json:"notes,omitempty"`
}

// CreateDelivery records a delivery slot. Writing an occupied slot updates
// it in place.
func (c *Client) CreateDelivery(ctx context.Context, in DeliveryInput) (*domain.Delivery, error) {
	var out domain.Delivery
	if err := c.do(ctx, http.MethodPost, "/deliveries", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeliveryUpdate carries the mutable delivery fields; nil means unchanged.
type DeliveryUpdate struct {
	Quantity *float64 `json:"quantity,omitempty"`
	Status   *string  `json:"status,omitempty"`
}

// UpdateDelivery applies a partial update to a delivery.
func (c *Client) UpdateDelivery(ctx context.Context, id string, in DeliveryUpdate) (*domain.Delivery, error) {
	var out domain.Delivery
	if err := c.do(ctx, http.MethodPut, "/deliveries/"+url.PathEscape(id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDeliveryStatus moves a delivery to the given status.
func (c *Client) UpdateDeliveryStatus(ctx context.Context, id, status string) (*domain.Delivery, error) {
	q := url.Values{"status": {status}}
	var out domain.Delivery
	if err := c.do(ctx, http.MethodPut, "/deliveries/"+url.PathEscape(id)+"/status", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Payments lists payment records; admins may scope by customer.
func (c *Client) Payments(ctx context.Context, customerID string, skip, limit int) ([]domain.Payment, error) {
	q := pageQuery(skip, limit)
	if customerID != "" {
		q.Set("customer_id", customerID)
	}
	var out []domain.Payment
	err := c.do(ctx, http.MethodGet, "/payments", q, nil, &out)
	return out, err
}

// DashboardStats fetches the role-scoped dashboard counters.
func (c *Client) DashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	var out domain.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Profile fetches the caller's own customer record. Customer role only.
func (c *Client) Profile(ctx context.Context) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.do(ctx, http.MethodGet, "/customer/profile", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OwnDeliveries fetches the caller's own delivery history.
func (c *Client) OwnDeliveries(ctx context.Context, skip, limit int) ([]domain.Delivery, error) {
	var out struct {
		Deliveries []domain.Delivery `json:"deliveries"`
	}
	err := c.do(ctx, http.MethodGet, "/customer/deliveries", pageQuery(skip, limit), nil, &out)
	return out.Deliveries, err
}

// OwnPayments fetches the caller's own payment history.
func (c *Client) OwnPayments(ctx context.Context, skip, limit int) ([]domain.Payment, error) {
	var out struct {
		Payments []domain.Payment `json:"payments"`
	}
	err := c.do(ctx, http.MethodGet, "/customer/payments", pageQuery(skip, limit), nil, &out)
	return out.Payments, err
}

func pageQuery(skip, limit int) url.Values {
	q := url.Values{}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}
