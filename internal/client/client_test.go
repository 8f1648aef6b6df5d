package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

// noSleepPolicy retries immediately so tests stay fast.
func noSleepPolicy(attempts int) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: attempts,
		Backoff:     func(int) time.Duration { return time.Millisecond },
		sleep:       func(time.Duration) {},
	}
}

func TestLoginStartsSession(t *testing.T) {
	var sawAuth atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/login":
			json.NewEncoder(w).Encode(map[string]interface{}{
				"token": "tok-123",
				"user":  map[string]string{"id": "u1", "email": "a@b.test", "role": "admin", "name": "A"},
			})
		case "/api/dashboard/stats":
			sawAuth.Store(r.Header.Get("Authorization"))
			w.Write([]byte("{}"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	c := New(srv.URL)
	user, err := c.Login(context.Background(), "a@b.test", "secret123")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.Role != "admin" {
		t.Fatalf("unexpected user %+v", user)
	}
	if !c.Session().Authenticated() {
		t.Fatalf("login must start a session")
	}

	if _, err := c.DashboardStats(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := sawAuth.Load(); got != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %v", got)
	}
}

func TestUnauthorizedClearsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Token has expired"}`))
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.Session().Set("stale", UserInfo{ID: "u1"})

	_, err := c.DashboardStats(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("expected a 401 APIError, got %v", err)
	}
	if apiErr.Detail != "Token has expired" {
		t.Fatalf("detail envelope not decoded, got %q", apiErr.Detail)
	}
	if c.Session().Authenticated() {
		t.Fatalf("401 must clear the session")
	}
}

func TestGetRetriesOnServerError(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := New(srv.URL).WithRetryPolicy(noSleepPolicy(3))
	if _, err := c.Customers(context.Background(), "", 0, 0); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestGetGivesUpAfterMaxAttempts(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL).WithRetryPolicy(noSleepPolicy(2))
	_, err := c.Customers(context.Background(), "", 0, 0)
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected a 500 APIError, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}

func TestMutationsAreNeverRetried(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := New(srv.URL).WithRetryPolicy(noSleepPolicy(5))
	_, err := c.CreateDelivery(context.Background(), DeliveryInput{
		CustomerID:   "cust-1",
		DeliveryDate: time.Now(),
		DeliveryTime: "morning",
		Quantity:     2,
	})
	if err == nil {
		t.Fatalf("expected an error")
	}
	if calls.Load() != 1 {
		t.Fatalf("mutations must go out exactly once, got %d calls", calls.Load())
	}
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Customer not found"}`))
	}))
	defer srv.Close()

	c := New(srv.URL).WithRetryPolicy(noSleepPolicy(5))
	_, err := c.Customer(context.Background(), "ghost")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		t.Fatalf("expected a 404 APIError, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("4xx answers must not be retried, got %d calls", calls.Load())
	}
}

func TestUserMessageTaxonomy(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"network", errors.New("dial tcp: connection refused"), "check connection / backend availability"},
		{"unauthorized", &APIError{Status: 401}, "session expired, please log in again"},
		{"forbidden", &APIError{Status: 403, Detail: "Admin access required"}, "not permitted"},
		{"not found", &APIError{Status: 404}, "resource not found"},
		{"rate limited", &APIError{Status: 429}, "too many requests, retry later"},
		{"server error", &APIError{Status: 500}, "server error, try again"},
		{"validation detail", &APIError{Status: 400, Detail: "quantity must be a positive number"}, "quantity must be a positive number"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := UserMessage(c.err); got != c.want {
				t.Fatalf("got %q, want %q", got, c.want)
			}
		})
	}
}

func TestDefaultBackoffIsExponential(t *testing.T) {
	policy := DefaultRetryPolicy()
	want := []time.Duration{
		500 * time.Millisecond,
		time.Second,
		2 * time.Second,
		4 * time.Second,
	}
	for i, w := range want {
		if got := policy.Backoff(i + 1); got != w {
			t.Fatalf("retry %d: expected pause %v, got %v", i+1, w, got)
		}
	}
}
