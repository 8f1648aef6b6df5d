package httpserver

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"puremilk/internal/domain"
	"puremilk/internal/service/auth"
)

const userContextKey = "currentUser"

// requireAuth validates the bearer token and stores the user in the request
// context.
func requireAuth(authSvc *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			detail(c, http.StatusUnauthorized, "Not authenticated")
			return
		}

		user, err := authSvc.UserFromToken(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			serviceError(c, err, "User not found")
			return
		}

		c.Set(userContextKey, *user)
		c.Next()
	}
}

// requireAdmin rejects non-admin users. It must run after requireAuth.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c).Role != domain.RoleAdmin {
			detail(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

func currentUser(c *gin.Context) domain.User {
	u, _ := c.Get(userContextKey)
	user, _ := u.(domain.User)
	return user
}

// rateLimiter applies a sliding-window request cap per client IP.
type rateLimiter struct {
	mu     sync.Mutex
	seen   map[string][]time.Time
	max    int
	window time.Duration
	now    func() time.Time
}

func newRateLimiter(max int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		seen:   make(map[string][]time.Time),
		max:    max,
		window: window,
		now:    time.Now,
	}
}

func (r *rateLimiter) allow(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	cutoff := now.Add(-r.window)
	kept := r.seen[ip][:0]
	for _, t := range r.seen[ip] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= r.max {
		r.seen[ip] = kept
		return false
	}
	r.seen[ip] = append(kept, now)
	return true
}

func (r *rateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.allow(c.ClientIP()) {
			detail(c, http.StatusTooManyRequests, "Too many requests")
			return
		}
		c.Next()
	}
}
