package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"puremilk/internal/domain"
	"puremilk/internal/service/auth"
	"puremilk/internal/service/customer"
)

// detail writes the error envelope every endpoint uses.
func detail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"detail": msg})
}

// serviceError maps service-layer errors onto HTTP statuses. notFoundMsg
// customizes the 404 body, since callers know which entity was missing.
func serviceError(c *gin.Context, err error, notFoundMsg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		detail(c, http.StatusNotFound, notFoundMsg)
	case errors.Is(err, auth.ErrAdminExists):
		detail(c, http.StatusForbidden, "Admin already exists. Only the first user can register as admin.")
	case errors.Is(err, auth.ErrInvalidCredentials):
		detail(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, auth.ErrAccountLocked):
		detail(c, http.StatusUnauthorized, "Account temporarily locked")
	case errors.Is(err, auth.ErrAccountDisabled):
		detail(c, http.StatusUnauthorized, "Account is disabled")
	case errors.Is(err, auth.ErrInvalidToken):
		detail(c, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, domain.ErrAlreadyExists):
		detail(c, http.StatusBadRequest, "User already exists")
	case errors.Is(err, customer.ErrPasswordMismatch):
		detail(c, http.StatusBadRequest, "Passwords do not match")
	case errors.Is(err, customer.ErrLimitReached):
		detail(c, http.StatusBadRequest, "Maximum customer limit reached")
	case errors.Is(err, customer.ErrEmailTaken):
		detail(c, http.StatusBadRequest, "Customer with this email already exists")
	case errors.Is(err, domain.ErrValidation):
		detail(c, http.StatusBadRequest, err.Error())
	default:
		// Anything else is an infrastructure failure. Its text stays out of
		// the response body.
		detail(c, http.StatusInternalServerError, "Internal server error")
	}
}
