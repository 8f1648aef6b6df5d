package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"puremilk/internal/domain"
	payrepo "puremilk/internal/repository/payment"
	"puremilk/internal/service/customer"
)

func listPaymentsHandler(payments payrepo.Repository, customers *customer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := payrepo.ListFilter{
			Skip:  queryInt(c, "skip", 0),
			Limit: min(queryInt(c, "limit", 100), 100),
		}

		user := currentUser(c)
		if user.Role == domain.RoleCustomer {
			profile, err := customers.GetByEmail(c.Request.Context(), user.Email)
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusOK, []domain.Payment{})
				return
			}
			if err != nil {
				detail(c, http.StatusInternalServerError, "Failed to fetch payments")
				return
			}
			filter.CustomerID = profile.ID
		} else {
			filter.CustomerID = c.Query("customer_id")
		}

		out, err := payments.List(c.Request.Context(), filter)
		if err != nil {
			detail(c, http.StatusInternalServerError, "Failed to fetch payments")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
