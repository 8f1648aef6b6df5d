package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"puremilk/internal/domain"
	delrepo "puremilk/internal/repository/delivery"
	payrepo "puremilk/internal/repository/payment"
	"puremilk/internal/service/customer"
	"puremilk/internal/service/delivery"
)

// ownProfile resolves the caller's customer record. Only customer-role users
// may use the portal routes.
func ownProfile(c *gin.Context, customers *customer.Service) (*domain.Customer, bool) {
	user := currentUser(c)
	if user.Role != domain.RoleCustomer {
		detail(c, http.StatusForbidden, "Customer access only")
		return nil, false
	}

	profile, err := customers.GetByEmail(c.Request.Context(), user.Email)
	if err != nil {
		serviceError(c, err, "Customer profile not found")
		return nil, false
	}
	return profile, true
}

func customerProfileHandler(customers *customer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := ownProfile(c, customers)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, profile)
	}
}

func customerDeliveriesHandler(deliveries *delivery.Service, customers *customer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := ownProfile(c, customers)
		if !ok {
			return
		}

		out, err := deliveries.List(c.Request.Context(), delrepo.ListFilter{
			CustomerID: profile.ID,
			Skip:       queryInt(c, "skip", 0),
			Limit:      queryInt(c, "limit", 100),
		})
		if err != nil {
			detail(c, http.StatusInternalServerError, "Failed to fetch deliveries")
			return
		}
		c.JSON(http.StatusOK, gin.H{"deliveries": out, "count": len(out)})
	}
}

func customerPaymentsHandler(payments payrepo.Repository, customers *customer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, ok := ownProfile(c, customers)
		if !ok {
			return
		}

		out, err := payments.List(c.Request.Context(), payrepo.ListFilter{
			CustomerID: profile.ID,
			Skip:       queryInt(c, "skip", 0),
			Limit:      min(queryInt(c, "limit", 100), 100),
		})
		if err != nil {
			detail(c, http.StatusInternalServerError, "Failed to fetch payments")
			return
		}
		c.JSON(http.StatusOK, gin.H{"payments": out, "count": len(out)})
	}
}
