package httpserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	custrepo "puremilk/internal/repository/customer"
	"puremilk/internal/service/customer"
)

func listCustomersHandler(customers *customer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := custrepo.ListFilter{
			Search: c.Query("search"),
			Skip:   queryInt(c, "skip", 0),
			Limit:  queryInt(c, "limit", 100),
		}
		out, err := customers.List(c.Request.Context(), filter)
		if err != nil {
			detail(c, http.StatusInternalServerError, "Failed to fetch customers")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func createCustomerHandler(customers *customer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in customer.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			detail(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		created, err := customers.Create(c.Request.Context(), currentUser(c).ID, in)
		if err != nil {
			serviceError(c, err, "Customer not found")
			return
		}
		c.JSON(http.StatusOK, created)
	}
}

func getCustomerHandler(customers *customer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := customers.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			serviceError(c, err, "Customer not found")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func updateCustomerHandler(customers *customer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in customer.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			detail(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		out, err := customers.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			serviceError(c, err, "Customer not found")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func deleteCustomerHandler(customers *customer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := customers.Delete(c.Request.Context(), c.Param("id")); err != nil {
			serviceError(c, err, "Customer not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
	}
}

func queryInt(c *gin.Context, key string, fallback int) int {
	raw := c.Query(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
