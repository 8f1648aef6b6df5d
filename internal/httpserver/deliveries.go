package httpserver

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"puremilk/internal/calendar"
	"puremilk/internal/domain"
	delrepo "puremilk/internal/repository/delivery"
	"puremilk/internal/service/customer"
	"puremilk/internal/service/delivery"
)

func listDeliveriesHandler(deliveries *delivery.Service, customers *customer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := delrepo.ListFilter{
			Status: domain.DeliveryStatus(c.Query("status")),
			Skip:   queryInt(c, "skip", 0),
			Limit:  queryInt(c, "limit", 100),
		}

		user := currentUser(c)
		if user.Role == domain.RoleCustomer {
			profile, err := customers.GetByEmail(c.Request.Context(), user.Email)
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusOK, []domain.Delivery{})
				return
			}
			if err != nil {
				detail(c, http.StatusInternalServerError, "Failed to fetch deliveries")
				return
			}
			filter.CustomerID = profile.ID
		} else {
			filter.CustomerID = c.Query("customer_id")
		}

		startRaw, endRaw := c.Query("start_date"), c.Query("end_date")
		switch {
		case startRaw != "" && endRaw != "":
			start, err1 := parseDate(startRaw)
			end, err2 := parseDate(endRaw)
			if err1 != nil || err2 != nil {
				detail(c, http.StatusBadRequest, "Invalid date range format")
				return
			}
			filter.Start, filter.End = &start, &end
		case c.Query("date") != "":
			day, err := parseDate(c.Query("date"))
			if err != nil {
				detail(c, http.StatusBadRequest, "Invalid date format")
				return
			}
			filter.Date = &day
		}

		out, err := deliveries.List(c.Request.Context(), filter)
		if err != nil {
			detail(c, http.StatusInternalServerError, "Failed to fetch deliveries")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func createDeliveryHandler(deliveries *delivery.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in delivery.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			detail(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		out, err := deliveries.Create(c.Request.Context(), in)
		if err != nil {
			serviceError(c, err, "Customer not found")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func updateDeliveryHandler(deliveries *delivery.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in delivery.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			detail(c, http.StatusBadRequest, "Invalid request body")
			return
		}

		out, err := deliveries.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			serviceError(c, err, "Delivery not found")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func updateDeliveryStatusHandler(deliveries *delivery.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := domain.DeliveryStatus(c.Query("status"))
		if !status.Valid() {
			detail(c, http.StatusBadRequest, "status must be pending, delivered, or cancelled")
			return
		}

		out, err := deliveries.UpdateStatus(c.Request.Context(), c.Param("id"), status)
		if err != nil {
			serviceError(c, err, "Delivery not found")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// calendarResponse flattens a derived month view for the wire.
type calendarResponse struct {
	Year          int              `json:"year"`
	Month         int              `json:"month"`
	LeadingBlanks int              `json:"leading_blanks"`
	Days          int              `json:"days"`
	Entries       []calendar.Entry `json:"entries"`
	Summary       calendar.Summary `json:"summary"`
}

func deliveryCalendarHandler(deliveries *delivery.Service, customers *customer.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		year := queryInt(c, "year", 0)
		monthNum := queryInt(c, "month", 0)
		if year < 1970 || monthNum < 1 || monthNum > 12 {
			detail(c, http.StatusBadRequest, "year and month query parameters required")
			return
		}
		month := calendar.Month{Year: year, Month: time.Month(monthNum)}

		user := currentUser(c)
		var customerID string
		if user.Role == domain.RoleCustomer {
			profile, err := customers.GetByEmail(c.Request.Context(), user.Email)
			if err != nil {
				serviceError(c, err, "Customer profile not found")
				return
			}
			customerID = profile.ID
		} else {
			customerID = c.Query("customer_id")
			if customerID == "" {
				detail(c, http.StatusBadRequest, "customer_id query parameter required")
				return
			}
		}

		mv, err := deliveries.Month(c.Request.Context(), customerID, month)
		if err != nil {
			serviceError(c, err, "Customer not found")
			return
		}

		c.JSON(http.StatusOK, calendarResponse{
			Year:          month.Year,
			Month:         int(month.Month),
			LeadingBlanks: mv.View.Grid.LeadingBlanks,
			Days:          month.Days(),
			Entries:       mv.View.Sorted(),
			Summary:       mv.Summary,
		})
	}
}

// parseDate accepts ISO dates with or without a time component.
func parseDate(raw string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.New("unrecognized date")
}
