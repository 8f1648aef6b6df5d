package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"puremilk/internal/service/dashboard"
)

func dashboardStatsHandler(stats *dashboard.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := stats.Stats(c.Request.Context(), currentUser(c))
		if err != nil {
			detail(c, http.StatusInternalServerError, "Failed to fetch dashboard statistics")
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
