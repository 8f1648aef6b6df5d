package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"puremilk/internal/config"
)

// buildRouter wires the API routes under /api.
func buildRouter(cfg config.Config, logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSOrigins) == 1 && cfg.CORSOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSOrigins
		corsCfg.AllowCredentials = true
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	limiter := newRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	api := router.Group("/api", limiter.middleware())

	api.GET("/health", healthHandler(db))

	authGroup := api.Group("/auth")
	authGroup.GET("/check-admin", checkAdminHandler(deps.Auth))
	authGroup.POST("/register", registerHandler(deps.Auth))
	authGroup.POST("/login", loginHandler(deps.Auth))
	authGroup.GET("/me", requireAuth(deps.Auth), meHandler())

	authed := api.Group("", requireAuth(deps.Auth))

	authed.GET("/dashboard/stats", dashboardStatsHandler(deps.Dashboard))

	admin := authed.Group("", requireAdmin())
	admin.GET("/customers", listCustomersHandler(deps.Customers))
	admin.POST("/customers", createCustomerHandler(deps.Customers))
	admin.GET("/customers/:id", getCustomerHandler(deps.Customers))
	admin.PUT("/customers/:id", updateCustomerHandler(deps.Customers))
	admin.DELETE("/customers/:id", deleteCustomerHandler(deps.Customers))

	authed.GET("/deliveries", listDeliveriesHandler(deps.Deliveries, deps.Customers))
	admin.POST("/deliveries", createDeliveryHandler(deps.Deliveries))
	admin.PUT("/deliveries/:id", updateDeliveryHandler(deps.Deliveries))
	admin.PUT("/deliveries/:id/status", updateDeliveryStatusHandler(deps.Deliveries))
	authed.GET("/deliveries/calendar", deliveryCalendarHandler(deps.Deliveries, deps.Customers))

	authed.GET("/payments", listPaymentsHandler(deps.Payments, deps.Customers))

	portal := authed.Group("/customer")
	portal.GET("/profile", customerProfileHandler(deps.Customers))
	portal.GET("/deliveries", customerDeliveriesHandler(deps.Deliveries, deps.Customers))
	portal.GET("/payments", customerPaymentsHandler(deps.Payments, deps.Customers))

	return router
}
