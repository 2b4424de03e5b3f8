package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// sets up all API routes and middleware
func RegisterRoutes(router *gin.Engine, s *Server) {
	router.Use(gin.Recovery())
	router.Use(RequestLogger())
	router.Use(s.metrics.Middleware())
	router.Use(CORSMiddleware(s.opts.AllowOrigins))

	router.GET("/health", s.health)
	router.GET("/metrics", s.metrics.Handler())

	root := router.Group("/api")
	if s.opts.RateLimit > 0 {
		root.Use(RateLimitMiddleware(s.opts.RateLimit, s.opts.RatePeriod))
	}

	root.POST("/auth/login", s.login)

	authed := root.Group("")
	authed.Use(AuthMiddleware(s.issuer))

	{
		authed.POST("/auth/logout", s.logout)
		authed.GET("/auth/me", s.me)
		authed.POST("/auth/refresh", s.refresh)

		authed.GET("/vehicles", s.listVehicles)
		authed.POST("/vehicles", s.createVehicle)
		authed.GET("/vehicles/:id", s.getVehicle)
		authed.PUT("/vehicles/:id", s.updateVehicle)
		authed.DELETE("/vehicles/:id", s.deleteVehicle)
		authed.GET("/vehicles/:id/history", s.vehicleHistory)
		authed.GET("/vehicles/:id/location", s.vehicleLocation)

		authed.GET("/trips", s.listTrips)
		authed.POST("/trips", s.createTrip)
		authed.GET("/trips/:id", s.getTrip)
		authed.PUT("/trips/:id", s.updateTrip)
		authed.POST("/trips/:id/assign", s.assignTrip)
		authed.POST("/trips/:id/cancel", s.cancelTrip)

		authed.GET("/drivers", s.listDrivers)
		authed.POST("/drivers", s.createDriver)
		authed.GET("/drivers/:id", s.getDriver)
		authed.PUT("/drivers/:id", s.updateDriver)
		authed.DELETE("/drivers/:id", s.deleteDriver)
		authed.GET("/drivers/:id/schedule", s.driverSchedule)

		authed.GET("/analytics/dashboard", s.dashboard)
		authed.GET("/analytics/fleet", s.fleet)
		authed.GET("/analytics/trips", s.tripStats)
		authed.GET("/analytics/drivers", s.driverStats)

		authed.GET("/notifications", s.listNotifications)
		authed.PUT("/notifications/read-all", s.markAllRead)
		authed.PUT("/notifications/:id/read", s.markRead)
		authed.DELETE("/notifications/:id", s.deleteNotification)

		authed.GET("/ws", s.serveWS)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, healthResponse{
		Status:  "healthy",
		Service: "fleetdesk-mockapi",
		Clients: s.hub.ClientCount(),
	})
}
