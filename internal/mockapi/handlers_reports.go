package mockapi

import (
	"net/http"

	"codeberg.org/fleetdesk/console/internal/api"
	"github.com/gin-gonic/gin"
)

func (s *Server) dashboard(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Dashboard())
}

func (s *Server) fleet(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Fleet())
}

func (s *Server) tripStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.TripStats(c.DefaultQuery("period", api.PeriodWeek)))
}

func (s *Server) driverStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.DriverPerformance())
}

func (s *Server) listNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Notifications(c.Query("unread") == "true"))
}

func (s *Server) markRead(c *gin.Context) {
	id, ok := pathID(c, "notification")
	if !ok {
		return
	}

	if err := s.store.MarkRead(id); err != nil {
		s.storeError(c, err, "notification")
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) markAllRead(c *gin.Context) {
	s.store.MarkAllRead()
	c.Status(http.StatusNoContent)
}

func (s *Server) deleteNotification(c *gin.Context) {
	id, ok := pathID(c, "notification")
	if !ok {
		return
	}

	if err := s.store.DeleteNotification(id); err != nil {
		s.storeError(c, err, "notification")
		return
	}

	c.Status(http.StatusNoContent)
}
