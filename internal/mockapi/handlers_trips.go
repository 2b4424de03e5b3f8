package mockapi

import (
	"net/http"
	"strconv"

	"codeberg.org/fleetdesk/console/internal/api"
	"codeberg.org/fleetdesk/console/internal/errors"
	"codeberg.org/fleetdesk/console/internal/realtime"
	"github.com/gin-gonic/gin"
)

func (s *Server) listTrips(c *gin.Context) {
	vehicleID, _ := strconv.ParseInt(c.Query("vehicle_id"), 10, 64)
	driverID, _ := strconv.ParseInt(c.Query("driver_id"), 10, 64)

	c.JSON(http.StatusOK, s.store.Trips(api.TripFilter{
		Status:    c.Query("status"),
		VehicleID: vehicleID,
		DriverID:  driverID,
		Page:      queryInt(c, "page"),
		PerPage:   queryInt(c, "per_page"),
	}))
}

func (s *Server) getTrip(c *gin.Context) {
	id, ok := pathID(c, "trip")
	if !ok {
		return
	}

	t, err := s.store.Trip(id)
	if err != nil {
		s.storeError(c, err, "trip")
		return
	}

	c.JSON(http.StatusOK, t)
}

func (s *Server) createTrip(c *gin.Context) {
	var in api.TripInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errors.BadRequest(c, "invalid request body", err)
		return
	}

	if validateTrip(in).reject(c) {
		return
	}

	t := s.store.CreateTrip(in)
	s.hub.Publish(realtime.EventTripUpdated, t)

	c.JSON(http.StatusCreated, t)
}

func (s *Server) updateTrip(c *gin.Context) {
	id, ok := pathID(c, "trip")
	if !ok {
		return
	}

	var in api.TripInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errors.BadRequest(c, "invalid request body", err)
		return
	}

	if validateTrip(in).reject(c) {
		return
	}

	t, err := s.store.UpdateTrip(id, in)
	if err != nil {
		s.storeError(c, err, "trip")
		return
	}

	s.hub.Publish(realtime.EventTripUpdated, t)
	c.JSON(http.StatusOK, t)
}

func (s *Server) assignTrip(c *gin.Context) {
	id, ok := pathID(c, "trip")
	if !ok {
		return
	}

	var in api.Assignment
	if err := c.ShouldBindJSON(&in); err != nil {
		errors.BadRequest(c, "invalid request body", err)
		return
	}

	f := fieldErrors{}
	if !s.store.HasVehicle(in.VehicleID) {
		f.add("vehicle_id", "The selected vehicle is invalid.")
	}
	if !s.store.HasDriver(in.DriverID) {
		f.add("driver_id", "The selected driver is invalid.")
	}
	if f.reject(c) {
		return
	}

	t, err := s.store.AssignTrip(id, in)
	if err != nil {
		s.storeError(c, err, "trip")
		return
	}

	s.hub.Publish(realtime.EventTripUpdated, t)
	s.notify("trip", "Trip assigned", "Trip #"+strconv.FormatInt(t.ID, 10)+" was assigned.")

	c.JSON(http.StatusOK, t)
}

func (s *Server) cancelTrip(c *gin.Context) {
	id, ok := pathID(c, "trip")
	if !ok {
		return
	}

	var in cancelRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		errors.BadRequest(c, "invalid request body", err)
		return
	}

	t, err := s.store.CancelTrip(id, in.Reason)
	if err != nil {
		s.storeError(c, err, "trip")
		return
	}

	s.hub.Publish(realtime.EventTripUpdated, t)
	c.JSON(http.StatusOK, t)
}

// stores a notification and pushes it to connected consoles
func (s *Server) notify(kind, title, body string) {
	n := s.store.AddNotification(kind, title, body)
	s.hub.Publish(realtime.EventNotification, n)
}
