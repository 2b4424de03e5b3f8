package mockapi

import (
	stderrors "errors"
	"net/http"
	"time"

	"codeberg.org/fleetdesk/console/internal/api"
	"codeberg.org/fleetdesk/console/internal/errors"
	"github.com/gin-gonic/gin"
)

func (s *Server) listVehicles(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Vehicles(api.VehicleFilter{
		Status:  c.Query("status"),
		Type:    c.Query("type"),
		Search:  c.Query("search"),
		Page:    queryInt(c, "page"),
		PerPage: queryInt(c, "per_page"),
	}))
}

func (s *Server) getVehicle(c *gin.Context) {
	id, ok := pathID(c, "vehicle")
	if !ok {
		return
	}

	v, err := s.store.Vehicle(id)
	if err != nil {
		s.storeError(c, err, "vehicle")
		return
	}

	c.JSON(http.StatusOK, v)
}

func (s *Server) createVehicle(c *gin.Context) {
	var in api.VehicleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errors.BadRequest(c, "invalid request body", err)
		return
	}

	if validateVehicle(in).reject(c) {
		return
	}

	c.JSON(http.StatusCreated, s.store.CreateVehicle(in))
}

func (s *Server) updateVehicle(c *gin.Context) {
	id, ok := pathID(c, "vehicle")
	if !ok {
		return
	}

	var in api.VehicleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errors.BadRequest(c, "invalid request body", err)
		return
	}

	if validateVehicle(in).reject(c) {
		return
	}

	v, err := s.store.UpdateVehicle(id, in)
	if err != nil {
		s.storeError(c, err, "vehicle")
		return
	}

	c.JSON(http.StatusOK, v)
}

func (s *Server) deleteVehicle(c *gin.Context) {
	id, ok := pathID(c, "vehicle")
	if !ok {
		return
	}

	if err := s.store.DeleteVehicle(id); err != nil {
		s.storeError(c, err, "vehicle")
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) vehicleHistory(c *gin.Context) {
	id, ok := pathID(c, "vehicle")
	if !ok {
		return
	}

	var from, to time.Time
	f := fieldErrors{}

	if raw := c.Query("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			f.add("from", "The from must be an RFC 3339 timestamp.")
		}
		from = t
	}
	if raw := c.Query("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			f.add("to", "The to must be an RFC 3339 timestamp.")
		}
		to = t
	}
	if f.reject(c) {
		return
	}

	points, err := s.store.History(id, from, to)
	if err != nil {
		s.storeError(c, err, "vehicle")
		return
	}

	c.JSON(http.StatusOK, points)
}

func (s *Server) vehicleLocation(c *gin.Context) {
	id, ok := pathID(c, "vehicle")
	if !ok {
		return
	}

	v, err := s.store.Vehicle(id)
	if err != nil {
		s.storeError(c, err, "vehicle")
		return
	}

	if v.Location == nil {
		errors.NotFound(c, "location")
		return
	}

	c.JSON(http.StatusOK, v.Location)
}

func (s *Server) listDrivers(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Drivers(c.Query("status")))
}

func (s *Server) getDriver(c *gin.Context) {
	id, ok := pathID(c, "driver")
	if !ok {
		return
	}

	d, err := s.store.Driver(id)
	if err != nil {
		s.storeError(c, err, "driver")
		return
	}

	c.JSON(http.StatusOK, d)
}

func (s *Server) createDriver(c *gin.Context) {
	var in api.DriverInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errors.BadRequest(c, "invalid request body", err)
		return
	}

	if validateDriver(in).reject(c) {
		return
	}

	c.JSON(http.StatusCreated, s.store.CreateDriver(in))
}

func (s *Server) updateDriver(c *gin.Context) {
	id, ok := pathID(c, "driver")
	if !ok {
		return
	}

	var in api.DriverInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errors.BadRequest(c, "invalid request body", err)
		return
	}

	if validateDriver(in).reject(c) {
		return
	}

	d, err := s.store.UpdateDriver(id, in)
	if err != nil {
		s.storeError(c, err, "driver")
		return
	}

	c.JSON(http.StatusOK, d)
}

func (s *Server) deleteDriver(c *gin.Context) {
	id, ok := pathID(c, "driver")
	if !ok {
		return
	}

	if err := s.store.DeleteDriver(id); err != nil {
		s.storeError(c, err, "driver")
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) driverSchedule(c *gin.Context) {
	id, ok := pathID(c, "driver")
	if !ok {
		return
	}

	shifts, err := s.store.Schedule(id)
	if err != nil {
		s.storeError(c, err, "driver")
		return
	}

	c.JSON(http.StatusOK, shifts)
}

// maps store errors onto the standard error bodies
func (s *Server) storeError(c *gin.Context, err error, resource string) {
	switch {
	case stderrors.Is(err, ErrNotFound):
		errors.NotFound(c, resource)
	case stderrors.Is(err, ErrInvalidState):
		errors.Conflict(c, resource+" cannot change to the requested state")
	default:
		errors.InternalError(c, "", err)
	}
}
