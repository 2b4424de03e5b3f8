package mockapi

import (
	"strconv"
	"strings"

	"codeberg.org/fleetdesk/console/internal/api"
	"codeberg.org/fleetdesk/console/internal/errors"
	"github.com/gin-gonic/gin"
)

// collects field-level validation messages
type fieldErrors map[string][]string

func (f fieldErrors) add(field, msg string) {
	f[field] = append(f[field], msg)
}

func (f fieldErrors) required(field, value string) {
	if strings.TrimSpace(value) == "" {
		f.add(field, "The "+strings.ReplaceAll(field, "_", " ")+" field is required.")
	}
}

// responds 422 when anything was collected
func (f fieldErrors) reject(c *gin.Context) bool {
	if len(f) == 0 {
		return false
	}

	errors.Unprocessable(c, "", f)
	return true
}

// parses the :id path parameter; responds 404 when it is not a known shape
func pathID(c *gin.Context, resource string) (int64, bool) {
	raw, ok := errors.ValidatePathID(c, "id", resource)
	if !ok {
		return 0, false
	}

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		errors.NotFound(c, resource)
		return 0, false
	}

	return id, true
}

func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}

func validateVehicle(in api.VehicleInput) fieldErrors {
	f := fieldErrors{}
	f.required("plate", in.Plate)
	f.required("model", in.Model)

	if in.Capacity <= 0 {
		f.add("capacity", "The capacity must be at least 1.")
	}

	switch in.Status {
	case "", api.VehicleAvailable, api.VehicleOnTrip, api.VehicleMaintenance, api.VehicleOffline:
	default:
		f.add("status", "The selected status is invalid.")
	}

	return f
}

func validateTrip(in api.TripInput) fieldErrors {
	f := fieldErrors{}
	f.required("origin", in.Origin)
	f.required("destination", in.Destination)

	if in.ScheduledAt.IsZero() {
		f.add("scheduled_at", "The scheduled at field is required.")
	}

	switch in.Priority {
	case "", "low", "normal", "high":
	default:
		f.add("priority", "The selected priority is invalid.")
	}

	return f
}

func validateDriver(in api.DriverInput) fieldErrors {
	f := fieldErrors{}
	f.required("name", in.Name)
	f.required("license_number", in.LicenseNumber)
	return f
}
