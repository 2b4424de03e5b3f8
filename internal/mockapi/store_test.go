package mockapi

import (
	"testing"

	"codeberg.org/fleetdesk/console/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	tests := []struct {
		name          string
		page, perPage int
		want          []int
	}{
		{"no paging", 0, 0, []int{1, 2, 3, 4, 5}},
		{"first page", 1, 2, []int{1, 2}},
		{"page defaults to first", 0, 2, []int{1, 2}},
		{"last partial page", 3, 2, []int{5}},
		{"past the end", 4, 2, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, paginate(items, tt.page, tt.perPage))
		})
	}
}

func TestStore_VehicleFilters(t *testing.T) {
	s := NewStore()

	vans := s.Vehicles(api.VehicleFilter{Type: "van"})
	assert.Len(t, vans, 2)

	available := s.Vehicles(api.VehicleFilter{Status: api.VehicleAvailable})
	for _, v := range available {
		assert.Equal(t, api.VehicleAvailable, v.Status)
	}

	found := s.Vehicles(api.VehicleFilter{Search: "sprinter"})
	require.Len(t, found, 1)
	assert.Equal(t, int64(2), found[0].ID)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore()

	v, err := s.Vehicle(1)
	require.NoError(t, err)

	v.Location.Lat = 0
	v.Status = "mutated"

	again, err := s.Vehicle(1)
	require.NoError(t, err)
	assert.NotEqual(t, 0.0, again.Location.Lat)
	assert.Equal(t, api.VehicleOnTrip, again.Status)
}

func TestStore_TripTransitions(t *testing.T) {
	s := NewStore()

	trip, err := s.AssignTrip(2, api.Assignment{VehicleID: 2, DriverID: 2})
	require.NoError(t, err)
	assert.Equal(t, api.TripAssigned, trip.Status)
	assert.Equal(t, int64(2), *trip.VehicleID)

	_, err = s.AssignTrip(1, api.Assignment{VehicleID: 2, DriverID: 2})
	assert.ErrorIs(t, err, ErrInvalidState, "in-progress trips cannot be reassigned")

	cancelled, err := s.CancelTrip(2, "customer called")
	require.NoError(t, err)
	assert.Equal(t, api.TripCancelled, cancelled.Status)
	assert.Contains(t, cancelled.Notes, "customer called")

	_, err = s.CancelTrip(2, "")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = s.CancelTrip(999, "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStore_DriftMovesOnTripVehicles(t *testing.T) {
	s := NewStore()

	before, err := s.Vehicle(1)
	require.NoError(t, err)
	historyBefore, err := s.History(1, before.Location.UpdatedAt.AddDate(-1, 0, 0), before.Location.UpdatedAt.AddDate(1, 0, 0))
	require.NoError(t, err)

	moved := s.Drift(0.01)
	require.Len(t, moved, 1)
	assert.Equal(t, int64(1), moved[0].ID)
	assert.NotEqual(t, before.Location.Lng, moved[0].Location.Lng)

	history, err := s.History(1, before.Location.UpdatedAt.AddDate(-1, 0, 0), moved[0].Location.UpdatedAt.AddDate(1, 0, 0))
	require.NoError(t, err)
	assert.Len(t, history, len(historyBefore)+1)
}

func TestStore_Notifications(t *testing.T) {
	s := NewStore()

	all := s.Notifications(false)
	assert.Len(t, all.Notifications, 3)
	assert.Equal(t, 2, all.UnreadCount)

	unread := s.Notifications(true)
	assert.Len(t, unread.Notifications, 2)

	require.NoError(t, s.MarkRead(1))
	assert.Equal(t, 1, s.Notifications(false).UnreadCount)

	s.MarkAllRead()
	assert.Zero(t, s.Notifications(false).UnreadCount)

	require.NoError(t, s.DeleteNotification(1))
	assert.ErrorIs(t, s.DeleteNotification(1), ErrNotFound)
}

func TestStore_Analytics(t *testing.T) {
	s := NewStore()

	dash := s.Dashboard()
	assert.Equal(t, 4, dash.TotalVehicles)
	assert.Equal(t, 2, dash.PendingTrips)
	assert.Equal(t, 1, dash.AvailableDrivers)

	fleet := s.Fleet()
	assert.Equal(t, 2, fleet.ByType["truck"])
	assert.InDelta(t, 0.25, fleet.Utilization, 0.001)

	week := s.TripStats("")
	assert.Equal(t, api.PeriodWeek, week.Period)
	assert.Len(t, week.Series, 7)

	month := s.TripStats(api.PeriodMonth)
	assert.Len(t, month.Series, 30)

	perf := s.DriverPerformance()
	require.Len(t, perf, 3)
	assert.Equal(t, 1, perf[1].TripsDone)
}
