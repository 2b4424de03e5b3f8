package mockapi

import (
	"time"

	"codeberg.org/fleetdesk/console/internal/api"
)

func (s *Store) Dashboard() api.DashboardStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	stats := api.DashboardStats{
		TotalVehicles:    len(s.vehicles),
		OnTimeRate:       0.91,
		AverageDelayMins: 6.5,
		FuelConsumptionL: 312.4,
	}

	for _, v := range s.vehicles {
		if v.Status == api.VehicleOnTrip || v.Status == api.VehicleAvailable {
			stats.ActiveVehicles++
		}
	}

	for _, t := range s.trips {
		if t.Status == api.TripPending {
			stats.PendingTrips++
		}
		if !t.ScheduledAt.Before(today) && t.ScheduledAt.Before(today.Add(24*time.Hour)) {
			stats.TripsToday++
		}
	}

	for _, d := range s.drivers {
		if d.Status == "available" {
			stats.AvailableDrivers++
		}
	}

	for _, n := range s.notifications {
		if !n.Read {
			stats.UnreadAlertsCount++
		}
	}

	return stats
}

func (s *Store) Fleet() api.FleetStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := api.FleetStats{
		ByStatus: make(map[string]int),
		ByType:   make(map[string]int),
	}

	var mileage float64
	var busy int

	for _, v := range s.vehicles {
		stats.ByStatus[v.Status]++
		stats.ByType[v.Type]++
		mileage += v.Mileage

		if v.Status == api.VehicleOnTrip {
			busy++
		}
	}

	if n := len(s.vehicles); n > 0 {
		stats.AverageMileage = mileage / float64(n)
		stats.Utilization = float64(busy) / float64(n)
	}

	return stats
}

// buckets trips per day over the period ending today
func (s *Store) TripStats(period string) api.TripStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	days := 7
	switch period {
	case api.PeriodDay:
		days = 1
	case api.PeriodMonth:
		days = 30
	default:
		period = api.PeriodWeek
	}

	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))

	series := make([]api.TripSeriesPoint, days)
	for i := range series {
		series[i].Date = start.AddDate(0, 0, i).Format(time.DateOnly)
	}

	for _, t := range s.trips {
		idx := int(t.ScheduledAt.Sub(start).Hours() / 24)
		if t.ScheduledAt.Before(start) || idx >= days {
			continue
		}

		switch t.Status {
		case api.TripCompleted:
			series[idx].Completed++
			series[idx].Distance += t.DistanceKm
		case api.TripCancelled:
			series[idx].Cancelled++
		}
	}

	return api.TripStats{Period: period, Series: series}
}

func (s *Store) DriverPerformance() []api.DriverPerformance {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]api.DriverPerformance, 0, len(s.drivers))
	for _, id := range sortedKeys(s.drivers) {
		d := s.drivers[id]
		p := api.DriverPerformance{DriverID: d.ID, Name: d.Name, Rating: d.Rating, OnTimeRate: 0.9}

		for _, t := range s.trips {
			if t.DriverID == nil || *t.DriverID != d.ID || t.Status != api.TripCompleted {
				continue
			}
			p.TripsDone++
			p.DistanceKm += t.DistanceKm
		}

		out = append(out, p)
	}

	return out
}
