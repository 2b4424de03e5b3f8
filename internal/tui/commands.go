package tui

import (
	"context"
	"time"

	"codeberg.org/fleetdesk/console/internal/api"
	"codeberg.org/fleetdesk/console/internal/insights"
	"codeberg.org/fleetdesk/console/internal/notify"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	// upper bound for one screen refresh
	loadTimeout = 15 * time.Second

	toastTickInterval = 500 * time.Millisecond
)

func login(a *api.API, email, password string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		resp, err := a.Auth.Login(ctx, api.Credentials{Email: email, Password: password})
		if err != nil {
			return RequestFailedMsg{Op: "login", Err: err}
		}

		return LoginSucceededMsg{User: resp.User}
	}
}

func logout(a *api.API) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		a.Auth.Logout(ctx) //nolint:errcheck,gosec // session is cleared either way

		return LoggedOutMsg{}
	}
}

func loadUser(a *api.API) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		u, err := a.Auth.Me(ctx)
		if err != nil {
			return RequestFailedMsg{Op: "me", Err: err}
		}

		return UserLoadedMsg{User: u}
	}
}

func loadTrips(a *api.API) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		trips, err := a.Trips.List(ctx, api.TripFilter{})
		if err != nil {
			return RequestFailedMsg{Op: "trips", Err: err}
		}

		return TripsLoadedMsg{Trips: trips}
	}
}

func loadVehicles(a *api.API) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		vehicles, err := a.Vehicles.List(ctx, api.VehicleFilter{})
		if err != nil {
			return RequestFailedMsg{Op: "vehicles", Err: err}
		}

		return VehiclesLoadedMsg{Vehicles: vehicles}
	}
}

func loadDrivers(a *api.API) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		drivers, err := a.Drivers.List(ctx, "")
		if err != nil {
			return RequestFailedMsg{Op: "drivers", Err: err}
		}

		return DriversLoadedMsg{Drivers: drivers}
	}
}

func loadAnalytics(a *api.API) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		stats, err := a.Analytics.Dashboard(ctx)
		if err != nil {
			return RequestFailedMsg{Op: "analytics", Err: err}
		}

		fleet, err := a.Analytics.Fleet(ctx)
		if err != nil {
			return RequestFailedMsg{Op: "analytics", Err: err}
		}

		series, err := a.Analytics.Trips(ctx, api.PeriodWeek)
		if err != nil {
			return RequestFailedMsg{Op: "analytics", Err: err}
		}

		return AnalyticsLoadedMsg{Stats: stats, Fleet: fleet, Series: series}
	}
}

func loadNotifications(a *api.API) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		list, err := a.Notifications.List(ctx, false)
		if err != nil {
			return RequestFailedMsg{Op: "notifications", Err: err}
		}

		return NotificationsLoadedMsg{List: list}
	}
}

func markNotificationRead(a *api.API, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		if err := a.Notifications.MarkRead(ctx, id); err != nil {
			return RequestFailedMsg{Op: "mark_read", Err: err}
		}

		return NotificationsChangedMsg{}
	}
}

func markAllNotificationsRead(a *api.API) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		if err := a.Notifications.MarkAllRead(ctx); err != nil {
			return RequestFailedMsg{Op: "mark_read", Err: err}
		}

		return NotificationsChangedMsg{}
	}
}

func assignTrip(a *api.API, tripID, vehicleID, driverID int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		trip, err := a.Trips.Assign(ctx, tripID, vehicleID, driverID)
		if err != nil {
			return RequestFailedMsg{Op: "assign", Err: err}
		}

		return TripChangedMsg{Trip: trip}
	}
}

func cancelTrip(a *api.API, tripID int64, reason string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		trip, err := a.Trips.Cancel(ctx, tripID, reason)
		if err != nil {
			return RequestFailedMsg{Op: "cancel", Err: err}
		}

		return TripChangedMsg{Trip: trip}
	}
}

func loadInsights(f *insights.Fetcher, prefs insights.Preferences) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		found, err := f.Fetch(ctx, prefs)
		if err != nil {
			return RequestFailedMsg{Op: "insights", Err: err}
		}

		return InsightsLoadedMsg{Markdown: insights.Render(found, prefs)}
	}
}

func waitForToast(ch <-chan notify.Toast) tea.Cmd {
	if ch == nil {
		return nil
	}

	return func() tea.Msg {
		return ToastMsg{Toast: <-ch}
	}
}

func toastTick() tea.Cmd {
	return tea.Tick(toastTickInterval, func(time.Time) tea.Msg {
		return toastTickMsg{}
	})
}
