package tui

import (
	"encoding/json"

	"codeberg.org/fleetdesk/console/internal/api"
	"codeberg.org/fleetdesk/console/internal/config"
	"codeberg.org/fleetdesk/console/internal/insights"
	"codeberg.org/fleetdesk/console/internal/notify"
	"codeberg.org/fleetdesk/console/internal/realtime"
	"codeberg.org/fleetdesk/console/internal/session"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/glamour"
)

// represents the current state of the TUI
type AppState int

const (
	StateLogin AppState = iota
	StateDashboard
)

type Tab int

const (
	TabDispatch Tab = iota
	TabVehicles
	TabDrivers
	TabAnalytics
	TabNotifications
	TabInsights
)

var tabNames = []string{"Dispatch", "Vehicles", "Drivers", "Analytics", "Notifications", "Insights"}

func (t Tab) String() string {
	if int(t) < len(tabNames) {
		return tabNames[t]
	}
	return "Unknown"
}

// everything the TUI talks to, built once by the caller
type Deps struct {
	Config    *config.Config
	API       *api.API
	Session   *session.Session
	Center    *notify.Center
	Navigator *Navigator
	Realtime  realtime.Channel
	Insights  *insights.Fetcher
	Prefs     *insights.Context
}

// main TUI application model
type Model struct {
	deps       Deps
	state      AppState
	width      int
	height     int
	breakpoint Breakpoint

	toasts   <-chan notify.Toast
	events   <-chan RealtimeMsg
	login    *LoginModel
	board    *Dashboard
	online   bool
	quitting bool
}

// login screen model
type LoginModel struct {
	email      textinput.Model
	password   textinput.Model
	focus      int
	submitting bool
	notice     string
	spinner    spinner.Model
}

// dashboard with one view per tab
type Dashboard struct {
	tab        Tab
	breakpoint Breakpoint
	width      int
	height     int
	loading    int
	spinner    spinner.Model

	user          *api.User
	trips         []api.Trip
	vehicles      []api.Vehicle
	drivers       []api.Driver
	stats         *api.DashboardStats
	fleet         *api.FleetStats
	series        *api.TripStats
	notifications *api.NotificationList
	noteCursor    int

	tripTable    table.Model
	vehicleTable table.Model
	driverTable  table.Model

	assign *AssignForm

	insightsView     viewport.Model
	insightsMarkdown string
	renderer         *glamour.TermRenderer
	rendererWidth    int
}

// inline form assigning a vehicle and driver to the selected trip
type AssignForm struct {
	tripID  int64
	vehicle textinput.Model
	driver  textinput.Model
	focus   int
	err     string
}

// sent when login completes
type LoginSucceededMsg struct {
	User api.User
}

// sent when a request fails; the gateway has already notified the user
type RequestFailedMsg struct {
	Op  string
	Err error
}

type UserLoadedMsg struct{ User *api.User }
type TripsLoadedMsg struct{ Trips []api.Trip }
type VehiclesLoadedMsg struct{ Vehicles []api.Vehicle }
type DriversLoadedMsg struct{ Drivers []api.Driver }
type NotificationsLoadedMsg struct{ List *api.NotificationList }

type AnalyticsLoadedMsg struct {
	Stats  *api.DashboardStats
	Fleet  *api.FleetStats
	Series *api.TripStats
}

type InsightsLoadedMsg struct{ Markdown string }

// sent when a trip changed through a dispatcher action
type TripChangedMsg struct{ Trip *api.Trip }

// sent after notifications were marked read
type NotificationsChangedMsg struct{}

type LoggedOutMsg struct{}

// a toast published by the notification center
type ToastMsg struct{ Toast notify.Toast }

// sent periodically to expire toasts
type toastTickMsg struct{}

// sent when something asked the console to switch screens
type NavigateMsg struct{ Path string }

// an event received on the realtime channel
type RealtimeMsg struct {
	Type    string
	Payload json.RawMessage
}

type realtimeConnectErrorMsg struct{ err error }
