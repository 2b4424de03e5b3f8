package tui

import (
	"fmt"
	"strings"

	"codeberg.org/fleetdesk/console/internal/gateway"
	"codeberg.org/fleetdesk/console/internal/insights"
	"codeberg.org/fleetdesk/console/internal/logger"
	"codeberg.org/fleetdesk/console/internal/notify"
	"codeberg.org/fleetdesk/console/internal/realtime"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const expiredNotice = "your session expired, sign in again"

// operations counted by the dashboard spinner
var loadOps = map[string]bool{
	"me":            true,
	"trips":         true,
	"vehicles":      true,
	"drivers":       true,
	"analytics":     true,
	"notifications": true,
}

func NewApp(deps Deps) *Model {
	m := &Model{
		deps:  deps,
		state: StateLogin,
		login: NewLogin(),
		board: NewDashboard(),
	}

	if deps.Center != nil {
		m.toasts = deps.Center.Subscribe()
	}
	m.events = bridgeRealtime(deps.Realtime)

	if deps.Session != nil && deps.Session.Authenticated() {
		m.state = StateDashboard
	}

	return m
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		waitForToast(m.toasts),
		waitForNavigation(m.deps.Navigator),
		waitForRealtime(m.events),
		toastTick(),
	}

	if m.state == StateDashboard {
		cmds = append(cmds, m.enterDashboard())
	}

	return tea.Batch(cmds...)
}

// loads every view and opens the realtime channel
func (m *Model) enterDashboard() tea.Cmd {
	m.state = StateDashboard

	if m.deps.API == nil {
		return nil
	}

	return tea.Batch(
		m.board.startLoading(6),
		loadUser(m.deps.API),
		loadTrips(m.deps.API),
		loadVehicles(m.deps.API),
		loadDrivers(m.deps.API),
		loadAnalytics(m.deps.API),
		loadNotifications(m.deps.API),
		m.refreshInsights(),
		connectRealtime(m.deps.Realtime),
	)
}

func (m *Model) refreshInsights() tea.Cmd {
	if m.deps.Insights == nil || m.deps.Prefs == nil {
		return nil
	}
	return loadInsights(m.deps.Insights, m.deps.Prefs.Preferences())
}

// reloads only the active tab
func (m *Model) refreshTab() tea.Cmd {
	a := m.deps.API
	if a == nil {
		return nil
	}

	var cmd tea.Cmd
	switch m.board.tab {
	case TabDispatch:
		cmd = loadTrips(a)
	case TabVehicles:
		cmd = loadVehicles(a)
	case TabDrivers:
		cmd = loadDrivers(a)
	case TabAnalytics:
		cmd = loadAnalytics(a)
	case TabNotifications:
		cmd = loadNotifications(a)
	case TabInsights:
		if m.deps.Insights != nil {
			m.deps.Insights.Invalidate()
		}
		return m.refreshInsights()
	}

	return tea.Batch(m.board.startLoading(1), cmd)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.breakpoint = BreakpointFor(msg.Width)
		m.board.Resize(msg.Width, msg.Height)
		return m, nil

	case ToastMsg:
		return m, waitForToast(m.toasts)

	case toastTickMsg:
		if m.deps.Center != nil {
			m.deps.Center.Prune()
		}
		return m, toastTick()

	case NavigateMsg:
		if msg.Path == gateway.LoginPath {
			m.toLogin(expiredNotice)
		}
		return m, tea.Batch(waitForNavigation(m.deps.Navigator), disconnectRealtime(m.deps.Realtime))

	case RealtimeMsg:
		switch msg.Type {
		case realtime.EventConnect:
			m.online = true
		case realtime.EventDisconnect:
			m.online = false
		default:
			m.board.applyEvent(msg)
		}
		return m, waitForRealtime(m.events)

	case realtimeConnectErrorMsg:
		logger.Warn("realtime connect failed", "error", msg.err)
		m.online = false
		return m, nil

	case LoginSucceededMsg:
		user := msg.User
		m.board.user = &user
		m.login.Reset("")
		return m, m.enterDashboard()

	case LoggedOutMsg:
		m.toLogin("signed out")
		return m, disconnectRealtime(m.deps.Realtime)
	}

	switch m.state {
	case StateLogin:
		return m.updateLogin(msg)

	case StateDashboard:
		return m.updateDashboard(msg)

	default:
		return m, nil
	}
}

func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true

	if m.deps.Realtime != nil {
		m.deps.Realtime.Disconnect() //nolint:errcheck,gosec // best-effort on exit
	}

	return m, tea.Quit
}

func (m *Model) toLogin(notice string) {
	m.state = StateLogin
	m.online = false
	m.board = NewDashboard()
	m.board.Resize(m.width, m.height)
	m.login.Reset(notice)
}

func (m *Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.login, cmd = m.login.Update(msg, func(email, password string) tea.Cmd {
		if m.deps.API == nil {
			return nil
		}
		return login(m.deps.API, email, password)
	})

	return m, cmd
}

func (m *Model) updateDashboard(msg tea.Msg) (tea.Model, tea.Cmd) {
	d := m.board

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if d.assign != nil {
			return m, m.updateAssign(msg)
		}
		return m, m.handleDashboardKey(msg)

	case UserLoadedMsg:
		d.doneLoading()
		d.user = msg.User

	case TripsLoadedMsg:
		d.doneLoading()
		d.trips = msg.Trips
		d.refreshTrips()

	case VehiclesLoadedMsg:
		d.doneLoading()
		d.vehicles = msg.Vehicles
		d.refreshVehicles()

	case DriversLoadedMsg:
		d.doneLoading()
		d.drivers = msg.Drivers
		d.refreshDrivers()

	case AnalyticsLoadedMsg:
		d.doneLoading()
		d.stats, d.fleet, d.series = msg.Stats, msg.Fleet, msg.Series

	case NotificationsLoadedMsg:
		d.doneLoading()
		d.notifications = msg.List
		d.moveNoteCursor(0)

	case NotificationsChangedMsg:
		return m, tea.Batch(d.startLoading(1), loadNotifications(m.deps.API))

	case InsightsLoadedMsg:
		d.setInsights(msg.Markdown)

	case TripChangedMsg:
		d.assign = nil
		d.upsertTrip(*msg.Trip)
		if m.deps.Center != nil {
			m.deps.Center.Notify(notify.LevelSuccess, fmt.Sprintf("trip #%d is now %s", msg.Trip.ID, strings.ReplaceAll(msg.Trip.Status, "_", " ")))
		}

	case RequestFailedMsg:
		if msg.Op == "assign" && d.assign != nil {
			d.assign.err = "assignment rejected"
			return m, nil
		}
		if loadOps[msg.Op] {
			d.doneLoading()
		}
	}

	var cmd tea.Cmd
	if d.loading > 0 {
		d.spinner, cmd = d.spinner.Update(msg)
	}

	return m, cmd
}

func (m *Model) handleDashboardKey(msg tea.KeyMsg) tea.Cmd {
	d := m.board

	switch msg.String() {
	case "q":
		_, cmd := m.quit()
		return cmd

	case "tab", "right":
		d.tab = (d.tab + 1) % Tab(len(tabNames))
		return nil

	case "shift+tab", "left":
		d.tab = (d.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		return nil

	case "1", "2", "3", "4", "5", "6":
		d.tab = Tab(msg.String()[0] - '1')
		return nil

	case "r":
		return m.refreshTab()

	case "ctrl+l":
		if m.deps.API == nil {
			return nil
		}
		return logout(m.deps.API)
	}

	switch d.tab {
	case TabDispatch:
		switch msg.String() {
		case "a":
			if id, ok := d.selectedTripID(); ok {
				d.assign = newAssignForm(id)
			}
			return nil

		case "x":
			if id, ok := d.selectedTripID(); ok && m.deps.API != nil {
				return cancelTrip(m.deps.API, id, "cancelled by dispatcher")
			}
			return nil
		}

	case TabNotifications:
		switch msg.String() {
		case "up", "k":
			d.moveNoteCursor(-1)
		case "down", "j":
			d.moveNoteCursor(1)
		case "enter":
			if id, ok := d.selectedNotificationID(); ok && m.deps.API != nil {
				return markNotificationRead(m.deps.API, id)
			}
		case "m":
			if m.deps.API != nil {
				return markAllNotificationsRead(m.deps.API)
			}
		}
		return nil

	case TabInsights:
		if m.deps.Prefs != nil {
			switch msg.String() {
			case "e":
				m.deps.Prefs.Update(func(p *insights.Preferences) { p.Enabled = !p.Enabled })
				return m.refreshInsights()
			case "t":
				m.deps.Prefs.Update(func(p *insights.Preferences) {
					if p.Tone == insights.ToneConcise {
						p.Tone = insights.ToneDetailed
					} else {
						p.Tone = insights.ToneConcise
					}
				})
				return m.refreshInsights()
			}
		}

		var cmd tea.Cmd
		d.insightsView, cmd = d.insightsView.Update(msg)
		return cmd
	}

	if t := d.activeTable(); t != nil {
		var cmd tea.Cmd
		*t, cmd = t.Update(msg)
		return cmd
	}

	return nil
}

func (m *Model) updateAssign(msg tea.KeyMsg) tea.Cmd {
	f := m.board.assign

	switch msg.String() {
	case "esc":
		m.board.assign = nil
		return nil

	case "tab", "shift+tab":
		f.toggleFocus()
		return nil

	case "enter":
		vehicleID, driverID, err := f.values()
		if err != nil {
			f.err = err.Error()
			return nil
		}

		f.err = ""
		if m.deps.API == nil {
			return nil
		}
		return assignTrip(m.deps.API, f.tripID, vehicleID, driverID)
	}

	return f.Update(msg)
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}

	var body string
	switch m.state {
	case StateLogin:
		body = m.login.View()
	case StateDashboard:
		body = m.board.View(m.online)
	default:
		body = "Unknown state"
	}

	if toasts := m.toastView(); toasts != "" {
		body += "\n" + toasts
	}

	return body
}

// stacks the visible toasts, newest last
func (m *Model) toastView() string {
	if m.deps.Center == nil {
		return ""
	}

	active := m.deps.Center.Active()
	if len(active) == 0 {
		return ""
	}

	width := 50
	if m.breakpoint == BreakpointCompact && m.width > 0 {
		width = max(m.width-4, 20)
	}

	rendered := make([]string, 0, len(active))
	for _, t := range active {
		color, ok := toastColors[string(t.Level)]
		if !ok {
			color = colorGray
		}

		rendered = append(rendered, lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(color).
			Width(width).
			Padding(0, 1).
			Render(t.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rendered...)
}
