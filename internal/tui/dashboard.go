package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"codeberg.org/fleetdesk/console/internal/api"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// rows taken by the header, tabs, status line and help
const chromeHeight = 9

func NewDashboard() *Dashboard {
	d := &Dashboard{
		breakpoint:   BreakpointMedium,
		spinner:      NewSpinner(SpinnerLoading),
		tripTable:    newTable(),
		vehicleTable: newTable(),
		driverTable:  newTable(),
		insightsView: viewport.New(80, 20),
	}

	d.applyLayout()
	return d
}

func newTable() table.Model {
	t := table.New(table.WithFocused(true), table.WithHeight(10))

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(colorDarkGray).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(colorWhite).
		Background(colorBlue).
		Bold(false)
	t.SetStyles(s)

	return t
}

// updates the size and re-lays out every table
func (d *Dashboard) Resize(width, height int) {
	d.width = width
	d.height = height
	d.breakpoint = BreakpointFor(width)
	d.applyLayout()
}

func (d *Dashboard) applyLayout() {
	h := max(d.height-chromeHeight, 3)

	for _, t := range []*table.Model{&d.tripTable, &d.vehicleTable, &d.driverTable} {
		t.SetHeight(h)
		if d.width > 0 {
			t.SetWidth(d.width - 2)
		}
	}

	d.insightsView.Width = max(d.width-2, 20)
	d.insightsView.Height = h

	d.refreshTrips()
	d.refreshVehicles()
	d.refreshDrivers()

	if d.insightsMarkdown != "" {
		d.setInsights(d.insightsMarkdown)
	}
}

// pending and assigned trips shown on the dispatch tab
func (d *Dashboard) dispatchable() []api.Trip {
	out := make([]api.Trip, 0, len(d.trips))
	for _, t := range d.trips {
		if t.Status == api.TripPending || t.Status == api.TripAssigned {
			out = append(out, t)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Status != out[j].Status {
			return out[i].Status == api.TripPending
		}
		return out[i].ScheduledAt.Before(out[j].ScheduledAt)
	})

	return out
}

func (d *Dashboard) refreshTrips() {
	trips := d.dispatchable()
	rows := make([]table.Row, 0, len(trips))
	for _, t := range trips {
		rows = append(rows, tripRow(t, d.breakpoint))
	}
	resetTable(&d.tripTable, tripColumns(d.breakpoint), rows)
}

func (d *Dashboard) refreshVehicles() {
	rows := make([]table.Row, 0, len(d.vehicles))
	for _, v := range d.vehicles {
		rows = append(rows, vehicleRow(v, d.breakpoint))
	}
	resetTable(&d.vehicleTable, vehicleColumns(d.breakpoint), rows)
}

func (d *Dashboard) refreshDrivers() {
	rows := make([]table.Row, 0, len(d.drivers))
	for _, dr := range d.drivers {
		rows = append(rows, driverRow(dr, d.breakpoint))
	}
	resetTable(&d.driverTable, driverColumns(d.breakpoint), rows)
}

func (d *Dashboard) upsertTrip(trip api.Trip) {
	for i := range d.trips {
		if d.trips[i].ID == trip.ID {
			d.trips[i] = trip
			d.refreshTrips()
			return
		}
	}

	d.trips = append(d.trips, trip)
	d.refreshTrips()
}

// id of the notification under the cursor
func (d *Dashboard) selectedNotificationID() (int64, bool) {
	if d.notifications == nil || d.noteCursor >= len(d.notifications.Notifications) {
		return 0, false
	}
	return d.notifications.Notifications[d.noteCursor].ID, true
}

func (d *Dashboard) moveNoteCursor(delta int) {
	if d.notifications == nil || len(d.notifications.Notifications) == 0 {
		d.noteCursor = 0
		return
	}
	d.noteCursor = min(max(d.noteCursor+delta, 0), len(d.notifications.Notifications)-1)
}

// id of the trip under the cursor on the dispatch tab
func (d *Dashboard) selectedTripID() (int64, bool) {
	row := d.tripTable.SelectedRow()
	if len(row) == 0 {
		return 0, false
	}

	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (d *Dashboard) startLoading(n int) tea.Cmd {
	wasIdle := d.loading == 0
	d.loading += n

	if wasIdle {
		return d.spinner.Tick
	}
	return nil
}

func (d *Dashboard) doneLoading() {
	if d.loading > 0 {
		d.loading--
	}
}

func (d *Dashboard) activeTable() *table.Model {
	switch d.tab {
	case TabDispatch:
		return &d.tripTable
	case TabVehicles:
		return &d.vehicleTable
	case TabDrivers:
		return &d.driverTable
	default:
		return nil
	}
}

func newAssignForm(tripID int64) *AssignForm {
	vehicle := textinput.New()
	vehicle.Prompt = "vehicle id > "
	vehicle.PromptStyle = promptStyle
	vehicle.CharLimit = 12
	vehicle.Width = 12
	vehicle.Focus()

	driver := textinput.New()
	driver.Prompt = "driver id  > "
	driver.PromptStyle = promptStyle
	driver.CharLimit = 12
	driver.Width = 12

	return &AssignForm{tripID: tripID, vehicle: vehicle, driver: driver}
}

func (f *AssignForm) toggleFocus() {
	f.focus = 1 - f.focus
	if f.focus == 0 {
		f.vehicle.Focus()
		f.driver.Blur()
		return
	}
	f.vehicle.Blur()
	f.driver.Focus()
}

// parses both ids; reports which field is wrong
func (f *AssignForm) values() (int64, int64, error) {
	vehicleID, err := strconv.ParseInt(strings.TrimSpace(f.vehicle.Value()), 10, 64)
	if err != nil || vehicleID <= 0 {
		return 0, 0, fmt.Errorf("vehicle id must be a positive number")
	}

	driverID, err := strconv.ParseInt(strings.TrimSpace(f.driver.Value()), 10, 64)
	if err != nil || driverID <= 0 {
		return 0, 0, fmt.Errorf("driver id must be a positive number")
	}

	return vehicleID, driverID, nil
}

func (f *AssignForm) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if f.focus == 0 {
		f.vehicle, cmd = f.vehicle.Update(msg)
	} else {
		f.driver, cmd = f.driver.Update(msg)
	}
	return cmd
}

func (f *AssignForm) View() string {
	var b strings.Builder

	b.WriteString(valueStyle.Render(fmt.Sprintf("Assign trip #%d", f.tripID)))
	b.WriteString("\n")
	b.WriteString(f.vehicle.View())
	b.WriteString("\n")
	b.WriteString(f.driver.View())

	if f.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(f.err))
	}

	return borderStyle.Render(b.String())
}

func (d *Dashboard) View(online bool) string {
	var b strings.Builder

	b.WriteString(d.header(online))
	b.WriteString("\n")
	b.WriteString(d.tabs())
	b.WriteString("\n\n")

	switch d.tab {
	case TabDispatch:
		b.WriteString(d.dispatchView())
	case TabVehicles:
		b.WriteString(d.vehicleTable.View())
	case TabDrivers:
		b.WriteString(d.driverTable.View())
	case TabAnalytics:
		b.WriteString(d.analyticsView())
	case TabNotifications:
		b.WriteString(d.notificationsView())
	case TabInsights:
		b.WriteString(d.insightsView.View())
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(d.help()))

	return b.String()
}

func (d *Dashboard) header(online bool) string {
	name := "FLEETDESK"
	if d.user != nil {
		name += "  " + labelStyle.Render(d.user.Name+" ("+d.user.Role+")")
	}

	status := statusOfflineStyle.Render("○ offline")
	if online {
		status = statusOnlineStyle.Render("● live")
	}

	if d.loading > 0 {
		status = d.spinner.View() + " " + status
	}

	gap := max(1, d.width-lipgloss.Width(name)-lipgloss.Width(status))

	return valueStyle.Render(name) + strings.Repeat(" ", gap) + status
}

func (d *Dashboard) tabs() string {
	rendered := make([]string, 0, len(tabNames))

	for i, name := range tabNames {
		label := name
		if d.breakpoint == BreakpointCompact {
			label = name[:3]
		}

		if Tab(i) == TabNotifications && d.notifications != nil && d.notifications.UnreadCount > 0 {
			label += fmt.Sprintf(" (%d)", d.notifications.UnreadCount)
		}

		if Tab(i) == d.tab {
			rendered = append(rendered, tabActiveStyle.Render(label))
		} else {
			rendered = append(rendered, tabStyle.Render(label))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (d *Dashboard) dispatchView() string {
	if len(d.dispatchable()) == 0 {
		return infoStyle.Render("no trips waiting for dispatch")
	}

	view := d.tripTable.View()
	if d.assign != nil {
		if d.breakpoint == BreakpointCompact {
			return view + "\n" + d.assign.View()
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, view, "  ", d.assign.View())
	}

	return view
}

func (d *Dashboard) analyticsView() string {
	if d.stats == nil {
		return infoStyle.Render("loading analytics...")
	}

	s := d.stats
	stat := func(label string, value any) string {
		return labelStyle.Render(label+": ") + valueStyle.Render(fmt.Sprint(value))
	}

	cards := []string{
		stat("Active vehicles", fmt.Sprintf("%d/%d", s.ActiveVehicles, s.TotalVehicles)),
		stat("Trips today", s.TripsToday),
		stat("Pending", s.PendingTrips),
		stat("Drivers free", s.AvailableDrivers),
		stat("On time", fmt.Sprintf("%.0f%%", s.OnTimeRate*100)),
		stat("Avg delay", fmt.Sprintf("%.1f min", s.AverageDelayMins)),
	}

	var b strings.Builder

	if d.breakpoint == BreakpointCompact {
		b.WriteString(strings.Join(cards, "\n"))
	} else {
		b.WriteString(strings.Join(cards[:3], "   "))
		b.WriteString("\n")
		b.WriteString(strings.Join(cards[3:], "   "))
	}
	b.WriteString("\n\n")

	if d.fleet != nil {
		b.WriteString(stat("Utilization", fmt.Sprintf("%.0f%%", d.fleet.Utilization*100)))
		b.WriteString("   ")
		b.WriteString(stat("Avg mileage", fmt.Sprintf("%.0f km", d.fleet.AverageMileage)))
		b.WriteString("\n\n")
	}

	if d.series != nil {
		b.WriteString(labelStyle.Render("Completed trips, last " + d.series.Period))
		b.WriteString("\n")
		b.WriteString(barChart(d.series.Series, max(d.width-20, 10)))
	}

	return b.String()
}

// one bar per day scaled to the widest day
func barChart(series []api.TripSeriesPoint, width int) string {
	peak := 0
	for _, p := range series {
		peak = max(peak, p.Completed)
	}

	bar := lipgloss.NewStyle().Foreground(colorBlue)

	var b strings.Builder
	for _, p := range series {
		n := 0
		if peak > 0 {
			n = p.Completed * width / peak
		}

		day := p.Date
		if len(day) >= 10 {
			day = day[5:]
		}

		fmt.Fprintf(&b, "%s %s %d\n", labelStyle.Render(day), bar.Render(strings.Repeat("█", n)), p.Completed)
	}

	return b.String()
}

func (d *Dashboard) notificationsView() string {
	if d.notifications == nil || len(d.notifications.Notifications) == 0 {
		return infoStyle.Render("no notifications")
	}

	var b strings.Builder
	for i, n := range d.notifications.Notifications {
		cursor := "  "
		if i == d.noteCursor {
			cursor = valueStyle.Render("> ")
		}

		marker := "  "
		title := labelStyle.Render(n.Title)
		if !n.Read {
			marker = statusOnlineStyle.Render("● ")
			title = valueStyle.Render(n.Title)
		}

		b.WriteString(cursor + marker + title)
		if d.breakpoint != BreakpointCompact {
			b.WriteString(labelStyle.Render("  " + n.CreatedAt.Local().Format("Jan 02 15:04")))
		}
		b.WriteString("\n    ")
		b.WriteString(n.Body)
		b.WriteString("\n")
	}

	return b.String()
}

func (d *Dashboard) help() string {
	common := "tab: next view  r: refresh  ctrl+l: log out  q: quit"

	switch d.tab {
	case TabDispatch:
		if d.assign != nil {
			return "tab: switch field  enter: assign  esc: close"
		}
		return "a: assign  x: cancel trip  " + common
	case TabNotifications:
		return "enter: mark read  m: mark all read  " + common
	case TabInsights:
		return "e: toggle insights  t: toggle tone  " + common
	default:
		return common
	}
}
