package tui

import (
	"fmt"
	"strconv"

	"codeberg.org/fleetdesk/console/internal/api"
	"github.com/charmbracelet/bubbles/table"
)

// layout class derived from the terminal width
type Breakpoint int

const (
	BreakpointCompact Breakpoint = iota
	BreakpointMedium
	BreakpointWide
)

const (
	compactMaxWidth = 80
	mediumMaxWidth  = 120
)

func BreakpointFor(width int) Breakpoint {
	switch {
	case width < compactMaxWidth:
		return BreakpointCompact
	case width < mediumMaxWidth:
		return BreakpointMedium
	default:
		return BreakpointWide
	}
}

func (b Breakpoint) String() string {
	switch b {
	case BreakpointCompact:
		return "compact"
	case BreakpointMedium:
		return "medium"
	default:
		return "wide"
	}
}

func vehicleColumns(bp Breakpoint) []table.Column {
	cols := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Plate", Width: 10},
		{Title: "Status", Width: 12},
	}

	if bp >= BreakpointMedium {
		cols = append(cols,
			table.Column{Title: "Model", Width: 18},
			table.Column{Title: "Fuel", Width: 6},
		)
	}

	if bp == BreakpointWide {
		cols = append(cols,
			table.Column{Title: "Type", Width: 8},
			table.Column{Title: "Position", Width: 20},
		)
	}

	return cols
}

func vehicleRow(v api.Vehicle, bp Breakpoint) table.Row {
	row := table.Row{strconv.FormatInt(v.ID, 10), v.Plate, v.Status}

	if bp >= BreakpointMedium {
		row = append(row, v.Model, fmt.Sprintf("%.0f%%", v.FuelLevel*100))
	}

	if bp == BreakpointWide {
		pos := "-"
		if v.Location != nil {
			pos = fmt.Sprintf("%.4f, %.4f", v.Location.Lat, v.Location.Lng)
		}
		row = append(row, v.Type, pos)
	}

	return row
}

func tripColumns(bp Breakpoint) []table.Column {
	cols := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Status", Width: 12},
		{Title: "Destination", Width: 18},
	}

	if bp >= BreakpointMedium {
		cols = append(cols,
			table.Column{Title: "Origin", Width: 18},
			table.Column{Title: "Priority", Width: 8},
		)
	}

	if bp == BreakpointWide {
		cols = append(cols,
			table.Column{Title: "Scheduled", Width: 16},
			table.Column{Title: "Vehicle", Width: 8},
			table.Column{Title: "Driver", Width: 7},
		)
	}

	return cols
}

func tripRow(t api.Trip, bp Breakpoint) table.Row {
	row := table.Row{strconv.FormatInt(t.ID, 10), t.Status, t.Destination}

	if bp >= BreakpointMedium {
		row = append(row, t.Origin, t.Priority)
	}

	if bp == BreakpointWide {
		row = append(row, t.ScheduledAt.Local().Format("Jan 02 15:04"), optionalID(t.VehicleID), optionalID(t.DriverID))
	}

	return row
}

func driverColumns(bp Breakpoint) []table.Column {
	cols := []table.Column{
		{Title: "ID", Width: 5},
		{Title: "Name", Width: 16},
		{Title: "Status", Width: 10},
	}

	if bp >= BreakpointMedium {
		cols = append(cols, table.Column{Title: "Rating", Width: 6})
	}

	if bp == BreakpointWide {
		cols = append(cols,
			table.Column{Title: "Phone", Width: 16},
			table.Column{Title: "License", Width: 12},
			table.Column{Title: "Vehicle", Width: 8},
		)
	}

	return cols
}

func driverRow(d api.Driver, bp Breakpoint) table.Row {
	row := table.Row{strconv.FormatInt(d.ID, 10), d.Name, d.Status}

	if bp >= BreakpointMedium {
		row = append(row, fmt.Sprintf("%.1f", d.Rating))
	}

	if bp == BreakpointWide {
		row = append(row, d.Phone, d.LicenseNumber, optionalID(d.VehicleID))
	}

	return row
}

func optionalID(id *int64) string {
	if id == nil {
		return "-"
	}
	return strconv.FormatInt(*id, 10)
}

// swaps columns and rows without the table ever holding rows wider than
// its columns
func resetTable(t *table.Model, cols []table.Column, rows []table.Row) {
	t.SetRows(nil)
	t.SetColumns(cols)
	t.SetRows(rows)
}
