package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"codeberg.org/fleetdesk/console/internal/api"
	"github.com/spf13/cobra"
)

func parseID(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return v, nil
}

func newVehiclesCmd(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "vehicles",
		Aliases: []string{"v"},
		Short:   "Query the vehicle fleet",
	}

	var (
		filter  api.VehicleFilter
		asJSON  bool
		since   time.Duration
		details bool
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "List vehicles",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, args []string, out io.Writer) error {
			vehicles, err := a.api.Vehicles.List(ctx, filter)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(out, vehicles)
			}

			rows := make([][]string, 0, len(vehicles))
			for _, v := range vehicles {
				rows = append(rows, []string{id(v.ID), v.Plate, v.Model, v.Type, v.Status, percent(v.FuelLevel)})
			}
			printTable(out, []string{"ID", "Plate", "Model", "Type", "Status", "Fuel"}, rows)
			return nil
		}),
	}
	list.Flags().StringVar(&filter.Status, "status", "", "filter by status")
	list.Flags().StringVar(&filter.Type, "type", "", "filter by vehicle type")
	list.Flags().StringVar(&filter.Search, "search", "", "match plate or model")
	list.Flags().IntVar(&filter.Page, "page", 0, "page number")
	list.Flags().IntVar(&filter.PerPage, "per-page", 0, "results per page")
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string, out io.Writer) error {
			vid, err := parseID(args[0])
			if err != nil {
				return err
			}

			v, err := a.api.Vehicles.GetByID(ctx, vid)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(out, v)
			}

			fmt.Fprintf(out, "%s  %s (%s)\n", v.Plate, v.Model, v.Type)
			fmt.Fprintf(out, "  Status:   %s\n", v.Status)
			fmt.Fprintf(out, "  Fuel:     %s\n", percent(v.FuelLevel))
			fmt.Fprintf(out, "  Mileage:  %.0f km\n", v.Mileage)
			fmt.Fprintf(out, "  Driver:   %s\n", optionalID(v.DriverID))

			if details {
				loc, err := a.api.Vehicles.Location(ctx, vid)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "  Position: %.5f, %.5f at %s\n", loc.Lat, loc.Lng, loc.UpdatedAt.Local().Format(time.Kitchen))
			}

			return nil
		}),
	}
	get.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	get.Flags().BoolVar(&details, "location", false, "also fetch the live position")

	history := &cobra.Command{
		Use:   "history <id>",
		Short: "Show recent positions of a vehicle",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string, out io.Writer) error {
			vid, err := parseID(args[0])
			if err != nil {
				return err
			}

			to := time.Now()
			points, err := a.api.Vehicles.History(ctx, vid, to.Add(-since), to)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(out, points)
			}

			rows := make([][]string, 0, len(points))
			for _, p := range points {
				rows = append(rows, []string{
					p.UpdatedAt.Local().Format("Jan 02 15:04"),
					fmt.Sprintf("%.5f", p.Lat),
					fmt.Sprintf("%.5f", p.Lng),
					fmt.Sprintf("%.0f", p.Speed),
					optionalID(p.TripID),
				})
			}
			printTable(out, []string{"Time", "Lat", "Lng", "km/h", "Trip"}, rows)
			return nil
		}),
	}
	history.Flags().DurationVar(&since, "since", 24*time.Hour, "how far back to look")
	history.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	cmd.AddCommand(list, get, history)
	return cmd
}

func newTripsCmd(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "trips",
		Aliases: []string{"t"},
		Short:   "Query and dispatch trips",
	}

	var (
		filter  api.TripFilter
		asJSON  bool
		vehicle int64
		driver  int64
		reason  string
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "List trips",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, args []string, out io.Writer) error {
			trips, err := a.api.Trips.List(ctx, filter)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(out, trips)
			}

			rows := make([][]string, 0, len(trips))
			for _, t := range trips {
				rows = append(rows, []string{
					id(t.ID), t.Status, t.Priority, t.Origin, t.Destination,
					t.ScheduledAt.Local().Format("Jan 02 15:04"),
					optionalID(t.VehicleID), optionalID(t.DriverID),
				})
			}
			printTable(out, []string{"ID", "Status", "Priority", "Origin", "Destination", "Scheduled", "Vehicle", "Driver"}, rows)
			return nil
		}),
	}
	list.Flags().StringVar(&filter.Status, "status", "", "filter by status")
	list.Flags().Int64Var(&filter.VehicleID, "vehicle", 0, "filter by vehicle id")
	list.Flags().Int64Var(&filter.DriverID, "driver", 0, "filter by driver id")
	list.Flags().IntVar(&filter.Page, "page", 0, "page number")
	list.Flags().IntVar(&filter.PerPage, "per-page", 0, "results per page")
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	assign := &cobra.Command{
		Use:   "assign <trip-id>",
		Short: "Assign a vehicle and driver to a trip",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string, out io.Writer) error {
			tid, err := parseID(args[0])
			if err != nil {
				return err
			}

			trip, err := a.api.Trips.Assign(ctx, tid, vehicle, driver)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Trip #%d is now %s (vehicle %s, driver %s)\n",
				trip.ID, trip.Status, optionalID(trip.VehicleID), optionalID(trip.DriverID))
			return nil
		}),
	}
	assign.Flags().Int64Var(&vehicle, "vehicle", 0, "vehicle id (required)")
	assign.Flags().Int64Var(&driver, "driver", 0, "driver id (required)")
	_ = assign.MarkFlagRequired("vehicle")
	_ = assign.MarkFlagRequired("driver")

	cancel := &cobra.Command{
		Use:   "cancel <trip-id>",
		Short: "Cancel a trip",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string, out io.Writer) error {
			tid, err := parseID(args[0])
			if err != nil {
				return err
			}

			trip, err := a.api.Trips.Cancel(ctx, tid, reason)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Trip #%d is now %s\n", trip.ID, trip.Status)
			return nil
		}),
	}
	cancel.Flags().StringVar(&reason, "reason", "cancelled by dispatcher", "cancellation reason")

	cmd.AddCommand(list, assign, cancel)
	return cmd
}

func newDriversCmd(withApp appRunner) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "drivers",
		Aliases: []string{"d"},
		Short:   "Query drivers",
	}

	var (
		status string
		asJSON bool
	)

	list := &cobra.Command{
		Use:   "list",
		Short: "List drivers",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, args []string, out io.Writer) error {
			drivers, err := a.api.Drivers.List(ctx, status)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(out, drivers)
			}

			rows := make([][]string, 0, len(drivers))
			for _, d := range drivers {
				rows = append(rows, []string{id(d.ID), d.Name, d.Status, fmt.Sprintf("%.1f", d.Rating), d.Phone, optionalID(d.VehicleID)})
			}
			printTable(out, []string{"ID", "Name", "Status", "Rating", "Phone", "Vehicle"}, rows)
			return nil
		}),
	}
	list.Flags().StringVar(&status, "status", "", "filter by status")
	list.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	cmd.AddCommand(list)
	return cmd
}

func newAnalyticsCmd(withApp appRunner) *cobra.Command {
	var (
		period string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show fleet analytics",
		Args:  cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, args []string, out io.Writer) error {
			stats, err := a.api.Analytics.Dashboard(ctx)
			if err != nil {
				return err
			}

			series, err := a.api.Analytics.Trips(ctx, period)
			if err != nil {
				return err
			}

			drivers, err := a.api.Analytics.Drivers(ctx)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(out, map[string]any{"dashboard": stats, "trips": series, "drivers": drivers})
			}

			fmt.Fprintf(out, "Active vehicles:   %d/%d\n", stats.ActiveVehicles, stats.TotalVehicles)
			fmt.Fprintf(out, "Trips today:       %d (%d pending)\n", stats.TripsToday, stats.PendingTrips)
			fmt.Fprintf(out, "Drivers available: %d\n", stats.AvailableDrivers)
			fmt.Fprintf(out, "On-time rate:      %s\n", percent(stats.OnTimeRate))
			fmt.Fprintf(out, "Average delay:     %.1f min\n\n", stats.AverageDelayMins)

			rows := make([][]string, 0, len(series.Series))
			for _, p := range series.Series {
				rows = append(rows, []string{p.Date, strconv.Itoa(p.Completed), strconv.Itoa(p.Cancelled), fmt.Sprintf("%.0f", p.Distance)})
			}
			printTable(out, []string{"Date", "Completed", "Cancelled", "km"}, rows)

			rows = rows[:0]
			for _, d := range drivers {
				rows = append(rows, []string{d.Name, strconv.Itoa(d.TripsDone), percent(d.OnTimeRate), fmt.Sprintf("%.1f", d.Rating)})
			}
			printTable(out, []string{"Driver", "Trips", "On time", "Rating"}, rows)
			return nil
		}),
	}

	cmd.Flags().StringVar(&period, "period", api.PeriodWeek, "trip series period: day, week or month")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	return cmd
}

func newNotificationsCmd(withApp appRunner) *cobra.Command {
	var (
		unread bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"n"},
		Short:   "List notifications",
		Args:    cobra.NoArgs,
		RunE: withApp(func(ctx context.Context, a *app, args []string, out io.Writer) error {
			list, err := a.api.Notifications.List(ctx, unread)
			if err != nil {
				return err
			}

			if asJSON {
				return printJSON(out, list)
			}

			fmt.Fprintf(out, "%d unread\n", list.UnreadCount)

			rows := make([][]string, 0, len(list.Notifications))
			for _, n := range list.Notifications {
				mark := ""
				if !n.Read {
					mark = "●"
				}
				rows = append(rows, []string{id(n.ID), mark, n.Title, n.CreatedAt.Local().Format("Jan 02 15:04")})
			}
			printTable(out, []string{"ID", "", "Title", "Received"}, rows)
			return nil
		}),
	}
	cmd.Flags().BoolVar(&unread, "unread", false, "only unread notifications")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")

	read := &cobra.Command{
		Use:   "read [id]",
		Short: "Mark one notification, or all of them, as read",
		Args:  cobra.MaximumNArgs(1),
		RunE: withApp(func(ctx context.Context, a *app, args []string, out io.Writer) error {
			if len(args) == 0 {
				if err := a.api.Notifications.MarkAllRead(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "All notifications marked read")
				return nil
			}

			nid, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := a.api.Notifications.MarkRead(ctx, nid); err != nil {
				return err
			}
			fmt.Fprintf(out, "Notification #%d marked read\n", nid)
			return nil
		}),
	}

	cmd.AddCommand(read)
	return cmd
}
