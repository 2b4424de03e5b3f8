// Package main is the entrypoint for the fleetdesk dispatch console.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"codeberg.org/fleetdesk/console/internal/api"
	"codeberg.org/fleetdesk/console/internal/config"
	"codeberg.org/fleetdesk/console/internal/gateway"
	"codeberg.org/fleetdesk/console/internal/logger"
	"codeberg.org/fleetdesk/console/internal/notify"
	"codeberg.org/fleetdesk/console/internal/session"
	"github.com/spf13/cobra"
)

// set via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// everything a command needs to talk to the backend
type app struct {
	cfg   *config.Config
	flags config.Flags
	sess  *session.Session
	api   *api.API
	store session.Store
}

func (a *app) Close() {
	if c, ok := a.store.(io.Closer); ok {
		c.Close() //nolint:errcheck,gosec // best-effort cleanup on exit
	}
}

// loads configuration and wires the session, gateway and facades
func newApp(ctx context.Context, flags config.Flags, notifier notify.Notifier, nav gateway.Navigator) (*app, error) {
	cfg, err := config.LoadWithFlags(flags)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	store, err := session.OpenStore(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}

	sess := session.New(store)

	client := gateway.New(gateway.Options{
		BaseURL:   cfg.APIURL,
		Timeout:   cfg.Timeout,
		Session:   sess,
		Notifier:  notifier,
		Navigator: nav,
	})

	return &app{
		cfg:   cfg,
		flags: flags,
		sess:  sess,
		api:   api.New(client, sess),
		store: store,
	}, nil
}

// prints the session-expired hint for one-shot commands
type cliNavigator struct {
	out io.Writer
}

func (n cliNavigator) Navigate(path string) {
	if path == gateway.LoginPath {
		fmt.Fprintln(n.out, "session expired, run `console login`")
	}
}

func newRootCmd() *cobra.Command {
	var flags config.Flags

	rootCmd := &cobra.Command{
		Use:   "console",
		Short: "Fleetdesk dispatch console",
		Long: `Fleetdesk console is a terminal dispatch dashboard for the fleet backend.

Run without a subcommand to open the dashboard, or use the subcommands
for one-shot queries from scripts.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), flags)
		},
	}

	flags.Bind(rootCmd.PersistentFlags())

	// one-shot commands report through stderr and the default logger
	withApp := func(run func(ctx context.Context, a *app, args []string, out io.Writer) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), flags, notify.NewWriter(cmd.ErrOrStderr()), cliNavigator{out: cmd.ErrOrStderr()})
			if err != nil {
				return err
			}
			defer a.Close()

			logger.Configure(a.cfg.Environment, cmd.ErrOrStderr())

			return run(cmd.Context(), a, args, cmd.OutOrStdout())
		}
	}

	rootCmd.AddCommand(
		newTUICmd(&flags),
		newLoginCmd(withApp),
		newLogoutCmd(withApp),
		newWhoamiCmd(withApp),
		newVehiclesCmd(withApp),
		newTripsCmd(withApp),
		newDriversCmd(withApp),
		newAnalyticsCmd(withApp),
		newNotificationsCmd(withApp),
		newConfigCmd(&flags),
		newVersionCmd(),
	)

	return rootCmd
}

// wraps a command body with a wired app
type appRunner func(run func(ctx context.Context, a *app, args []string, out io.Writer) error) func(*cobra.Command, []string) error

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fleetdesk console %s\n", Version)
			fmt.Fprintf(out, "  Commit:     %s\n", Commit)
			fmt.Fprintf(out, "  Built:      %s\n", BuildDate)
			fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
