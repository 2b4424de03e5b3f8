package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/fleetdesk/console/internal/api"
	"github.com/charmbracelet/x/term"
	"github.com/spf13/cobra"
)

func newLoginCmd(withApp appRunner) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session token",
		Long: `Sign in to the fleet backend.

You will be prompted for the password. The token is kept in the
configured session store and reused by every other command.`,
		RunE: withApp(func(ctx context.Context, a *app, args []string, out io.Writer) error {
			reader := bufio.NewReader(os.Stdin)

			if email == "" {
				fmt.Fprint(out, "Email: ")
				line, err := reader.ReadString('\n')
				if err != nil {
					return fmt.Errorf("read email: %w", err)
				}
				email = strings.TrimSpace(line)
			}

			password, err := readPassword(out, reader)
			if err != nil {
				return err
			}

			if email == "" || password == "" {
				return fmt.Errorf("email and password are required")
			}

			resp, err := a.api.Auth.Login(ctx, api.Credentials{Email: email, Password: password})
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "Signed in as %s (%s)\n", resp.User.Name, resp.User.Role)
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")

	return cmd
}

// reads without echo on a terminal, and a plain line otherwise
func readPassword(out io.Writer, reader *bufio.Reader) (string, error) {
	fmt.Fprint(out, "Password: ")

	if term.IsTerminal(os.Stdin.Fd()) {
		raw, err := term.ReadPassword(os.Stdin.Fd())
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLogoutCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the session token",
		RunE: withApp(func(ctx context.Context, a *app, args []string, out io.Writer) error {
			if !a.sess.Authenticated() {
				fmt.Fprintln(out, "Not signed in")
				return nil
			}

			// the token is dropped even when the backend call fails
			if err := a.api.Auth.Logout(ctx); err != nil {
				return err
			}

			fmt.Fprintln(out, "Signed out")
			return nil
		}),
	}
}

func newWhoamiCmd(withApp appRunner) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: withApp(func(ctx context.Context, a *app, args []string, out io.Writer) error {
			if !a.sess.Authenticated() {
				return fmt.Errorf("not signed in, run `console login`")
			}

			user, err := a.api.Auth.Me(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s <%s>\n", user.Name, user.Email)
			fmt.Fprintf(out, "  Role: %s\n", user.Role)

			if claims, err := a.sess.Claims(); err == nil && claims.ExpiresAt != nil {
				fmt.Fprintf(out, "  Session expires: %s\n", claims.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}

			return nil
		}),
	}
}
