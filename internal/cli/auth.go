package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"staybook/internal/apiclient"
	"staybook/internal/session"

	"github.com/spf13/cobra"
)

func (a *App) Login(ctx context.Context, email, password string) error {
	s, err := session.Begin(ctx, apiclient.New(a.APIURL), a.Store, email, password)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.Out, "Logged in as %s (%s)\n", bold.Sprint(s.User.Email), s.User.Role)
	return nil
}

func (a *App) Logout() error {
	if err := session.End(a.Store); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(a.Out, "Logged out")
	return nil
}

// Whoami asks the server, so an expired token shows up here.
func (a *App) Whoami(ctx context.Context) error {
	s, err := a.session()
	if err != nil {
		return err
	}
	u, err := s.Client().Profile(ctx)
	if errors.Is(err, apiclient.ErrUnauthorized) {
		_ = session.End(a.Store)
		return fmt.Errorf("session expired: run `staybookctl login` again")
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.Out, "%s <%s> %s on %s\n", u.DisplayName(), u.Email, u.Role, s.BaseURL)
	return nil
}

func addLogin(topLevel *cobra.Command, app *App) {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the session",
		Example: `
staybookctl login --email host@staybook.test --password 'Passw0rd!'
STAYBOOK_PASSWORD=... staybookctl login --email host@staybook.test
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("STAYBOOK_PASSWORD")
			}
			if email == "" || password == "" {
				return errors.New("both --email and a password are required")
			}
			return app.Login(cmd.Context(), email, password)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email.")
	cmd.Flags().StringVar(&password, "password", "", "Account password (or set STAYBOOK_PASSWORD).")
	topLevel.AddCommand(cmd)
}

func addLogout(topLevel *cobra.Command, app *App) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Logout()
		},
	})
}

func addWhoami(topLevel *cobra.Command, app *App) {
	topLevel.AddCommand(&cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Whoami(cmd.Context())
		},
	})
}
