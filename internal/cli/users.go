package cli

import (
	"context"
	"fmt"

	"staybook/internal/apiclient"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func (a *App) ListUsers(ctx context.Context) error {
	s, err := a.session()
	if err != nil {
		return err
	}
	users, err := s.Client().ListUsers(ctx)
	if err != nil {
		return err
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("EMAIL"), bold.Sprint("NAME"), bold.Sprint("ROLE"))
	for _, u := range users {
		tbl.AddRow(u.ID, u.Email, u.DisplayName(), u.Role)
	}
	a.table(tbl)
	return nil
}

func (a *App) ListRoles(ctx context.Context) error {
	s, err := a.session()
	if err != nil {
		return err
	}
	roles, err := s.Client().ListRoles(ctx)
	if err != nil {
		return err
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("SLUG"), bold.Sprint("NAME"))
	for _, r := range roles {
		tbl.AddRow(r.ID, r.Slug, r.Name)
	}
	a.table(tbl)
	return nil
}

func (a *App) CreateUser(ctx context.Context, in apiclient.UserInput) error {
	s, err := a.session()
	if err != nil {
		return err
	}
	u, err := s.Client().RegisterUser(ctx, in)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.Out, "Created %s (%s) as %s\n", bold.Sprint(u.Email), u.ID, u.Role)
	return nil
}

func (a *App) DeleteUser(ctx context.Context, id string) error {
	s, err := a.session()
	if err != nil {
		return err
	}
	if err := s.Client().DeleteUser(ctx, id); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.Out, "Deleted user %s\n", id)
	return nil
}

func addUsers(topLevel *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage accounts (administrators only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ListUsers(cmd.Context())
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "roles",
		Short: "List the available roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ListRoles(cmd.Context())
		},
	})

	var in apiclient.UserInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.CreateUser(cmd.Context(), in)
		},
	}
	create.Flags().StringVar(&in.Email, "email", "", "Email.")
	create.Flags().StringVar(&in.Password, "password", "", "Initial password.")
	create.Flags().StringVar(&in.FirstName, "first-name", "", "First name.")
	create.Flags().StringVar(&in.LastName, "last-name", "", "Last name.")
	create.Flags().StringVar(&in.RoleID, "role", "r-host", "Role id, see `users roles`.")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account and its properties",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.DeleteUser(cmd.Context(), args[0])
		},
	})
	topLevel.AddCommand(cmd)
}
