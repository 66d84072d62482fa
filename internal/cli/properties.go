package cli

import (
	"context"
	"fmt"

	"staybook/internal/apiclient"
	"staybook/internal/editor"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

func (a *App) ListProperties(ctx context.Context) error {
	s, err := a.session()
	if err != nil {
		return err
	}
	list, err := s.Client().ListProperties(ctx, s.User.ID)
	if err != nil {
		return err
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("ID"), bold.Sprint("NAME"), bold.Sprint("CITY"), bold.Sprint("STATUS"), bold.Sprint("SLUG"))
	for _, p := range list {
		tbl.AddRow(p.ID, p.Name, p.City, status(p.Status), p.Slug)
	}
	a.table(tbl)
	return nil
}

func (a *App) CreateProperty(ctx context.Context, in apiclient.NewProperty) error {
	s, err := a.session()
	if err != nil {
		return err
	}
	p, err := s.Client().CreateProperty(ctx, in)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.Out, "Created %s (%s) as %s\n", bold.Sprint(p.Name), p.ID, status(p.Status))
	return nil
}

// ShowProperty prints the general fields and every enabled section the
// way guests see them.
func (a *App) ShowProperty(ctx context.Context, idOrSlug string) error {
	s, err := a.session()
	if err != nil {
		return err
	}
	p, err := s.Client().GetProperty(ctx, idOrSlug)
	if err != nil {
		return err
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint(p.Name), status(p.Status))
	tbl.AddRow("Address", fmt.Sprintf("%s, %s %s, %s", p.Address, p.ZipCode, p.City, p.Country))
	tbl.AddRow("Slug", p.Slug)
	if p.Description != "" {
		tbl.AddRow("Description", p.Description)
	}
	a.table(tbl)

	for _, sec := range editor.Summary(p) {
		_, _ = fmt.Fprintln(a.Out, "\n"+bold.Sprint(sec.Label))
		st := uitable.New()
		st.Separator = "  "
		for _, r := range sec.Rows {
			st.AddRow(r.Label, r.Value)
		}
		for i, e := range sec.Entries {
			if i > 0 || len(sec.Rows) > 0 {
				st.AddRow("", "")
			}
			for _, r := range e {
				st.AddRow(r.Label, r.Value)
			}
		}
		a.table(st)
	}
	return nil
}

// Publish goes through the editor so the draft-only rule and the
// notifications match the web dashboard.
func (a *App) Publish(ctx context.Context, id string) error {
	s, err := a.session()
	if err != nil {
		return err
	}
	ed, err := editor.Open(ctx, s.Client(), id)
	if err != nil {
		return err
	}
	err = ed.Publish(ctx)
	a.notices(ed.Notifications())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.Out, "Guest page: %s/p/%s\n", s.BaseURL, ed.Property().Slug)
	return nil
}

func (a *App) Unpublish(ctx context.Context, id string) error {
	s, err := a.session()
	if err != nil {
		return err
	}
	ed, err := editor.Open(ctx, s.Client(), id)
	if err != nil {
		return err
	}
	err = ed.Unpublish(ctx)
	a.notices(ed.Notifications())
	return err
}

func (a *App) DeleteProperty(ctx context.Context, id string) error {
	s, err := a.session()
	if err != nil {
		return err
	}
	if err := s.Client().DeleteProperty(ctx, id); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.Out, "Deleted %s\n", id)
	return nil
}

func addProperties(topLevel *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:     "properties",
		Aliases: []string{"props", "p"},
		Short:   "List and manage your properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ListProperties(cmd.Context())
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List your properties",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ListProperties(cmd.Context())
		},
	})

	var np apiclient.NewProperty
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a draft property",
		Example: `
staybookctl properties create --name "Canal Loft" --address "12 Quai de Jemmapes" --city Paris
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.CreateProperty(cmd.Context(), np)
		},
	}
	create.Flags().StringVar(&np.Name, "name", "", "Property name.")
	create.Flags().StringVar(&np.Address, "address", "", "Street address.")
	create.Flags().StringVar(&np.City, "city", "", "City.")
	create.Flags().StringVar(&np.Country, "country", "France", "Country.")
	create.Flags().StringVar(&np.ZipCode, "zip", "", "Zip code.")
	create.Flags().StringVar(&np.Description, "description", "", "Short description.")
	cmd.AddCommand(create)

	cmd.AddCommand(&cobra.Command{
		Use:   "show <id|slug>",
		Short: "Show a property with its enabled sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ShowProperty(cmd.Context(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "publish <id>",
		Short: "Publish a draft",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Publish(cmd.Context(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "unpublish <id>",
		Short: "Take a property offline (not supported by the server yet)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Unpublish(cmd.Context(), args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a property",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.DeleteProperty(cmd.Context(), args[0])
		},
	})

	topLevel.AddCommand(cmd)
}
