package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"staybook/internal/editor"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
)

// EditOptions describes one batch of changes to a single section.
type EditOptions struct {
	Category string
	Sets     []string // field=value
	Enable   bool
	Disable  bool
	Add      []string // field=value;field=value
	Remove   []string // item ids
	DryRun   bool
}

func splitPair(kv string) (string, string, error) {
	k, v, ok := strings.Cut(kv, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return "", "", fmt.Errorf("expected field=value, got %q", kv)
	}
	return k, v, nil
}

func (a *App) open(ctx context.Context, id, category string) (*editor.Editor, error) {
	s, err := a.session()
	if err != nil {
		return nil, err
	}
	cat, err := editor.ParseCategory(category)
	if err != nil {
		return nil, err
	}
	ed, err := editor.Open(ctx, s.Client(), id)
	if err != nil {
		return nil, err
	}
	// A freshly opened editor is clean, so the switch never prompts.
	if _, err := ed.RequestChange(cat); err != nil {
		return nil, err
	}
	return ed, nil
}

func applyEdits(f *editor.Form, o EditOptions) error {
	if o.Enable && o.Disable {
		return errors.New("--enable and --disable are exclusive")
	}
	if o.Enable {
		f.SetEnabled(true)
	}
	if o.Disable {
		f.SetEnabled(false)
	}
	for _, kv := range o.Sets {
		k, v, err := splitPair(kv)
		if err != nil {
			return err
		}
		if err := f.SetText(k, v); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
	}
	for _, id := range o.Remove {
		if err := f.RemoveItem(id); err != nil {
			return fmt.Errorf("remove %s: %w", id, err)
		}
	}
	for _, raw := range o.Add {
		id, err := f.AddItem()
		if err != nil {
			return err
		}
		for _, kv := range strings.Split(raw, ";") {
			k, v, err := splitPair(kv)
			if err != nil {
				return err
			}
			if err := f.UpdateItem(id, k, v); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
	}
	return nil
}

// Edit changes one section and saves it the way the dashboard does:
// validation first, then one update carrying the whole section.
func (a *App) Edit(ctx context.Context, id string, o EditOptions) error {
	ed, err := a.open(ctx, id, o.Category)
	if err != nil {
		return err
	}
	f := ed.Form()
	if err := applyEdits(f, o); err != nil {
		return err
	}

	if o.DryRun {
		if errs := f.Validate(); len(errs) > 0 {
			a.fieldErrors(errs)
			return errs
		}
		raw, err := json.MarshalIndent(f.Clean(), "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(a.Out, string(raw))
		return nil
	}
	if !f.Dirty() {
		_, _ = fmt.Fprintln(a.Out, faint.Sprint("Nothing to save"))
		return nil
	}

	err = ed.SubmitActive(ctx)
	a.notices(ed.Notifications())
	var errs editor.FieldErrors
	if errors.As(err, &errs) {
		a.fieldErrors(errs)
	}
	return err
}

// ShowSection prints the form values of one section, list entries
// included with their ids.
func (a *App) ShowSection(ctx context.Context, id, category string) error {
	ed, err := a.open(ctx, id, category)
	if err != nil {
		return err
	}
	f := ed.Form()
	s := f.Schema()

	tbl := uitable.New()
	tbl.Separator = "  "
	head := s.Label
	if s.Key != "" && !f.Enabled() {
		head += faint.Sprint(" (hidden from guests)")
	}
	tbl.AddRow(bold.Sprint(head), "")
	for _, fd := range s.Fields {
		tbl.AddRow(fd.Name, formatValue(f.Value(fd.Name)))
	}
	a.table(tbl)

	if s.List == nil {
		return nil
	}
	lt := uitable.New()
	lt.Separator = "  "
	row := []any{bold.Sprint("ID")}
	for _, fd := range s.List.Fields {
		row = append(row, bold.Sprint(fd.Name))
	}
	lt.AddRow(row...)
	for _, it := range f.Items() {
		row := []any{it.ID}
		for _, fd := range s.List.Fields {
			row = append(row, it.Values[fd.Name])
		}
		lt.AddRow(row...)
	}
	a.table(lt)
	return nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case bool:
		if x {
			return "yes"
		}
		return "no"
	case []string:
		return strings.Join(x, ", ")
	case string:
		return x
	}
	return fmt.Sprint(v)
}

func addSection(topLevel *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "section <property-id> <category>",
		Short: "Show the editable values of one section",
		Long:  "Categories: " + categoryList(),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.ShowSection(cmd.Context(), args[0], args[1])
		},
	}
	topLevel.AddCommand(cmd)
}

func addEdit(topLevel *cobra.Command, app *App) {
	o := EditOptions{}
	cmd := &cobra.Command{
		Use:   "edit <property-id> <category> [field=value...]",
		Short: "Change and save one section of a property",
		Long:  "Categories: " + categoryList(),
		Example: `
staybookctl edit p-loft wifi --enable networkName=LoftGuest password=canal2024
staybookctl edit p-loft contacts --add "name=Jean;phone=+33 6 12 34 56 78"
staybookctl edit p-loft rules maxGuests=4 --dry-run
`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			o.Category = args[1]
			o.Sets = append(o.Sets, args[2:]...)
			return app.Edit(cmd.Context(), args[0], o)
		},
	}
	cmd.Flags().StringArrayVar(&o.Sets, "set", nil, "Set a field, field=value. Repeatable.")
	cmd.Flags().BoolVar(&o.Enable, "enable", false, "Show the section to guests.")
	cmd.Flags().BoolVar(&o.Disable, "disable", false, "Hide the section from guests.")
	cmd.Flags().StringArrayVar(&o.Add, "add", nil, `Add a list entry, "field=value;field=value". Repeatable.`)
	cmd.Flags().StringArrayVar(&o.Remove, "remove", nil, "Remove a list entry by id. Repeatable.")
	cmd.Flags().BoolVar(&o.DryRun, "dry-run", false, "Print the update instead of sending it.")
	topLevel.AddCommand(cmd)
}

func categoryList() string {
	ids := make([]string, 0, len(editor.Categories()))
	for _, c := range editor.Categories() {
		ids = append(ids, string(c))
	}
	return strings.Join(ids, ", ")
}
