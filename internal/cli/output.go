package cli

import (
	"fmt"
	"sort"

	"staybook/internal/domain"
	"staybook/internal/editor"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	faint  = color.New(color.Faint)
)

func status(s domain.Status) string {
	if s == domain.StatusPublished {
		return green.Sprint(s)
	}
	return yellow.Sprint(s)
}

func (a *App) table(tbl *uitable.Table) {
	_, _ = fmt.Fprintln(a.Out, tbl)
}

func (a *App) notices(ns []editor.Notification) {
	for _, n := range ns {
		switch n.Kind {
		case editor.NoticeSuccess:
			_, _ = fmt.Fprintln(a.Out, green.Sprint("✓ "+n.Text))
		case editor.NoticeError:
			_, _ = fmt.Fprintln(a.Out, red.Sprint("✗ "+n.Text))
		default:
			_, _ = fmt.Fprintln(a.Out, faint.Sprint("· "+n.Text))
		}
	}
}

func (a *App) fieldErrors(errs editor.FieldErrors) {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("FIELD"), bold.Sprint("PROBLEM"))
	for _, k := range keys {
		tbl.AddRow(k, red.Sprint(errs[k]))
	}
	a.table(tbl)
}
