package handlers

import (
	"errors"
	"strings"

	"staybook/internal/editor"
	applog "staybook/internal/log"

	"github.com/gofiber/fiber/v2"
)

// EditorHandler serves the section editor. Every post carries the visible
// fields of the active section, so edits reach the form before a category
// switch is requested and the guard sees them as unsaved.
type EditorHandler struct {
	Editors *EditorRegistry
}

type fieldView struct {
	Name    string
	Label   string
	Kind    string
	Value   string
	Checked bool
	Err     string
}

type itemView struct {
	ID     string
	Fields []fieldView
}

func kindName(fd editor.Field) string {
	switch fd.Kind {
	case editor.Bool:
		return "bool"
	case editor.Number:
		return "number"
	case editor.StringList:
		return "list"
	}
	if fd.Multi {
		return "textarea"
	}
	return "text"
}

func viewField(fd editor.Field, name string, v any, errs editor.FieldErrors, errKey string) fieldView {
	fv := fieldView{Name: name, Label: fd.Label(), Kind: kindName(fd), Err: errs[errKey]}
	switch x := v.(type) {
	case bool:
		fv.Checked = x
	case []string:
		fv.Value = strings.Join(x, "\n")
	case string:
		fv.Value = x
	}
	return fv
}

func viewFields(f *editor.Form, errs editor.FieldErrors) []fieldView {
	s := f.Schema()
	out := make([]fieldView, 0, len(s.Fields))
	for _, fd := range s.Fields {
		out = append(out, viewField(fd, fd.Name, f.Value(fd.Name), errs, fd.Name))
	}
	return out
}

func viewItems(f *editor.Form, errs editor.FieldErrors) []itemView {
	l := f.Schema().List
	if l == nil {
		return nil
	}
	var out []itemView
	for _, it := range f.Items() {
		iv := itemView{ID: it.ID}
		for _, fd := range l.Fields {
			key := l.Key + "." + it.ID + "." + fd.Name
			iv.Fields = append(iv.Fields, viewField(fd, "item."+it.ID+"."+fd.Name, it.Values[fd.Name], errs, key))
		}
		out = append(out, iv)
	}
	return out
}

func (h *EditorHandler) acquire(c *fiber.Ctx) (*editor.Editor, func(), error) {
	return h.Editors.Acquire(c.UserContext(), c.Cookies("sid"), pageUser(c).ID, c.Params("id"))
}

// gone sends the host back to the dashboard when the property no longer
// exists or is not theirs.
func gone(c *fiber.Ctx, err error) error {
	if errors.Is(err, editor.ErrNotFound) {
		applog.Security(c, "editor.open.denied", map[string]any{"property": c.Params("id")})
		return c.Redirect("/dashboard")
	}
	return err
}

func (h *EditorHandler) view(c *fiber.Ctx, ed *editor.Editor, errs editor.FieldErrors) error {
	f := ed.Form()
	schema := f.Schema()
	pending, prompting := ed.Guard().Pending()
	pendingLabel := ""
	if s, ok := editor.SchemaFor(pending); ok && prompting {
		pendingLabel = s.Label
	}
	return render(c, "editor", fiber.Map{
		"P":            ed.Property(),
		"Published":    ed.Property().IsPublished(),
		"Nav":          ed.NavItems(),
		"Section":      schema,
		"IsGeneral":    schema.Key == "",
		"Enabled":      f.Enabled(),
		"Fields":       viewFields(f, errs),
		"HasList":      schema.List != nil,
		"Items":        viewItems(f, errs),
		"Dirty":        ed.Dirty(),
		"Prompting":    prompting,
		"PendingLabel": pendingLabel,
		"Notices":      ed.Notifications(),
		"Errors":       errs,
	})
}

// GET /dashboard/properties/:id
func (h *EditorHandler) Show(c *fiber.Ctx) error {
	ed, release, err := h.acquire(c)
	if err != nil {
		return gone(c, err)
	}
	defer release()
	if err := ed.Refresh(c.UserContext()); err != nil {
		if errors.Is(err, editor.ErrNotFound) {
			h.Editors.Drop(c.Cookies("sid"), pageUser(c).ID, c.Params("id"))
		}
		return gone(c, err)
	}
	return h.view(c, ed, nil)
}

func applyForm(c *fiber.Ctx, f *editor.Form) error {
	s := f.Schema()
	if s.Key != "" {
		f.SetEnabled(c.FormValue("enabled") != "")
	}
	for _, fd := range s.Fields {
		if err := f.SetText(fd.Name, c.FormValue(fd.Name)); err != nil {
			return err
		}
	}
	if s.List != nil {
		for _, it := range f.Items() {
			for _, fd := range s.List.Fields {
				if err := f.UpdateItem(it.ID, fd.Name, c.FormValue("item."+it.ID+"."+fd.Name)); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// POST /dashboard/properties/:id
func (h *EditorHandler) Act(c *fiber.Ctx) error {
	ed, release, err := h.acquire(c)
	if err != nil {
		return gone(c, err)
	}
	defer release()

	if c.FormValue("fields") == "1" {
		if err := applyForm(c, ed.Form()); err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("invalid input")
		}
	}

	ctx := c.UserContext()
	var errs editor.FieldErrors
	switch action := c.FormValue("action"); {
	case c.FormValue("goto") != "":
		next, err := editor.ParseCategory(c.FormValue("goto"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).SendString("unknown category")
		}
		if _, err := ed.RequestChange(next); err != nil && !errors.Is(err, editor.ErrPromptOpen) {
			return err
		}
	case c.FormValue("remove-item") != "":
		_ = ed.Form().RemoveItem(c.FormValue("remove-item"))
	case action == "add-item":
		_, _ = ed.Form().AddItem()
	case action == "save":
		err := ed.SubmitActive(ctx)
		if errors.As(err, &errs) {
			break
		}
		if err == nil {
			applog.Audit(c, "property.section.save", map[string]any{"property": ed.Property().ID, "section": string(ed.Active())})
		}
	case action == "publish":
		switch err := ed.Publish(ctx); {
		case err == nil:
			applog.Audit(c, "property.publish", map[string]any{"property": ed.Property().ID})
		case errors.Is(err, editor.ErrAlreadyPublished):
			_ = ed.Refresh(ctx)
		}
	case action == "unpublish":
		_ = ed.Unpublish(ctx)
	}

	if errs != nil {
		c.Status(fiber.StatusUnprocessableEntity)
		return h.view(c, ed, errs)
	}
	return c.Redirect("/dashboard/properties/" + ed.Property().ID)
}

// POST /dashboard/properties/:id/guard
func (h *EditorHandler) Resolve(c *fiber.Ctx) error {
	ed, release, err := h.acquire(c)
	if err != nil {
		return gone(c, err)
	}
	defer release()

	ctx := c.UserContext()
	switch c.FormValue("choice") {
	case "save":
		err = ed.ResolveSave(ctx)
	case "discard":
		err = ed.ResolveDiscard(ctx)
	case "cancel":
		err = ed.ResolveCancel()
	default:
		return c.Status(fiber.StatusBadRequest).SendString("unknown choice")
	}

	var errs editor.FieldErrors
	switch {
	case errors.As(err, &errs):
		c.Status(fiber.StatusUnprocessableEntity)
		return h.view(c, ed, errs)
	case errors.Is(err, editor.ErrNotFound):
		h.Editors.Drop(c.Cookies("sid"), pageUser(c).ID, c.Params("id"))
		return gone(c, err)
	}
	applog.Info(c, "editor.guard."+c.FormValue("choice"), map[string]any{"property": ed.Property().ID, "ok": err == nil})
	return c.Redirect("/dashboard/properties/" + ed.Property().ID)
}
