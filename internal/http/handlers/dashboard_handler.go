package handlers

import (
	"errors"

	applog "staybook/internal/log"
	"staybook/internal/services"

	"github.com/gofiber/fiber/v2"
)

type DashboardHandler struct {
	Props   *services.PropertyService
	Editors *EditorRegistry
}

// GET /dashboard
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	return h.page(c, fiber.StatusOK, nil, services.CreatePropertyRequest{Country: "France"})
}

func (h *DashboardHandler) page(c *fiber.Ctx, status int, errs map[string]string, form services.CreatePropertyRequest) error {
	u := pageUser(c)
	list, err := h.Props.ListByHost(u.ID)
	if err != nil {
		return err
	}
	drafts, published, err := h.Props.Counts(u.ID)
	if err != nil {
		return err
	}
	c.Status(status)
	return render(c, "dashboard", fiber.Map{
		"Properties": list,
		"Drafts":     drafts,
		"Published":  published,
		"Errors":     errs,
		"Form":       form,
	})
}

// POST /dashboard/properties
func (h *DashboardHandler) Create(c *fiber.Ctx) error {
	req := services.CreatePropertyRequest{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		Address:     c.FormValue("address"),
		City:        c.FormValue("city"),
		Country:     c.FormValue("country"),
		ZipCode:     c.FormValue("zipCode"),
	}
	p, err := h.Props.Create(pageUser(c).ID, req)
	var verr *services.ValidationError
	if errors.As(err, &verr) {
		return h.page(c, fiber.StatusBadRequest, verr.Fields, req)
	}
	if err != nil {
		return err
	}
	applog.Audit(c, "property.create", map[string]any{"property": p.ID, "slug": p.Slug})
	return c.Redirect("/dashboard/properties/" + p.ID)
}

// POST /dashboard/properties/:id/delete
func (h *DashboardHandler) Delete(c *fiber.Ctx) error {
	u := pageUser(c)
	p, err := h.Props.Delete(u.ID, c.Params("id"))
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c, "Property not found")
	}
	if err != nil {
		return err
	}
	h.Editors.Drop(c.Cookies("sid"), u.ID, p.ID)
	applog.Audit(c, "property.delete", map[string]any{"property": p.ID})
	return c.Redirect("/dashboard")
}
