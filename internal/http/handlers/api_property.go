package handlers

import (
	"staybook/internal/domain"
	"staybook/internal/log"
	"staybook/internal/services"

	"github.com/gofiber/fiber/v2"
)

type PropertyAPIHandler struct {
	Props *services.PropertyService
}

func (h *PropertyAPIHandler) Create(c *fiber.Ctx) error {
	var req services.CreatePropertyRequest
	if err := c.BodyParser(&req); err != nil {
		return apiError(c, fiber.StatusBadRequest, "malformed body", nil)
	}
	p, err := h.Props.Create(apiUser(c).ID, req)
	if err != nil {
		return apiFail(c, "api.property.create", err)
	}
	log.Audit(c, "property.create", map[string]any{"property": p.ID, "slug": p.Slug})
	return c.Status(fiber.StatusCreated).JSON(p)
}

// Get serves both the owner's editor and the public page: drafts are only
// visible to their owner.
func (h *PropertyAPIHandler) Get(c *fiber.Ctx) error {
	viewer := ""
	if u := apiUser(c); u != nil {
		viewer = u.ID
	}
	p, err := h.Props.Visible(viewer, c.Params("idOrSlug"))
	if err != nil {
		return apiFail(c, "api.property.get", err)
	}
	return c.JSON(p)
}

func (h *PropertyAPIHandler) Update(c *fiber.Ctx) error {
	var patch domain.PropertyPatch
	if err := decodeStrict(c, &patch); err != nil {
		return apiError(c, fiber.StatusBadRequest, err.Error(), nil)
	}
	if patch.Empty() {
		return apiError(c, fiber.StatusBadRequest, "nothing to update", nil)
	}
	p, err := h.Props.Update(apiUser(c).ID, c.Params("id"), patch)
	if err != nil {
		return apiFail(c, "api.property.update", err)
	}
	log.Audit(c, "property.update", map[string]any{"property": p.ID})
	return c.JSON(p)
}

func (h *PropertyAPIHandler) Publish(c *fiber.Ctx) error {
	p, err := h.Props.Publish(apiUser(c).ID, c.Params("id"))
	if err != nil {
		return apiFail(c, "api.property.publish", err)
	}
	log.Audit(c, "property.publish", map[string]any{"property": p.ID, "slug": p.Slug})
	return c.JSON(p)
}

func (h *PropertyAPIHandler) Delete(c *fiber.Ctx) error {
	p, err := h.Props.Delete(apiUser(c).ID, c.Params("id"))
	if err != nil {
		return apiFail(c, "api.property.delete", err)
	}
	log.Audit(c, "property.delete", map[string]any{"property": p.ID})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *PropertyAPIHandler) ListByUser(c *fiber.Ctx) error {
	u := apiUser(c)
	target := c.Params("userId")
	if target != u.ID && !u.IsAdmin() {
		log.Security(c, "api.property.list.denied", map[string]any{"target": target})
		return apiError(c, fiber.StatusForbidden, "forbidden", nil)
	}
	list, err := h.Props.ListByHost(target)
	if err != nil {
		return apiFail(c, "api.property.list", err)
	}
	return c.JSON(list)
}
