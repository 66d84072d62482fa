package handlers

import (
	"staybook/internal/editor"
	"staybook/internal/services"
	"staybook/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type PublicHandler struct {
	Props *services.PropertyService
}

// GET /p/:slug
func (h *PublicHandler) Show(c *fiber.Ctx) error {
	key := c.Params("slug")
	if _, ok := validate.Slug(key); !ok {
		if _, ok := validate.ID(key); !ok {
			return notFound(c, "This page does not exist")
		}
	}
	p, err := h.Props.Public(key)
	if err != nil {
		return notFound(c, "This page does not exist")
	}
	return render(c, "public", fiber.Map{"P": p, "Sections": editor.Summary(p)})
}
