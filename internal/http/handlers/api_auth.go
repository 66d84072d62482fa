package handlers

import (
	"staybook/internal/log"
	"staybook/internal/services"
	"staybook/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type APIAuthHandler struct {
	Auth *services.AuthService
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email,max=100"`
	Password string `json:"password" validate:"required,max=64"`
}

func (h *APIAuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return apiError(c, fiber.StatusBadRequest, "malformed body", nil)
	}
	if err := validate.Struct(req); err != nil {
		log.Security(c, "api.login.fail", map[string]any{"reason": "bad_format"})
		return apiError(c, fiber.StatusBadRequest, "validation failed", validate.Fields(err))
	}
	u, token, err := h.Auth.LoginToken(req.Email, req.Password)
	if err != nil {
		log.Security(c, "api.login.fail", map[string]any{"email": req.Email})
		return apiError(c, fiber.StatusUnauthorized, "invalid email or password", nil)
	}
	c.Locals("userID", u.ID)
	log.Audit(c, "api.login.success", map[string]any{"email": u.Email})
	return c.JSON(fiber.Map{"user": u, "token": token})
}
