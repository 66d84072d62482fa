package handlers

import (
	"staybook/internal/log"
	"staybook/internal/services"

	"github.com/gofiber/fiber/v2"
)

type UserAPIHandler struct {
	Users *services.UserService
}

func (h *UserAPIHandler) List(c *fiber.Ctx) error {
	users, err := h.Users.List()
	if err != nil {
		return apiFail(c, "api.users.list", err)
	}
	return c.JSON(users)
}

func (h *UserAPIHandler) Roles(c *fiber.Ctx) error {
	roles, err := h.Users.ListRoles()
	if err != nil {
		return apiFail(c, "api.roles.list", err)
	}
	return c.JSON(roles)
}

func (h *UserAPIHandler) Register(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apiError(c, fiber.StatusBadRequest, "malformed body", nil)
	}
	u, err := h.Users.Register(req)
	if err != nil {
		return apiFail(c, "api.users.register", err)
	}
	log.Audit(c, "admin.user.create", map[string]any{"user": u.ID, "role": u.Role})
	return c.Status(fiber.StatusCreated).JSON(u)
}

func (h *UserAPIHandler) Update(c *fiber.Ctx) error {
	var req services.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apiError(c, fiber.StatusBadRequest, "malformed body", nil)
	}
	u, err := h.Users.Update(c.Params("id"), req)
	if err != nil {
		return apiFail(c, "api.users.update", err)
	}
	log.Audit(c, "admin.user.update", map[string]any{"user": u.ID, "role": u.Role})
	return c.JSON(u)
}

func (h *UserAPIHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == apiUser(c).ID {
		return apiError(c, fiber.StatusBadRequest, "use the profile endpoint to delete your own account", nil)
	}
	if err := h.Users.Delete(id); err != nil {
		return apiFail(c, "api.users.delete", err)
	}
	log.Audit(c, "admin.user.delete", map[string]any{"user": id})
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *UserAPIHandler) Profile(c *fiber.Ctx) error {
	return c.JSON(apiUser(c))
}

func (h *UserAPIHandler) UpdateProfile(c *fiber.Ctx) error {
	var req services.ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apiError(c, fiber.StatusBadRequest, "malformed body", nil)
	}
	u, err := h.Users.UpdateProfile(apiUser(c).ID, req)
	if err != nil {
		return apiFail(c, "api.profile.update", err)
	}
	log.Audit(c, "profile.update", nil)
	return c.JSON(u)
}

func (h *UserAPIHandler) DeleteAccount(c *fiber.Ctx) error {
	id := apiUser(c).ID
	if err := h.Users.Delete(id); err != nil {
		return apiFail(c, "api.profile.delete", err)
	}
	log.Audit(c, "profile.delete", map[string]any{"user": id})
	return c.SendStatus(fiber.StatusNoContent)
}
