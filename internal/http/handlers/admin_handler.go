package handlers

import (
	"errors"

	applog "staybook/internal/log"
	"staybook/internal/services"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Users *services.UserService
}

func (h *AdminHandler) page(c *fiber.Ctx, status int, errs map[string]string, form services.RegisterRequest) error {
	stats, total, err := h.Users.Stats()
	if err != nil {
		applog.Error(c, "admin.stats.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load users"})
	}
	users, err := h.Users.List()
	if err != nil {
		applog.Error(c, "admin.users.list.fail", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Could not load users"})
	}
	roles, err := h.Users.ListRoles()
	if err != nil {
		return err
	}
	c.Status(status)
	return render(c, "admin", fiber.Map{
		"Stats":  stats,
		"Total":  total,
		"Users":  users,
		"Roles":  roles,
		"Errors": errs,
		"Form":   form,
	})
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	return h.page(c, fiber.StatusOK, nil, services.RegisterRequest{})
}

func userFailure(err error) (map[string]string, bool) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Fields, true
	case errors.Is(err, services.ErrEmailTaken):
		return map[string]string{"email": "taken"}, true
	case errors.Is(err, services.ErrUnknownRole):
		return map[string]string{"roleId": "unknown"}, true
	}
	return nil, false
}

// POST /admin/users
func (h *AdminHandler) CreateUser(c *fiber.Ctx) error {
	req := services.RegisterRequest{
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
		FirstName: c.FormValue("firstName"),
		LastName:  c.FormValue("lastName"),
		RoleID:    c.FormValue("roleId"),
	}
	u, err := h.Users.Register(req)
	if errs, ok := userFailure(err); ok {
		req.Password = ""
		return h.page(c, fiber.StatusBadRequest, errs, req)
	}
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.users.create", map[string]any{"user_id": u.ID, "role": u.Role})
	return c.Redirect("/admin")
}

// POST /admin/users/:id
func (h *AdminHandler) UpdateUser(c *fiber.Ctx) error {
	id := c.Params("id")
	req := services.UpdateUserRequest{
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
		FirstName: c.FormValue("firstName"),
		LastName:  c.FormValue("lastName"),
		RoleID:    c.FormValue("roleId"),
	}
	_, err := h.Users.Update(id, req)
	if errors.Is(err, services.ErrNotFound) {
		return notFound(c, "User not found")
	}
	if errs, ok := userFailure(err); ok {
		return h.page(c, fiber.StatusBadRequest, errs, services.RegisterRequest{})
	}
	if err != nil {
		return err
	}
	applog.Audit(c, "admin.users.update", map[string]any{"user_id": id, "role_id": req.RoleID})
	return c.Redirect("/admin")
}

// POST /admin/users/:id/delete removes the user with their properties.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == pageUser(c).ID {
		return c.Status(fiber.StatusBadRequest).SendString("cannot delete yourself")
	}
	if err := h.Users.Delete(id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c, "User not found")
		}
		applog.Error(c, "admin.users.delete.fail", err, map[string]any{"user_id": id})
		return c.Status(fiber.StatusBadRequest).SendString("could not delete user")
	}
	applog.Audit(c, "admin.users.delete", map[string]any{"user_id": id})
	return c.Redirect("/admin")
}
