package handlers

import (
	"errors"
	"time"

	applog "staybook/internal/log"
	"staybook/internal/services"

	"github.com/gofiber/fiber/v2"
)

type ProfileHandler struct {
	Users        *services.UserService
	CookieSecure bool
}

// GET /profile
func (h *ProfileHandler) Show(c *fiber.Ctx) error {
	return render(c, "profile", fiber.Map{"Saved": c.Query("saved") == "1"})
}

// POST /profile
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	u := pageUser(c)
	req := services.ProfileRequest{
		Email:     c.FormValue("email"),
		Password:  c.FormValue("password"),
		FirstName: c.FormValue("firstName"),
		LastName:  c.FormValue("lastName"),
	}
	_, err := h.Users.UpdateProfile(u.ID, req)
	if errs, ok := userFailure(err); ok {
		c.Status(fiber.StatusBadRequest)
		return render(c, "profile", fiber.Map{"Errors": errs})
	}
	if err != nil {
		return err
	}
	applog.Audit(c, "profile.update", map[string]any{"password_changed": req.Password != ""})
	return c.Redirect("/profile?saved=1")
}

// POST /profile/delete closes the account. The cascade also removes the
// session row, so only the cookie is left to clear.
func (h *ProfileHandler) Delete(c *fiber.Ctx) error {
	u := pageUser(c)
	if err := h.Users.Delete(u.ID); err != nil && !errors.Is(err, services.ErrNotFound) {
		applog.Error(c, "profile.delete.fail", err, nil)
		return c.Status(fiber.StatusBadRequest).SendString("could not delete account")
	}
	applog.Audit(c, "profile.delete", map[string]any{"user_id": u.ID})
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.CookieSecure,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	return c.Redirect("/login")
}
