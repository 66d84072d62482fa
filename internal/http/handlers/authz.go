package handlers

import (
	"strings"

	"staybook/internal/domain"
	applog "staybook/internal/log"
	"staybook/internal/services"

	"github.com/gofiber/fiber/v2"
)

func RequireAdmin(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Redirect("/login")
		}
		if !u.IsAdmin() {
			applog.Security(c, "access.denied.admin", map[string]any{"user": u.ID})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
		}
		c.Locals("user", u)
		c.Locals("userID", u.ID)
		return c.Next()
	}
}

// RequireUser enforces that a user is logged in; otherwise redirect to login.
func RequireUser(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("sid")
		if sid == "" {
			return c.Redirect("/login")
		}
		u, err := auth.CurrentUser(sid)
		if err != nil || u == nil {
			return c.Redirect("/login")
		}
		c.Locals("user", u)
		c.Locals("userID", u.ID)
		return c.Next()
	}
}

func bearer(c *fiber.Ctx) (string, bool) {
	h := c.Get(fiber.HeaderAuthorization)
	if h == "" {
		return "", false
	}
	tok, ok := strings.CutPrefix(h, "Bearer ")
	return strings.TrimSpace(tok), ok
}

// authenticate resolves the bearer token, if any. A header that is present
// but invalid is rejected even on routes where auth is optional.
func authenticate(c *fiber.Ctx, auth *services.AuthService, optional bool) error {
	raw, present := bearer(c)
	if !present {
		if optional {
			return c.Next()
		}
		applog.Security(c, "api.auth.missing", nil)
		return apiError(c, fiber.StatusUnauthorized, "missing bearer token", nil)
	}
	u, err := auth.TokenUser(raw)
	if err != nil {
		applog.Security(c, "api.auth.invalid", nil)
		return apiError(c, fiber.StatusUnauthorized, "invalid or expired token", nil)
	}
	c.Locals("apiUser", u)
	c.Locals("userID", u.ID)
	return c.Next()
}

func RequireBearer(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error { return authenticate(c, auth, false) }
}

func OptionalBearer(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error { return authenticate(c, auth, true) }
}

// RequireRole must run after RequireBearer.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		u := apiUser(c)
		for _, r := range roles {
			if u != nil && u.Role == r {
				return c.Next()
			}
		}
		applog.Security(c, "api.access.denied", map[string]any{"need": roles})
		return apiError(c, fiber.StatusForbidden, "forbidden", nil)
	}
}

func apiUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("apiUser").(*domain.User)
	return u
}

func pageUser(c *fiber.Ctx) *domain.User {
	u, _ := c.Locals("user").(*domain.User)
	return u
}

// RequireHost must run after RequireUser. Guests have no dashboard.
func RequireHost(c *fiber.Ctx) error {
	u := pageUser(c)
	if u != nil && (u.Role == domain.RoleHost || u.IsAdmin()) {
		return c.Next()
	}
	applog.Security(c, "access.denied.host", nil)
	return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Access denied"})
}
