package handlers

import (
	"strings"
	"time"

	"staybook/internal/config"
	"staybook/internal/domain"
	applog "staybook/internal/log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func isAPI(c *fiber.Ctx) bool {
	return strings.HasPrefix(c.Path(), "/api/")
}

// ErrorHandler logs server faults and answers without internal details:
// JSON under /api/, the notfound page elsewhere.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if fe, ok := err.(*fiber.Error); ok {
		code = fe.Code
	}
	if code >= fiber.StatusInternalServerError {
		applog.Error(c, "server.error", err, nil)
	}
	if isAPI(c) {
		msg := "internal error"
		if code < fiber.StatusInternalServerError {
			msg = err.Error()
		}
		return c.Status(code).JSON(fiber.Map{"error": msg})
	}
	// Avoid leaking internals; best-effort render
	if rerr := c.Status(code).Render("notfound", fiber.Map{
		"Message": "Something went wrong. Please try again.",
	}); rerr != nil {
		return c.Status(code).SendString("Something went wrong. Please try again.")
	}
	return nil
}

// NewApp builds the server: HTML pages under / and the JSON API under
// /api/v1. The API authenticates with bearer tokens and skips CSRF.
func NewApp(cfg config.Config, d *Deps, views fiber.Views) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        views,
		BodyLimit:    1 << 20, // 1 MiB
		ErrorHandler: ErrorHandler,
	})

	rate := cfg.RateLimit
	if rate <= 0 {
		rate = 60
	}

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	// Attach user to context if logged in (for templates/headers)
	app.Use(func(c *fiber.Ctx) error {
		if sid := c.Cookies("sid"); sid != "" && !isAPI(c) {
			if u, err := d.Auth.CurrentUser(sid); err == nil && u != nil {
				c.Locals("user", u)
			}
		}
		return c.Next()
	})
	app.Use(limiter.New(limiter.Config{
		Max:        rate,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return strings.HasPrefix(c.Path(), "/static/") || c.Path() == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).SendString("Too many requests")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		CookieName:     "csrf_",
		ContextKey:     "csrf",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		Next:           isAPI,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Security(c, "csrf.fail", map[string]any{"path": c.Path()})
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Security check failed. Please refresh and try again."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	app.Static("/static", "./web/static")

	// ---------- JSON API ----------
	api := app.Group("/api/v1")
	api.Post("/auth/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|api-login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.api_login.hit", nil)
			return apiError(c, fiber.StatusTooManyRequests, "too many attempts, retry later", nil)
		},
	}), d.APIAuthHandler.Login)

	bearerAuth := RequireBearer(d.Auth)
	hosts := RequireRole(domain.RoleHost, domain.RoleAdmin)
	admins := RequireRole(domain.RoleAdmin)

	api.Post("/properties", bearerAuth, hosts, d.PropertyAPI.Create)
	api.Get("/properties/user/:userId", bearerAuth, d.PropertyAPI.ListByUser)
	api.Get("/properties/:idOrSlug", OptionalBearer(d.Auth), d.PropertyAPI.Get)
	api.Patch("/properties/:id", bearerAuth, hosts, d.PropertyAPI.Update)
	api.Put("/properties/:id", bearerAuth, hosts, d.PropertyAPI.Update)
	api.Post("/properties/:id/publish", bearerAuth, hosts, d.PropertyAPI.Publish)
	api.Delete("/properties/:id", bearerAuth, hosts, d.PropertyAPI.Delete)

	api.Get("/roles", bearerAuth, admins, d.UserAPI.Roles)
	// Profile routes come before /users/:id so "profile" is not taken as an id.
	api.Get("/users/profile", bearerAuth, d.UserAPI.Profile)
	api.Put("/users/profile", bearerAuth, d.UserAPI.UpdateProfile)
	api.Delete("/users/profile", bearerAuth, d.UserAPI.DeleteAccount)
	api.Get("/users", bearerAuth, admins, d.UserAPI.List)
	api.Post("/users/register", bearerAuth, admins, d.UserAPI.Register)
	api.Put("/users/:id", bearerAuth, admins, d.UserAPI.Update)
	api.Delete("/users/:id", bearerAuth, admins, d.UserAPI.Delete)

	api.Use(func(c *fiber.Ctx) error {
		return apiError(c, fiber.StatusNotFound, "no such endpoint", nil)
	})

	// ---------- Pages ----------
	app.Get("/", func(c *fiber.Ctx) error {
		if u := pageUser(c); u != nil {
			if u.IsAdmin() {
				return c.Redirect("/admin")
			}
			return c.Redirect("/dashboard")
		}
		return c.Redirect("/login")
	})
	app.Get("/p/:slug", d.PublicHandler.Show)

	// Auth routes (login throttled)
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Too many attempts. Please try again later."})
		},
	}), d.AuthHandler.Login)
	app.Post("/logout", d.AuthHandler.Logout)

	dash := app.Group("/dashboard", RequireUser(d.Auth), RequireHost)
	dash.Get("/", d.DashboardHandler.Show)
	dash.Post("/properties", d.DashboardHandler.Create)
	dash.Get("/properties/:id", d.EditorHandler.Show)
	dash.Post("/properties/:id", d.EditorHandler.Act)
	dash.Post("/properties/:id/guard", d.EditorHandler.Resolve)
	dash.Post("/properties/:id/delete", d.DashboardHandler.Delete)

	profile := app.Group("/profile", RequireUser(d.Auth))
	profile.Get("/", d.ProfileHandler.Show)
	profile.Post("/", d.ProfileHandler.Update)
	profile.Post("/delete", d.ProfileHandler.Delete)

	admin := app.Group("/admin", RequireAdmin(d.Auth))
	admin.Get("/", d.AdminHandler.Dashboard)
	admin.Post("/users", d.AdminHandler.CreateUser)
	admin.Post("/users/:id", d.AdminHandler.UpdateUser)
	admin.Post("/users/:id/delete", d.AdminHandler.DeleteUser)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).Render("notfound", fiber.Map{"Message": "Page not found"})
	})

	return app
}
