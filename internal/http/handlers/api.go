package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	applog "staybook/internal/log"
	"staybook/internal/services"

	"github.com/gofiber/fiber/v2"
)

func apiError(c *fiber.Ctx, status int, msg string, details map[string]string) error {
	body := fiber.Map{"error": msg}
	if len(details) > 0 {
		body["details"] = details
	}
	return c.Status(status).JSON(body)
}

// apiFail maps service errors onto HTTP answers. Anything unexpected is
// logged and reported as a bare 500.
func apiFail(c *fiber.Ctx, action string, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		applog.Info(c, action+".invalid", map[string]any{"fields": verr.Fields})
		return apiError(c, fiber.StatusBadRequest, "validation failed", verr.Fields)
	case errors.Is(err, services.ErrNotFound):
		return apiError(c, fiber.StatusNotFound, "not found", nil)
	case errors.Is(err, services.ErrAlreadyPublished):
		return apiError(c, fiber.StatusConflict, err.Error(), nil)
	case errors.Is(err, services.ErrEmailTaken):
		return apiError(c, fiber.StatusConflict, err.Error(), map[string]string{"email": "taken"})
	case errors.Is(err, services.ErrUnknownRole):
		return apiError(c, fiber.StatusBadRequest, err.Error(), map[string]string{"roleId": "unknown"})
	case errors.Is(err, services.ErrForbidden):
		applog.Security(c, action+".forbidden", nil)
		return apiError(c, fiber.StatusForbidden, "forbidden", nil)
	}
	applog.Error(c, action+".error", err, nil)
	return apiError(c, fiber.StatusInternalServerError, "internal error", nil)
}

// decodeStrict parses a JSON body and rejects unknown keys, so a typo in a
// section name is an error instead of a silent no-op.
func decodeStrict(c *fiber.Ctx, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("malformed body: %w", err)
	}
	return nil
}
