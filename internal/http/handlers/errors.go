package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "edeng/internal/log"
	"edeng/internal/services"
	"edeng/internal/ypay"
)

// fail maps a service error onto an HTTP status and a JSON error body.
// Gateway failures are logged with the raw upstream response and
// relayed as a 500 with the upstream message embedded.
func fail(c *fiber.Ctx, action string, err error) error {
	var authErr *ypay.AuthError
	var chargeErr *ypay.ChargeError

	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		applog.Security(c, action, map[string]any{"reason": "forbidden"})
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "forbidden"})
	case errors.Is(err, services.ErrBadCreds):
		applog.Security(c, action, nil)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	case errors.As(err, &authErr):
		applog.Error(c, action, err, map[string]any{"upstream": authErr.Body, "upstream_status": authErr.Status})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &chargeErr):
		applog.Error(c, action, err, map[string]any{"upstream": chargeErr.Body, "upstream_status": chargeErr.Status})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	default:
		applog.Error(c, action, err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
}

func badRequest(c *fiber.Ctx, msg string) error {
	applog.Security(c, "validation.fail", map[string]any{"msg": msg})
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}
