package handlers

import (
	"github.com/gofiber/fiber/v2"

	"edeng/internal/domain"
	applog "edeng/internal/log"
	"edeng/internal/services"
)

// LoginCookie carries the session token.
const LoginCookie = "loginToken"

// SessionIdentity attaches the decoded identity to the context when a
// valid token cookie is present. A missing or invalid cookie just
// means "not logged in".
func SessionIdentity(auth *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tok := c.Cookies(LoginCookie); tok != "" {
			if id := auth.ValidateToken(tok); id != nil {
				c.Locals("user", id)
			}
		}
		return c.Next()
	}
}

// RequireUser rejects requests that carry no session.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if caller(c) == nil {
			applog.Security(c, "access.denied", nil)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "not logged in"})
		}
		return c.Next()
	}
}

func caller(c *fiber.Ctx) *domain.Identity {
	id, _ := c.Locals("user").(*domain.Identity)
	return id
}
