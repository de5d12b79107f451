package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"edeng/internal/domain"
	applog "edeng/internal/log"
	"edeng/internal/services"
	"edeng/internal/validate"
)

type AuthHandler struct {
	Auth *services.AuthService
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Fullname string `json:"fullname"`
}

func (h *AuthHandler) setLoginCookie(c *fiber.Ctx, id *domain.Identity) error {
	token, err := h.Auth.GetLoginToken(id)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     LoginCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return nil
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var creds credentials
	if err := c.BodyParser(&creds); err != nil {
		return badRequest(c, "malformed credentials")
	}

	id, err := h.Auth.CheckLogin(c.Context(), creds.Username, creds.Password)
	if err != nil {
		applog.Security(c, "auth.login.fail", map[string]any{"username": creds.Username})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid credentials"})
	}
	if err := h.setLoginCookie(c, id); err != nil {
		return fail(c, "auth.login", err)
	}
	applog.Audit(c, "auth.login.success", map[string]any{"username": creds.Username})
	return c.JSON(id)
}

func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var creds credentials
	if err := c.BodyParser(&creds); err != nil {
		return badRequest(c, "malformed credentials")
	}
	username, ok := validate.Username(creds.Username)
	if !ok {
		return badRequest(c, "invalid username")
	}
	if !validate.Password(creds.Password) {
		return badRequest(c, "password must be 8-64 characters")
	}

	id, err := h.Auth.Signup(c.Context(), username, creds.Password, creds.Fullname)
	if err != nil {
		return fail(c, "auth.signup", err)
	}
	if err := h.setLoginCookie(c, id); err != nil {
		return fail(c, "auth.signup", err)
	}
	applog.Audit(c, "auth.signup", map[string]any{"username": username})
	return c.JSON(id)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     LoginCookie,
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-time.Hour),
	})
	applog.Audit(c, "auth.logout", nil)
	return c.SendString("logged-out!")
}

func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("userId"))
	if !ok {
		return badRequest(c, "invalid user id")
	}
	u, err := h.Auth.GetByID(c.Context(), id)
	if err != nil {
		return fail(c, "auth.get", err)
	}
	return c.JSON(u)
}

// UpdateUser patches the logged-in user's profile and reissues the
// token so the cookie reflects the new identity.
func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	var body struct {
		Fullname string `json:"fullname"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "malformed body")
	}

	id, err := h.Auth.UpdateUser(c.Context(), caller(c), body.Fullname)
	if err != nil {
		return fail(c, "auth.update", err)
	}
	if err := h.setLoginCookie(c, id); err != nil {
		return fail(c, "auth.update", err)
	}
	return c.JSON(id)
}
