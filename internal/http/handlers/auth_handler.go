package handlers

import (
	"errors"
	"time"

	"barterly/internal/auth"
	applog "barterly/internal/log"
	"barterly/internal/services"
	"barterly/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth          *services.AuthService
	SecureCookies bool
}

type credentials struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

func (h *AuthHandler) sidCookie(value string, expires time.Time) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     "sid",
		Value:    value,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookies,
		Expires:  expires,
	}
}

// readCredentials rejects malformed input before any lookup so failures look identical.
func readCredentials(c *fiber.Ctx) (credentials, bool) {
	var in credentials
	if err := c.BodyParser(&in); err != nil {
		return in, false
	}
	email, ok := validate.Email(in.Email)
	if !ok || !validate.Password(in.Password) {
		return in, false
	}
	in.Email = email
	return in, true
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	in, ok := readCredentials(c)
	if !ok {
		applog.Security(c, "auth.login.fail", map[string]any{"email": in.Email, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": services.ErrBadCreds.Error()})
	}

	// Fresh session id on every login.
	sid := uuid.NewString()
	u, err := h.Auth.Login(c.UserContext(), sid, in.Email, in.Password)
	if errors.Is(err, services.ErrBadCreds) {
		applog.Security(c, "auth.login.fail", map[string]any{"email": in.Email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		return err
	}
	if old := c.Cookies("sid"); old != "" {
		_ = h.Auth.Logout(c.UserContext(), old)
	}
	c.Cookie(h.sidCookie(sid, time.Time{}))
	c.Locals("user", u)
	applog.Audit(c, "auth.login.success", map[string]any{"email": in.Email})
	return c.JSON(fiber.Map{"user": u})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sid := c.Cookies("sid"); sid != "" {
		if err := h.Auth.Logout(c.UserContext(), sid); err != nil {
			return err
		}
	}
	c.Cookie(h.sidCookie("", time.Now().Add(-time.Hour)))
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"ok": true})
}

// Token exchanges credentials for a bearer token.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	in, ok := readCredentials(c)
	if !ok {
		applog.Security(c, "auth.token.fail", map[string]any{"email": in.Email, "reason": "bad_format"})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": services.ErrBadCreds.Error()})
	}
	tok, u, err := h.Auth.IssueToken(c.UserContext(), in.Email, in.Password)
	switch {
	case errors.Is(err, auth.ErrDisabled):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, services.ErrBadCreds):
		applog.Security(c, "auth.token.fail", map[string]any{"email": in.Email})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		return err
	}
	c.Locals("user", u)
	applog.Audit(c, "auth.token.issued", nil)
	return c.JSON(fiber.Map{"token": tok, "token_type": "Bearer", "user": u})
}
