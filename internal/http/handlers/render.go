package handlers

import (
	"errors"
	"strings"

	"barterly/internal/domain"
	applog "barterly/internal/log"
	"barterly/internal/metrics"

	"github.com/gofiber/fiber/v2"
)

// statusFor maps the failure taxonomy onto HTTP. Zero means "not a domain failure".
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrInvalidProposal), errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusUnprocessableEntity
	}
	return 0
}

// fail answers a domain failure as JSON, or hands anything else to the ErrorHandler.
func fail(c *fiber.Ctx, action string, err error) error {
	status := statusFor(err)
	if status == 0 {
		return err
	}
	applog.Security(c, action+".fail", map[string]any{"reason": metrics.Reason(err), "error": err.Error()})
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, field string) error {
	applog.Security(c, "validation.fail", map[string]any{"field": field})
	return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "invalid " + field})
}

const friendly = "Something went wrong. Please try again."

// ErrorHandler logs unexpected errors and answers without leaking internals:
// JSON under /api, the error page elsewhere.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := friendly
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		code, msg = fe.Code, fe.Message
	} else {
		applog.Error(c, "server.error", err, nil)
	}

	c.Status(code)
	if strings.HasPrefix(c.Path(), "/api/") {
		return c.JSON(fiber.Map{"error": msg})
	}
	if rerr := c.Render("error", fiber.Map{"Status": code, "Message": msg}); rerr != nil {
		return c.SendString(msg)
	}
	return nil
}
