package handlers

import (
	applog "barterly/internal/log"
	"barterly/internal/services"
	"barterly/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

// Home renders the landing page with the category list and a CSRF token for cookie clients.
func (h *CategoryHandler) Home(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	tok, _ := c.Locals("csrf").(string)
	if tok == "" {
		tok = c.Cookies("csrf_")
	}
	return c.Render("index", fiber.Map{"Categories": cats, "User": currentUser(c), "CSRFToken": tok})
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	cats, err := h.Catalog.ListCategories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"categories": cats})
}

// Delete removes an unused category. Categories still referenced by items are kept.
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "category id")
	}
	if err := h.Catalog.DeleteCategory(c.UserContext(), id); err != nil {
		return fail(c, "admin.category.delete", err)
	}
	applog.Audit(c, "admin.category.delete", map[string]any{"category_id": id})
	return c.SendStatus(fiber.StatusNoContent)
}
