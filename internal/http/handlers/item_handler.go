package handlers

import (
	applog "barterly/internal/log"
	"barterly/internal/services"
	"barterly/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ItemHandler struct {
	Items    *services.ItemService
	Exchange *services.ExchangeService
}

type itemBody struct {
	Name        string `json:"name" form:"name"`
	Description string `json:"description" form:"description"`
	CategoryID  string `json:"category_id" form:"category_id"`
	Condition   string `json:"condition" form:"condition"`
}

func (b itemBody) input() services.ItemInput {
	return services.ItemInput{Name: b.Name, Description: b.Description, CategoryID: b.CategoryID, Condition: b.Condition}
}

func (h *ItemHandler) Create(c *fiber.Ctx) error {
	var body itemBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "body")
	}
	it, err := h.Items.Create(c.UserContext(), currentUser(c).ID, body.input())
	if err != nil {
		return fail(c, "item.create", err)
	}
	applog.Audit(c, "item.create", map[string]any{"item_id": it.ID, "category_id": it.CategoryID})
	return c.Status(fiber.StatusCreated).JSON(it)
}

func (h *ItemHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "item id")
	}
	var body itemBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "body")
	}
	it, err := h.Items.Update(c.UserContext(), currentUser(c).ID, id, body.input())
	if err != nil {
		return fail(c, "item.update", err)
	}
	applog.Audit(c, "item.update", map[string]any{"item_id": it.ID})
	return c.JSON(it)
}

func (h *ItemHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "item id")
	}
	it, err := h.Items.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "item.detail", err)
	}
	return c.JSON(it)
}

// History lists the proposals an item took part in, newest first,
// optionally narrowed with ?status=pending|accepted|rejected|all.
func (h *ItemHandler) History(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "item id")
	}
	f, ok := validate.StatusFilter(c.Query("status"))
	if !ok {
		return badRequest(c, "status")
	}
	ps, err := h.Exchange.ProposalsForItem(c.UserContext(), id, f)
	if err != nil {
		return fail(c, "item.history", err)
	}
	return c.JSON(fiber.Map{"proposals": ps})
}

func (h *ItemHandler) Mine(c *fiber.Ctx) error {
	items, err := h.Items.ListByOwner(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}
