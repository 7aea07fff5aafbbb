package handlers

import (
	"context"

	"barterly/internal/domain"
	applog "barterly/internal/log"
	"barterly/internal/services"
	"barterly/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ProposalHandler struct {
	Exchange *services.ExchangeService
}

type proposalBody struct {
	SenderID   string `json:"sender_id" form:"sender_id"`
	ReceiverID string `json:"receiver_id" form:"receiver_id"`
}

type respondBody struct {
	Decision string `json:"decision" form:"decision"`
}

func (h *ProposalHandler) Create(c *fiber.Ctx) error {
	var body proposalBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "body")
	}
	sender, ok := validate.ID(body.SenderID)
	if !ok {
		return badRequest(c, "sender_id")
	}
	receiver, ok := validate.ID(body.ReceiverID)
	if !ok {
		return badRequest(c, "receiver_id")
	}
	p, err := h.Exchange.CreateProposal(c.UserContext(), currentUser(c).ID, sender, receiver)
	if err != nil {
		return fail(c, "proposal.create", err)
	}
	applog.Audit(c, "proposal.create", map[string]any{"proposal_id": p.ID, "sender_id": p.SenderID, "receiver_id": p.ReceiverID})
	return c.Status(fiber.StatusCreated).JSON(p)
}

func (h *ProposalHandler) Respond(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "proposal id")
	}
	var body respondBody
	if err := c.BodyParser(&body); err != nil {
		return badRequest(c, "body")
	}
	d, ok := validate.Decision(body.Decision)
	if !ok {
		return badRequest(c, "decision")
	}
	p, err := h.Exchange.RespondToProposal(c.UserContext(), currentUser(c).ID, id, d)
	if err != nil {
		return fail(c, "proposal.respond", err)
	}
	applog.Audit(c, "proposal.respond", map[string]any{"proposal_id": p.ID, "decision": d.String()})
	return c.JSON(p)
}

func (h *ProposalHandler) Cancel(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "proposal id")
	}
	if err := h.Exchange.CancelProposal(c.UserContext(), currentUser(c).ID, id); err != nil {
		return fail(c, "proposal.cancel", err)
	}
	applog.Audit(c, "proposal.cancel", map[string]any{"proposal_id": id})
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"id": id, "cancelled": true})
}

// Detail returns a proposal together with how the caller relates to it.
func (h *ProposalHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return badRequest(c, "proposal id")
	}
	ctx := c.UserContext()
	p, err := h.Exchange.GetProposal(ctx, id)
	if err != nil {
		return fail(c, "proposal.detail", err)
	}
	dir, err := h.Exchange.Direction(ctx, currentUser(c).ID, id)
	if err != nil {
		return fail(c, "proposal.detail", err)
	}
	return c.JSON(fiber.Map{"proposal": p, "direction": dir})
}

func (h *ProposalHandler) listItems(c *fiber.Ctx, list func(context.Context, string) ([]domain.Item, error)) error {
	items, err := list(c.UserContext(), currentUser(c).ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}

// Outgoing lists the caller's items offered in pending proposals.
func (h *ProposalHandler) Outgoing(c *fiber.Ctx) error {
	return h.listItems(c, h.Exchange.PendingOutgoing)
}

// Incoming lists the caller's items requested by pending proposals.
func (h *ProposalHandler) Incoming(c *fiber.Ctx) error {
	return h.listItems(c, h.Exchange.PendingIncoming)
}

// Requestable lists other users' items the caller may currently ask for.
func (h *ProposalHandler) Requestable(c *fiber.Ctx) error {
	return h.listItems(c, h.Exchange.Requestable)
}
