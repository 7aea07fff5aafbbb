package handlers

import (
	"github.com/gofiber/fiber/v2"
)

// Register mounts the JSON API. Global middleware (identity, CSRF, limits) is the caller's.
func Register(r fiber.Router, d *Deps, authLimit fiber.Handler) {
	user := RequireUser()
	if authLimit == nil {
		authLimit = func(c *fiber.Ctx) error { return c.Next() }
	}

	r.Get("/", d.CategoryHandler.Home)
	r.Post("/login", authLimit, d.AuthHandler.Login)
	r.Post("/logout", d.AuthHandler.Logout)

	api := r.Group("/api/v1")
	api.Post("/token", authLimit, d.AuthHandler.Token)

	api.Get("/categories", d.CategoryHandler.List)
	api.Delete("/categories/:id", RequireAdmin(), d.CategoryHandler.Delete)

	api.Post("/items", user, d.ItemHandler.Create)
	api.Get("/items/:id", d.ItemHandler.Detail)
	api.Patch("/items/:id", user, d.ItemHandler.Update)
	api.Get("/items/:id/proposals", d.ItemHandler.History)

	api.Post("/proposals", user, d.ProposalHandler.Create)
	api.Get("/proposals/:id", user, d.ProposalHandler.Detail)
	api.Post("/proposals/:id/respond", user, d.ProposalHandler.Respond)
	api.Delete("/proposals/:id", user, d.ProposalHandler.Cancel)

	api.Get("/me/items", user, d.ItemHandler.Mine)
	api.Get("/me/outgoing", user, d.ProposalHandler.Outgoing)
	api.Get("/me/incoming", user, d.ProposalHandler.Incoming)
	api.Get("/me/requestable", user, d.ProposalHandler.Requestable)
}
