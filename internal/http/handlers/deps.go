package handlers

import (
	"barterly/internal/config"
	"barterly/internal/metrics"
	"barterly/internal/repos"
	"barterly/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Auth            *services.AuthService
	AuthHandler     *AuthHandler
	CategoryHandler *CategoryHandler
	ItemHandler     *ItemHandler
	ProposalHandler *ProposalHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, auth *services.AuthService, m *metrics.Exchange) *Deps {
	store := repos.NewStore(db)
	catRepo := repos.NewCategoryRepo(db)

	catalogSvc := services.NewCatalogService(catRepo)
	itemSvc := services.NewItemService(store, catRepo)
	exchangeSvc := services.NewExchangeService(store, m)

	return &Deps{
		Auth:            auth,
		AuthHandler:     &AuthHandler{Auth: auth, SecureCookies: cfg.CookieSecure},
		CategoryHandler: &CategoryHandler{Catalog: catalogSvc},
		ItemHandler:     &ItemHandler{Items: itemSvc, Exchange: exchangeSvc},
		ProposalHandler: &ProposalHandler{Exchange: exchangeSvc},
	}
}
