package services

import (
	"context"

	"barterly/internal/domain"
	"barterly/internal/repos"
)

type CatalogService struct {
	Cats *repos.CategoryRepo
}

func NewCatalogService(cats *repos.CategoryRepo) *CatalogService {
	return &CatalogService{Cats: cats}
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.Cats.List(ctx)
}

// DeleteCategory is refused while any item still references the category.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	return s.Cats.Delete(ctx, id)
}
