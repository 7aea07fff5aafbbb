package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"barterly/internal/domain"
)

type CategoryRepo struct{ db *sqlx.DB }

func NewCategoryRepo(db *sqlx.DB) *CategoryRepo { return &CategoryRepo{db: db} }

func (r *CategoryRepo) List(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, name, description
		FROM categories
		ORDER BY name
	`)
	return out, err
}

func (r *CategoryRepo) Get(ctx context.Context, id string) (domain.Category, error) {
	var c domain.Category
	err := r.db.GetContext(ctx, &c, r.db.Rebind(`SELECT id, name, description FROM categories WHERE id = ?`), id)
	return c, notFound(err, "category "+id)
}

// Delete removes a category. It is refused with ErrConflict while items reference it.
func (r *CategoryRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM categories WHERE id = ?`), id)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("category %s has items: %w", id, domain.ErrConflict)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("category %s: %w", id, domain.ErrNotFound)
	}
	return nil
}
