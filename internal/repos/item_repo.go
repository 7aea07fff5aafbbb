package repos

import (
	"context"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"

	"barterly/internal/domain"
)

type ItemRepo struct{ db sqlx.ExtContext }

func NewItemRepo(db *sqlx.DB) *ItemRepo { return &ItemRepo{db: db} }

const itemColumns = `i.id, i.name, i.description, i.category_id, i.owner_id, i.condition, i.created_at`

// Create inserts a new item. A missing category or owner surfaces as ErrNotFound.
func (r *ItemRepo) Create(ctx context.Context, it domain.Item) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO items(id, name, description, category_id, owner_id, condition, created_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)
	`), it.ID, it.Name, it.Description, it.CategoryID, it.OwnerID, string(it.Condition), it.CreatedAt)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("category or owner: %w", domain.ErrNotFound)
	}
	return err
}

func (r *ItemRepo) Get(ctx context.Context, id string) (domain.Item, error) {
	var it domain.Item
	err := sqlx.GetContext(ctx, r.db, &it, r.db.Rebind(`
		SELECT `+itemColumns+`
		FROM items i
		WHERE i.id = ?
	`), id)
	return it, notFound(err, "item "+id)
}

// UpdateDetails rewrites the owner-editable fields. Ownership is never touched here.
func (r *ItemRepo) UpdateDetails(ctx context.Context, it domain.Item) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE items
		SET name = ?, description = ?, category_id = ?, condition = ?
		WHERE id = ?
	`), it.Name, it.Description, it.CategoryID, string(it.Condition), it.ID)
	if isForeignKeyViolation(err) {
		return fmt.Errorf("category %s: %w", it.CategoryID, domain.ErrNotFound)
	}
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("item %s: %w", it.ID, domain.ErrNotFound)
	}
	return nil
}

func (r *ItemRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Item, error) {
	var out []domain.Item
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
		SELECT `+itemColumns+`
		FROM items i
		WHERE i.owner_id = ?
		ORDER BY i.created_at DESC, i.id
	`), ownerID)
	return out, err
}

// Lock takes row write locks on the given items in id order, so that concurrent
// transactions touching the same pair cannot interleave. Missing ids are ErrNotFound.
func (r *ItemRepo) Lock(ctx context.Context, ids ...string) error {
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	for _, id := range slices.Compact(sorted) {
		res, err := r.db.ExecContext(ctx, r.db.Rebind(`UPDATE items SET owner_id = owner_id WHERE id = ?`), id)
		if err != nil {
			return err
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
		}
	}
	return nil
}

// SetOwner moves an item from one owner to another. It fails with ErrConflict
// when the item is gone or no longer belongs to from.
func (r *ItemRepo) SetOwner(ctx context.Context, id, from, to string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE items SET owner_id = ?
		WHERE id = ? AND owner_id = ?
	`), to, id, from)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("item %s changed owner: %w", id, domain.ErrConflict)
	}
	return nil
}

// PendingOutgoing lists items owned by ownerID that are the sender of a pending proposal.
func (r *ItemRepo) PendingOutgoing(ctx context.Context, ownerID string) ([]domain.Item, error) {
	var out []domain.Item
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
		SELECT `+itemColumns+`
		FROM items i
		WHERE i.owner_id = ?
		  AND EXISTS (SELECT 1 FROM proposals p WHERE p.sender_id = i.id AND p.status = 'pending')
		ORDER BY i.created_at DESC, i.id
	`), ownerID)
	return out, err
}

// PendingIncoming lists items owned by ownerID that are the receiver of a pending proposal.
func (r *ItemRepo) PendingIncoming(ctx context.Context, ownerID string) ([]domain.Item, error) {
	var out []domain.Item
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
		SELECT `+itemColumns+`
		FROM items i
		WHERE i.owner_id = ?
		  AND EXISTS (SELECT 1 FROM proposals p WHERE p.receiver_id = i.id AND p.status = 'pending')
		ORDER BY i.created_at DESC, i.id
	`), ownerID)
	return out, err
}

// Requestable lists items userID may propose for: not owned by userID and not part of
// any pending proposal in which one side belongs to userID.
func (r *ItemRepo) Requestable(ctx context.Context, userID string) ([]domain.Item, error) {
	var out []domain.Item
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(`
		SELECT `+itemColumns+`
		FROM items i
		WHERE i.owner_id <> ?
		  AND NOT EXISTS (
		    SELECT 1
		    FROM proposals p
		    JOIN items s ON s.id = p.sender_id
		    JOIN items rc ON rc.id = p.receiver_id
		    WHERE p.status = 'pending'
		      AND (p.sender_id = i.id OR p.receiver_id = i.id)
		      AND (s.owner_id = ? OR rc.owner_id = ?)
		  )
		ORDER BY i.created_at DESC, i.id
	`), userID, userID, userID)
	return out, err
}
