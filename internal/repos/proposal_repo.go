package repos

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"barterly/internal/domain"
)

type ProposalRepo struct{ db sqlx.ExtContext }

func NewProposalRepo(db *sqlx.DB) *ProposalRepo { return &ProposalRepo{db: db} }

const proposalColumns = `id, sender_id, receiver_id, status, created_at`

// Create inserts a proposal. A second pending proposal for the same ordered
// (sender, receiver) pair violates idx_proposals_pending_pair and yields ErrConflict.
func (r *ProposalRepo) Create(ctx context.Context, p domain.Proposal) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO proposals(id, sender_id, receiver_id, status, created_at)
		VALUES(?, ?, ?, ?, ?)
	`), p.ID, p.SenderID, p.ReceiverID, string(p.Status), p.CreatedAt)
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("pending proposal %s -> %s exists: %w", p.SenderID, p.ReceiverID, domain.ErrConflict)
	case isForeignKeyViolation(err):
		return fmt.Errorf("proposal items: %w", domain.ErrNotFound)
	}
	return err
}

func (r *ProposalRepo) Get(ctx context.Context, id string) (domain.Proposal, error) {
	var p domain.Proposal
	err := sqlx.GetContext(ctx, r.db, &p, r.db.Rebind(`
		SELECT `+proposalColumns+`
		FROM proposals
		WHERE id = ?
	`), id)
	return p, notFound(err, "proposal "+id)
}

// SetStatus moves a proposal from one status to another. Only the first caller
// observing from wins; everyone else gets ErrConflict.
func (r *ProposalRepo) SetStatus(ctx context.Context, id string, from, to domain.ProposalStatus) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE proposals SET status = ?
		WHERE id = ? AND status = ?
	`), string(to), id, string(from))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("proposal %s is not %s: %w", id, from, domain.ErrConflict)
	}
	return nil
}

// DeletePending removes a proposal that is still pending.
func (r *ProposalRepo) DeletePending(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM proposals WHERE id = ? AND status = 'pending'
	`), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("proposal %s is closed: %w", id, domain.ErrConflict)
	}
	return nil
}

// FindPending returns the pending proposal for the ordered pair, or ErrNotFound.
func (r *ProposalRepo) FindPending(ctx context.Context, senderID, receiverID string) (domain.Proposal, error) {
	var p domain.Proposal
	err := sqlx.GetContext(ctx, r.db, &p, r.db.Rebind(`
		SELECT `+proposalColumns+`
		FROM proposals
		WHERE sender_id = ? AND receiver_id = ? AND status = 'pending'
	`), senderID, receiverID)
	return p, notFound(err, "pending proposal")
}

// FindByItem lists proposals where the item is sender or receiver, newest first.
func (r *ProposalRepo) FindByItem(ctx context.Context, itemID string, f domain.StatusFilter) ([]domain.Proposal, error) {
	q := `
		SELECT ` + proposalColumns + `
		FROM proposals
		WHERE (sender_id = ? OR receiver_id = ?)`
	args := []any{itemID, itemID}
	if f.Status != "" {
		q += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	q += ` ORDER BY created_at DESC, id`

	var out []domain.Proposal
	err := sqlx.SelectContext(ctx, r.db, &out, r.db.Rebind(q), args...)
	return out, err
}

// RejectPendingTouching closes every other pending proposal that involves one
// of the given items. Used after a swap, when those offers no longer match ownership.
func (r *ProposalRepo) RejectPendingTouching(ctx context.Context, exceptID string, itemIDs ...string) (int64, error) {
	if len(itemIDs) == 0 {
		return 0, nil
	}
	q, args, err := sqlx.In(`
		UPDATE proposals SET status = 'rejected'
		WHERE status = 'pending' AND id <> ?
		  AND (sender_id IN (?) OR receiver_id IN (?))
	`, exceptID, itemIDs, itemIDs)
	if err != nil {
		return 0, err
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
