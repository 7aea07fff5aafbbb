package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"barterly/internal/domain"
	"barterly/internal/metrics"
	"barterly/internal/repos"
)

// ExchangeService runs the proposal lifecycle: create, respond, cancel.
// Every operation is a single transaction against the item and proposal stores.
type ExchangeService struct {
	Store   *repos.Store
	Metrics *metrics.Exchange

	now   func() time.Time
	newID func() string
}

func NewExchangeService(store *repos.Store, m *metrics.Exchange) *ExchangeService {
	return &ExchangeService{Store: store, Metrics: m, now: time.Now, newID: uuid.NewString}
}

// CreateProposal records actingUser's offer of senderID in exchange for receiverID.
// Checks run in order: both items exist, items differ, owners differ,
// actingUser owns the sender, no pending proposal for the same pair.
func (s *ExchangeService) CreateProposal(ctx context.Context, actingUser, senderID, receiverID string) (domain.Proposal, error) {
	var out domain.Proposal
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		if err := tx.Items.Lock(ctx, senderID, receiverID); err != nil {
			return err
		}
		sender, err := tx.Items.Get(ctx, senderID)
		if err != nil {
			return err
		}
		receiver, err := tx.Items.Get(ctx, receiverID)
		if err != nil {
			return err
		}
		if sender.ID == receiver.ID {
			return fmt.Errorf("%w: self-exchange", domain.ErrInvalidProposal)
		}
		if sender.OwnerID == receiver.OwnerID {
			return fmt.Errorf("%w: cannot trade with self", domain.ErrInvalidProposal)
		}
		if sender.OwnerID != actingUser {
			return fmt.Errorf("%w: only the current owner of the sender item may propose it", domain.ErrForbidden)
		}
		if _, err := tx.Proposals.FindPending(ctx, sender.ID, receiver.ID); err == nil {
			return fmt.Errorf("%w: pending proposal already exists", domain.ErrConflict)
		} else if !errors.Is(err, domain.ErrNotFound) {
			return err
		}

		p := domain.Proposal{
			ID:         s.newID(),
			SenderID:   sender.ID,
			ReceiverID: receiver.ID,
			Status:     domain.StatusPending,
			CreatedAt:  s.now().UTC().Truncate(time.Microsecond),
		}
		if err := tx.Proposals.Create(ctx, p); err != nil {
			return err
		}
		out = p
		return nil
	})
	if err != nil {
		s.Metrics.Failed("create", err)
		return domain.Proposal{}, err
	}
	s.Metrics.Created()
	return out, nil
}

// RespondToProposal closes a pending proposal on behalf of the receiver item's owner.
// Accepting swaps the owners of both items in the same transaction as the status
// change and rejects the remaining pending proposals touching either item.
func (s *ExchangeService) RespondToProposal(ctx context.Context, actingUser, proposalID string, d domain.Decision) (domain.Proposal, error) {
	switch d {
	case domain.DecisionAccept, domain.DecisionReject:
	default:
		return domain.Proposal{}, fmt.Errorf("%w: unknown decision %d", domain.ErrInvalidInput, int(d))
	}

	var (
		out        domain.Proposal
		superseded int64
	)
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		p, err := lockProposal(ctx, tx, proposalID)
		if err != nil {
			return err
		}
		receiver, err := tx.Items.Get(ctx, p.ReceiverID)
		if err != nil {
			return err
		}
		if receiver.OwnerID != actingUser {
			return fmt.Errorf("%w: only the receiver's owner may accept or reject", domain.ErrForbidden)
		}

		to := d.Status()
		if err := tx.Proposals.SetStatus(ctx, p.ID, domain.StatusPending, to); err != nil {
			return err
		}
		p.Status = to

		if d == domain.DecisionAccept {
			sender, err := tx.Items.Get(ctx, p.SenderID)
			if err != nil {
				return err
			}
			if err := swapOwners(ctx, tx.Items, sender, receiver); err != nil {
				return err
			}
			superseded, err = tx.Proposals.RejectPendingTouching(ctx, p.ID, sender.ID, receiver.ID)
			if err != nil {
				return err
			}
		}
		out = p
		return nil
	})
	if err != nil {
		s.Metrics.Failed("respond", err)
		return domain.Proposal{}, err
	}
	s.Metrics.Responded(d)
	s.Metrics.Superseded(superseded)
	return out, nil
}

// lockProposal locks both items of a proposal in id order, the same order
// CreateProposal uses, then reads the proposal under those locks. It fails
// with ErrConflict once the proposal is closed.
func lockProposal(ctx context.Context, tx *repos.Store, id string) (domain.Proposal, error) {
	p, err := tx.Proposals.Get(ctx, id)
	if err != nil {
		return domain.Proposal{}, err
	}
	if err := tx.Items.Lock(ctx, p.SenderID, p.ReceiverID); err != nil {
		return domain.Proposal{}, err
	}
	if p, err = tx.Proposals.Get(ctx, id); err != nil {
		return domain.Proposal{}, err
	}
	if p.Status.Terminal() {
		return domain.Proposal{}, fmt.Errorf("%w: proposal already %s", domain.ErrConflict, p.Status)
	}
	return p, nil
}

// swapOwners exchanges the owners of a and b, writing in id order.
// Items that already share an owner cannot be swapped.
func swapOwners(ctx context.Context, items *repos.ItemRepo, a, b domain.Item) error {
	if a.OwnerID == b.OwnerID {
		return fmt.Errorf("%w: items %s and %s now share an owner", domain.ErrConflict, a.ID, b.ID)
	}
	if b.ID < a.ID {
		a, b = b, a
	}
	if err := items.SetOwner(ctx, a.ID, a.OwnerID, b.OwnerID); err != nil {
		return err
	}
	return items.SetOwner(ctx, b.ID, b.OwnerID, a.OwnerID)
}

// CancelProposal withdraws a pending proposal. Only the sender item's owner may do so.
func (s *ExchangeService) CancelProposal(ctx context.Context, actingUser, proposalID string) error {
	err := s.Store.InTx(ctx, func(tx *repos.Store) error {
		p, err := lockProposal(ctx, tx, proposalID)
		if err != nil {
			return err
		}
		sender, err := tx.Items.Get(ctx, p.SenderID)
		if err != nil {
			return err
		}
		if sender.OwnerID != actingUser {
			return fmt.Errorf("%w: only the sender's owner may cancel", domain.ErrForbidden)
		}
		return tx.Proposals.DeletePending(ctx, p.ID)
	})
	if err != nil {
		s.Metrics.Failed("cancel", err)
		return err
	}
	s.Metrics.Cancelled()
	return nil
}
