package services

import (
	"context"

	"barterly/internal/domain"
)

// Read-only projections over the item and proposal stores. Each call reads
// current store state; nothing is cached between calls.

// PendingOutgoing lists userID's items that are the sender of a pending proposal.
func (s *ExchangeService) PendingOutgoing(ctx context.Context, userID string) ([]domain.Item, error) {
	return s.Store.Items.PendingOutgoing(ctx, userID)
}

// PendingIncoming lists userID's items that are the receiver of a pending proposal.
func (s *ExchangeService) PendingIncoming(ctx context.Context, userID string) ([]domain.Item, error) {
	return s.Store.Items.PendingIncoming(ctx, userID)
}

// Requestable lists items eligible for a fresh proposal from userID.
func (s *ExchangeService) Requestable(ctx context.Context, userID string) ([]domain.Item, error) {
	return s.Store.Items.Requestable(ctx, userID)
}

// ProposalsForItem returns the exchange history of an item, optionally filtered by status.
func (s *ExchangeService) ProposalsForItem(ctx context.Context, itemID string, f domain.StatusFilter) ([]domain.Proposal, error) {
	if _, err := s.Store.Items.Get(ctx, itemID); err != nil {
		return nil, err
	}
	return s.Store.Proposals.FindByItem(ctx, itemID, f)
}

func (s *ExchangeService) GetProposal(ctx context.Context, id string) (domain.Proposal, error) {
	return s.Store.Proposals.Get(ctx, id)
}

// Direction reports how userID relates to the proposal given current ownership.
func (s *ExchangeService) Direction(ctx context.Context, userID, proposalID string) (domain.Direction, error) {
	p, err := s.Store.Proposals.Get(ctx, proposalID)
	if err != nil {
		return "", err
	}
	sender, err := s.Store.Items.Get(ctx, p.SenderID)
	if err != nil {
		return "", err
	}
	receiver, err := s.Store.Items.Get(ctx, p.ReceiverID)
	if err != nil {
		return "", err
	}
	return domain.DirectionOf(userID, sender, receiver), nil
}
