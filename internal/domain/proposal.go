package domain

import (
	"fmt"
	"time"
)

// ProposalStatus is the lifecycle state of a proposal. Only pending is non-terminal.
type ProposalStatus string

const (
	StatusPending  ProposalStatus = "pending"
	StatusAccepted ProposalStatus = "accepted"
	StatusRejected ProposalStatus = "rejected"
)

func (s ProposalStatus) Terminal() bool {
	switch s {
	case StatusAccepted, StatusRejected:
		return true
	case StatusPending:
		return false
	}
	panic(fmt.Sprintf("domain: unknown proposal status %q", string(s)))
}

// Proposal offers the sender item in exchange for the receiver item.
type Proposal struct {
	ID         string         `db:"id" json:"id"`
	SenderID   string         `db:"sender_id" json:"sender_id"`
	ReceiverID string         `db:"receiver_id" json:"receiver_id"`
	Status     ProposalStatus `db:"status" json:"status"`
	CreatedAt  time.Time      `db:"created_at" json:"created_at"`
}

// Decision is the receiver owner's answer to a pending proposal.
type Decision int

const (
	DecisionAccept Decision = iota + 1
	DecisionReject
)

func ParseDecision(s string) (Decision, bool) {
	switch s {
	case "accept":
		return DecisionAccept, true
	case "reject":
		return DecisionReject, true
	}
	return 0, false
}

// Status returns the terminal status the decision moves a proposal into.
func (d Decision) Status() ProposalStatus {
	switch d {
	case DecisionAccept:
		return StatusAccepted
	case DecisionReject:
		return StatusRejected
	}
	panic(fmt.Sprintf("domain: unknown decision %d", int(d)))
}

func (d Decision) String() string {
	switch d {
	case DecisionAccept:
		return "accept"
	case DecisionReject:
		return "reject"
	}
	return fmt.Sprintf("Decision(%d)", int(d))
}

// StatusFilter narrows an item's exchange history. The zero value matches everything.
type StatusFilter struct {
	Status ProposalStatus
}

var FilterAll = StatusFilter{}

func ParseStatusFilter(s string) (StatusFilter, bool) {
	switch s {
	case "", "all":
		return FilterAll, true
	case string(StatusPending), string(StatusAccepted), string(StatusRejected):
		return StatusFilter{Status: ProposalStatus(s)}, true
	}
	return StatusFilter{}, false
}

// Direction of a proposal as seen by one user.
type Direction string

const (
	DirectionNone     Direction = "none"
	DirectionOutgoing Direction = "outgoing"
	DirectionIncoming Direction = "incoming"
)

// DirectionOf tells whether userID initiated (owns the sender item) or must
// decide on (owns the receiver item) a proposal between the two items.
func DirectionOf(userID string, sender, receiver Item) Direction {
	switch userID {
	case sender.OwnerID:
		return DirectionOutgoing
	case receiver.OwnerID:
		return DirectionIncoming
	}
	return DirectionNone
}
