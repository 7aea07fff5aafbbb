package domain

import "errors"

// Failure taxonomy shared by repos, services and handlers.
var (
	// ErrNotFound indicates a referenced item, category or proposal does not exist.
	ErrNotFound = errors.New("not found")

	// ErrForbidden indicates the acting user lacks the required relationship to the entity.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidProposal indicates a structurally disallowed proposal (self-item, self-owner).
	ErrInvalidProposal = errors.New("invalid proposal")

	// ErrConflict indicates a duplicate pending proposal, a closed proposal or a lost race.
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates a field failed validation.
	ErrInvalidInput = errors.New("invalid input")
)
