package core

import "errors"

// Failure taxonomy for the lifecycle engine. Every operation returns one of
// these sentinels (or a wrapped store error) and never retries internally;
// the route layer maps them to responses.
var (
	ErrNotFound            = errors.New("not found")
	ErrUnauthenticated     = errors.New("unauthenticated")
	ErrNotOwner            = errors.New("not the issue owner")
	ErrNotAssignee         = errors.New("not the assigned staff")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrNotEditable         = errors.New("issue is not editable")
	ErrAlreadyVoted        = errors.New("already upvoted")
	ErrSelfVote            = errors.New("cannot upvote own issue")
	ErrAlreadyAssigned     = errors.New("issue already assigned")
	ErrBlocked             = errors.New("user is blocked")
	ErrQuotaExceeded       = errors.New("free issue limit reached")
	ErrPaymentNotConfirmed = errors.New("payment not completed")
)
