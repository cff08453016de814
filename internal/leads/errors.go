package leads

import "errors"

var (
	// ErrMissingOrgID is returned when the org scope is absent
	ErrMissingOrgID = errors.New("org id is required")

	// ErrMissingMessageID is returned when the message back-reference is absent
	ErrMissingMessageID = errors.New("message id is required")

	// ErrLeadNotFound is returned when a lead is not found
	ErrLeadNotFound = errors.New("lead not found")

	// ErrInvalidStatus is returned for statuses outside the fixed set
	ErrInvalidStatus = errors.New("invalid lead status")

	// ErrInvalidTransition is returned for disallowed status moves
	ErrInvalidTransition = errors.New("invalid lead status transition")
)
