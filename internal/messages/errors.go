package messages

import "errors"

var (
	// ErrMissingOrgID is returned when the org scope is absent
	ErrMissingOrgID = errors.New("org id is required")

	// ErrInvalidChannel is returned for channels outside the fixed set
	ErrInvalidChannel = errors.New("invalid channel type")

	// ErrMissingSender is returned when the sender is absent
	ErrMissingSender = errors.New("sender is required")

	// ErrMissingContent is returned when the message body is empty
	ErrMissingContent = errors.New("content is required")

	// ErrMessageNotFound is returned when a message is not found
	ErrMessageNotFound = errors.New("message not found")
)
