package pipeline

import (
	"errors"
	"fmt"
)

// ValidationError rejects a request before any pipeline work begins. It
// maps to a 400-class HTTP response.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("pipeline: validation: %v", e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// ExternalError marks a fatal upstream failure (AI collaborator or store)
// at a named pipeline step. It maps to a 502-class HTTP response.
type ExternalError struct {
	Step string
	Err  error
}

func (e *ExternalError) Error() string {
	return fmt.Sprintf("pipeline: %s: %v", e.Step, e.Err)
}

func (e *ExternalError) Unwrap() error { return e.Err }

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
