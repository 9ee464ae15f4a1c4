package fabric

import (
	"errors"
	"fmt"
)

var (
	// ErrMismatch reports that a requested attribute cannot be satisfied.
	ErrMismatch = errors.New("attributes not supported")

	// ErrNoMemory reports that an allocation failed.
	ErrNoMemory = errors.New("out of memory")

	// ErrMalformed reports a name without the expected number of segments.
	ErrMalformed = errors.New("malformed name")
)

// MismatchError identifies the first incompatible field of a request.
// It unwraps to ErrMismatch.
type MismatchError struct {
	// Group is the attribute group ("info", "fabric", "domain", "ep", "rx", "tx").
	Group string
	// Field is the offending field within the group.
	Field string
	// Supported is the provider's value, rendered for humans.
	Supported string
	// Requested is the requester's value, rendered for humans.
	Requested string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s %s not supported (supported: %s, requested: %s)",
		e.Group, e.Field, e.Supported, e.Requested)
}

// Unwrap returns ErrMismatch.
func (e *MismatchError) Unwrap() error {
	return ErrMismatch
}
