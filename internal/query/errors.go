package query

import (
	"errors"
	"fmt"
)

var (
	// ErrDisabled is returned by Refetch while the controller is disabled
	ErrDisabled = errors.New("query disabled")
	// ErrInvalidated is returned to callers waiting on a fetch whose result was discarded
	ErrInvalidated = errors.New("query invalidated")
)

// DisabledError carries the resource key of a rejected refetch
type DisabledError struct {
	Key string
}

func (e *DisabledError) Error() string {
	return fmt.Sprintf("refetch %q: %v", e.Key, ErrDisabled)
}

// Is reports whether target is ErrDisabled
func (e *DisabledError) Is(target error) bool {
	return target == ErrDisabled
}
