package positions

import (
	"fmt"
)

// TransportError is returned when the request never produced an HTTP response
type TransportError struct {
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to fetch positions from %s: %v", e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ResponseError is returned for non-2xx responses and undecodable bodies
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("failed to fetch positions: %s (status %d)", e.Message, e.StatusCode)
}

// Temporary reports whether retrying the request can succeed
func (e *ResponseError) Temporary() bool {
	return e.StatusCode == 0 || e.StatusCode == 429 || e.StatusCode >= 500
}
