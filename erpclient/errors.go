package erpclient

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized reports a 401 or 403 response. The response cache has
	// already been flushed by the time the caller sees it.
	ErrUnauthorized = errors.New("erpclient: unauthorized")

	// ErrUnreachable reports a transport-level failure: no connectivity,
	// DNS failure, timeout. The client does not retry; retry policy belongs
	// to the caller.
	ErrUnreachable = errors.New("erpclient: could not reach server")
)

// APIError carries any other 4xx/5xx response back to the caller.
type APIError struct {
	Status    int
	Message   string
	RequestID string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("erpclient: http %d", e.Status)
	}
	return fmt.Sprintf("erpclient: http %d: %s", e.Status, e.Message)
}
