package api

import (
	"errors"
	"fmt"
)

var (
	// ErrUnavailable marks a transport failure: the network round trip did
	// not complete, or the response was not something the API ever sends.
	// Callers surface a generic message and let the user retry.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnrecognizedShape marks a response whose structure matches none of
	// the shapes the API is known to produce. Failing loudly here is
	// deliberate: silently defaulting hides real contract drift.
	ErrUnrecognizedShape = errors.New("unrecognized response shape")
)

// ServerError is a server-reported failure: the round trip completed and the
// server rejected the request with a human-readable message. The message is
// shown to the user verbatim and the request is never retried automatically.
type ServerError struct {
	Message string
	// UserID is set when the failure response still carries a
	// server-assigned identifier (seen on duplicate registrations).
	UserID int64
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return "server reported failure"
	}
	return e.Message
}

// AsServerError unwraps err into a *ServerError if it is one.
func AsServerError(err error) (*ServerError, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func transportError(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, ErrUnavailable, err)
}
