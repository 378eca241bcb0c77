package ggn

import (
	"errors"
	"fmt"
)

// TransportError reports that the API could not be reached or answered with
// something other than a usable JSON document. StatusCode is zero when no
// HTTP response was received. It is distinct from a remote
// "failure" status, which is a valid answer meaning no match.
type TransportError struct {
	Query      string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("ggn search %q: %v", e.Query, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err wraps a *TransportError.
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}
