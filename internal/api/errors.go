package api

import (
	"errors"
	"fmt"
)

// ErrTimeout marks a remote call that did not complete within the request
// budget. Callers surface it with a hint to enable demo mode.
var ErrTimeout = errors.New("request timeout - consider enabling Demo Mode")

// APIError is a non-2xx response from the item API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.Status, e.Message)
}

// IsTimeout reports whether err is (or wraps) a request timeout
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}
