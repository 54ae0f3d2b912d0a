package remote

import (
	"errors"
	"fmt"
	"net/http"

	"cookbook/internal/types"
)

// StatusError captures non-2xx responses from the remote API.
type StatusError struct {
	Operation  string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Body == "" {
		return fmt.Sprintf("%s request failed: status %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s request failed: status %d: %s", e.Operation, e.StatusCode, e.Body)
}

// Unwrap lets errors.Is(err, types.ErrNotFound) match 404 and 410 responses.
func (e *StatusError) Unwrap() error {
	if e != nil && (e.StatusCode == http.StatusNotFound || e.StatusCode == http.StatusGone) {
		return types.ErrNotFound
	}
	return nil
}

// IsMissing reports whether the remote answered that the target does not exist, as
// opposed to failing or being unreachable.
func IsMissing(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && errors.Is(se, types.ErrNotFound)
}
