package repository

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrUnauthorized is matched by any backend rejection of the bearer credential.
var ErrUnauthorized = errors.New("unauthorized")

// APIError is a non-success answer from the backend, carrying its message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend request failed with status %d", e.Status)
	}
	return e.Message
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 and 403 answers.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden {
		return ErrUnauthorized
	}
	return nil
}

// IsUnauthorized reports whether err means the credential must be discarded.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
