package api

import (
	"errors"
	"fmt"
	"net/http"

	commonerrors "github.com/AlibekovAA/user-profile/internal/common/errors"
)

var ErrUnavailable = errors.New("server unavailable")

// APIError is a non-2xx response decoded from the server's error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Fields  []commonerrors.FieldError
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

func (e *APIError) Unauthenticated() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusNotFound
}

func (e *APIError) ServerSide() bool {
	return e.Status >= http.StatusInternalServerError
}

func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
