package session

import (
	"errors"

	"github.com/AlibekovAA/user-profile/internal/client/api"
	commonerrors "github.com/AlibekovAA/user-profile/internal/common/errors"
)

const (
	fallbackLogin    = "Login failed"
	fallbackRegister = "Registration failed"
	fallbackUpdate   = "Update failed"
	fallbackProfile  = "Could not load profile"
)

var (
	ErrBusy             = errors.New("another request is in progress")
	ErrNotAuthenticated = errors.New("not logged in")
)

// ActionError is what a failed session action reports to the user. Message is
// always safe to display.
type ActionError struct {
	Message string
	Fields  []commonerrors.FieldError
	Status  int
	err     error
}

func (e *ActionError) Error() string {
	return e.Message
}

func (e *ActionError) Unwrap() error {
	return e.err
}

func AsActionError(err error) (*ActionError, bool) {
	var ae *ActionError
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// failure keeps the server's message for client errors and hides anything a
// 5xx or a transport failure carries.
func failure(err error, fallback string) *ActionError {
	ae := &ActionError{Message: fallback, err: err}

	apiErr, ok := api.AsAPIError(err)
	if !ok || apiErr.ServerSide() {
		return ae
	}

	ae.Status = apiErr.Status
	ae.Fields = apiErr.Fields
	if apiErr.Message != "" {
		ae.Message = apiErr.Message
	}
	return ae
}

func localValidationError(fields []commonerrors.FieldError) *ActionError {
	ve := commonerrors.NewValidationError(fields)
	return &ActionError{Message: ve.Message(), Fields: fields, err: ve}
}
