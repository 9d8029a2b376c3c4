package http

import commonerrors "github.com/AlibekovAA/user-profile/internal/common/errors"

// Envelope codes for failures detected before a handler's domain logic runs.
const (
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInvalidJSON      = "INVALID_JSON"
	CodeRequestTooLarge  = "REQUEST_TOO_LARGE"
	CodeNotFound         = "NOT_FOUND"
	CodeInternalError    = commonerrors.CodeInternal
)
