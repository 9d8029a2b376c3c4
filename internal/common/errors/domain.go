package commonerrors

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCategory string

const (
	CategoryValidation   ErrorCategory = "VALIDATION"
	CategoryNotFound     ErrorCategory = "NOT_FOUND"
	CategoryConflict     ErrorCategory = "CONFLICT"
	CategoryUnauthorized ErrorCategory = "UNAUTHORIZED"
	CategoryInternal     ErrorCategory = "INTERNAL"
)

// HTTPStatus is the response status for the category. Conflicts share 400
// with validation failures; clients tell them apart by code.
func (c ErrorCategory) HTTPStatus() int {
	switch c {
	case CategoryValidation, CategoryConflict:
		return http.StatusBadRequest
	case CategoryUnauthorized:
		return http.StatusUnauthorized
	case CategoryNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error codes written to the "code" field of the error envelope.
const (
	CodeUsernameTaken        = "USERNAME_TAKEN"
	CodeEmailTaken           = "EMAIL_TAKEN"
	CodeInvalidCredentials   = "INVALID_CREDENTIALS"
	CodeMissingAuthorization = "MISSING_AUTHORIZATION"
	CodeInvalidToken         = "INVALID_TOKEN"
	CodeTokenExpired         = "TOKEN_EXPIRED"
	CodeUserNotFound         = "USER_NOT_FOUND"
	CodeInternal             = "INTERNAL_ERROR"
)

type DomainError interface {
	error
	Code() string
	Category() ErrorCategory
	HTTPStatus() int
	Message() string
	Unwrap() error
	WithCause(cause error) DomainError
}

type domainError struct {
	code     string
	category ErrorCategory
	message  string
	cause    error
}

func NewDomainError(code string, category ErrorCategory, message string) DomainError {
	return &domainError{code: code, category: category, message: message}
}

func (e *domainError) Error() string {
	if e.cause == nil {
		return e.message
	}
	return fmt.Sprintf("%s: %v", e.message, e.cause)
}

func (e *domainError) Code() string            { return e.code }
func (e *domainError) Category() ErrorCategory { return e.category }
func (e *domainError) HTTPStatus() int         { return e.category.HTTPStatus() }
func (e *domainError) Message() string         { return e.message }
func (e *domainError) Unwrap() error           { return e.cause }

// Is matches on code, so a copy made by WithCause still satisfies errors.Is
// against its sentinel.
func (e *domainError) Is(target error) bool {
	t, ok := target.(*domainError)
	return ok && e.code == t.code
}

func (e *domainError) WithCause(cause error) DomainError {
	cp := *e
	cp.cause = cause
	return &cp
}

func AsDomainError(err error) (DomainError, bool) {
	var de DomainError
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}

var (
	ErrUsernameTaken        = NewDomainError(CodeUsernameTaken, CategoryConflict, "username is already taken")
	ErrEmailTaken           = NewDomainError(CodeEmailTaken, CategoryConflict, "email is already in use")
	ErrInvalidCredentials   = NewDomainError(CodeInvalidCredentials, CategoryUnauthorized, "invalid credentials")
	ErrMissingAuthorization = NewDomainError(CodeMissingAuthorization, CategoryUnauthorized, "missing or invalid authorization")
	ErrInvalidToken         = NewDomainError(CodeInvalidToken, CategoryUnauthorized, "token is not valid")
	ErrTokenExpired         = NewDomainError(CodeTokenExpired, CategoryUnauthorized, "token has expired")
	ErrUserNotFound         = NewDomainError(CodeUserNotFound, CategoryNotFound, "user not found")
	ErrInternalError        = NewDomainError(CodeInternal, CategoryInternal, "internal server error")
)

// Startup configuration errors.
var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidJWTSecret   = errors.New("JWT_SECRET must be at least 32 bytes")
	ErrUnknownStoreDriver = errors.New("unknown store driver")
)
