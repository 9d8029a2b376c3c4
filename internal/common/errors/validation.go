package commonerrors

import (
	"errors"
	"strings"
)

const CodeValidationFailed = "VALIDATION_FAILED"

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError reports every offending field of a request, not only the first.
type ValidationError struct {
	Fields []FieldError
	cause  error
}

func NewValidationError(fields []FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Code() string {
	return CodeValidationFailed
}

func (e *ValidationError) Category() ErrorCategory {
	return CategoryValidation
}

func (e *ValidationError) HTTPStatus() int {
	return CategoryValidation.HTTPStatus()
}

func (e *ValidationError) Message() string {
	if len(e.Fields) == 1 {
		return e.Fields[0].Message
	}
	return "validation failed"
}

func (e *ValidationError) Unwrap() error {
	return e.cause
}

func (e *ValidationError) WithCause(cause error) DomainError {
	return &ValidationError{Fields: e.Fields, cause: cause}
}

func (e *ValidationError) HasField(name string) bool {
	for _, f := range e.Fields {
		if f.Field == name {
			return true
		}
	}
	return false
}

func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
