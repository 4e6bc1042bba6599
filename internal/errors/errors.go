// internal/errors/errors.go
package appErrors

import (
	"errors"
	"fmt"
)

// Sentinel kinds for a failed generation. Match with errors.Is.
var (
	ErrServiceUnavailable = errors.New("service unavailable")
	ErrEmptyResponse      = errors.New("empty response")
	ErrMalformedResponse  = errors.New("malformed response")
)

var (
	ErrHistoryEntryNotFound = errors.New("history entry not found")
	ErrUnknownField         = errors.New("unknown campaign field")
)

// ValidationError means required campaign fields are missing or a value could
// not be parsed. Nothing was generated.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewMissingFields(fields ...string) error {
	return &ValidationError{
		Fields:  fields,
		Message: "Please fill in the product name and description.",
	}
}

func NewInvalidValue(field, value string) error {
	return &ValidationError{
		Fields:  []string{field},
		Message: fmt.Sprintf("invalid value %q for %s", value, field),
	}
}

// GenerationError wraps every failure of the copy generation call. Kind is
// one of the sentinel errors above; Err keeps the underlying cause for logs.
type GenerationError struct {
	Kind error
	Err  error
}

func (e *GenerationError) Error() string {
	return e.Kind.Error()
}

func (e *GenerationError) Is(target error) bool {
	return target == e.Kind
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Detail is the full message including the cause, for logging.
func (e *GenerationError) Detail() string {
	if e.Err == nil {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func NewGenerationError(kind, cause error) error {
	return &GenerationError{Kind: kind, Err: cause}
}

// UserMessage turns any error from the generation path into the single
// message shown to the user.
func UserMessage(err error) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var gErr *GenerationError
	if errors.As(err, &gErr) {
		return "Failed to generate ad copy (" + gErr.Kind.Error() + "). Please try again."
	}
	if err == nil {
		return ""
	}
	return "An unexpected error occurred."
}
