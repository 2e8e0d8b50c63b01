package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ValidationError reports bad caller input (missing file, wrong extension, missing transcription).
type ValidationError struct {
	Message string
}

// NotFoundError reports an unknown resource id.
type NotFoundError struct {
	Resource string
	ID       string
}

// ExternalServiceError reports a failure of a transcoding, speech or completion provider.
type ExternalServiceError struct {
	Service string
	Err     error
}

// IOError reports a local disk failure.
type IOError struct {
	Op  string
	Err error
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error {
	return e.Err
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// helper functions to create errors

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NewNotFoundError(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func NewExternalServiceError(service string, err error) error {
	return &ExternalServiceError{Service: service, Err: err}
}

func NewIOError(op string, err error) error {
	return &IOError{Op: op, Err: err}
}

// helper functions for error handling

func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsNotFoundError(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsExternalServiceError(err error) bool {
	var target *ExternalServiceError
	return errors.As(err, &target)
}

func IsIOError(err error) bool {
	var target *IOError
	return errors.As(err, &target)
}

// StatusCode maps an error to the HTTP status returned to callers.
func StatusCode(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case IsValidationError(err):
		return http.StatusBadRequest
	case IsNotFoundError(err):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
