package client

import (
	"errors"
	"fmt"
)

// ServerError is a non-2xx response from the upload.ai server.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("server returned status %d", e.StatusCode)
}

// IsServerError checks if the error is a ServerError
func IsServerError(err error) bool {
	var target *ServerError
	return errors.As(err, &target)
}

// IsRecoverable reports whether retrying the request may succeed. Client
// errors (4xx) are not recoverable.
func IsRecoverable(err error) bool {
	var target *ServerError
	if errors.As(err, &target) {
		return target.StatusCode >= 500
	}
	return err != nil
}
