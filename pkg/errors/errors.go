package errors

import (
	"errors"
	"fmt"
)

// Standard error types
var (
	ErrAuthentication = errors.New("authentication error")
	ErrConfiguration  = errors.New("configuration error")
	ErrHTTPRequest    = errors.New("HTTP request error")
	ErrHTTPResponse   = errors.New("HTTP response error")
	ErrPagination     = errors.New("pagination error")
	ErrExtraction     = errors.New("data extraction error")
	ErrValidation     = errors.New("validation error")
	ErrSnapshot       = errors.New("snapshot error")
	ErrExport         = errors.New("export error")
)

// WrapError wraps an error with a standard error type.
// Both the kind and the underlying error stay reachable through errors.Is.
func WrapError(err error, errType error, message string) error {
	return fmt.Errorf("%w: %s: %w", errType, message, err)
}

// Is provides a convenience wrapper around errors.Is
func Is(err, target error) bool {
	return errors.Is(err, target)
}
