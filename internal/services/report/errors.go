package report

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("report not found")

// ValidationError reports a rejected field. No partial write happens when a
// store returns one.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
