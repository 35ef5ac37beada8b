package core

import (
	"errors"
	"fmt"
)

// ValidationError marks input rejected before any computation or write took
// place. The web adapter maps it to HTTP 400; nothing is partially applied.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// Validationf builds a ValidationError with fmt.Sprintf semantics.
func Validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
