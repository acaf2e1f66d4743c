package services

import (
	"errors"
	"fmt"
)

// ValidationError marks a rejection of the caller's input, as opposed to a
// storage failure. Handlers translate it to a 400 response; anything else
// coming out of a commit is a server-side problem.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalidf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err rejects the caller's input.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
