// Package errs defines the error kinds diff-dd's components return, and the
// DiffddError interface they all implement.
package errs

import "fmt"

// DiffddError is the error type every diff-dd component returns. It pairs a
// sentinel kind (see errno.go) with an optional message and wrapped cause.
// An error built with WithMessage unwraps to its kind, so errors.Is() matches
// that kind. An error built with Wrap unwraps to the wrapped error only:
// errors.Is() matches that error, not the kind named in the message.
type DiffddError interface {
	error
	WithMessage(message string) DiffddError
	Wrap(err error) DiffddError
}

// -----------------------------------------------------------------------------

type customDiffddError struct {
	message string
	cause   error
}

func (e customDiffddError) Error() string {
	return e.message
}

func (e customDiffddError) WithMessage(message string) DiffddError {
	return customDiffddError{
		message: fmt.Sprintf("%s: %s", e.message, message),
		cause:   e,
	}
}

func (e customDiffddError) Wrap(err error) DiffddError {
	return customDiffddError{
		message: fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		cause:   err,
	}
}

func (e customDiffddError) Unwrap() error {
	return e.cause
}
