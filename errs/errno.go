package errs

import "fmt"

// DiffddErrno is a sentinel error kind, one per row of the diff-dd error
// table. It implements DiffddError directly so callers can compare against
// it with errors.Is without ever constructing a customDiffddError.
type DiffddErrno string

const (
	// ErrArgument signals a caller-supplied argument is invalid, such as a
	// non-positive buffer size or buffer count.
	ErrArgument = DiffddErrno("invalid argument")

	// ErrIO signals a failure of an underlying read, write, or seek that
	// did not itself carry enough context to diagnose.
	ErrIO = DiffddErrno("I/O operation failed")

	// ErrFormat signals the diff stream's file header did not match what the
	// codec expects: a header cut short, a bad signature, or an unsupported
	// version byte.
	ErrFormat = DiffddErrno("malformed diff image")

	// ErrTruncatedRecord signals a record's declared size promised more
	// payload bytes than the stream actually delivered before EOF.
	ErrTruncatedRecord = DiffddErrno("truncated record")

	// ErrUnequalStreamLength signals the base and new streams passed to
	// create differ in length.
	ErrUnequalStreamLength = DiffddErrno("base and new streams have unequal length")

	// ErrAllocationFailure signals a buffer or page could not be sized as
	// requested.
	ErrAllocationFailure = DiffddErrno("allocation failure")
)

func (e DiffddErrno) Error() string {
	return string(e)
}

func (e DiffddErrno) WithMessage(message string) DiffddError {
	return customDiffddError{
		message: message,
		cause:   e,
	}
}

func (e DiffddErrno) Wrap(err error) DiffddError {
	return customDiffddError{
		message: fmt.Sprintf("%s: %s", e.Error(), err.Error()),
		cause:   err,
	}
}
