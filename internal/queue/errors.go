package queue

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates the job does not exist.
var ErrNotFound = errors.New("job not found")

// ErrUnknownKind indicates an enqueue request named an unsupported kind.
var ErrUnknownKind = errors.New("unknown entity kind")

// PermanentError marks a processing failure that retrying cannot fix, such
// as the target entity not existing. The worker fails the job immediately.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent: %v", e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps err so the worker treats it as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err carries a PermanentError.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}
