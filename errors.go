package pool

import (
	"fmt"

	"github.com/pkg/errors"
)

// CorruptionError is raised for conditions this package treats as
// unrecoverable: a sentinel mismatch on a reused block, use of a
// destroyed pool, a reentrant teardown, or a cross-pool ownership
// violation, the last two caught only under DebugOwnership. Go has no
// direct equivalent of abort(); fatal wraps the diagnostic in a
// CorruptionError and panics, leaving the decision to recover (and
// how) to the embedding server.
type CorruptionError struct {
	Reason string
}

func (e *CorruptionError) Error() string {
	return fmt.Sprintf("pool: corruption detected: %s", e.Reason)
}

func fatal(reason string, args ...interface{}) {
	msg := fmt.Sprintf(reason, args...)
	logger.Error(msg)
	panic(&CorruptionError{Reason: msg})
}

// wrapErrno preserves errno-carrying errors from resource wrappers
// (open, socket, regexp compile, pipe, fork/exec): the error is
// surfaced to the caller intact, annotated with the operation that
// failed, and no cleanup is registered.
func wrapErrno(op string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(err, op)
}
