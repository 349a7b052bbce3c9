package usecase

import (
	"context"
	"errors"

	crerr "github.com/cockroachdb/errors"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrTransient marks failures worth retrying, such as network errors or
	// 5xx responses from the external source.
	ErrTransient = errors.New("transient failure")

	// ErrExternalNotFound means the external source does not know the code.
	ErrExternalNotFound = errors.New("external resource not found")

	// ErrAmbiguousContext means a lookup matched several entities because the
	// scoping parent was not provided.
	ErrAmbiguousContext = errors.New("ambiguous lookup context")

	ErrReviewAlreadyResolved = errors.New("review already resolved")
	ErrCategoryMismatch      = errors.New("team category mismatch")
	ErrOrchestratorStopped   = errors.New("job orchestrator is not accepting jobs")
)

// IsRetryable reports whether a failed attempt should be scheduled again.
// Cancellation of the caller's context is never retried.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if crerr.Is(err, context.Canceled) {
		return false
	}
	switch {
	case crerr.Is(err, ErrTransient),
		crerr.Is(err, ErrDependencyUnavailable),
		crerr.Is(err, context.DeadlineExceeded):
		return true
	default:
		return false
	}
}

// MarkTransient tags err so IsRetryable accepts it while keeping its own chain.
func MarkTransient(err error) error {
	if err == nil {
		return nil
	}
	return crerr.Mark(err, ErrTransient)
}
