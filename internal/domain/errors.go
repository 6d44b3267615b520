package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the slot scheduling core.
var (
	// ErrInvalidInterval means start >= end. Always detected locally, before
	// any remote call.
	ErrInvalidInterval = errors.New("interval start must be before end")

	// ErrNotFound means the target id no longer exists at the store. Callers
	// should treat it as "already gone" rather than fatal.
	ErrNotFound = errors.New("not found")

	// ErrRemoteUnavailable means a transport or server fault during a remote
	// call. Cached state is preserved; retry is the caller's decision.
	ErrRemoteUnavailable = errors.New("remote slot store unavailable")

	// ErrForbidden means the acting principal may not operate on the
	// requested owner's slots.
	ErrForbidden = errors.New("forbidden")

	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// ConflictError reports that a candidate interval overlaps an existing slot
// for the same owner. It carries the conflicting slot so callers can display
// it.
type ConflictError struct {
	SlotID   string
	Owner    string
	Interval TimeInterval
}

func (e *ConflictError) Error() string {
	if e.Owner != "" {
		return fmt.Sprintf("interval overlaps existing slot %s of %s", e.SlotID, e.Owner)
	}
	return fmt.Sprintf("interval overlaps existing slot %s", e.SlotID)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
