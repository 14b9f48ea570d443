package social

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Typed failures returned by the social services. Callers match with
// errors.Is; the REST layer maps them to HTTP statuses.
var (
	// ErrNotFound means the referenced entity does not exist.
	ErrNotFound = errors.New("social: not found")
	// ErrForbidden means the actor has no rights over the entity.
	ErrForbidden = errors.New("social: forbidden")
	// ErrConflict means a pending or accepted relationship already exists
	// between the pair, in either direction.
	ErrConflict = errors.New("social: relationship already exists")
	// ErrSelfReference means the actor referenced themselves.
	ErrSelfReference = errors.New("social: self reference")
	// ErrInvalidArgument means a malformed or empty input field.
	ErrInvalidArgument = errors.New("social: invalid argument")
	// ErrInvalidTransition means the status change is not permitted from the
	// current state.
	ErrInvalidTransition = errors.New("social: invalid status transition")
	// ErrUnavailable means a transient store failure; safe to retry.
	ErrUnavailable = errors.New("social: store unavailable")
)

// wrapStore classifies a raw store error. Transient driver failures become
// ErrUnavailable so callers can retry; everything else passes through.
func wrapStore(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if isTransient(err) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return err
}

// isTransient detects lock/contention errors from common database drivers.
func isTransient(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "database table is locked") ||
		strings.Contains(msg, "deadlock") ||
		strings.Contains(msg, "try restarting transaction") ||
		strings.Contains(msg, "bad connection") ||
		strings.Contains(msg, "connection refused")
}

// isUniqueViolation detects duplicate-key errors from common database drivers.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") ||
		strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "already exists")
}
