// Package inventory holds the ticket engine: reconciliation of tickets
// against the menu, sale and check-in transitions, and the dashboard
// aggregation.  Every function here is pure.  Callers pass a Snapshot
// in and get a new one back; persistence is somebody else's problem.
package inventory

import (
	"errors"
	"fmt"
)

// Sentinel values for errors.Is.  Each typed error below matches exactly
// one of them.
var (
	ErrValidation       = errors.New("validation failed")
	ErrNotFound         = errors.New("ticket not found")
	ErrStateConflict    = errors.New("state conflict")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrUnauthorized     = errors.New("unauthorized")
)

// ValidationError reports a bad input value for a single item.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// MalformedSeriesError is the ValidationError raised for a menu row whose
// Series is not "start-end".  Row is the zero-based menu index.
type MalformedSeriesError struct {
	Row    int
	Series string
	Reason string
}

func (e *MalformedSeriesError) Error() string {
	return fmt.Sprintf("menu row %d: malformed series %q: %s", e.Row, e.Series, e.Reason)
}

func (e *MalformedSeriesError) Is(target error) bool { return target == ErrValidation }

// NotFoundError names a TicketID missing from the current collection.
type NotFoundError struct {
	TicketID string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("ticket %s not found", e.TicketID) }

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// StateConflictError is returned when a transition's precondition does
// not hold.  No field is mutated when it is returned.
type StateConflictError struct {
	TicketID string
	Op       string
	Reason   string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("%s ticket %s: %s", e.Op, e.TicketID, e.Reason)
}

func (e *StateConflictError) Is(target error) bool { return target == ErrStateConflict }

// StoreUnavailableError wraps a failed bulk load or replace.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

func (e *StoreUnavailableError) Is(target error) bool { return target == ErrStoreUnavailable }
