package services

import (
	"errors"
	"fmt"

	"civiclens-be/models"
	"civiclens-be/store"
)

// ErrNotFound signals that a referenced entity is absent.
var ErrNotFound = errors.New("not found")

// ValidationError rejects malformed input before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// InvalidTransitionError rejects a lifecycle operation the status machine
// does not allow.
type InvalidTransitionError struct {
	From models.IssueStatus
	Op   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s an issue in status %q", e.Op, e.From)
}

// AuthorizationError rejects an operation the actor's role does not permit.
type AuthorizationError struct {
	Role models.UserRole
	Op   string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("role %q may not %s", e.Role, e.Op)
}

// PartialFailureError reports a multi-step operation that completed some but
// not all steps. Nothing is rolled back; the caller reconciles.
type PartialFailureError struct {
	Completed string
	Failed    string
	Err       error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s succeeded but %s failed: %v", e.Completed, e.Failed, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

// PersistenceError wraps a store failure. Callers treat it as transient;
// nothing in this package retries.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// mapStoreErr translates store errors into the service taxonomy.
func mapStoreErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	return &PersistenceError{Op: op, Err: err}
}
