// ABOUTME: Error taxonomy shared by the lifecycle manager, triage engine, and adapters
// ABOUTME: Validation, invalid-state, not-found, and data-unavailable errors with entity context
package models

import (
	"errors"
	"fmt"
)

// Entity names used in error context.
const (
	EntityContact     = "contact"
	EntityCompany     = "company"
	EntityDeal        = "deal"
	EntityInteraction = "interaction"
	EntityFollowUp    = "follow_up"
)

// ValidationError reports malformed or missing input.
type ValidationError struct {
	Entity string
	ID     string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("invalid %s %s: %s %s", e.Entity, e.ID, e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s %s", e.Entity, e.Field, e.Reason)
}

// InvalidStateError reports an operation that is not legal for the entity's current state.
type InvalidStateError struct {
	Entity string
	ID     string
	State  string
	Op     string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("cannot %s %s %s: status is %s", e.Op, e.Entity, e.ID, e.State)
}

// NotFoundError reports a missing or archived entity.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// DataUnavailableError reports a storage failure. The underlying error is kept for errors.Is/As.
type DataUnavailableError struct {
	Op  string
	Err error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("data unavailable during %s: %v", e.Op, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

func NewValidationError(entity, id, field, reason string) error {
	return &ValidationError{Entity: entity, ID: id, Field: field, Reason: reason}
}

func NewNotFoundError(entity, id string) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func IsValidation(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}

func IsInvalidState(err error) bool {
	var target *InvalidStateError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

func IsDataUnavailable(err error) bool {
	var target *DataUnavailableError
	return errors.As(err, &target)
}
