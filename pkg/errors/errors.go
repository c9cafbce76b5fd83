package custom_error

import (
	"errors"
	"fmt"
)

// NotFoundError marks a referenced entity as absent.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Entity)
	}
	return fmt.Sprintf("%s not found: %s", e.Entity, e.Key)
}

// InvalidStateError marks an entity that exists but does not permit the operation.
type InvalidStateError struct {
	Message string
}

func (e *InvalidStateError) Error() string {
	return e.Message
}

// ConflictError marks an exclusivity, seat-cap or duplicate violation.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

// ValidationError marks a caller-supplied value that is out of contract.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// PersistenceError marks a store-level failure not attributable to a single row.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func NewNotFound(entity string, key string) error {
	return &NotFoundError{Entity: entity, Key: key}
}

func NewInvalidState(format string, args ...interface{}) error {
	return &InvalidStateError{Message: fmt.Sprintf(format, args...)}
}

func NewConflict(format string, args ...interface{}) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func NewPersistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsInvalidState(err error) bool {
	var e *InvalidStateError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsValidation(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

func IsPersistence(err error) bool {
	var e *PersistenceError
	return errors.As(err, &e)
}

// WrapDBError translates PostgreSQL error codes into the taxonomy above.
func WrapDBError(message, code string) error {
	switch code {
	case "23505":
		return &ConflictError{Message: fmt.Sprintf("%s (code: %s)", message, code)}
	case "23503":
		return &ValidationError{Message: fmt.Sprintf("value is referenced by other resources: %s (code: %s)", message, code)}
	default:
		return fmt.Errorf("uncategorized error occurred with code %s: %s", code, message)
	}
}
