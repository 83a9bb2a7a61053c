// internal/errors/errors.go
package appErrors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNotFound is the base for every missing-record error.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials is returned by login for an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthorized means the request carries no valid session.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict means the record clashes with an existing one (e.g. duplicate email).
	ErrConflict = errors.New("conflict")
	// ErrInvalidState means the operation is not allowed in the record's current status.
	ErrInvalidState = errors.New("invalid state transition")
)

// NotFoundError names the record kind and id that could not be found.
type NotFoundError struct {
	Kind string
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFound is the constructor used by repositories.
func NewNotFound(kind string, id int) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// ValidationError carries one message per offending form field, keyed by JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// InvalidState wraps ErrInvalidState with a description of the refused transition.
func InvalidState(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidState, format, args...)
}

// Conflict wraps ErrConflict with a description.
func Conflict(format string, args ...interface{}) error {
	return errors.Wrapf(ErrConflict, format, args...)
}

// IsNotFound reports whether err is any kind of not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// AsValidation extracts a ValidationError from err's chain.
func AsValidation(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
