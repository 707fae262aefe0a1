package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicate marks a username or email that is already taken.
	ErrDuplicate = errors.New("already exists")
	// ErrInvalidCredentials is the single failure for any bad login.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrPermission marks a mutation the requester may not perform.
	ErrPermission = errors.New("permission denied")
	// ErrNotFound marks an operation on a missing record.
	ErrNotFound = errors.New("not found")
	// ErrIntegrity marks a delete blocked by dependent records.
	ErrIntegrity = errors.New("record still has dependent records")
)

// ValidationError carries a message per invalid field.
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
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) true.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Message returns a single user facing sentence.
func (e *ValidationError) Message() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) == 0 {
		return "Invalid input."
	}
	return e.Fields[keys[0]]
}

func fieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// DuplicateError names the field whose value is already taken.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// Is makes errors.Is(err, ErrDuplicate) true.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrDuplicate
}

// Message returns the user facing text shown next to the field.
func (e *DuplicateError) Message() string {
	switch e.Field {
	case "username":
		return "This username is already taken. Please choose a different one."
	case "email":
		return "This email is already registered. Please use a different one."
	}
	return "This value is already in use."
}
