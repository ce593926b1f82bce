package project

import (
	"errors"
	"fmt"
)

// ErrMissing indicates a required field is empty.
var ErrMissing = errors.New("required value is missing")

// ErrNoSource indicates no project document could be found.
var ErrNoSource = errors.New("no project document found")

// MalformedInputError reports a project field that could not be parsed
// or fails validation.
type MalformedInputError struct {
	Field string
	Value string
	Err   error
}

func (e *MalformedInputError) Error() string {
	if errors.Is(e.Err, ErrMissing) {
		return fmt.Sprintf("%s: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Field, e.Value, e.Err)
}

func (e *MalformedInputError) Unwrap() error {
	return e.Err
}

// NewMalformedInputError creates a new MalformedInputError.
func NewMalformedInputError(field, value string, err error) *MalformedInputError {
	return &MalformedInputError{
		Field: field,
		Value: value,
		Err:   err,
	}
}
