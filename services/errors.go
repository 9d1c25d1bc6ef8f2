package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers both a missing record id and a title the metadata
	// provider does not know.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate means the title already exists in the list (case-insensitive).
	ErrDuplicate = errors.New("already added")
	// ErrUpstream marks metadata provider failures: network, timeout, bad body.
	ErrUpstream = errors.New("upstream error")
)

// ValidationError carries every field failure found in one pass so a form can
// surface any of them. Callers typically show First().
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for %d field(s)", len(e.Fields))
}

// First returns one of the field messages, preferring the field order a user
// sees on the form.
func (e *ValidationError) First() string {
	for _, field := range []string{"title", "director", "rating", "comment"} {
		if msg, ok := e.Fields[field]; ok {
			return msg
		}
	}
	for _, msg := range e.Fields {
		return msg
	}
	return ""
}
