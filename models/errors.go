package models

import "fmt"

// MalformedEventError is returned when an inbound event cannot be read,
// typically because a numeric field is not an exact integer.
type MalformedEventError struct {
	Field string
	Value string
	Err   error
}

func (e *MalformedEventError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed event: field %s=%q", e.Field, e.Value)
	}
	return fmt.Sprintf("malformed event: field %s=%q: %v", e.Field, e.Value, e.Err)
}

func (e *MalformedEventError) Unwrap() error {
	return e.Err
}

// FetchFailureError is returned when a closed ledger could not be fetched.
type FetchFailureError struct {
	Sequence uint32
	Attempts int
	Err      error
}

func (e *FetchFailureError) Error() string {
	return fmt.Sprintf("fetch ledger %d failed after %d attempt(s): %v", e.Sequence, e.Attempts, e.Err)
}

func (e *FetchFailureError) Unwrap() error {
	return e.Err
}
