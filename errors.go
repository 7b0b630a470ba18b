package cbrw

import "fmt"

// ErrInvalidOption indicates a configuration value that can never be valid,
// e.g. a negative tolerance or a zero iteration cap. It is returned eagerly
// from New, since these are caller mistakes rather than data conditions.
type ErrInvalidOption struct {
	Option string
	Value  any
	Reason string
}

func (e *ErrInvalidOption) Error() string {
	return fmt.Sprintf("invalid option %s=%v: %s", e.Option, e.Value, e.Reason)
}
