package channel

import (
	"fmt"
)

// MixedChannelTypeError is returned when a list combines marked and unmarked elements.
type MixedChannelTypeError struct {
	Element string
}

func (e *MixedChannelTypeError) Error() string {
	return "Cannot combine exclusive/inclusive definitions in channels list"
}

// InvalidTypeValueError is returned when a declared type is neither inclusive nor exclusive.
type InvalidTypeValueError struct {
	Value any
}

func (e *InvalidTypeValueError) Error() string {
	return fmt.Sprintf("invalid type %q: the type of channels has to be inclusive or exclusive", fmt.Sprint(e.Value))
}

// InvalidEntryError is returned when a rule is not a string, a list or a map.
type InvalidEntryError struct {
	Value any
}

func (e *InvalidEntryError) Error() string {
	return fmt.Sprintf("invalid channel rule of type %T: expected string, list or map", e.Value)
}

// InvalidElementError is returned when a list element is not a scalar.
type InvalidElementError struct {
	Index int
	Value any
}

func (e *InvalidElementError) Error() string {
	return fmt.Sprintf("invalid element [%d] of type %T: expected scalar", e.Index, e.Value)
}

// UnrecognizedOptionError is returned for unknown keys in a map-shaped rule.
type UnrecognizedOptionError struct {
	Keys []string
}

func (e *UnrecognizedOptionError) Error() string {
	return fmt.Sprintf("unrecognized option(s) %v: available options are \"type\", \"elements\"", e.Keys)
}

// ChannelError wraps an error with the name of the rule it occurred in.
type ChannelError struct {
	Name string
	Err  error
}

func (e ChannelError) Error() string {
	return fmt.Sprintf("logger_channel.%s: %v", e.Name, e.Err)
}

func (e ChannelError) Unwrap() error {
	return e.Err
}

// NewChannelError creates a new ChannelError.
func NewChannelError(name string, err error) ChannelError {
	return ChannelError{Name: name, Err: err}
}
