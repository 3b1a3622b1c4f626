package config

import (
	"fmt"
)

// MissingRequiredFieldError is returned when a required field is absent or empty.
type MissingRequiredFieldError struct {
	Field string
}

func (e *MissingRequiredFieldError) Error() string {
	return fmt.Sprintf("the child node %q at path %q must be configured", e.Field, RootKey)
}
