package validation

import (
	"fmt"

	"github.com/tiendapos/tiendapos/internal/shared"
)

// Error reports the first field of a record that does not conform to its schema.
type Error struct {
	Entity string
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid %s data: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("invalid %s data: %s: %s", e.Entity, e.Field, e.Reason)
}

// Is lets callers match any validation failure with errors.Is(err, shared.ErrValidation).
func (e *Error) Is(target error) bool {
	return target == shared.ErrValidation
}
