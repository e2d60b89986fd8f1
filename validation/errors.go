package validation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNilValidator indicates a nil validator was added to the graph.
	ErrNilValidator = errors.New("validation: validator is nil")

	// ErrEmptyName indicates a validator without a name was added.
	ErrEmptyName = errors.New("validation: validator name is required")
)

// CycleError is the fatal configuration error raised when the dependency
// graph contains a cycle. Remaining holds the names that could not be
// ordered.
type CycleError struct {
	Remaining []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("validation: circular dependencies detected among: %s",
		strings.Join(e.Remaining, ", "))
}
