package terminal

import (
	"errors"
	"fmt"
)

// ErrUnknownProgram is returned by run for unregistered names.
var ErrUnknownProgram = errors.New("unknown program")

type PreconditionError struct {
	Program    string
	Condition  string
	Suggestion string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("Precondition failed for %s: %s. Suggestion: %s", e.Program, e.Condition, e.Suggestion)
}
