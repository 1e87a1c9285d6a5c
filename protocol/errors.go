package protocol

import (
	"errors"
	"fmt"
)

// ErrInvalidCommand matches every *InvalidCommandError via errors.Is.
var ErrInvalidCommand = errors.New("invalid command")

// InvalidCommandError reports an out-of-range field. Such a command is never
// written to the transport.
type InvalidCommandError struct {
	Field string
	Value int
	// Line is set when the error came from Parse.
	Line string
}

func (e *InvalidCommandError) Error() string {
	if e.Line != "" {
		return fmt.Sprintf("invalid command %q: bad %s", e.Line, e.Field)
	}
	return fmt.Sprintf("invalid command: %s %d out of range", e.Field, e.Value)
}

func (e *InvalidCommandError) Is(target error) bool {
	return target == ErrInvalidCommand
}
