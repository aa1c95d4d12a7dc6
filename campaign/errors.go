package campaign

import "fmt"

// AssertionError is returned when a command's outcome differs from the expected contract behavior.
type AssertionError struct {
	// Index is the position of the failing command in its sequence.
	Index int

	// Command describes the failing command.
	Command string

	Message string
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("command %d (%s): %s", e.Index, e.Command, e.Message)
}
