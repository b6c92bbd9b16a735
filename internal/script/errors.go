package script

import (
	"errors"
	"fmt"
)

// Script errors.
var (
	ErrEmptyStep     = errors.New("step has no action")
	ErrAmbiguousStep = errors.New("step has more than one action")
	ErrUnknownKey    = errors.New("unknown key")
	ErrNotTodo       = errors.New("block is not a todo")
)

// StepError reports the step a script failed at.
type StepError struct {
	// Index is zero-based.
	Index  int
	Action string
	Err    error
}

func (e *StepError) Error() string {
	if e.Action == "" {
		return fmt.Sprintf("step %d: %v", e.Index+1, e.Err)
	}
	return fmt.Sprintf("step %d (%s): %v", e.Index+1, e.Action, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
