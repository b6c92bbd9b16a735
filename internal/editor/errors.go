package editor

import "errors"

// Editor errors.
var (
	// ErrClosed is returned when an operation needs an open editor.
	ErrClosed = errors.New("editor is closed")
)
