package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnsupportedFormat is returned for files that are neither TOML nor
	// YAML.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrInvalidEnv is returned when an environment override cannot be
	// parsed.
	ErrInvalidEnv = errors.New("invalid environment override")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FieldError is a setting that failed validation.
type FieldError struct {
	// Field is the dotted setting name, e.g. code.tab_size.
	Field string
	Rule  string
	Value any
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid setting %s=%v: must satisfy %s", e.Field, e.Value, e.Rule)
}
