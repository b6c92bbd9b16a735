package plugin

import "errors"

// Plugin errors.
var (
	// ErrDuplicatePlugin is returned when a plugin name is registered twice.
	ErrDuplicatePlugin = errors.New("plugin already registered")

	// ErrPluginNotFound is returned when a named plugin is not registered.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrInvalidPlugin is returned for a nil plugin or one without a name.
	ErrInvalidPlugin = errors.New("invalid plugin")
)
