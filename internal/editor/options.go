package editor

import (
	"go.uber.org/zap"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/plugin"
)

// Option configures an Editor.
type Option func(*Editor)

// WithPlugins sets the initial plugin list.
func WithPlugins(plugins ...plugin.Plugin) Option {
	return func(e *Editor) {
		e.initial = append(e.initial, plugins...)
	}
}

// WithProps sets the host props visible to plugins.
func WithProps(props plugin.Props) Option {
	return func(e *Editor) {
		e.props = props
	}
}

// WithSurface replaces the built-in editing surface.
func WithSurface(s plugin.Surface) Option {
	return func(e *Editor) {
		e.surface = s
	}
}

// WithReadOnly starts the editor read-only.
func WithReadOnly(readOnly bool) Option {
	return func(e *Editor) {
		e.readOnly = readOnly
	}
}

// WithOnChange registers a callback run after every commit with the
// committed snapshot. It runs outside the commit lock and may commit
// again, but it must not dispatch events while deferred updates drain.
func WithOnChange(fn func(*document.Snapshot)) Option {
	return func(e *Editor) {
		e.onChange = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}
