// Package plugins groups the editor's built-in behavior plugins. Each
// subpackage provides one plugin; Defaults returns the standard set in
// registration order.
package plugins
