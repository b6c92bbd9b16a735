// Package plugin defines the editor plugin contract and combines a list of
// plugins into the single set of hooks the editor engine consumes.
//
// A plugin is any value with a Name. Each hook it wants to take part in is
// a separate single-method interface (ReturnHandler, BlockRenderer,
// ChangeListener, ...). Capabilities reports which hooks a plugin
// implements; plugins that implement every method but only act on some of
// them (script plugins) narrow the list by implementing Declarer.
//
// # Dispatch
//
// The Aggregator combines hooks according to their category:
//
//   - handlers (HandleReturn, HandleKeyCommand, ...) run in registration
//     order and stop at the first plugin returning Handled
//   - notifications (OnTab, OnEscape, arrows, focus) stop only when a
//     listener returns true
//   - lookups (BlockRendererFn, KeyBindingFn, BlockStyleFn) return the first
//     non-empty result
//   - merges (CustomStyleMap, BlockRenderMap) take the union of all
//     contributions, later plugins overriding earlier ones
//   - OnChange pipes the snapshot through every listener
//   - Initialize and WillUnmount run once per plugin
//   - decorators are normalized into composites and combined by a
//     MultiDecorator
//
// Panics raised by plugins are not recovered.
//
// # Caching
//
// Building an Aggregator walks every plugin. A Cache keeps the last build
// and rebuilds only when the Registry revision changes, so callers that
// mutate a plugin in place must call Registry.Touch.
package plugin
