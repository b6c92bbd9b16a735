// Package editor hosts a document snapshot and a plugin list and routes
// editing events through the plugins.
//
// An Editor is safe for concurrent use: uploads and other deferred work
// commit from their own goroutines through DeferUpdate, which holds the
// update back while an event is dispatched. Plugins are
// always called without the state lock held, so hooks may read the state
// and commit freely. Change listeners are the exception: they run inside
// a commit and must return their result instead of committing it.
package editor
