// Package upload moves image files dropped or pasted into the editor to
// storage and reports where they ended up.
//
// An upload runs as a Task on its own goroutine. The caller supplies a
// completion callback that runs exactly once, with either the uploaded
// resources in input order or the error that stopped the upload.
package upload
