package upload

import "errors"

// Upload errors.
var (
	// ErrNoFiles is returned when an upload is started without files.
	ErrNoFiles = errors.New("no files to upload")

	// ErrResultCount is returned when an uploader reports a different
	// number of resources than it was given files.
	ErrResultCount = errors.New("uploader returned wrong number of resources")

	// ErrNoUploader is returned when a task is started without an uploader.
	ErrNoUploader = errors.New("no uploader configured")
)
