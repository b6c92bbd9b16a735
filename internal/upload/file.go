package upload

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/pkg/errors"
)

// File is a file handed to the editor by a paste or drop.
type File struct {
	Name string
	Type string
	Data []byte
}

// DetectType fills in the MIME type of f from its content when it is not
// already set.
func DetectType(f File) File {
	if f.Type != "" {
		return f
	}
	if detected := mimetype.Detect(f.Data); detected != nil {
		f.Type = detected.String()
	}
	return f
}

// IsImage reports whether f holds an image.
func (f File) IsImage() bool {
	return strings.HasPrefix(f.Type, "image/")
}

// Extension returns the file extension for the content of f, including
// the leading dot, or "" when unknown.
func (f File) Extension() string {
	if ext := filepath.Ext(f.Name); ext != "" {
		return ext
	}
	return mimetype.Detect(f.Data).Extension()
}

// ReadFile loads the file at path and detects its type.
func ReadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errors.Wrapf(err, "failed to read %s", path)
	}
	return DetectType(File{Name: filepath.Base(path), Data: data}), nil
}

// Images returns the image files of files, in order.
func Images(files []File) []File {
	var out []File
	for _, f := range files {
		if f = DetectType(f); f.IsImage() {
			out = append(out, f)
		}
	}
	return out
}
