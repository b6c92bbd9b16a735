package upload

import (
	"context"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Resource describes where an uploaded file can be fetched from.
type Resource struct {
	Src    string
	SrcSet string
	Sizes  string
	Data   map[string]any
}

// BlockData returns the resource as block metadata. Extra data entries
// are copied over the standard fields.
func (r Resource) BlockData() map[string]any {
	out := map[string]any{"src": r.Src}
	if r.SrcSet != "" {
		out["srcSet"] = r.SrcSet
	}
	if r.Sizes != "" {
		out["sizes"] = r.Sizes
	}
	for k, v := range r.Data {
		out[k] = v
	}
	return out
}

// Uploader stores files and returns one resource per file, in input order.
type Uploader interface {
	Upload(ctx context.Context, files []File) ([]Resource, error)
}

// Func adapts a function to the Uploader interface.
type Func func(ctx context.Context, files []File) ([]Resource, error)

// Upload implements Uploader.
func (f Func) Upload(ctx context.Context, files []File) ([]Resource, error) {
	return f(ctx, files)
}

// DirUploader writes files into a local directory and returns file URLs.
type DirUploader struct {
	dir    string
	limit  int
	logger *zap.Logger
}

// DirOption configures a DirUploader.
type DirOption func(*DirUploader)

// WithConcurrency bounds the number of files written at once.
func WithConcurrency(n int) DirOption {
	return func(u *DirUploader) {
		if n > 0 {
			u.limit = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) DirOption {
	return func(u *DirUploader) {
		if logger != nil {
			u.logger = logger
		}
	}
}

// NewDirUploader creates an uploader writing into dir.
func NewDirUploader(dir string, opts ...DirOption) *DirUploader {
	u := &DirUploader{
		dir:    dir,
		limit:  4,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload implements Uploader. Files are written concurrently under fresh
// names; the first failure cancels the remaining writes.
func (u *DirUploader) Upload(ctx context.Context, files []File) ([]Resource, error) {
	if len(files) == 0 {
		return nil, ErrNoFiles
	}
	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create upload directory %s", u.dir)
	}

	resources := make([]Resource, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.limit)

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			name := uuid.NewString() + f.Extension()
			path := filepath.Join(u.dir, name)
			if err := os.WriteFile(path, f.Data, 0o644); err != nil {
				return errors.Wrapf(err, "failed to write %s", f.Name)
			}
			abs, err := filepath.Abs(path)
			if err != nil {
				return errors.WithStack(err)
			}
			resources[i] = Resource{
				Src:  (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String(),
				Data: map[string]any{"name": f.Name},
			}
			u.logger.Debug("stored upload", zap.String("name", f.Name), zap.String("path", path))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resources, nil
}
