package upload

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// Task is a running upload.
type Task struct {
	done      chan struct{}
	resources []Resource
	err       error
}

// Start uploads files on a new goroutine. onDone, when not nil, runs once
// on that goroutine after the upload finishes, before Wait returns. A
// panicking uploader is reported as an error.
func Start(ctx context.Context, u Uploader, files []File, onDone func([]Resource, error)) *Task {
	t := &Task{done: make(chan struct{})}
	var once sync.Once
	finish := func(res []Resource, err error) {
		once.Do(func() {
			defer close(t.done)
			t.resources, t.err = res, err
			if onDone != nil {
				onDone(res, err)
			}
		})
	}

	if u == nil {
		finish(nil, ErrNoUploader)
		return t
	}
	if len(files) == 0 {
		finish(nil, ErrNoFiles)
		return t
	}

	go func() {
		var (
			res []Resource
			err error
		)
		func() {
			defer func() {
				if r := recover(); r != nil {
					res, err = nil, errors.Errorf("uploader panicked: %v", r)
				}
			}()
			res, err = u.Upload(ctx, files)
		}()
		if err == nil && len(res) != len(files) {
			res, err = nil, errors.Wrapf(ErrResultCount, "got %d for %d files", len(res), len(files))
		}
		finish(res, err)
	}()
	return t
}

// Done is closed once the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes and returns its result.
func (t *Task) Wait() ([]Resource, error) {
	<-t.done
	return t.resources, t.err
}
