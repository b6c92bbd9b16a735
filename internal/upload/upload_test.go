package upload

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestDetectType(t *testing.T) {
	f := DetectType(File{Name: "a", Data: pngHeader})
	assert.Equal(t, "image/png", f.Type)
	assert.True(t, f.IsImage())
	assert.Equal(t, ".png", f.Extension())

	txt := DetectType(File{Name: "notes.txt", Data: []byte("hello")})
	assert.False(t, txt.IsImage())
	assert.Equal(t, ".txt", txt.Extension())

	preset := DetectType(File{Type: "image/gif", Data: []byte("x")})
	assert.Equal(t, "image/gif", preset.Type)
}

func TestImages(t *testing.T) {
	files := []File{
		{Name: "a.txt", Data: []byte("text")},
		{Name: "b", Data: pngHeader},
	}

	got := Images(files)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].Name)
	assert.Empty(t, Images(nil))
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pic.png")
	require.NoError(t, os.WriteFile(path, pngHeader, 0o644))

	f, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "pic.png", f.Name)
	assert.True(t, f.IsImage())

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestResourceBlockData(t *testing.T) {
	r := Resource{Src: "https://cdn/x.png", Sizes: "100vw", Data: map[string]any{"alt": "x"}}

	assert.Equal(t, map[string]any{
		"src":   "https://cdn/x.png",
		"sizes": "100vw",
		"alt":   "x",
	}, r.BlockData())
}

func TestDirUploader(t *testing.T) {
	dir := t.TempDir()
	u := NewDirUploader(dir, WithConcurrency(2))
	files := []File{
		DetectType(File{Name: "one", Data: pngHeader}),
		DetectType(File{Name: "two.png", Data: pngHeader}),
		DetectType(File{Name: "three", Data: pngHeader}),
	}

	res, err := u.Upload(context.Background(), files)
	require.NoError(t, err)
	require.Len(t, res, 3)

	for i, r := range res {
		assert.Equal(t, files[i].Name, r.Data["name"])
		parsed, err := url.Parse(r.Src)
		require.NoError(t, err)
		assert.Equal(t, "file", parsed.Scheme)

		data, err := os.ReadFile(filepath.FromSlash(parsed.Path))
		require.NoError(t, err)
		assert.Equal(t, pngHeader, data)
	}

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestDirUploaderNoFiles(t *testing.T) {
	_, err := NewDirUploader(t.TempDir()).Upload(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoFiles)
}

func TestStartSuccess(t *testing.T) {
	var calls atomic.Int32
	u := Func(func(_ context.Context, files []File) ([]Resource, error) {
		out := make([]Resource, len(files))
		for i, f := range files {
			out[i] = Resource{Src: "mem://" + f.Name}
		}
		return out, nil
	})

	task := Start(context.Background(), u, []File{{Name: "a"}}, func(res []Resource, err error) {
		calls.Add(1)
		assert.NoError(t, err)
		assert.Equal(t, "mem://a", res[0].Src)
	})

	res, err := task.Wait()
	require.NoError(t, err)
	assert.Equal(t, "mem://a", res[0].Src)
	assert.Equal(t, int32(1), calls.Load())

	// Wait is repeatable and the callback does not run again.
	_, _ = task.Wait()
	assert.Equal(t, int32(1), calls.Load())
}

func TestStartFailure(t *testing.T) {
	boom := errors.New("boom")
	var got error
	task := Start(context.Background(), Func(func(context.Context, []File) ([]Resource, error) {
		return nil, boom
	}), []File{{Name: "a"}}, func(_ []Resource, err error) {
		got = err
	})

	_, err := task.Wait()
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, got, boom)
}

func TestStartRecoversPanic(t *testing.T) {
	task := Start(context.Background(), Func(func(context.Context, []File) ([]Resource, error) {
		panic("kaboom")
	}), []File{{Name: "a"}}, nil)

	_, err := task.Wait()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestStartChecksResultCount(t *testing.T) {
	task := Start(context.Background(), Func(func(context.Context, []File) ([]Resource, error) {
		return []Resource{}, nil
	}), []File{{Name: "a"}, {Name: "b"}}, nil)

	_, err := task.Wait()
	assert.ErrorIs(t, err, ErrResultCount)
}

func TestStartWithoutUploaderOrFiles(t *testing.T) {
	var called bool
	_, err := Start(context.Background(), nil, []File{{}}, func([]Resource, error) { called = true }).Wait()
	assert.ErrorIs(t, err, ErrNoUploader)
	assert.True(t, called)

	_, err = Start(context.Background(), Func(nil), nil, nil).Wait()
	assert.ErrorIs(t, err, ErrNoFiles)
}
