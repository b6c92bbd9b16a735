package imageblock

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/editor"
	"github.com/dshills/mediumdraft/internal/mutator"
	"github.com/dshills/mediumdraft/internal/plugin"
	"github.com/dshills/mediumdraft/internal/upload"
)

var png = upload.File{Name: "cat.png", Data: []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")}

// gatedUploader blocks every upload until a result is sent on gate.
type gatedUploader struct {
	gate chan result
}

type result struct {
	res []upload.Resource
	err error
}

func newGatedUploader() *gatedUploader {
	return &gatedUploader{gate: make(chan result, 1)}
}

func (u *gatedUploader) Upload(ctx context.Context, files []upload.File) ([]upload.Resource, error) {
	select {
	case r := <-u.gate:
		return r.res, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// textOnly is a plugin without any file hook.
type textOnly struct{}

func (textOnly) Name() string { return "text-only" }

func (textOnly) HandleKeyCommand(string, *document.Snapshot, plugin.Functions) plugin.HandleValue {
	return plugin.NotHandled
}

func dropSetup(t *testing.T, u upload.Uploader) (*editor.Editor, *Plugin) {
	t.Helper()
	s := document.New(
		document.NewBlock("intro", document.Unstyled, "Hello", nil),
		document.NewBlock("empty", document.Unstyled, "", nil),
	)
	p := New(WithUploader(u))
	e, err := editor.New(s, editor.WithPlugins(textOnly{}, p))
	require.NoError(t, err)
	return e, p
}

func TestDropReplacesEmptyBlock(t *testing.T) {
	u := newGatedUploader()
	e, p := dropSetup(t, u)
	defer func() {
		u.gate <- result{err: errors.New("teardown")}
		p.Wait()
	}()

	got := e.HandleDroppedFiles(document.Caret("empty", 0), []upload.File{{Name: "notes.txt", Data: []byte("x")}, png})
	require.Equal(t, plugin.Handled, got)

	s := e.EditorState()
	assert.Equal(t, []document.Key{"intro", "empty"}, s.Keys())
	blk := s.Block("empty")
	assert.Equal(t, document.Image, blk.Type)
	assert.True(t, blk.Data.Bool("uploading"))
	assert.Equal(t, "blob:cat.png", blk.Data.String("src"))
	assert.Equal(t, document.Caret("empty", 0), s.Selection())
	assert.Equal(t, "md-block md-block--image md-block--image--uploading", e.BlockStyle(blk))
}

func TestDropAfterNonEmptyBlock(t *testing.T) {
	u := newGatedUploader()
	e, p := dropSetup(t, u)
	defer func() {
		u.gate <- result{err: errors.New("teardown")}
		p.Wait()
	}()

	require.Equal(t, plugin.Handled, e.HandleDroppedFiles(document.Caret("intro", 2), []upload.File{png}))

	s := e.EditorState()
	require.Equal(t, 3, s.Len())
	assert.Equal(t, document.Key("intro"), s.BlockAt(0).Key)
	inserted := s.BlockAt(1)
	assert.Equal(t, document.Image, inserted.Type)
	assert.Equal(t, document.Caret(inserted.Key, 0), s.Selection())
	assert.Equal(t, "Hello", s.Block("intro").Text)
}

func TestUploadSuccessUpdatesBlockByKey(t *testing.T) {
	u := newGatedUploader()
	e, p := dropSetup(t, u)
	require.Equal(t, plugin.Handled, e.HandleDroppedFiles(document.Caret("empty", 0), []upload.File{png}))

	// The user keeps editing while the upload runs.
	e.SetEditorState(mutator.InsertText(e.EditorState().WithSelection(document.Caret("intro", 5)), "!"))

	u.gate <- result{res: []upload.Resource{{Src: "https://x/1.png"}}}
	p.Wait()

	s := e.EditorState()
	blk := s.Block("empty")
	assert.Equal(t, document.Image, blk.Type)
	assert.False(t, blk.Data.Bool("uploading"))
	assert.Equal(t, "https://x/1.png", blk.Data.String("src"))
	assert.Equal(t, "Hello!", s.Block("intro").Text)
	assert.Equal(t, document.Caret("intro", 6), s.Selection())
}

// typist lets the pending upload finish while it handles typed text, then
// commits from the snapshot it was handed.
type typist struct {
	u   *gatedUploader
	img *Plugin
}

func (typist) Name() string { return "typist" }

func (p typist) HandleBeforeInput(chars string, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	p.u.gate <- result{res: []upload.Resource{{Src: "https://x/1.png"}}}
	p.img.Wait()
	f.SetEditorState(mutator.InsertText(s, chars))
	return plugin.Handled
}

func TestUploadFinishingDuringEventIsKept(t *testing.T) {
	u := newGatedUploader()
	s := document.New(
		document.NewBlock("intro", document.Unstyled, "Hello", nil),
		document.NewBlock("empty", document.Unstyled, "", nil),
	)
	p := New(WithUploader(u))
	e, err := editor.New(s, editor.WithPlugins(typist{u: u, img: p}, p))
	require.NoError(t, err)

	require.Equal(t, plugin.Handled, e.HandleDroppedFiles(document.Caret("empty", 0), []upload.File{png}))
	e.SetEditorState(e.EditorState().WithSelection(document.Caret("intro", 5)))

	require.Equal(t, plugin.Handled, e.HandleBeforeInput("!"))

	got := e.EditorState()
	blk := got.Block("empty")
	assert.False(t, blk.Data.Bool("uploading"))
	assert.Equal(t, "https://x/1.png", blk.Data.String("src"))
	assert.Equal(t, "Hello!", got.Block("intro").Text)
}

func TestUploadFailureRevertsBlock(t *testing.T) {
	u := newGatedUploader()
	e, p := dropSetup(t, u)
	require.Equal(t, plugin.Handled, e.HandleDroppedFiles(document.Caret("empty", 0), []upload.File{png}))

	u.gate <- result{err: errors.New("network down")}
	p.Wait()

	blk := e.EditorState().Block("empty")
	assert.Equal(t, document.Unstyled, blk.Type)
	assert.Empty(t, blk.Data)
	assert.False(t, blk.Data.Has("src"))
	assert.False(t, blk.Data.Has("uploading"))
}

func TestUploadResultIgnoredAfterDelete(t *testing.T) {
	for name, r := range map[string]result{
		"success": {res: []upload.Resource{{Src: "https://x/1.png"}}},
		"failure": {err: errors.New("network down")},
	} {
		t.Run(name, func(t *testing.T) {
			u := newGatedUploader()
			e, p := dropSetup(t, u)
			require.Equal(t, plugin.Handled, e.HandleDroppedFiles(document.Caret("empty", 0), []upload.File{png}))

			e.SetEditorState(mutator.RemoveBlock(e.EditorState(), "empty"))
			before := e.EditorState()

			u.gate <- r
			p.Wait()

			assert.Same(t, before, e.EditorState())
			assert.False(t, e.EditorState().Has("empty"))
		})
	}
}

func TestDropWithoutImages(t *testing.T) {
	e, _ := dropSetup(t, newGatedUploader())

	assert.Equal(t, plugin.NotHandled, e.HandleDroppedFiles(document.Caret("empty", 0), []upload.File{{Name: "a.txt", Data: []byte("text")}}))
	assert.Equal(t, plugin.NotHandled, e.HandleDroppedFiles(document.Range("intro", 0, "intro", 2), []upload.File{png}))
	assert.Equal(t, plugin.NotHandled, e.HandleDroppedFiles(document.Caret("missing", 0), []upload.File{png}))
	assert.Equal(t, document.Unstyled, e.EditorState().Block("empty").Type)
}

func TestDropWithoutUploader(t *testing.T) {
	e, p := dropSetup(t, nil)

	require.Equal(t, plugin.Handled, e.HandleDroppedFiles(document.Caret("empty", 0), []upload.File{png}))
	p.Wait()

	blk := e.EditorState().Block("empty")
	assert.Equal(t, document.Image, blk.Type)
	assert.False(t, blk.Data.Bool("uploading"))
}

func TestPastedFilesUseSelection(t *testing.T) {
	e, p := dropSetup(t, nil)
	e.SetEditorState(e.EditorState().WithSelection(document.Caret("empty", 0)))

	require.Equal(t, plugin.Handled, e.HandlePastedFiles([]upload.File{png}))
	p.Wait()
	assert.Equal(t, document.Image, e.EditorState().Block("empty").Type)
}

func TestPasteIntoImageCaption(t *testing.T) {
	s := document.New(document.NewBlock("img", document.Image, "", document.Data{"src": "x"}))
	e, err := editor.New(s, editor.WithPlugins(New()))
	require.NoError(t, err)

	assert.Equal(t, plugin.Handled, e.HandlePastedText("A cat", ""))
	assert.Equal(t, "A cat", e.EditorState().Block("img").Text)

	spec := e.BlockRenderer(e.EditorState().Block("img"))
	require.NotNil(t, spec)
	assert.Equal(t, Component, spec.Component)
	assert.Equal(t, "x", spec.Props["src"])
}

func TestRevertMissingBlock(t *testing.T) {
	s := document.FromText("x")
	assert.Same(t, s, Revert(s, "nope"))
}
