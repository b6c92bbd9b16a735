package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/editor"
	"github.com/dshills/mediumdraft/internal/plugin"
	"github.com/dshills/mediumdraft/internal/plugins"
	"github.com/dshills/mediumdraft/internal/upload"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

const session = `
steps:
  - type: "# Title"
  - check: b
  - select: {key: c, offset: 0, focus_key: c, focus_offset: 4}
  - key: ctrl+b
  - select: {key: c, offset: 7}
  - return: ""
  - type: "- item"
  - drop: {files: [cover.png]}
  - wait: true
`

func sessionEditor(t *testing.T, ps []plugin.Plugin) *editor.Editor {
	t.Helper()
	doc := document.New(
		document.NewBlock("a", document.Unstyled, "", nil),
		document.NewBlock("b", document.Todo, "buy", document.Data{"checked": false}),
		document.NewBlock("c", document.Unstyled, "bold me", nil),
	)
	e, err := editor.New(doc, editor.WithPlugins(ps...))
	require.NoError(t, err)
	return e
}

func TestRunSession(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "cover.png"), pngHeader, 0o644))
	path := filepath.Join(dir, "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(session), 0o644))

	s, err := Load(path)
	require.NoError(t, err)

	var uploaded []string
	uploader := upload.Func(func(_ context.Context, files []upload.File) ([]upload.Resource, error) {
		for _, f := range files {
			uploaded = append(uploaded, f.Name)
		}
		return []upload.Resource{{Src: "https://cdn/cover.png"}}, nil
	})
	ps := plugins.Defaults(plugins.Options{Uploader: uploader})
	e := sessionEditor(t, ps)

	require.NoError(t, Run(context.Background(), s, e, WithWait(func() { plugins.Wait(ps) })))

	doc := e.EditorState()
	require.Equal(t, 5, doc.Len())

	title := doc.Block("a")
	assert.Equal(t, document.HeaderOne, title.Type)
	assert.Equal(t, "Title", title.Text)

	assert.True(t, doc.Block("b").Data.Bool("checked"))

	c := doc.Block("c")
	assert.True(t, c.StylesAt(0).Has(document.Bold))
	assert.True(t, c.StylesAt(3).Has(document.Bold))
	assert.False(t, c.StylesAt(5).Has(document.Bold))

	item := doc.BlockAt(3)
	assert.Equal(t, document.UnorderedListItem, item.Type)
	assert.Equal(t, "item", item.Text)

	img := doc.BlockAt(4)
	assert.Equal(t, document.Image, img.Type)
	assert.Equal(t, "https://cdn/cover.png", img.Data.String("src"))
	assert.False(t, img.Data.Bool("uploading"))
	assert.Equal(t, []string{"cover.png"}, uploaded)
}

func TestRunStopsAtFailingStep(t *testing.T) {
	tests := []struct {
		name  string
		yaml  string
		index int
		err   error
	}{
		{"check non todo", "steps:\n  - type: x\n  - check: c\n", 1, ErrNotTodo},
		{"check missing", "steps:\n  - check: zz\n", 0, document.ErrBlockNotFound},
		{"select missing", "steps:\n  - select: {key: a, offset: 0, focus_key: zz}\n", 0, document.ErrBlockNotFound},
		{"missing file", "steps:\n  - drop: {files: [nope.png]}\n", 0, os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			s.Dir = t.TempDir()

			err = Run(context.Background(), s, sessionEditor(t, plugins.Defaults(plugins.Options{})))
			require.ErrorIs(t, err, tt.err)
			var serr *StepError
			require.ErrorAs(t, err, &serr)
			assert.Equal(t, tt.index, serr.Index)
		})
	}
}

func TestRunHonorsContext(t *testing.T) {
	s, err := Parse([]byte("steps:\n  - type: x\n"))
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := sessionEditor(t, nil)
	assert.ErrorIs(t, Run(ctx, s, e), context.Canceled)
	assert.Equal(t, "", e.EditorState().Block("a").Text)
}

func TestPasteAndEscape(t *testing.T) {
	s, err := Parse([]byte(`
steps:
  - select: {key: c, offset: 7}
  - paste: {text: "!!"}
  - escape: true
`))
	require.NoError(t, err)
	e := sessionEditor(t, plugins.Defaults(plugins.Options{}))
	e.Focus()

	require.NoError(t, Run(context.Background(), s, e))
	assert.Equal(t, "bold me!!", e.EditorState().Block("c").Text)
	assert.False(t, e.Focused())
}
