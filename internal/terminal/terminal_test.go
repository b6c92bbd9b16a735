package terminal

import (
	"context"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/editor"
	"github.com/dshills/mediumdraft/internal/plugin"
	"github.com/dshills/mediumdraft/internal/plugins"
)

func newScreen(t *testing.T, width, height int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(width, height)
	t.Cleanup(s.Fini)
	return s
}

func row(s tcell.Screen, y int) string {
	width, _ := s.Size()
	var b strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent is the cell accessor used throughout
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func newEditor(t *testing.T, doc *document.Snapshot, opts ...editor.Option) *editor.Editor {
	t.Helper()
	e, err := editor.New(doc, opts...)
	require.NoError(t, err)
	return e
}

func TestDrawBlocks(t *testing.T) {
	screen := newScreen(t, 30, 10)
	e := newEditor(t, document.New(
		document.NewBlock("h", document.HeaderOne, "Title", nil),
		document.NewBlock("t", document.Todo, "milk", document.Data{"checked": true}),
		document.NewBlock("u", document.UnorderedListItem, "a", nil),
		document.NewBlock("o1", document.OrderedListItem, "one", nil),
		document.NewBlock("o2", document.OrderedListItem, "two", nil),
		document.NewBlock("i", document.Image, "", document.Data{"src": "x.png"}),
		document.NewBlock("c", document.Code, "go", nil),
	))

	New(screen).draw(e)

	want := []string{"# Title", "[x] milk", "• a", "1. one", "2. two", "[image: x.png]", "│ go"}
	for y, line := range want {
		assert.Equal(t, line, row(screen, y), "row %d", y)
	}
	assert.True(t, strings.HasPrefix(row(screen, 9), helpText))
}

func TestDrawWrapsAndShowsPlaceholder(t *testing.T) {
	screen := newScreen(t, 10, 5)

	e := newEditor(t, document.FromText("abcdefghijkl"))
	New(screen).draw(e)
	assert.Equal(t, "abcdefghij", row(screen, 0))
	assert.Equal(t, "kl", row(screen, 1))

	e = newEditor(t, document.Empty(), editor.WithProps(plugin.Props{Placeholder: "Write"}))
	New(screen).draw(e)
	assert.Equal(t, "Write", row(screen, 0))
}

func ctrl(screen tcell.SimulationScreen, k tcell.Key) {
	screen.InjectKey(k, 0, tcell.ModCtrl)
}

func typeText(screen tcell.SimulationScreen, text string) {
	for _, r := range text {
		screen.InjectKey(tcell.KeyRune, r, tcell.ModNone)
	}
}

func TestRunTypesAndSaves(t *testing.T) {
	screen := newScreen(t, 30, 5)
	var saved *document.Snapshot
	v := New(screen, WithSave(func(s *document.Snapshot) error {
		saved = s
		return nil
	}))
	e := newEditor(t, document.Empty())

	typeText(screen, "hi")
	ctrl(screen, tcell.KeyCtrlS)
	ctrl(screen, tcell.KeyCtrlQ)

	require.NoError(t, v.Run(context.Background(), e))
	require.NotNil(t, saved)
	assert.Equal(t, "hi", saved.FirstBlock().Text)
	assert.Contains(t, row(screen, 4), "saved")
}

func TestRunPromptsForLink(t *testing.T) {
	tests := []struct {
		name    string
		typed   string
		confirm tcell.Key
		url     string
	}{
		{"applied", "x.io", tcell.KeyEnter, "http://x.io"},
		{"cancelled", "x", tcell.KeyEscape, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := newScreen(t, 30, 5)
			v := New(screen)
			doc := document.New(document.NewBlock("a", document.Unstyled, "see docs", nil))
			e := newEditor(t, doc.WithSelection(document.Range("a", 4, "a", 8)),
				editor.WithPlugins(plugins.Defaults(plugins.Options{})...),
				editor.WithProps(plugin.Props{Prompt: v.Prompt}))

			ctrl(screen, tcell.KeyCtrlK)
			typeText(screen, tt.typed)
			screen.InjectKey(tt.confirm, 0, tcell.ModNone)
			ctrl(screen, tcell.KeyCtrlQ)
			require.NoError(t, v.Run(context.Background(), e))

			s := e.EditorState()
			ent, ok := s.Entity(s.Block("a").EntityAt(5))
			if tt.url == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.url, ent.URL())
		})
	}
}

func TestRunPaste(t *testing.T) {
	screen := newScreen(t, 30, 5)
	v := New(screen)
	e := newEditor(t, document.FromText("ab"))

	require.NoError(t, screen.PostEvent(tcell.NewEventPaste(true)))
	typeText(screen, "xy")
	require.NoError(t, screen.PostEvent(tcell.NewEventPaste(false)))
	ctrl(screen, tcell.KeyCtrlQ)

	require.NoError(t, v.Run(context.Background(), e))
	assert.Equal(t, "xyab", e.EditorState().FirstBlock().Text)
}

func TestRunStopsWhenContextDone(t *testing.T) {
	screen := newScreen(t, 30, 5)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(screen).Run(ctx, newEditor(t, document.Empty()))
	assert.ErrorIs(t, err, context.Canceled)
}
