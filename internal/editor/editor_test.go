package editor

import (
	"sync"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/mutator"
	"github.com/dshills/mediumdraft/internal/plugin"
)

func key(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone)
}

func ctrl(r rune) *tcell.EventKey {
	return tcell.NewEventKey(tcell.KeyRune, r, tcell.ModCtrl)
}

func newEditor(t *testing.T, text string, opts ...Option) *Editor {
	t.Helper()
	e, err := New(document.FromText(text), opts...)
	require.NoError(t, err)
	return e
}

// recorder is a plugin recording lifecycle and focus calls.
type recorder struct {
	name  string
	calls []string
}

func (r *recorder) Name() string                 { return r.name }
func (r *recorder) Initialize(plugin.Functions)  { r.calls = append(r.calls, "init") }
func (r *recorder) WillUnmount(plugin.Functions) { r.calls = append(r.calls, "unmount") }

func (r *recorder) OnFocus(plugin.Functions) bool {
	r.calls = append(r.calls, "focus")
	return false
}

func (r *recorder) OnBlur(plugin.Functions) bool {
	r.calls = append(r.calls, "blur")
	return false
}

// commandHandler handles one command by applying fn.
type commandHandler struct {
	cmd string
	fn  func(*document.Snapshot) *document.Snapshot
}

func (h *commandHandler) Name() string { return "cmd:" + h.cmd }

func (h *commandHandler) HandleKeyCommand(cmd string, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	if cmd != h.cmd {
		return plugin.NotHandled
	}
	f.SetEditorState(h.fn(s))
	return plugin.Handled
}

// upper upper-cases every change.
type upper struct{}

func (upper) Name() string { return "upper" }

func (upper) OnChange(s *document.Snapshot, _ plugin.Functions) *document.Snapshot {
	blk := s.BlockAt(0)
	text := []rune(blk.Text)
	for i, r := range text {
		if r >= 'a' && r <= 'z' {
			text[i] = r - 'a' + 'A'
		}
	}
	return s.Edit().Put(blk.WithText(string(text), blk.Chars)).Select(s.Selection()).Commit(s.LastChange())
}

func TestNewRunsInitialize(t *testing.T) {
	r := &recorder{name: "r"}
	e := newEditor(t, "x", WithPlugins(r))

	assert.Equal(t, []string{"init"}, r.calls)
	require.NoError(t, e.Close())
	assert.Equal(t, []string{"init", "unmount"}, r.calls)
	assert.ErrorIs(t, e.Close(), ErrClosed)
}

func TestNewRejectsDuplicatePlugins(t *testing.T) {
	_, err := New(nil, WithPlugins(&recorder{name: "r"}, &recorder{name: "r"}))
	assert.ErrorIs(t, err, plugin.ErrDuplicatePlugin)
}

func TestSetPluginsReinitializes(t *testing.T) {
	e := newEditor(t, "")
	r := &recorder{name: "r"}

	require.NoError(t, e.SetPlugins(r))

	assert.Equal(t, []string{"init"}, r.calls)
	assert.Equal(t, []plugin.Plugin{r}, e.Plugins())
}

func TestDefaultTyping(t *testing.T) {
	var commits int
	e := newEditor(t, "", WithOnChange(func(*document.Snapshot) { commits++ }))

	for _, r := range "hi" {
		e.KeyPress(key(r))
	}
	e.KeyPress(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	e.KeyPress(key('!'))

	s := e.EditorState()
	require.Equal(t, 2, s.Len())
	assert.Equal(t, "hi", s.BlockAt(0).Text)
	assert.Equal(t, "!", s.BlockAt(1).Text)
	assert.Equal(t, 4, commits)
}

func TestDefaultInlineCommands(t *testing.T) {
	e := newEditor(t, "hello")
	e.SetEditorState(e.EditorState().WithSelection(document.Range(e.EditorState().FirstBlock().Key, 0, e.EditorState().FirstBlock().Key, 5)))

	e.KeyPress(ctrl('b'))
	assert.True(t, e.EditorState().FirstBlock().StylesAt(0).Has(document.Bold))

	assert.Equal(t, plugin.NotHandled, e.HandleKeyCommand(CommandBold))
	assert.False(t, e.EditorState().FirstBlock().StylesAt(0).Has(document.Bold))
}

func TestBackspace(t *testing.T) {
	e := newEditor(t, "ab\ncd")
	second := e.EditorState().BlockAt(1).Key
	e.SetEditorState(e.EditorState().WithSelection(document.Caret(second, 0)))

	e.KeyPress(tcell.NewEventKey(tcell.KeyBackspace2, 0, tcell.ModNone))
	s := e.EditorState()
	require.Equal(t, 1, s.Len())
	assert.Equal(t, "abcd", s.FirstBlock().Text)

	e.HandleKeyCommand(CommandBackspace)
	assert.Equal(t, "acd", e.EditorState().FirstBlock().Text)
}

func TestPluginHandlesCommand(t *testing.T) {
	h := &commandHandler{cmd: "shout", fn: func(s *document.Snapshot) *document.Snapshot {
		return mutator.InsertText(s, "!")
	}}
	e := newEditor(t, "", WithPlugins(h))

	assert.Equal(t, plugin.Handled, e.HandleKeyCommand("shout"))
	assert.Equal(t, "!", e.EditorState().FirstBlock().Text)
	assert.Equal(t, plugin.NotHandled, e.HandleKeyCommand("whisper"))
}

func TestReadOnlyIgnoresEdits(t *testing.T) {
	e := newEditor(t, "x", WithReadOnly(true))
	before := e.EditorState()

	assert.Equal(t, plugin.NotHandled, e.HandleBeforeInput("y"))
	assert.Equal(t, plugin.NotHandled, e.HandleReturn(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	assert.Same(t, before, e.EditorState())

	e.SetReadOnly(false)
	e.HandleBeforeInput("y")
	assert.NotSame(t, before, e.EditorState())
}

func TestChangePipelineRunsOnCommit(t *testing.T) {
	e := newEditor(t, "", WithPlugins(upper{}))

	e.HandleBeforeInput("abc")

	assert.Equal(t, "ABC", e.EditorState().FirstBlock().Text)
}

func TestUpdateEditorStateIsAtomic(t *testing.T) {
	e := newEditor(t, "")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.UpdateEditorState(func(s *document.Snapshot) *document.Snapshot {
				return mutator.InsertText(s, "x")
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, e.EditorState().FirstBlock().Len())
}

// deferrer queues a deferred update while it handles a command and records
// what it saw before returning.
type deferrer struct {
	seen string
}

func (d *deferrer) Name() string { return "deferrer" }

func (d *deferrer) HandleKeyCommand(cmd string, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	f.DeferUpdate(func(cur *document.Snapshot) *document.Snapshot {
		return mutator.InsertText(cur, "!")
	})
	d.seen = f.EditorState().FirstBlock().Text
	f.SetEditorState(mutator.InsertText(s, cmd))
	return plugin.Handled
}

func TestDeferUpdateWaitsForEvent(t *testing.T) {
	d := &deferrer{}
	e := newEditor(t, "", WithPlugins(d))

	assert.Equal(t, plugin.Handled, e.HandleKeyCommand("go"))
	assert.Empty(t, d.seen)
	assert.Equal(t, "go!", e.EditorState().FirstBlock().Text)

	e.DeferUpdate(func(cur *document.Snapshot) *document.Snapshot {
		return mutator.InsertText(cur, "?")
	})
	assert.Equal(t, "go!?", e.EditorState().FirstBlock().Text)
	e.DeferUpdate(nil)
}

func TestOnChangeMayCommit(t *testing.T) {
	var e *Editor
	e = newEditor(t, "", WithOnChange(func(s *document.Snapshot) {
		if s.FirstBlock().Text == "a" {
			e.UpdateEditorState(func(cur *document.Snapshot) *document.Snapshot {
				return mutator.InsertText(cur, "b")
			})
		}
	}))

	e.HandleBeforeInput("a")
	assert.Equal(t, "ab", e.EditorState().FirstBlock().Text)
}

func TestInvalidSnapshotRejected(t *testing.T) {
	e := newEditor(t, "x")
	before := e.EditorState()

	e.SetEditorState(before.WithSelection(document.Caret("missing", 0)))

	assert.Same(t, before, e.EditorState())
}

func TestFocusNotifiesListeners(t *testing.T) {
	r := &recorder{name: "r"}
	e := newEditor(t, "", WithPlugins(r))

	e.Focus()
	assert.True(t, e.Focused())
	e.Blur()
	assert.False(t, e.Focused())
	assert.Equal(t, []string{"init", "focus", "blur"}, r.calls)
}

func TestDefaultKeyBinding(t *testing.T) {
	tests := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{ctrl('b'), CommandBold},
		{ctrl('i'), CommandItalic},
		{ctrl('u'), CommandUnderline},
		{ctrl('j'), CommandCode},
		{tcell.NewEventKey(tcell.KeyCtrlB, 0, tcell.ModCtrl), CommandBold},
		{tcell.NewEventKey(tcell.KeyRune, 'b', tcell.ModCtrl|tcell.ModShift), ""},
		{key('b'), ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultKeyBinding(tt.ev), tt.ev.Name())
	}
}
