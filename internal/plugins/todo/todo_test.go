package todo

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/editor"
	"github.com/dshills/mediumdraft/internal/plugin"
)

func todoEditor(t *testing.T, blocks ...*document.Block) *editor.Editor {
	t.Helper()
	e, err := editor.New(document.New(blocks...), editor.WithPlugins(New()))
	require.NoError(t, err)
	return e
}

func TestToggleThroughRendererProps(t *testing.T) {
	e := todoEditor(t, document.NewBlock("t", document.Todo, "buy milk", document.Data{"checked": false, "due": "mon"}))

	spec := e.BlockRenderer(e.EditorState().Block("t"))
	require.NotNil(t, spec)
	assert.Equal(t, Component, spec.Component)
	assert.Equal(t, false, spec.Props["checked"])

	toggle, ok := spec.Props["toggle"].(func())
	require.True(t, ok)
	toggle()

	blk := e.EditorState().Block("t")
	assert.True(t, Checked(blk))
	assert.Equal(t, "mon", blk.Data.String("due"))
	assert.Equal(t, "md-block md-block-todo block-todo-completed", e.BlockStyle(blk))

	toggle()
	assert.False(t, Checked(e.EditorState().Block("t")))
}

func TestToggleIgnoresOtherBlocks(t *testing.T) {
	e := todoEditor(t, document.NewBlock("p", document.Unstyled, "x", nil))
	before := e.EditorState()

	Toggle(e, "p")
	Toggle(e, "missing")

	assert.Same(t, before, e.EditorState())
	assert.Nil(t, e.BlockRenderer(before.Block("p")))
}

func TestReturnOnEmptyTodoEndsList(t *testing.T) {
	e := todoEditor(t, document.NewBlock("t", document.Todo, "", document.Data{"checked": true}))

	got := e.HandleReturn(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))

	assert.Equal(t, plugin.Handled, got)
	blk := e.EditorState().Block("t")
	assert.Equal(t, document.Unstyled, blk.Type)
	assert.Empty(t, blk.Data)
	assert.Equal(t, 1, e.EditorState().Len())
}

func TestReturnOnFilledTodoSplits(t *testing.T) {
	e := todoEditor(t, document.NewBlock("t", document.Todo, "a", nil))
	e.SetEditorState(e.EditorState().WithSelection(document.Caret("t", 1)))

	assert.Equal(t, plugin.NotHandled, e.HandleReturn(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))

	s := e.EditorState()
	require.Equal(t, 2, s.Len())
	assert.Equal(t, document.Todo, s.BlockAt(1).Type)
	assert.Equal(t, document.Data{"checked": false}, s.BlockAt(1).Data)
}
