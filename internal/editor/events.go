package editor

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/mutator"
	"github.com/dshills/mediumdraft/internal/plugin"
	"github.com/dshills/mediumdraft/internal/upload"
)

// Editing commands understood without plugins.
const (
	CommandBold          = "bold"
	CommandItalic        = "italic"
	CommandUnderline     = "underline"
	CommandCode          = "code"
	CommandStrikethrough = "strikethrough"
	CommandSplitBlock    = "split-block"
	CommandBackspace     = "backspace"
)

var inlineCommands = map[string]document.InlineStyle{
	CommandBold:          document.Bold,
	CommandItalic:        document.Italic,
	CommandUnderline:     document.Underline,
	CommandCode:          document.InlineCode,
	CommandStrikethrough: document.Strikethrough,
}

// HandleReturn routes the return key. Unhandled returns split the block.
func (e *Editor) HandleReturn(ev *tcell.EventKey) plugin.HandleValue {
	e.beginEvent()
	defer e.endEvent()

	if e.ReadOnly() {
		return plugin.NotHandled
	}
	if e.aggregator().HandleReturn(ev, e.EditorState(), e) == plugin.Handled {
		return plugin.Handled
	}
	e.UpdateEditorState(mutator.SplitBlock)
	return plugin.NotHandled
}

// HandleKeyCommand routes a command. Unhandled inline style commands
// toggle the style, split-block splits and backspace removes the selected
// range or the character before the caret.
func (e *Editor) HandleKeyCommand(cmd string) plugin.HandleValue {
	e.beginEvent()
	defer e.endEvent()

	if e.ReadOnly() || cmd == "" {
		return plugin.NotHandled
	}
	if e.aggregator().HandleKeyCommand(cmd, e.EditorState(), e) == plugin.Handled {
		return plugin.Handled
	}

	if style, ok := inlineCommands[cmd]; ok {
		e.UpdateEditorState(func(s *document.Snapshot) *document.Snapshot {
			return mutator.ToggleInlineStyle(s, style)
		})
		return plugin.NotHandled
	}
	switch cmd {
	case CommandSplitBlock:
		e.UpdateEditorState(mutator.SplitBlock)
	case CommandBackspace:
		e.UpdateEditorState(backspace)
	}
	return plugin.NotHandled
}

func backspace(s *document.Snapshot) *document.Snapshot {
	sel := s.Selection()
	if !sel.IsCollapsed() {
		return mutator.RemoveRange(s)
	}
	if sel.AnchorOffset > 0 {
		return mutator.RemoveRange(s.WithSelection(document.Range(sel.AnchorKey, sel.AnchorOffset-1, sel.AnchorKey, sel.AnchorOffset)))
	}
	prev := s.BlockBefore(sel.AnchorKey)
	if prev == nil {
		return s
	}
	return mutator.RemoveRange(s.WithSelection(document.Range(prev.Key, prev.Len(), sel.AnchorKey, 0)))
}

// HandleBeforeInput routes typed characters. Unhandled input is inserted
// at the caret.
func (e *Editor) HandleBeforeInput(chars string) plugin.HandleValue {
	e.beginEvent()
	defer e.endEvent()

	if e.ReadOnly() || chars == "" {
		return plugin.NotHandled
	}
	if e.aggregator().HandleBeforeInput(chars, e.EditorState(), e) == plugin.Handled {
		return plugin.Handled
	}
	e.UpdateEditorState(func(s *document.Snapshot) *document.Snapshot {
		return mutator.InsertText(s, chars)
	})
	return plugin.NotHandled
}

// HandlePastedText routes pasted text. Unhandled text replaces the
// selection.
func (e *Editor) HandlePastedText(text, html string) plugin.HandleValue {
	e.beginEvent()
	defer e.endEvent()

	if e.ReadOnly() {
		return plugin.NotHandled
	}
	if e.aggregator().HandlePastedText(text, html, e.EditorState(), e) == plugin.Handled {
		return plugin.Handled
	}
	e.UpdateEditorState(func(s *document.Snapshot) *document.Snapshot {
		return mutator.ReplaceText(s, text)
	})
	return plugin.NotHandled
}

// HandlePastedFiles routes pasted files. Unhandled files are ignored.
func (e *Editor) HandlePastedFiles(files []upload.File) plugin.HandleValue {
	e.beginEvent()
	defer e.endEvent()

	if e.ReadOnly() || len(files) == 0 {
		return plugin.NotHandled
	}
	return e.aggregator().HandlePastedFiles(files, e)
}

// HandleDroppedFiles routes files dropped at sel. Unhandled files are
// ignored.
func (e *Editor) HandleDroppedFiles(sel document.Selection, files []upload.File) plugin.HandleValue {
	e.beginEvent()
	defer e.endEvent()

	if e.ReadOnly() || len(files) == 0 {
		return plugin.NotHandled
	}
	return e.aggregator().HandleDroppedFiles(sel, files, e)
}

// HandleDrop routes a drop of content at sel. Unhandled text from outside
// the editor is inserted at sel.
func (e *Editor) HandleDrop(sel document.Selection, dt plugin.DataTransfer, drag plugin.DragType) plugin.HandleValue {
	e.beginEvent()
	defer e.endEvent()

	if e.ReadOnly() {
		return plugin.NotHandled
	}
	if e.aggregator().HandleDrop(sel, dt, drag, e) == plugin.Handled {
		return plugin.Handled
	}
	if drag == plugin.DragExternal && dt.Text != "" {
		e.UpdateEditorState(func(s *document.Snapshot) *document.Snapshot {
			return mutator.InsertText(mutator.ForceSelection(s, sel), dt.Text)
		})
	}
	return plugin.NotHandled
}

// KeyBinding returns the command bound to ev by plugins, falling back to
// the default bindings.
func (e *Editor) KeyBinding(ev *tcell.EventKey) string {
	if cmd := e.aggregator().KeyBindingFn(ev, e); cmd != "" {
		return cmd
	}
	return DefaultKeyBinding(ev)
}

// DefaultKeyBinding maps the standard shortcuts to commands.
func DefaultKeyBinding(ev *tcell.EventKey) string {
	switch ev.Key() {
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return CommandBackspace
	}
	r, ok := plugin.CtrlRune(ev)
	if !ok || ev.Modifiers()&(tcell.ModAlt|tcell.ModShift) != 0 {
		return ""
	}
	switch r {
	case 'b':
		return CommandBold
	case 'i':
		return CommandItalic
	case 'u':
		return CommandUnderline
	case 'j':
		return CommandCode
	}
	return ""
}

// OnTab notifies tab listeners.
func (e *Editor) OnTab(ev *tcell.EventKey) bool {
	e.beginEvent()
	defer e.endEvent()
	return e.aggregator().OnTab(ev, e)
}

// OnEscape notifies escape listeners.
func (e *Editor) OnEscape(ev *tcell.EventKey) bool {
	e.beginEvent()
	defer e.endEvent()
	return e.aggregator().OnEscape(ev, e)
}

// OnUpArrow notifies up arrow listeners.
func (e *Editor) OnUpArrow(ev *tcell.EventKey) bool {
	e.beginEvent()
	defer e.endEvent()
	return e.aggregator().OnUpArrow(ev, e)
}

// OnDownArrow notifies down arrow listeners.
func (e *Editor) OnDownArrow(ev *tcell.EventKey) bool {
	e.beginEvent()
	defer e.endEvent()
	return e.aggregator().OnDownArrow(ev, e)
}

// OnLeftArrow notifies left arrow listeners.
func (e *Editor) OnLeftArrow(ev *tcell.EventKey) bool {
	e.beginEvent()
	defer e.endEvent()
	return e.aggregator().OnLeftArrow(ev, e)
}

// OnRightArrow notifies right arrow listeners.
func (e *Editor) OnRightArrow(ev *tcell.EventKey) bool {
	e.beginEvent()
	defer e.endEvent()
	return e.aggregator().OnRightArrow(ev, e)
}

// Focus focuses the surface.
func (e *Editor) Focus() { e.Surface().Focus() }

// Blur blurs the surface.
func (e *Editor) Blur() { e.Surface().Blur() }

// KeyPress routes a raw key event: return, tab, escape and arrows go to
// their hooks, plain runes are typed and everything else is resolved
// through the key bindings.
func (e *Editor) KeyPress(ev *tcell.EventKey) {
	e.beginEvent()
	defer e.endEvent()

	switch ev.Key() {
	case tcell.KeyEnter:
		e.HandleReturn(ev)
		return
	case tcell.KeyTab:
		e.OnTab(ev)
		return
	case tcell.KeyEscape:
		e.OnEscape(ev)
		return
	case tcell.KeyUp:
		e.OnUpArrow(ev)
		return
	case tcell.KeyDown:
		e.OnDownArrow(ev)
		return
	case tcell.KeyLeft:
		e.OnLeftArrow(ev)
		return
	case tcell.KeyRight:
		e.OnRightArrow(ev)
		return
	}

	if cmd := e.KeyBinding(ev); cmd != "" {
		e.HandleKeyCommand(cmd)
		return
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt|tcell.ModMeta) == 0 {
		e.HandleBeforeInput(string(ev.Rune()))
	}
}
