// Package shortcut adds the writing shortcuts: markdown-like prefixes that
// change the block type, key bindings for block types and inline styles,
// list continuation on return and escape to leave the editor.
package shortcut

import (
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/mutator"
	"github.com/dshills/mediumdraft/internal/plugin"
)

// Key commands.
const (
	CommandChangeTypePrefix   = "changetype:"
	CommandToggleInlinePrefix = "toggleinline:"
	CommandShowLinkInput      = "showlinkinput"
	CommandUnlink             = "unlink"
	CommandDeleteBlock        = "delete-block"
)

// ChangeType returns the command that toggles block type t.
func ChangeType(t document.BlockType) string {
	return CommandChangeTypePrefix + string(t)
}

// ToggleInline returns the command that toggles inline style st.
func ToggleInline(st document.InlineStyle) string {
	return CommandToggleInlinePrefix + string(st)
}

// StringToTypeMap maps a two character block prefix to the block type it
// creates. Colon separated entries cycle: typing the prefix in a block of
// one type moves it to the next.
var StringToTypeMap = map[string]string{
	"--": strings.Join([]string{string(document.Blockquote), string(document.BlockquoteCaption), string(document.Caption)}, ":"),
	"> ": string(document.Blockquote),
	"*.": string(document.UnorderedListItem),
	"* ": string(document.UnorderedListItem),
	"- ": string(document.UnorderedListItem),
	"1.": string(document.OrderedListItem),
	"# ": string(document.HeaderOne),
	"##": string(document.HeaderTwo),
	"==": string(document.Unstyled),
	"``": string(document.Code),
}

// ContinuousBlocks keep their type when return is pressed at their end.
var ContinuousBlocks = []document.BlockType{
	document.Unstyled,
	document.Blockquote,
	document.OrderedListItem,
	document.UnorderedListItem,
	document.Todo,
}

// endOnEmpty lists the types an empty block of which returns to unstyled on
// return.
var endOnEmpty = []document.BlockType{
	document.UnorderedListItem,
	document.OrderedListItem,
	document.Blockquote,
	document.BlockquoteCaption,
	document.Caption,
	document.Todo,
	document.HeaderOne,
	document.HeaderTwo,
	document.HeaderThree,
}

// Plugin is the shortcut plugin.
type Plugin struct{}

// New creates the plugin.
func New() *Plugin {
	return &Plugin{}
}

// Name implements plugin.Plugin.
func (*Plugin) Name() string { return "shortcut" }

// HandleBeforeInput implements plugin.BeforeInputHandler. A prefix from
// StringToTypeMap typed at the start of a block changes its type and
// removes the prefix.
func (*Plugin) HandleBeforeInput(chars string, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	blk := mutator.CurrentBlock(s)
	if blk == nil || blk.Type.IsAtomic() {
		return plugin.NotHandled
	}
	sel := s.Selection()
	if !sel.IsCollapsed() || sel.AnchorOffset != 1 || blk.Len() != 1 {
		return plugin.NotHandled
	}
	target, ok := StringToTypeMap[blk.Text+chars]
	if !ok {
		return plugin.NotHandled
	}
	next, ok := nextType(blk.Type, strings.Split(target, ":"))
	if !ok {
		return plugin.NotHandled
	}

	s = mutator.RemoveRange(s.WithSelection(document.Range(blk.Key, 0, blk.Key, blk.Len())))
	f.SetEditorState(mutator.ResetBlockWithType(s, next, nil))
	return plugin.Handled
}

// nextType picks the type a block of type cur moves to in cycle. It fails
// when cur is already the last type of the cycle.
func nextType(cur document.BlockType, cycle []string) (document.BlockType, bool) {
	if len(cycle) == 0 || len(cycle) > 3 {
		return "", false
	}
	if document.BlockType(cycle[len(cycle)-1]) == cur {
		return "", false
	}
	for i := 0; i < len(cycle)-1; i++ {
		if document.BlockType(cycle[i]) == cur {
			return document.BlockType(cycle[i+1]), true
		}
	}
	return document.BlockType(cycle[0]), true
}

// KeyBindingFn implements plugin.KeyBinder.
//
//	Ctrl+K           showlinkinput
//	Ctrl+Shift+K     unlink
//	Ctrl+Alt+1/2/3   header one/two/three
//	Ctrl+Alt+7       ordered list
//	Ctrl+Alt+8       unordered list
//	Ctrl+Alt+Q       blockquote
//	Ctrl+Alt+C       code block
//	Ctrl+Alt+T       todo
//	Ctrl+Alt+H       highlight
//	Ctrl+Alt+S       strikethrough
//	Ctrl+Alt+D       delete block
func (*Plugin) KeyBindingFn(ev *tcell.EventKey, _ plugin.Functions) string {
	r, ok := plugin.CtrlRune(ev)
	if !ok {
		return ""
	}
	mods := ev.Modifiers()
	if mods&tcell.ModAlt == 0 {
		if r != 'k' {
			return ""
		}
		if mods&tcell.ModShift != 0 {
			return CommandUnlink
		}
		return CommandShowLinkInput
	}

	switch r {
	case '1':
		return ChangeType(document.HeaderOne)
	case '2':
		return ChangeType(document.HeaderTwo)
	case '3':
		return ChangeType(document.HeaderThree)
	case '7':
		return ChangeType(document.OrderedListItem)
	case '8':
		return ChangeType(document.UnorderedListItem)
	case 'q':
		return ChangeType(document.Blockquote)
	case 'c':
		return ChangeType(document.Code)
	case 't':
		return ChangeType(document.Todo)
	case 'h':
		return ToggleInline(document.Highlight)
	case 's':
		return ToggleInline(document.Strikethrough)
	case 'd':
		return CommandDeleteBlock
	}
	return ""
}

// HandleKeyCommand implements plugin.KeyCommandHandler.
func (*Plugin) HandleKeyCommand(cmd string, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	if t, ok := strings.CutPrefix(cmd, CommandChangeTypePrefix); ok {
		bt := document.BlockType(t)
		if !bt.Valid() {
			return plugin.NotHandled
		}
		f.SetEditorState(mutator.ToggleBlockType(s, bt))
		return plugin.Handled
	}
	if st, ok := strings.CutPrefix(cmd, CommandToggleInlinePrefix); ok {
		f.SetEditorState(mutator.ToggleInlineStyle(s, document.InlineStyle(st)))
		return plugin.Handled
	}
	if cmd == CommandDeleteBlock {
		blk := mutator.CurrentBlock(s)
		if blk == nil {
			return plugin.NotHandled
		}
		f.SetEditorState(mutator.RemoveBlock(s, blk.Key))
		return plugin.Handled
	}
	return plugin.NotHandled
}

// HandleReturn implements plugin.ReturnHandler.
//
// Shift+Return inserts a line break. Return in an atomic block adds a
// paragraph after it. Return in an empty list, quote, caption or heading
// block turns it back into a paragraph. Return at the end of a block that
// does not continue adds a paragraph after it.
func (*Plugin) HandleReturn(ev *tcell.EventKey, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	if plugin.IsSoftNewline(ev) {
		f.SetEditorState(mutator.InsertSoftNewline(s))
		return plugin.Handled
	}
	if ev != nil && ev.Modifiers()&(tcell.ModAlt|tcell.ModCtrl|tcell.ModMeta) != 0 {
		return plugin.NotHandled
	}

	blk := mutator.CurrentBlock(s)
	if blk == nil {
		return plugin.NotHandled
	}
	if blk.Type.IsAtomic() {
		return addParagraphAfter(s, blk, f)
	}
	if blk.Len() == 0 {
		if !slices.Contains(endOnEmpty, blk.Type) {
			return plugin.NotHandled
		}
		f.SetEditorState(mutator.ResetBlockWithType(s, document.Unstyled, nil))
		return plugin.Handled
	}

	sel := s.Selection()
	if sel.IsCollapsed() && sel.StartOffset() == blk.Len() && !slices.Contains(ContinuousBlocks, blk.Type) {
		return addParagraphAfter(s, blk, f)
	}
	return plugin.NotHandled
}

func addParagraphAfter(s *document.Snapshot, blk *document.Block, f plugin.Functions) plugin.HandleValue {
	next, err := mutator.AddNewBlockAt(s, blk.Key, document.Unstyled, nil, "")
	if err != nil {
		return plugin.NotHandled
	}
	f.SetEditorState(next)
	return plugin.Handled
}

// OnEscape implements plugin.EscapeListener.
func (*Plugin) OnEscape(_ *tcell.EventKey, f plugin.Functions) bool {
	if sf := f.Surface(); sf != nil {
		sf.Blur()
		return true
	}
	return false
}
