// Package codeblock makes code blocks behave like a code editor: return
// inserts a line break, tab inserts spaces, pastes stay plain and inline
// style commands are ignored.
package codeblock

import (
	"slices"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/mutator"
	"github.com/dshills/mediumdraft/internal/plugin"
)

// CommandAddLanguage asks for the language of the current code block.
const CommandAddLanguage = "code-block-add-language"

// Component draws code blocks.
const Component = "code"

// Plugin is the code block plugin.
type Plugin struct {
	ignore  []string
	tabSize int
}

// Option configures the plugin.
type Option func(*Plugin)

// WithIgnoreCommands sets the commands swallowed inside code blocks.
func WithIgnoreCommands(cmds ...string) Option {
	return func(p *Plugin) {
		p.ignore = append([]string(nil), cmds...)
	}
}

// WithTabSize sets the number of spaces a tab inserts. Only 2 and 4 are
// accepted.
func WithTabSize(n int) Option {
	return func(p *Plugin) {
		if n == 2 || n == 4 {
			p.tabSize = n
		}
	}
}

// New creates the plugin.
func New(opts ...Option) *Plugin {
	p := &Plugin{
		ignore:  []string{"bold", "italic", "underline"},
		tabSize: 2,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements plugin.Plugin.
func (*Plugin) Name() string { return "code-block" }

func isCode(blk *document.Block) bool {
	return blk != nil && blk.Type == document.Code
}

// Language returns the language of a code block, or "".
func Language(blk *document.Block) string {
	return blk.Data.String("language")
}

// BlockRendererFn implements plugin.BlockRenderer.
func (*Plugin) BlockRendererFn(blk *document.Block, _ plugin.Functions) *plugin.RenderSpec {
	if !isCode(blk) {
		return nil
	}
	return &plugin.RenderSpec{
		Component: Component,
		Editable:  true,
		Props:     map[string]any{"language": Language(blk)},
	}
}

// BlockStyleFn implements plugin.BlockStyler.
func (*Plugin) BlockStyleFn(blk *document.Block) string {
	if !isCode(blk) {
		return ""
	}
	lang := Language(blk)
	if lang == "" {
		lang = "no-lang"
	}
	const base = plugin.BaseBlockClass
	return base + " " + base + "-code language-" + lang
}

// KeyBindingFn implements plugin.KeyBinder.
func (*Plugin) KeyBindingFn(ev *tcell.EventKey, f plugin.Functions) string {
	if !isCode(mutator.CurrentBlock(f.EditorState())) {
		return ""
	}
	if r, ok := plugin.CtrlRune(ev); ok && r == 'l' && ev.Modifiers()&tcell.ModShift != 0 {
		return CommandAddLanguage
	}
	return ""
}

// HandleKeyCommand implements plugin.KeyCommandHandler.
func (p *Plugin) HandleKeyCommand(cmd string, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	blk := mutator.CurrentBlock(s)
	if !isCode(blk) {
		return plugin.NotHandled
	}
	if slices.Contains(p.ignore, cmd) {
		return plugin.Handled
	}
	if cmd != CommandAddLanguage {
		return plugin.NotHandled
	}

	prompt := f.Props().Prompt
	if prompt == nil {
		return plugin.NotHandled
	}
	lang, ok := prompt("Enter language for the code block", Language(blk))
	lang = strings.TrimSpace(lang)
	if ok && lang != "" {
		key := blk.Key
		f.UpdateEditorState(func(cur *document.Snapshot) *document.Snapshot {
			b := cur.Block(key)
			if b == nil {
				return cur
			}
			return mutator.UpdateDataOfBlock(cur, b, b.Data.With("language", lang))
		})
	}
	return plugin.Handled
}

// HandleReturn implements plugin.ReturnHandler. Return with a command
// modifier is left to the engine so the block can still be split.
func (*Plugin) HandleReturn(ev *tcell.EventKey, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	if !isCode(mutator.CurrentBlock(s)) || plugin.HasCommandModifier(ev) {
		return plugin.NotHandled
	}
	f.SetEditorState(mutator.InsertSoftNewline(s))
	return plugin.Handled
}

// HandlePastedText implements plugin.PastedTextHandler.
func (*Plugin) HandlePastedText(text, _ string, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	if !isCode(mutator.CurrentBlock(s)) {
		return plugin.NotHandled
	}
	f.SetEditorState(mutator.ReplaceText(s, text))
	return plugin.Handled
}

// OnTab implements plugin.TabListener.
func (p *Plugin) OnTab(_ *tcell.EventKey, f plugin.Functions) bool {
	s := f.EditorState()
	if !isCode(mutator.CurrentBlock(s)) || !s.Selection().IsCollapsed() {
		return false
	}
	f.SetEditorState(mutator.InsertText(s, strings.Repeat(" ", p.tabSize)))
	return true
}
