// Package todo renders todo blocks with a checkbox.
package todo

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/mutator"
	"github.com/dshills/mediumdraft/internal/plugin"
)

// Component draws todo blocks.
const Component = "todo"

// CompletedClass marks checked todo blocks.
const CompletedClass = "block-todo-completed"

// Plugin is the todo plugin.
type Plugin struct{}

// New creates the plugin.
func New() *Plugin {
	return &Plugin{}
}

// Name implements plugin.Plugin.
func (*Plugin) Name() string { return "todo" }

// BlockRendererFn implements plugin.BlockRenderer. The props carry the
// checked state and a toggle callback that flips it.
func (*Plugin) BlockRendererFn(blk *document.Block, f plugin.Functions) *plugin.RenderSpec {
	if blk.Type != document.Todo {
		return nil
	}
	key := blk.Key
	return &plugin.RenderSpec{
		Component: Component,
		Editable:  true,
		Props: map[string]any{
			"checked": Checked(blk),
			"toggle":  func() { Toggle(f, key) },
		},
	}
}

// BlockStyleFn implements plugin.BlockStyler.
func (*Plugin) BlockStyleFn(blk *document.Block) string {
	if blk.Type != document.Todo {
		return ""
	}
	const base = plugin.BaseBlockClass
	cls := base + " " + base + "-todo"
	if Checked(blk) {
		cls += " " + CompletedClass
	}
	return cls
}

// HandleReturn implements plugin.ReturnHandler. Return on an empty todo
// ends the list.
func (*Plugin) HandleReturn(_ *tcell.EventKey, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	blk := mutator.CurrentBlock(s)
	if blk == nil || blk.Type != document.Todo || blk.Len() != 0 {
		return plugin.NotHandled
	}
	s = mutator.UpdateDataOfBlock(s, blk, document.Data{})
	f.SetEditorState(mutator.ResetBlockWithType(s, document.Unstyled, nil))
	return plugin.Handled
}

// Checked reports whether a todo block is checked.
func Checked(blk *document.Block) bool {
	return blk.Data.Bool("checked")
}

// Toggle flips the checked state of the todo block with key. Other blocks
// are left alone.
func Toggle(f plugin.Functions, key document.Key) {
	f.UpdateEditorState(func(s *document.Snapshot) *document.Snapshot {
		blk := s.Block(key)
		if blk == nil || blk.Type != document.Todo {
			return s
		}
		return mutator.UpdateDataOfBlock(s, blk, blk.Data.With("checked", !Checked(blk)))
	})
}
