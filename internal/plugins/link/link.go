// Package link handles the link commands bound by the shortcut plugin.
package link

import (
	"strings"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/mutator"
	"github.com/dshills/mediumdraft/internal/plugin"
	"github.com/dshills/mediumdraft/internal/plugins/shortcut"
)

// Plugin is the link plugin.
type Plugin struct{}

// New creates the plugin.
func New() *Plugin {
	return &Plugin{}
}

// Name implements plugin.Plugin.
func (*Plugin) Name() string { return "link" }

// HandleKeyCommand implements plugin.KeyCommandHandler.
func (*Plugin) HandleKeyCommand(cmd string, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	switch cmd {
	case shortcut.CommandUnlink:
		info := mutator.IsCursorBetweenLink(s)
		if info == nil {
			return plugin.NotHandled
		}
		f.SetEditorState(mutator.RemoveLink(s, info.BlockKey, info.EntityKey))
		return plugin.Handled
	case shortcut.CommandShowLinkInput:
		return showInput(s, f)
	}
	return plugin.NotHandled
}

// showInput prompts for the URL of the selected text. Cancelling the
// prompt still consumes the command.
func showInput(s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	if s.Selection().IsCollapsed() {
		return plugin.NotHandled
	}
	props := f.Props()
	if props == nil || props.Prompt == nil {
		return plugin.NotHandled
	}

	url, ok := props.Prompt("Enter a URL", selectedURL(s))
	url = strings.TrimSpace(url)
	if !ok || url == "" {
		return plugin.Handled
	}
	if props.ProcessURL != nil {
		url = props.ProcessURL(url)
	} else {
		url = mutator.NormalizeURL(url)
	}
	f.UpdateEditorState(func(cur *document.Snapshot) *document.Snapshot {
		return mutator.ApplyLink(cur, url)
	})
	return plugin.Handled
}

// selectedURL returns the URL of the link at the start of the selection.
func selectedURL(s *document.Snapshot) string {
	sel := s.Selection()
	blk := s.Block(sel.StartKey())
	if blk == nil || sel.StartOffset() >= blk.Len() {
		return ""
	}
	ent, ok := s.Entity(blk.EntityAt(sel.StartOffset()))
	if !ok || ent.Type != document.LinkEntity {
		return ""
	}
	return ent.URL()
}
