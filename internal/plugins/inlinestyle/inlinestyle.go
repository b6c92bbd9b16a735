// Package inlinestyle provides the base block classes, the highlight style,
// the render map of the custom block types and the link decorator.
package inlinestyle

import (
	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/plugin"
)

// LinkComponent draws link ranges.
const LinkComponent = "link"

// Plugin is the inline style plugin.
type Plugin struct{}

// New creates the plugin.
func New() *Plugin {
	return &Plugin{}
}

// Name implements plugin.Plugin.
func (*Plugin) Name() string { return "inline-style" }

// BlockStyleFn implements plugin.BlockStyler.
func (*Plugin) BlockStyleFn(blk *document.Block) string {
	const base = plugin.BaseBlockClass
	switch blk.Type {
	case document.Blockquote:
		return base + " " + base + "--quote"
	case document.Unstyled:
		return base + " " + base + "--paragraph"
	case document.Atomic:
		return base + " " + base + "--atomic"
	case document.Caption:
		return base + " " + base + "-caption"
	case document.BlockquoteCaption:
		return base + " " + base + "--quote " + base + "-quote-caption"
	}
	return ""
}

// CustomStyleMap implements plugin.StyleMapProvider.
func (*Plugin) CustomStyleMap() plugin.StyleMap {
	return plugin.StyleMap{
		string(document.Highlight): {"background-color": "yellow"},
	}
}

// BlockRenderMap implements plugin.RenderMapProvider.
func (*Plugin) BlockRenderMap() plugin.RenderMap {
	return plugin.RenderMap{
		document.Caption:           {Element: "cite"},
		document.BlockquoteCaption: {Element: "blockquote"},
		document.Image:             {Element: "figure"},
		document.Break:             {Element: "div"},
		document.Unstyled:          {Element: "div"},
	}
}

// Decorators implements plugin.DecoratorProvider.
func (*Plugin) Decorators() []plugin.DecoratorSpec {
	return []plugin.DecoratorSpec{plugin.Simple(plugin.SimpleDecorator{
		Strategy:  FindLinkEntities,
		Component: LinkComponent,
	})}
}

// FindLinkEntities reports the ranges of blk bound to link entities.
func FindLinkEntities(blk *document.Block, s *document.Snapshot, emit func(start, end int)) {
	if s == nil {
		return
	}
	blk.EntityRanges(func(key document.EntityKey, start, end int) {
		if ent, ok := s.Entity(key); ok && ent.Type == document.LinkEntity {
			emit(start, end)
		}
	})
}
