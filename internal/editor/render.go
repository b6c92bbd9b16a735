package editor

import (
	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/plugin"
)

// BlockRenderer returns the renderer plugins chose for blk, or nil.
func (e *Editor) BlockRenderer(blk *document.Block) *plugin.RenderSpec {
	return e.aggregator().BlockRendererFn(blk, e)
}

// BlockStyle returns the class names plugins chose for blk.
func (e *Editor) BlockStyle(blk *document.Block) string {
	return e.aggregator().BlockStyleFn(blk)
}

// StyleMap returns the merged inline style map.
func (e *Editor) StyleMap() plugin.StyleMap {
	return e.aggregator().CustomStyleMap()
}

// RenderMap returns the merged block render map.
func (e *Editor) RenderMap() plugin.RenderMap {
	return e.aggregator().BlockRenderMap()
}

// Decorator returns the combined decorator, or nil.
func (e *Editor) Decorator() *plugin.MultiDecorator {
	return e.aggregator().Decorator()
}

// RenderedBlock is the render plan of one block.
type RenderedBlock struct {
	Key         document.Key
	Type        document.BlockType
	Element     plugin.RenderElement
	ClassName   string
	Renderer    *plugin.RenderSpec
	Decorations []plugin.Decoration
}

// Render returns the render plan of every block of the current snapshot.
func (e *Editor) Render() []RenderedBlock {
	agg := e.aggregator()
	s := e.EditorState()
	renderMap := agg.BlockRenderMap()
	dec := agg.Decorator()

	out := make([]RenderedBlock, 0, s.Len())
	for _, blk := range s.Blocks() {
		rb := RenderedBlock{
			Key:       blk.Key,
			Type:      blk.Type,
			Element:   renderMap.Element(blk.Type),
			ClassName: agg.BlockStyleFn(blk),
			Renderer:  agg.BlockRendererFn(blk, e),
		}
		if dec != nil {
			rb.Decorations = plugin.Ranges(dec, blk, s)
		}
		out = append(out, rb)
	}
	return out
}
