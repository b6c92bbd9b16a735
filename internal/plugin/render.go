package plugin

import "github.com/dshills/mediumdraft/internal/document"

// BaseBlockClass prefixes every block class name.
const BaseBlockClass = "md-block"

// RenderSpec tells the renderer how to draw a block.
type RenderSpec struct {
	// Component names the renderer, for example "text" or "image".
	Component string

	// Editable is false for blocks whose content is not typed into.
	Editable bool

	Props map[string]any
}

// Style is a set of style properties applied to a character range.
type Style map[string]string

// StyleMap maps inline style names to styles.
type StyleMap map[string]Style

// RenderElement is the element a block type renders into, with an optional
// wrapper shared by adjacent blocks of the same type.
type RenderElement struct {
	Element string
	Wrapper string
}

// RenderMap maps block types to elements.
type RenderMap map[document.BlockType]RenderElement

// DefaultRenderMap returns the engine's built-in render map.
func DefaultRenderMap() RenderMap {
	return RenderMap{
		document.HeaderOne:         {Element: "h1"},
		document.HeaderTwo:         {Element: "h2"},
		document.HeaderThree:       {Element: "h3"},
		document.HeaderFour:        {Element: "h4"},
		document.HeaderFive:        {Element: "h5"},
		document.HeaderSix:         {Element: "h6"},
		document.Blockquote:        {Element: "blockquote"},
		document.UnorderedListItem: {Element: "li", Wrapper: "ul"},
		document.OrderedListItem:   {Element: "li", Wrapper: "ol"},
		document.Code:              {Element: "pre", Wrapper: "pre"},
		document.Atomic:            {Element: "figure"},
		document.Unstyled:          {Element: "div"},
	}
}

// Element returns the element for t, falling back to the unstyled entry.
func (m RenderMap) Element(t document.BlockType) RenderElement {
	if e, ok := m[t]; ok {
		return e
	}
	return m[document.Unstyled]
}
