// Package blockrender chooses renderers for the text, caption and atomic
// block types.
package blockrender

import (
	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/plugin"
)

// Renderer components.
const (
	ComponentText         = "text"
	ComponentQuoteCaption = "quote-caption"
	ComponentCaption      = "caption"
	ComponentAtomic       = "atomic"
	ComponentSeparator    = "separator"
)

// Plugin is the block renderer plugin.
type Plugin struct{}

// New creates the plugin.
func New() *Plugin {
	return &Plugin{}
}

// Name implements plugin.Plugin.
func (*Plugin) Name() string { return "block-renderer" }

// BlockRendererFn implements plugin.BlockRenderer.
func (*Plugin) BlockRendererFn(blk *document.Block, _ plugin.Functions) *plugin.RenderSpec {
	switch blk.Type {
	case document.Unstyled:
		return &plugin.RenderSpec{Component: ComponentText, Editable: true}
	case document.BlockquoteCaption:
		return &plugin.RenderSpec{Component: ComponentQuoteCaption, Editable: true}
	case document.Caption:
		return &plugin.RenderSpec{Component: ComponentCaption, Editable: true}
	case document.Atomic:
		return &plugin.RenderSpec{Component: ComponentAtomic}
	case document.Break:
		return &plugin.RenderSpec{Component: ComponentSeparator}
	}
	return nil
}
