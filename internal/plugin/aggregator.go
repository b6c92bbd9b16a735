package plugin

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/upload"
)

// Aggregator is the combined hook set of a plugin list. It is immutable
// once built; rebuild it when the plugin list changes.
type Aggregator struct {
	plugins []Plugin

	returns      []ReturnHandler
	commands     []KeyCommandHandler
	beforeInput  []BeforeInputHandler
	pastedText   []PastedTextHandler
	pastedFiles  []PastedFilesHandler
	droppedFiles []DroppedFilesHandler
	drops        []DropHandler

	tabs        []TabListener
	escapes     []EscapeListener
	upArrows    []UpArrowListener
	downArrows  []DownArrowListener
	leftArrows  []LeftArrowListener
	rightArrows []RightArrowListener
	focus       []FocusListener
	blur        []BlurListener

	renderers []BlockRenderer
	binders   []KeyBinder
	stylers   []BlockStyler

	changes     []ChangeListener
	initializer []Initializer
	unmounters  []Unmounter

	styleMap  StyleMap
	renderMap RenderMap
	decorator *MultiDecorator
}

// Aggregate builds the combined hook set of plugins, in order.
func Aggregate(plugins []Plugin) *Aggregator {
	plugins = append([]Plugin(nil), plugins...)
	a := &Aggregator{
		plugins: plugins,

		returns:      collect[ReturnHandler](plugins, HookHandleReturn),
		commands:     collect[KeyCommandHandler](plugins, HookHandleKeyCommand),
		beforeInput:  collect[BeforeInputHandler](plugins, HookHandleBeforeInput),
		pastedText:   collect[PastedTextHandler](plugins, HookHandlePastedText),
		pastedFiles:  collect[PastedFilesHandler](plugins, HookHandlePastedFiles),
		droppedFiles: collect[DroppedFilesHandler](plugins, HookHandleDroppedFiles),
		drops:        collect[DropHandler](plugins, HookHandleDrop),

		tabs:        collect[TabListener](plugins, HookOnTab),
		escapes:     collect[EscapeListener](plugins, HookOnEscape),
		upArrows:    collect[UpArrowListener](plugins, HookOnUpArrow),
		downArrows:  collect[DownArrowListener](plugins, HookOnDownArrow),
		leftArrows:  collect[LeftArrowListener](plugins, HookOnLeftArrow),
		rightArrows: collect[RightArrowListener](plugins, HookOnRightArrow),
		focus:       collect[FocusListener](plugins, HookOnFocus),
		blur:        collect[BlurListener](plugins, HookOnBlur),

		renderers: collect[BlockRenderer](plugins, HookBlockRendererFn),
		binders:   collect[KeyBinder](plugins, HookKeyBindingFn),
		stylers:   collect[BlockStyler](plugins, HookBlockStyleFn),

		changes:     collect[ChangeListener](plugins, HookOnChange),
		initializer: collect[Initializer](plugins, HookInitialize),
		unmounters:  collect[Unmounter](plugins, HookWillUnmount),
	}

	a.styleMap = StyleMap{}
	for _, p := range collect[StyleMapProvider](plugins, HookCustomStyleMap) {
		for k, v := range p.CustomStyleMap() {
			a.styleMap[k] = v
		}
	}

	// Plugin entries replace the default element for their block type.
	a.renderMap = DefaultRenderMap()
	for _, p := range collect[RenderMapProvider](plugins, HookBlockRenderMap) {
		for k, v := range p.BlockRenderMap() {
			a.renderMap[k] = v
		}
	}

	var specs []DecoratorSpec
	for _, p := range collect[DecoratorProvider](plugins, HookDecorators) {
		specs = append(specs, p.Decorators()...)
	}
	if composites := normalizeDecorators(specs); len(composites) > 0 {
		a.decorator = NewMultiDecorator(composites...)
	}
	return a
}

// Plugins returns the aggregated plugins in order.
func (a *Aggregator) Plugins() []Plugin {
	return append([]Plugin(nil), a.plugins...)
}

// firstHandled runs hs in order until one returns Handled.
func firstHandled[T any](hs []T, call func(T) HandleValue) HandleValue {
	for _, h := range hs {
		if call(h) == Handled {
			return Handled
		}
	}
	return NotHandled
}

// anyStops runs ls in order until one returns true.
func anyStops[T any](ls []T, call func(T) bool) bool {
	for _, l := range ls {
		if call(l) {
			return true
		}
	}
	return false
}

// HandleReturn dispatches the return key.
func (a *Aggregator) HandleReturn(ev *tcell.EventKey, s *document.Snapshot, f Functions) HandleValue {
	return firstHandled(a.returns, func(h ReturnHandler) HandleValue {
		return h.HandleReturn(ev, s, f)
	})
}

// HandleKeyCommand dispatches a key command.
func (a *Aggregator) HandleKeyCommand(cmd string, s *document.Snapshot, f Functions) HandleValue {
	return firstHandled(a.commands, func(h KeyCommandHandler) HandleValue {
		return h.HandleKeyCommand(cmd, s, f)
	})
}

// HandleBeforeInput dispatches typed characters.
func (a *Aggregator) HandleBeforeInput(chars string, s *document.Snapshot, f Functions) HandleValue {
	return firstHandled(a.beforeInput, func(h BeforeInputHandler) HandleValue {
		return h.HandleBeforeInput(chars, s, f)
	})
}

// HandlePastedText dispatches pasted text.
func (a *Aggregator) HandlePastedText(text, html string, s *document.Snapshot, f Functions) HandleValue {
	return firstHandled(a.pastedText, func(h PastedTextHandler) HandleValue {
		return h.HandlePastedText(text, html, s, f)
	})
}

// HandlePastedFiles dispatches pasted files.
func (a *Aggregator) HandlePastedFiles(files []upload.File, f Functions) HandleValue {
	return firstHandled(a.pastedFiles, func(h PastedFilesHandler) HandleValue {
		return h.HandlePastedFiles(files, f)
	})
}

// HandleDroppedFiles dispatches dropped files.
func (a *Aggregator) HandleDroppedFiles(sel document.Selection, files []upload.File, f Functions) HandleValue {
	return firstHandled(a.droppedFiles, func(h DroppedFilesHandler) HandleValue {
		return h.HandleDroppedFiles(sel, files, f)
	})
}

// HandleDrop dispatches a drop.
func (a *Aggregator) HandleDrop(sel document.Selection, dt DataTransfer, drag DragType, f Functions) HandleValue {
	return firstHandled(a.drops, func(h DropHandler) HandleValue {
		return h.HandleDrop(sel, dt, drag, f)
	})
}

// OnTab notifies tab listeners.
func (a *Aggregator) OnTab(ev *tcell.EventKey, f Functions) bool {
	return anyStops(a.tabs, func(l TabListener) bool { return l.OnTab(ev, f) })
}

// OnEscape notifies escape listeners.
func (a *Aggregator) OnEscape(ev *tcell.EventKey, f Functions) bool {
	return anyStops(a.escapes, func(l EscapeListener) bool { return l.OnEscape(ev, f) })
}

// OnUpArrow notifies up arrow listeners.
func (a *Aggregator) OnUpArrow(ev *tcell.EventKey, f Functions) bool {
	return anyStops(a.upArrows, func(l UpArrowListener) bool { return l.OnUpArrow(ev, f) })
}

// OnDownArrow notifies down arrow listeners.
func (a *Aggregator) OnDownArrow(ev *tcell.EventKey, f Functions) bool {
	return anyStops(a.downArrows, func(l DownArrowListener) bool { return l.OnDownArrow(ev, f) })
}

// OnLeftArrow notifies left arrow listeners.
func (a *Aggregator) OnLeftArrow(ev *tcell.EventKey, f Functions) bool {
	return anyStops(a.leftArrows, func(l LeftArrowListener) bool { return l.OnLeftArrow(ev, f) })
}

// OnRightArrow notifies right arrow listeners.
func (a *Aggregator) OnRightArrow(ev *tcell.EventKey, f Functions) bool {
	return anyStops(a.rightArrows, func(l RightArrowListener) bool { return l.OnRightArrow(ev, f) })
}

// OnFocus notifies focus listeners.
func (a *Aggregator) OnFocus(f Functions) bool {
	return anyStops(a.focus, func(l FocusListener) bool { return l.OnFocus(f) })
}

// OnBlur notifies blur listeners.
func (a *Aggregator) OnBlur(f Functions) bool {
	return anyStops(a.blur, func(l BlurListener) bool { return l.OnBlur(f) })
}

// BlockRendererFn returns the first renderer claiming blk, or nil.
func (a *Aggregator) BlockRendererFn(blk *document.Block, f Functions) *RenderSpec {
	for _, r := range a.renderers {
		if spec := r.BlockRendererFn(blk, f); spec != nil {
			return spec
		}
	}
	return nil
}

// KeyBindingFn returns the first command bound to ev, or "".
func (a *Aggregator) KeyBindingFn(ev *tcell.EventKey, f Functions) string {
	for _, b := range a.binders {
		if cmd := b.KeyBindingFn(ev, f); cmd != "" {
			return cmd
		}
	}
	return ""
}

// BlockStyleFn returns the first class names claimed for blk, or "".
func (a *Aggregator) BlockStyleFn(blk *document.Block) string {
	for _, st := range a.stylers {
		if cls := st.BlockStyleFn(blk); cls != "" {
			return cls
		}
	}
	return ""
}

// CustomStyleMap returns the merged inline style map.
func (a *Aggregator) CustomStyleMap() StyleMap {
	out := make(StyleMap, len(a.styleMap))
	for k, v := range a.styleMap {
		out[k] = v
	}
	return out
}

// BlockRenderMap returns the default render map with plugin entries
// merged over it.
func (a *Aggregator) BlockRenderMap() RenderMap {
	out := make(RenderMap, len(a.renderMap))
	for k, v := range a.renderMap {
		out[k] = v
	}
	return out
}

// Decorator returns the combined decorator, or nil when no plugin
// contributes one.
func (a *Aggregator) Decorator() *MultiDecorator {
	return a.decorator
}

// OnChange pipes s through every change listener.
func (a *Aggregator) OnChange(s *document.Snapshot, f Functions) *document.Snapshot {
	for _, l := range a.changes {
		if next := l.OnChange(s, f); next != nil {
			s = next
		}
	}
	return s
}

// Initialize runs every initializer once, in order.
func (a *Aggregator) Initialize(f Functions) {
	for _, i := range a.initializer {
		i.Initialize(f)
	}
}

// WillUnmount runs every unmount hook once, in order.
func (a *Aggregator) WillUnmount(f Functions) {
	for _, u := range a.unmounters {
		u.WillUnmount(f)
	}
}
