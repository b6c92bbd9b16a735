package plugin

// Hook names a single plugin hook.
type Hook string

// Hooks.
const (
	HookHandleReturn       Hook = "handleReturn"
	HookHandleKeyCommand   Hook = "handleKeyCommand"
	HookHandleBeforeInput  Hook = "handleBeforeInput"
	HookHandlePastedText   Hook = "handlePastedText"
	HookHandlePastedFiles  Hook = "handlePastedFiles"
	HookHandleDroppedFiles Hook = "handleDroppedFiles"
	HookHandleDrop         Hook = "handleDrop"
	HookOnTab              Hook = "onTab"
	HookOnEscape           Hook = "onEscape"
	HookOnUpArrow          Hook = "onUpArrow"
	HookOnDownArrow        Hook = "onDownArrow"
	HookOnLeftArrow        Hook = "onLeftArrow"
	HookOnRightArrow       Hook = "onRightArrow"
	HookOnFocus            Hook = "onFocus"
	HookOnBlur             Hook = "onBlur"
	HookBlockRendererFn    Hook = "blockRendererFn"
	HookKeyBindingFn       Hook = "keyBindingFn"
	HookBlockStyleFn       Hook = "blockStyleFn"
	HookCustomStyleMap     Hook = "customStyleMap"
	HookBlockRenderMap     Hook = "blockRenderMap"
	HookOnChange           Hook = "onChange"
	HookInitialize         Hook = "initialize"
	HookWillUnmount        Hook = "willUnmount"
	HookDecorators         Hook = "decorators"
)

// AllHooks lists every hook in a stable order.
var AllHooks = []Hook{
	HookHandleReturn, HookHandleKeyCommand, HookHandleBeforeInput,
	HookHandlePastedText, HookHandlePastedFiles, HookHandleDroppedFiles, HookHandleDrop,
	HookOnTab, HookOnEscape, HookOnUpArrow, HookOnDownArrow, HookOnLeftArrow, HookOnRightArrow,
	HookOnFocus, HookOnBlur,
	HookBlockRendererFn, HookKeyBindingFn, HookBlockStyleFn,
	HookCustomStyleMap, HookBlockRenderMap,
	HookOnChange, HookInitialize, HookWillUnmount, HookDecorators,
}

// Declarer is implemented by plugins whose method set is wider than the
// hooks they take part in.
type Declarer interface {
	// Hooks returns the hooks the plugin takes part in.
	Hooks() []Hook
}

// Capabilities returns the hooks p takes part in, in AllHooks order.
func Capabilities(p Plugin) []Hook {
	var declared map[Hook]bool
	if d, ok := p.(Declarer); ok {
		declared = make(map[Hook]bool)
		for _, h := range d.Hooks() {
			declared[h] = true
		}
	}

	var out []Hook
	for _, h := range AllHooks {
		if declared != nil && !declared[h] {
			continue
		}
		if implements(p, h) {
			out = append(out, h)
		}
	}
	return out
}

// Has reports whether p takes part in hook h.
func Has(p Plugin, h Hook) bool {
	if d, ok := p.(Declarer); ok {
		found := false
		for _, dh := range d.Hooks() {
			if dh == h {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return implements(p, h)
}

func implements(p Plugin, h Hook) bool {
	var ok bool
	switch h {
	case HookHandleReturn:
		_, ok = p.(ReturnHandler)
	case HookHandleKeyCommand:
		_, ok = p.(KeyCommandHandler)
	case HookHandleBeforeInput:
		_, ok = p.(BeforeInputHandler)
	case HookHandlePastedText:
		_, ok = p.(PastedTextHandler)
	case HookHandlePastedFiles:
		_, ok = p.(PastedFilesHandler)
	case HookHandleDroppedFiles:
		_, ok = p.(DroppedFilesHandler)
	case HookHandleDrop:
		_, ok = p.(DropHandler)
	case HookOnTab:
		_, ok = p.(TabListener)
	case HookOnEscape:
		_, ok = p.(EscapeListener)
	case HookOnUpArrow:
		_, ok = p.(UpArrowListener)
	case HookOnDownArrow:
		_, ok = p.(DownArrowListener)
	case HookOnLeftArrow:
		_, ok = p.(LeftArrowListener)
	case HookOnRightArrow:
		_, ok = p.(RightArrowListener)
	case HookOnFocus:
		_, ok = p.(FocusListener)
	case HookOnBlur:
		_, ok = p.(BlurListener)
	case HookBlockRendererFn:
		_, ok = p.(BlockRenderer)
	case HookKeyBindingFn:
		_, ok = p.(KeyBinder)
	case HookBlockStyleFn:
		_, ok = p.(BlockStyler)
	case HookCustomStyleMap:
		_, ok = p.(StyleMapProvider)
	case HookBlockRenderMap:
		_, ok = p.(RenderMapProvider)
	case HookOnChange:
		_, ok = p.(ChangeListener)
	case HookInitialize:
		_, ok = p.(Initializer)
	case HookWillUnmount:
		_, ok = p.(Unmounter)
	case HookDecorators:
		_, ok = p.(DecoratorProvider)
	}
	return ok
}

// collect returns the plugins taking part in h, as T, in order.
func collect[T any](plugins []Plugin, h Hook) []T {
	var out []T
	for _, p := range plugins {
		if !Has(p, h) {
			continue
		}
		if t, ok := p.(T); ok {
			out = append(out, t)
		}
	}
	return out
}
