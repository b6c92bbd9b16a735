package plugin

import (
	"github.com/gdamore/tcell/v2"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/upload"
)

// HandleValue is the result of a handler hook.
type HandleValue string

// Handle values.
const (
	Handled    HandleValue = "handled"
	NotHandled HandleValue = "not-handled"
)

// DragType tells where dragged content came from.
type DragType string

// Drag types.
const (
	DragInternal DragType = "internal"
	DragExternal DragType = "external"
)

// DataTransfer is the payload of a drop.
type DataTransfer struct {
	Text  string
	HTML  string
	URLs  []string
	Files []upload.File
}

// Plugin is the base interface every plugin implements.
type Plugin interface {
	// Name returns a unique identifier for this plugin.
	Name() string
}

// Handler hooks.
type (
	// ReturnHandler handles the return key.
	ReturnHandler interface {
		HandleReturn(ev *tcell.EventKey, s *document.Snapshot, f Functions) HandleValue
	}

	// KeyCommandHandler handles a named editor command.
	KeyCommandHandler interface {
		HandleKeyCommand(cmd string, s *document.Snapshot, f Functions) HandleValue
	}

	// BeforeInputHandler handles characters about to be inserted.
	BeforeInputHandler interface {
		HandleBeforeInput(chars string, s *document.Snapshot, f Functions) HandleValue
	}

	// PastedTextHandler handles pasted text.
	PastedTextHandler interface {
		HandlePastedText(text, html string, s *document.Snapshot, f Functions) HandleValue
	}

	// PastedFilesHandler handles pasted files.
	PastedFilesHandler interface {
		HandlePastedFiles(files []upload.File, f Functions) HandleValue
	}

	// DroppedFilesHandler handles files dropped at sel.
	DroppedFilesHandler interface {
		HandleDroppedFiles(sel document.Selection, files []upload.File, f Functions) HandleValue
	}

	// DropHandler handles a drop of non-file content at sel.
	DropHandler interface {
		HandleDrop(sel document.Selection, dt DataTransfer, drag DragType, f Functions) HandleValue
	}
)

// Notification hooks. Returning true stops later listeners.
type (
	TabListener interface {
		OnTab(ev *tcell.EventKey, f Functions) bool
	}
	EscapeListener interface {
		OnEscape(ev *tcell.EventKey, f Functions) bool
	}
	UpArrowListener interface {
		OnUpArrow(ev *tcell.EventKey, f Functions) bool
	}
	DownArrowListener interface {
		OnDownArrow(ev *tcell.EventKey, f Functions) bool
	}
	LeftArrowListener interface {
		OnLeftArrow(ev *tcell.EventKey, f Functions) bool
	}
	RightArrowListener interface {
		OnRightArrow(ev *tcell.EventKey, f Functions) bool
	}
	FocusListener interface {
		OnFocus(f Functions) bool
	}
	BlurListener interface {
		OnBlur(f Functions) bool
	}
)

// Lookup hooks. An empty result defers to later plugins.
type (
	// BlockRenderer returns the renderer for blk, or nil.
	BlockRenderer interface {
		BlockRendererFn(blk *document.Block, f Functions) *RenderSpec
	}

	// KeyBinder maps a key event to a command name, or "".
	KeyBinder interface {
		KeyBindingFn(ev *tcell.EventKey, f Functions) string
	}

	// BlockStyler returns the class names for blk, or "".
	BlockStyler interface {
		BlockStyleFn(blk *document.Block) string
	}
)

// Merge hooks.
type (
	StyleMapProvider interface {
		CustomStyleMap() StyleMap
	}
	RenderMapProvider interface {
		BlockRenderMap() RenderMap
	}
)

// ChangeListener sees every snapshot before it is committed and returns
// the snapshot to pass on. Returning nil keeps the input. Listeners run
// under the commit lock: calling SetEditorState or UpdateEditorState from
// OnChange deadlocks.
type ChangeListener interface {
	OnChange(s *document.Snapshot, f Functions) *document.Snapshot
}

// Lifecycle hooks.
type (
	Initializer interface {
		Initialize(f Functions)
	}
	Unmounter interface {
		WillUnmount(f Functions)
	}
)

// DecoratorProvider contributes inline decorators.
type DecoratorProvider interface {
	Decorators() []DecoratorSpec
}

// Surface is the focusable editing surface.
type Surface interface {
	Focus()
	Blur()
}

// Props are the host options visible to plugins.
type Props struct {
	Placeholder string

	// Prompt asks the user for a value. ok is false when the user cancels.
	// Nil when the host cannot prompt.
	Prompt func(message, initial string) (value string, ok bool)

	// ProcessURL rewrites URLs before they are applied as links.
	ProcessURL func(url string) string

	Extra map[string]any
}

// Functions is the capability handle given to every hook.
type Functions interface {
	// EditorState returns the current snapshot.
	EditorState() *document.Snapshot

	// SetEditorState replaces the current snapshot.
	SetEditorState(s *document.Snapshot)

	// UpdateEditorState applies fn to the current snapshot and commits the
	// result atomically. Deferred work uses it to avoid overwriting edits
	// made in the meantime.
	UpdateEditorState(fn func(*document.Snapshot) *document.Snapshot)

	// DeferUpdate is UpdateEditorState for work finishing on another
	// goroutine. While an event is dispatched the update waits for the
	// event to return, so a handler committing from the snapshot it was
	// given cannot overwrite the result.
	DeferUpdate(fn func(*document.Snapshot) *document.Snapshot)

	Plugins() []Plugin
	Props() *Props
	ReadOnly() bool
	SetReadOnly(readOnly bool)

	// Surface returns the editing surface, or nil.
	Surface() Surface
}
