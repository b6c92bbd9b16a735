package editor

import (
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/plugin"
)

// Editor is the host of a document and its plugins. It implements
// plugin.Functions.
type Editor struct {
	// commitMu serializes commits; mu guards the fields below it.
	commitMu sync.Mutex

	// evMu guards the event depth and the updates deferred until it drops
	// to zero. idle is signalled when a drain ends.
	evMu     sync.Mutex
	idle     sync.Cond
	depth    int
	draining bool
	deferred []func(*document.Snapshot) *document.Snapshot

	mu       sync.RWMutex
	state    *document.Snapshot
	readOnly bool
	focused  bool
	closed   bool

	registry *plugin.Registry
	cache    plugin.Cache
	initial  []plugin.Plugin
	props    plugin.Props
	surface  plugin.Surface
	onChange func(*document.Snapshot)
	logger   *zap.Logger
}

var _ plugin.Functions = (*Editor)(nil)

// New creates an editor over state and runs the initialize hooks of its
// plugins. A nil state starts an empty document.
func New(state *document.Snapshot, opts ...Option) (*Editor, error) {
	if state == nil {
		state = document.Empty()
	}
	e := &Editor{
		state:  state,
		logger: zap.NewNop(),
	}
	e.idle.L = &e.evMu
	for _, opt := range opts {
		opt(e)
	}

	registry, err := plugin.NewRegistry(e.initial...)
	if err != nil {
		return nil, err
	}
	e.registry = registry
	e.initial = nil
	if e.surface == nil {
		e.surface = surface{e}
	}

	e.aggregator().Initialize(e)
	return e, nil
}

func (e *Editor) aggregator() *plugin.Aggregator {
	return e.cache.Get(e.registry)
}

// EditorState implements plugin.Functions.
func (e *Editor) EditorState() *document.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// SetEditorState implements plugin.Functions. The snapshot passes through
// the change listeners before it is committed.
func (e *Editor) SetEditorState(s *document.Snapshot) {
	if s == nil {
		return
	}
	e.commitMu.Lock()
	s = e.commit(s)
	e.commitMu.Unlock()
	e.notify(s)
}

// UpdateEditorState implements plugin.Functions. fn must not call back
// into the editor.
func (e *Editor) UpdateEditorState(fn func(*document.Snapshot) *document.Snapshot) {
	e.commitMu.Lock()
	var committed *document.Snapshot
	cur := e.EditorState()
	if next := fn(cur); next != nil && next != cur {
		committed = e.commit(next)
	}
	e.commitMu.Unlock()
	e.notify(committed)
}

// DeferUpdate implements plugin.Functions. Outside of an event the update
// commits before DeferUpdate returns; during one it is queued and
// committed when the outermost event returns.
func (e *Editor) DeferUpdate(fn func(*document.Snapshot) *document.Snapshot) {
	if fn == nil {
		return
	}
	e.evMu.Lock()
	defer e.evMu.Unlock()
	e.deferred = append(e.deferred, fn)
	if e.depth == 0 && !e.draining {
		e.drainLocked()
	}
}

// beginEvent marks the start of an event. It waits for a running drain so
// handlers never read a snapshot a deferred update is about to replace.
func (e *Editor) beginEvent() {
	e.evMu.Lock()
	for e.draining {
		e.idle.Wait()
	}
	e.depth++
	e.evMu.Unlock()
}

func (e *Editor) endEvent() {
	e.evMu.Lock()
	defer e.evMu.Unlock()
	e.depth--
	if e.depth == 0 && !e.draining {
		e.drainLocked()
	}
}

// drainLocked commits the deferred updates in order. evMu must be held; it
// is released while each update commits.
func (e *Editor) drainLocked() {
	e.draining = true
	for len(e.deferred) > 0 {
		pending := e.deferred
		e.deferred = nil
		e.evMu.Unlock()
		for _, fn := range pending {
			e.UpdateEditorState(fn)
		}
		e.evMu.Lock()
	}
	e.draining = false
	e.idle.Broadcast()
}

// commit runs the change pipeline and stores the result. It returns the
// committed snapshot, or nil when the result was rejected. commitMu must
// be held.
func (e *Editor) commit(s *document.Snapshot) *document.Snapshot {
	s = e.aggregator().OnChange(s, e)
	if err := s.Validate(); err != nil {
		e.logger.Warn("rejected invalid snapshot", zap.Error(err))
		return nil
	}

	e.mu.Lock()
	e.state = s
	e.mu.Unlock()

	e.logger.Debug("committed snapshot",
		zap.String("change", string(s.LastChange())),
		zap.Int("blocks", s.Len()),
	)
	return s
}

// notify hands a committed snapshot to the host callback. It runs after
// commitMu is released so the callback may commit again.
func (e *Editor) notify(s *document.Snapshot) {
	if s == nil {
		return
	}
	e.mu.RLock()
	onChange := e.onChange
	e.mu.RUnlock()
	if onChange != nil {
		onChange(s)
	}
}

// Plugins implements plugin.Functions.
func (e *Editor) Plugins() []plugin.Plugin {
	return e.registry.Plugins()
}

// Props implements plugin.Functions.
func (e *Editor) Props() *plugin.Props {
	return &e.props
}

// ReadOnly implements plugin.Functions.
func (e *Editor) ReadOnly() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.readOnly
}

// SetReadOnly implements plugin.Functions.
func (e *Editor) SetReadOnly(readOnly bool) {
	e.mu.Lock()
	e.readOnly = readOnly
	e.mu.Unlock()
}

// Surface implements plugin.Functions.
func (e *Editor) Surface() plugin.Surface {
	return e.surface
}

// Focused reports whether the built-in surface has focus.
func (e *Editor) Focused() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.focused
}

// SetPlugins replaces the plugin list and initializes the new plugins.
func (e *Editor) SetPlugins(plugins ...plugin.Plugin) error {
	if err := e.registry.Set(plugins...); err != nil {
		return err
	}
	e.aggregator().Initialize(e)
	return nil
}

// Registry returns the plugin registry. Call Touch on it after changing a
// registered plugin in place.
func (e *Editor) Registry() *plugin.Registry {
	return e.registry
}

// Close runs the unmount hooks. Later calls return ErrClosed.
func (e *Editor) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return ErrClosed
	}
	e.closed = true
	e.mu.Unlock()

	e.aggregator().WillUnmount(e)
	return nil
}

// surface is the built-in surface. It tracks focus and notifies the
// focus listeners.
type surface struct {
	e *Editor
}

func (s surface) Focus() {
	s.e.mu.Lock()
	s.e.focused = true
	s.e.mu.Unlock()
	s.e.aggregator().OnFocus(s.e)
}

func (s surface) Blur() {
	s.e.mu.Lock()
	s.e.focused = false
	s.e.mu.Unlock()
	s.e.aggregator().OnBlur(s.e)
}
