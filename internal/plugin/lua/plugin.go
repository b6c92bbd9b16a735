package lua

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/plugin"
)

// Hooks lists the hooks a script can define, in the order they are
// detected.
var Hooks = []plugin.Hook{
	plugin.HookHandleReturn,
	plugin.HookHandleKeyCommand,
	plugin.HookHandleBeforeInput,
	plugin.HookHandlePastedText,
	plugin.HookOnTab,
	plugin.HookOnEscape,
	plugin.HookOnUpArrow,
	plugin.HookOnDownArrow,
	plugin.HookOnFocus,
	plugin.HookOnBlur,
	plugin.HookKeyBindingFn,
	plugin.HookBlockStyleFn,
	plugin.HookOnChange,
	plugin.HookInitialize,
	plugin.HookWillUnmount,
}

// Plugin is an editor plugin backed by a Lua script.
type Plugin struct {
	name    string
	state   *State
	hooks   []plugin.Hook
	logger  *zap.Logger
	timeout time.Duration

	// callMu serializes hook calls; sess is the call in progress.
	callMu sync.Mutex
	sess   *session
}

var _ plugin.Declarer = (*Plugin)(nil)

// Option configures a Plugin.
type Option func(*Plugin)

// WithLogger sets the logger for hook errors and draft.log.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Plugin) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTimeout sets the execution timeout of each hook call.
func WithTimeout(d time.Duration) Option {
	return func(p *Plugin) {
		p.timeout = d
	}
}

// Load runs the script at path and returns the plugin it defines. The
// plugin is named after the file unless the script sets the global name.
func Load(path string, opts ...Option) (*Plugin, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	p := newPlugin(name, opts)
	if err := p.state.DoFile(path); err != nil {
		return nil, multierr.Append(errors.Wrapf(err, "load lua plugin %s", path), p.Close())
	}
	p.detect()
	return p, nil
}

// FromString is Load for a script held in memory.
func FromString(name, code string, opts ...Option) (*Plugin, error) {
	p := newPlugin(name, opts)
	if err := p.state.DoString(code); err != nil {
		return nil, multierr.Append(errors.Wrapf(err, "load lua plugin %s", name), p.Close())
	}
	p.detect()
	return p, nil
}

func newPlugin(name string, opts []Option) *Plugin {
	p := &Plugin{
		name:    name,
		logger:  zap.NewNop(),
		timeout: DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.state = NewState(map[string]lua.LGFunction{ModuleName: p.openModule}, WithExecutionTimeout(p.timeout))
	return p
}

// detect reads the plugin name and the defined hook functions.
func (p *Plugin) detect() {
	if name, ok := p.state.GetGlobal("name").(lua.LString); ok && name != "" {
		p.name = string(name)
	}
	for _, h := range Hooks {
		if p.state.HasFunction(string(h)) {
			p.hooks = append(p.hooks, h)
		}
	}
}

// Name implements plugin.Plugin.
func (p *Plugin) Name() string { return p.name }

// Hooks implements plugin.Declarer.
func (p *Plugin) Hooks() []plugin.Hook {
	return append([]plugin.Hook(nil), p.hooks...)
}

// Close releases the Lua state.
func (p *Plugin) Close() error {
	return p.state.Close()
}

// call runs the hook function with args built on the plugin's state and
// returns its results and the working snapshot, which starts as s.
func (p *Plugin) call(h plugin.Hook, s *document.Snapshot, args func(L *lua.LState) []lua.LValue) ([]lua.LValue, *document.Snapshot) {
	p.callMu.Lock()
	defer p.callMu.Unlock()

	sess := &session{snap: s}
	p.sess = sess
	defer func() { p.sess = nil }()

	var in []lua.LValue
	if args != nil {
		in = args(p.state.L)
	}
	res, err := p.state.Call(string(h), in...)
	if err != nil {
		p.logger.Warn("lua hook failed", zap.String("plugin", p.name), zap.String("hook", string(h)), zap.Error(err))
		return nil, s
	}
	return res, sess.snap
}

// commit stores the working snapshot of a finished call when draft
// functions changed it.
func commit(f plugin.Functions, before, after *document.Snapshot) {
	if f != nil && after != nil && after != before {
		f.SetEditorState(after)
	}
}

func current(f plugin.Functions) *document.Snapshot {
	if f == nil {
		return nil
	}
	return f.EditorState()
}

func (p *Plugin) handle(h plugin.Hook, s *document.Snapshot, f plugin.Functions, args func(L *lua.LState) []lua.LValue) plugin.HandleValue {
	res, next := p.call(h, s, args)
	commit(f, s, next)
	if truthy(res) {
		return plugin.Handled
	}
	return plugin.NotHandled
}

func (p *Plugin) notify(h plugin.Hook, ev *tcell.EventKey, f plugin.Functions) bool {
	s := current(f)
	res, next := p.call(h, s, func(L *lua.LState) []lua.LValue {
		if ev == nil {
			return nil
		}
		return []lua.LValue{eventTable(L, ev)}
	})
	commit(f, s, next)
	return truthy(res)
}

func str(v string) func(L *lua.LState) []lua.LValue {
	return func(*lua.LState) []lua.LValue { return []lua.LValue{lua.LString(v)} }
}

// HandleReturn implements plugin.ReturnHandler.
func (p *Plugin) HandleReturn(ev *tcell.EventKey, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	return p.handle(plugin.HookHandleReturn, s, f, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{eventTable(L, ev)}
	})
}

// HandleKeyCommand implements plugin.KeyCommandHandler.
func (p *Plugin) HandleKeyCommand(cmd string, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	return p.handle(plugin.HookHandleKeyCommand, s, f, str(cmd))
}

// HandleBeforeInput implements plugin.BeforeInputHandler.
func (p *Plugin) HandleBeforeInput(chars string, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	return p.handle(plugin.HookHandleBeforeInput, s, f, str(chars))
}

// HandlePastedText implements plugin.PastedTextHandler.
func (p *Plugin) HandlePastedText(text, html string, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	return p.handle(plugin.HookHandlePastedText, s, f, func(*lua.LState) []lua.LValue {
		return []lua.LValue{lua.LString(text), lua.LString(html)}
	})
}

// OnTab implements plugin.TabListener.
func (p *Plugin) OnTab(ev *tcell.EventKey, f plugin.Functions) bool {
	return p.notify(plugin.HookOnTab, ev, f)
}

// OnEscape implements plugin.EscapeListener.
func (p *Plugin) OnEscape(ev *tcell.EventKey, f plugin.Functions) bool {
	return p.notify(plugin.HookOnEscape, ev, f)
}

// OnUpArrow implements plugin.UpArrowListener.
func (p *Plugin) OnUpArrow(ev *tcell.EventKey, f plugin.Functions) bool {
	return p.notify(plugin.HookOnUpArrow, ev, f)
}

// OnDownArrow implements plugin.DownArrowListener.
func (p *Plugin) OnDownArrow(ev *tcell.EventKey, f plugin.Functions) bool {
	return p.notify(plugin.HookOnDownArrow, ev, f)
}

// OnFocus implements plugin.FocusListener.
func (p *Plugin) OnFocus(f plugin.Functions) bool {
	return p.notify(plugin.HookOnFocus, nil, f)
}

// OnBlur implements plugin.BlurListener.
func (p *Plugin) OnBlur(f plugin.Functions) bool {
	return p.notify(plugin.HookOnBlur, nil, f)
}

// KeyBindingFn implements plugin.KeyBinder. Edits made while resolving a
// binding are discarded.
func (p *Plugin) KeyBindingFn(ev *tcell.EventKey, f plugin.Functions) string {
	res, _ := p.call(plugin.HookKeyBindingFn, current(f), func(L *lua.LState) []lua.LValue {
		return []lua.LValue{eventTable(L, ev)}
	})
	return firstString(res)
}

// BlockStyleFn implements plugin.BlockStyler. The draft module has no
// document here.
func (p *Plugin) BlockStyleFn(blk *document.Block) string {
	res, _ := p.call(plugin.HookBlockStyleFn, nil, func(L *lua.LState) []lua.LValue {
		return []lua.LValue{blockTable(L, blk)}
	})
	return firstString(res)
}

// OnChange implements plugin.ChangeListener. The script edits s through
// the draft module; the result is returned instead of committed.
func (p *Plugin) OnChange(s *document.Snapshot, _ plugin.Functions) *document.Snapshot {
	_, next := p.call(plugin.HookOnChange, s, nil)
	return next
}

// Initialize implements plugin.Initializer.
func (p *Plugin) Initialize(f plugin.Functions) {
	s := current(f)
	_, next := p.call(plugin.HookInitialize, s, nil)
	commit(f, s, next)
}

// WillUnmount implements plugin.Unmounter.
func (p *Plugin) WillUnmount(f plugin.Functions) {
	s := current(f)
	_, next := p.call(plugin.HookWillUnmount, s, nil)
	commit(f, s, next)
}
