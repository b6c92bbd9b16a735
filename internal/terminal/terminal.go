// Package terminal runs an editor on a tcell screen.
//
// The view draws the render plan of the editor, routes key events to it
// and moves the caret for arrows no plugin handled. It also provides the
// Prompt used by plugins that ask for input, such as the link plugin.
package terminal

import (
	"context"
	"sync"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/editor"
	"github.com/dshills/mediumdraft/internal/plugin"
)

// Option configures a View.
type Option func(*View)

// WithSave sets the function Ctrl+S calls with the current document.
func WithSave(save func(*document.Snapshot) error) Option {
	return func(v *View) {
		v.save = save
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(v *View) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// View is an editor surface on a terminal screen.
type View struct {
	screen tcell.Screen
	save   func(*document.Snapshot) error
	logger *zap.Logger

	mu     sync.Mutex
	status string

	pasting bool
	paste   []rune
}

// New creates a view drawing on screen. The screen must be initialized.
func New(screen tcell.Screen, opts ...Option) *View {
	v := &View{
		screen: screen,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Refresh schedules a redraw. It is meant for editor.WithOnChange so
// commits from background work, such as finished uploads, show up.
func (v *View) Refresh(*document.Snapshot) {
	_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func (v *View) setStatus(msg string) {
	v.mu.Lock()
	v.status = msg
	v.mu.Unlock()
}

func (v *View) statusText() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.status
}

// Run draws e and handles events until Ctrl+Q, ctx is done or the screen
// is finalized.
func (v *View) Run(ctx context.Context, e *editor.Editor) error {
	stop := context.AfterFunc(ctx, func() {
		_ = v.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	e.Focus()
	for {
		v.draw(e)
		ev := v.screen.PollEvent()
		if err := ctx.Err(); err != nil {
			return err
		}

		switch ev := ev.(type) {
		case nil:
			return nil
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventPaste:
			v.handlePaste(e, ev)
		case *tcell.EventKey:
			if v.pasting {
				v.collect(ev)
				continue
			}
			if v.handleKey(e, ev) {
				return nil
			}
		}
	}
}

// handleKey routes ev and reports whether the view should quit.
func (v *View) handleKey(e *editor.Editor, ev *tcell.EventKey) bool {
	if r, ok := plugin.CtrlRune(ev); ok && ev.Modifiers()&(tcell.ModAlt|tcell.ModShift) == 0 {
		switch r {
		case 'q':
			return true
		case 's':
			v.write(e.EditorState())
			return false
		}
	}

	extend := ev.Modifiers()&tcell.ModShift != 0
	switch ev.Key() {
	case tcell.KeyLeft:
		if !e.OnLeftArrow(ev) {
			e.SetEditorState(move(e.EditorState(), left, extend))
		}
	case tcell.KeyRight:
		if !e.OnRightArrow(ev) {
			e.SetEditorState(move(e.EditorState(), right, extend))
		}
	case tcell.KeyUp:
		if !e.OnUpArrow(ev) {
			e.SetEditorState(move(e.EditorState(), up, extend))
		}
	case tcell.KeyDown:
		if !e.OnDownArrow(ev) {
			e.SetEditorState(move(e.EditorState(), down, extend))
		}
	default:
		e.KeyPress(ev)
	}
	return false
}

// Bracketed paste arrives as key events between a start and an end marker.
func (v *View) handlePaste(e *editor.Editor, ev *tcell.EventPaste) {
	if ev.Start() {
		v.pasting = true
		v.paste = v.paste[:0]
		return
	}
	v.pasting = false
	if len(v.paste) > 0 {
		e.HandlePastedText(string(v.paste), "")
	}
}

func (v *View) collect(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyRune:
		v.paste = append(v.paste, ev.Rune())
	case tcell.KeyEnter:
		v.paste = append(v.paste, '\n')
	case tcell.KeyTab:
		v.paste = append(v.paste, '\t')
	}
}

func (v *View) write(s *document.Snapshot) {
	if v.save == nil {
		v.setStatus("nowhere to save")
		return
	}
	if err := v.save(s); err != nil {
		v.logger.Error("save failed", zap.Error(err))
		v.setStatus("save failed: " + err.Error())
		return
	}
	v.setStatus("saved")
}

// Prompt asks for a value on the bottom line. It returns false when the
// user cancels with escape or the screen goes away.
func (v *View) Prompt(message, initial string) (string, bool) {
	buf := []rune(initial)
	for {
		v.drawPrompt(message, buf)
		switch ev := v.screen.PollEvent().(type) {
		case nil:
			return "", false
		case *tcell.EventResize:
			v.screen.Sync()
		case *tcell.EventKey:
			switch ev.Key() {
			case tcell.KeyEnter:
				return string(buf), true
			case tcell.KeyEscape, tcell.KeyCtrlC:
				return "", false
			case tcell.KeyBackspace, tcell.KeyBackspace2:
				if len(buf) > 0 {
					buf = buf[:len(buf)-1]
				}
			case tcell.KeyRune:
				buf = append(buf, ev.Rune())
			}
		}
	}
}
