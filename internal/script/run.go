package script

import (
	"context"
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/editor"
	"github.com/dshills/mediumdraft/internal/plugin"
	"github.com/dshills/mediumdraft/internal/plugins/todo"
	"github.com/dshills/mediumdraft/internal/upload"
)

// RunOption configures Run.
type RunOption func(*runner)

// WithWait sets the function wait steps call, typically one waiting for
// plugin uploads.
func WithWait(wait func()) RunOption {
	return func(r *runner) {
		r.wait = wait
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) RunOption {
	return func(r *runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

type runner struct {
	s      *Script
	e      *editor.Editor
	wait   func()
	logger *zap.Logger
}

// Run replays the steps of s against e in order. It stops at the first
// failing step or when ctx is done.
func Run(ctx context.Context, s *Script, e *editor.Editor, opts ...RunOption) error {
	r := &runner{
		s:      s,
		e:      e,
		wait:   func() {},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}

	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		action, err := step.action()
		if err == nil {
			err = r.step(action, step)
		}
		if err != nil {
			return &StepError{Index: i, Action: action, Err: err}
		}
	}
	return nil
}

func (r *runner) step(action string, step Step) error {
	r.logger.Debug("replaying step", zap.String("action", action))

	switch action {
	case "select":
		return r.selectRange(*step.Select)
	case "type":
		for _, ch := range *step.Type {
			r.e.HandleBeforeInput(string(ch))
		}
	case "key":
		ev, err := ParseKey(*step.Key)
		if err != nil {
			return err
		}
		r.e.KeyPress(ev)
	case "command":
		r.report(action, r.e.HandleKeyCommand(*step.Command))
	case "return":
		mod, err := parseModifiers(*step.Return)
		if err != nil {
			return err
		}
		r.e.HandleReturn(tcell.NewEventKey(tcell.KeyEnter, 0, mod))
	case "paste":
		return r.paste(*step.Paste)
	case "drop":
		return r.drop(*step.Drop)
	case "tab":
		r.e.OnTab(tcell.NewEventKey(tcell.KeyTab, 0, tcell.ModNone))
	case "escape":
		r.e.OnEscape(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
	case "check":
		return r.check(document.Key(*step.Check))
	case "wait":
		r.wait()
	}
	return nil
}

func (r *runner) report(action string, v plugin.HandleValue) {
	if v != plugin.Handled {
		r.logger.Debug("step not handled by a plugin", zap.String("action", action))
	}
}

func (r *runner) selectRange(sel Selection) error {
	s := r.e.EditorState()
	focus := sel.FocusKey
	if focus == "" {
		focus = sel.Key
		sel.FocusOffset = sel.Offset
	}
	for _, key := range []string{sel.Key, focus} {
		if !s.Has(document.Key(key)) {
			return fmt.Errorf("%w: %q", document.ErrBlockNotFound, key)
		}
	}
	r.e.SetEditorState(s.WithSelection(document.Range(document.Key(sel.Key), sel.Offset, document.Key(focus), sel.FocusOffset)))
	return nil
}

func (r *runner) files(paths []string) ([]upload.File, error) {
	files := make([]upload.File, 0, len(paths))
	for _, p := range paths {
		f, err := upload.ReadFile(r.s.path(p))
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func (r *runner) paste(p Paste) error {
	if len(p.Files) > 0 {
		files, err := r.files(p.Files)
		if err != nil {
			return err
		}
		r.report("paste", r.e.HandlePastedFiles(files))
		return nil
	}
	r.e.HandlePastedText(p.Text, p.HTML)
	return nil
}

func (r *runner) drop(d Drop) error {
	sel := r.e.EditorState().Selection()
	if len(d.Files) > 0 {
		files, err := r.files(d.Files)
		if err != nil {
			return err
		}
		r.report("drop", r.e.HandleDroppedFiles(sel, files))
		return nil
	}
	r.e.HandleDrop(sel, plugin.DataTransfer{Text: d.Text}, plugin.DragExternal)
	return nil
}

func (r *runner) check(key document.Key) error {
	blk := r.e.EditorState().Block(key)
	if blk == nil {
		return fmt.Errorf("%w: %q", document.ErrBlockNotFound, key)
	}
	if blk.Type != document.Todo {
		return fmt.Errorf("%w: %q is %s", ErrNotTodo, key, blk.Type)
	}
	todo.Toggle(r.e, key)
	return nil
}
