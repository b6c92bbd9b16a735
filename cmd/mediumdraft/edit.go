package main

import (
	"context"
	"os"

	"github.com/gdamore/tcell/v2"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/dshills/mediumdraft/internal/config"
	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/editor"
	"github.com/dshills/mediumdraft/internal/log"
	"github.com/dshills/mediumdraft/internal/plugin"
	"github.com/dshills/mediumdraft/internal/terminal"
)

type editOptions struct {
	doc string
	lua []string
}

func newEditCmd(root *rootOptions) *cobra.Command {
	o := &editOptions{}
	cmd := &cobra.Command{
		Use:   "edit --doc raw.json",
		Short: "Edit a raw document in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			screen, err := tcell.NewScreen()
			if err != nil {
				return errors.Wrap(err, "failed to create screen")
			}
			if err := screen.Init(); err != nil {
				return errors.Wrap(err, "failed to initialize screen")
			}
			defer screen.Fini()
			screen.EnablePaste()
			return edit(cmd.Context(), root.cfg, o, screen)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.doc, "doc", "", "raw JSON document, created on save when missing")
	flags.StringArrayVar(&o.lua, "lua", nil, "Lua plugin script or directory (repeatable)")
	_ = cmd.MarkFlagRequired("doc")
	return cmd
}

// edit runs an editor for the document on screen until the user quits.
func edit(ctx context.Context, cfg *config.Config, o *editOptions, screen tcell.Screen) (err error) {
	doc := document.Empty()
	if _, statErr := os.Stat(o.doc); statErr == nil {
		if doc, err = readDoc(o.doc); err != nil {
			return err
		}
	}

	ps, err := loadPlugins(ctx, cfg, luaPaths(cfg, o.lua))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, ps.close())
	}()

	view := terminal.New(screen,
		terminal.WithSave(func(s *document.Snapshot) error { return saveDoc(o.doc, s) }),
		terminal.WithLogger(log.Get()))
	e, err := editor.New(doc,
		editor.WithPlugins(ps.all()...),
		editor.WithProps(plugin.Props{Placeholder: cfg.Editor.Placeholder, Prompt: view.Prompt}),
		editor.WithReadOnly(cfg.Editor.ReadOnly),
		editor.WithOnChange(view.Refresh),
		editor.WithLogger(log.Get()),
	)
	if err != nil {
		return err
	}

	runErr := view.Run(ctx, e)
	ps.wait()
	return multierr.Append(runErr, e.Close())
}

func saveDoc(path string, s *document.Snapshot) error {
	data, err := s.MarshalRaw()
	if err != nil {
		return errors.Wrap(err, "failed to encode document")
	}
	return errors.Wrap(os.WriteFile(path, append(data, '\n'), 0o644), "failed to write document")
}
