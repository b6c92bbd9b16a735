package main

import (
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/dshills/mediumdraft/internal/config"
	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/editor"
	"github.com/dshills/mediumdraft/internal/log"
	"github.com/dshills/mediumdraft/internal/plugin"
	"github.com/dshills/mediumdraft/internal/plugin/lua"
	"github.com/dshills/mediumdraft/internal/script"
	"github.com/dshills/mediumdraft/internal/watch"
)

type replayOptions struct {
	doc    string
	script string
	lua    []string
	watch  bool
}

func newReplayCmd(root *rootOptions) *cobra.Command {
	o := &replayOptions{}
	cmd := &cobra.Command{
		Use:   "replay --script steps.yaml [--doc raw.json]",
		Short: "Replay an event script against a document and print the raw result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			if !o.watch {
				return replay(ctx, root.cfg, o, out)
			}
			return replayWatch(ctx, root.cfg, o, out)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&o.doc, "doc", "", "raw JSON document to start from (empty document when unset)")
	flags.StringVar(&o.script, "script", "", "YAML event script")
	flags.StringArrayVar(&o.lua, "lua", nil, "Lua plugin script or directory (repeatable)")
	flags.BoolVarP(&o.watch, "watch", "w", false, "replay again whenever an input file changes")
	_ = cmd.MarkFlagRequired("script")
	return cmd
}

// replay runs the script once and writes the resulting raw document to out.
func replay(ctx context.Context, cfg *config.Config, o *replayOptions, out io.Writer) (err error) {
	logger := log.Get()

	doc := document.Empty()
	if o.doc != "" {
		if doc, err = readDoc(o.doc); err != nil {
			return err
		}
	}
	s, err := script.Load(o.script)
	if err != nil {
		return err
	}

	ps, err := loadPlugins(ctx, cfg, luaPaths(cfg, o.lua))
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, ps.close())
	}()

	e, err := editor.New(doc,
		editor.WithPlugins(ps.all()...),
		editor.WithProps(plugin.Props{Placeholder: cfg.Editor.Placeholder}),
		editor.WithReadOnly(cfg.Editor.ReadOnly),
		editor.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	runErr := script.Run(ctx, s, e, script.WithWait(ps.wait), script.WithLogger(logger))
	ps.wait()
	if err := e.Close(); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}

	data, err := e.EditorState().MarshalRaw()
	if err != nil {
		return errors.Wrap(err, "failed to encode document")
	}
	_, err = fmt.Fprintf(out, "%s\n", data)
	return err
}

// replayWatch replays once and again after every change to the document,
// the script or a Lua plugin, until ctx is done. Failed replays are logged.
func replayWatch(ctx context.Context, cfg *config.Config, o *replayOptions, out io.Writer) error {
	logger := log.Get()

	files := []string{o.script}
	if o.doc != "" {
		files = append(files, o.doc)
	}
	scripts, err := lua.Discover(luaPaths(cfg, o.lua)...)
	if err != nil {
		return err
	}
	files = append(files, scripts...)

	w, err := watch.New(files, watch.WithLogger(logger))
	if err != nil {
		return err
	}

	once := func() {
		if err := replay(ctx, cfg, o, out); err != nil {
			logger.Error("replay failed", zap.Error(err))
		}
	}
	once()
	return w.Run(ctx, func(changed []string) {
		logger.Info("replaying", zap.Strings("changed", changed))
		once()
	})
}
