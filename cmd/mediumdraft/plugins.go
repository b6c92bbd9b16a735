package main

import (
	"context"

	"github.com/pkg/errors"

	"github.com/dshills/mediumdraft/internal/config"
	"github.com/dshills/mediumdraft/internal/log"
	"github.com/dshills/mediumdraft/internal/plugin"
	"github.com/dshills/mediumdraft/internal/plugin/lua"
	"github.com/dshills/mediumdraft/internal/plugins"
	"github.com/dshills/mediumdraft/internal/upload"
)

// pluginSet holds the built-in plugins and the Lua plugins of one session.
type pluginSet struct {
	builtin  []plugin.Plugin
	scripted []*lua.Plugin
}

func loadPlugins(ctx context.Context, cfg *config.Config, luaPaths []string) (*pluginSet, error) {
	logger := log.Get()

	var uploader upload.Uploader
	if cfg.Image.UploadDir != "" {
		uploader = upload.NewDirUploader(cfg.Image.UploadDir,
			upload.WithConcurrency(cfg.Image.Concurrency),
			upload.WithLogger(logger))
	}
	builtin := plugins.Defaults(plugins.Options{
		Context:        ctx,
		Uploader:       uploader,
		Logger:         logger,
		TabSize:        cfg.Code.TabSize,
		IgnoreCommands: cfg.Code.IgnoreCommands,
	})

	scripted, err := lua.LoadAll(luaPaths, lua.WithLogger(logger), lua.WithTimeout(cfg.Plugins.Timeout()))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load lua plugins")
	}
	return &pluginSet{builtin: builtin, scripted: scripted}, nil
}

// all returns every plugin, scripted ones ahead of the built-in ones.
func (ps *pluginSet) all() []plugin.Plugin {
	out := make([]plugin.Plugin, 0, len(ps.scripted)+len(ps.builtin))
	for _, p := range ps.scripted {
		out = append(out, p)
	}
	return append(out, ps.builtin...)
}

func (ps *pluginSet) wait() {
	plugins.Wait(ps.builtin)
}

func (ps *pluginSet) close() error {
	return lua.CloseAll(ps.scripted)
}

func luaPaths(cfg *config.Config, extra []string) []string {
	paths := append([]string{}, cfg.Plugins.Lua...)
	return append(paths, extra...)
}
