package plugins

import (
	"context"

	"go.uber.org/zap"

	"github.com/dshills/mediumdraft/internal/plugin"
	"github.com/dshills/mediumdraft/internal/plugins/blockrender"
	"github.com/dshills/mediumdraft/internal/plugins/codeblock"
	"github.com/dshills/mediumdraft/internal/plugins/imageblock"
	"github.com/dshills/mediumdraft/internal/plugins/inlinestyle"
	"github.com/dshills/mediumdraft/internal/plugins/link"
	"github.com/dshills/mediumdraft/internal/plugins/shortcut"
	"github.com/dshills/mediumdraft/internal/plugins/todo"
	"github.com/dshills/mediumdraft/internal/upload"
)

// Options configures the standard plugin set.
type Options struct {
	// Context bounds image uploads.
	Context  context.Context
	Uploader upload.Uploader
	Logger   *zap.Logger

	TabSize        int
	IgnoreCommands []string
}

// Defaults returns the standard plugins. Code blocks come before the
// shortcuts so return and tab inside code are handled as code.
func Defaults(o Options) []plugin.Plugin {
	var code []codeblock.Option
	if o.TabSize != 0 {
		code = append(code, codeblock.WithTabSize(o.TabSize))
	}
	if o.IgnoreCommands != nil {
		code = append(code, codeblock.WithIgnoreCommands(o.IgnoreCommands...))
	}

	image := []imageblock.Option{imageblock.WithLogger(o.Logger)}
	if o.Uploader != nil {
		image = append(image, imageblock.WithUploader(o.Uploader))
	}
	if o.Context != nil {
		image = append(image, imageblock.WithContext(o.Context))
	}

	return []plugin.Plugin{
		blockrender.New(),
		inlinestyle.New(),
		codeblock.New(code...),
		imageblock.New(image...),
		todo.New(),
		shortcut.New(),
		link.New(),
	}
}

// Wait blocks until the background work of every plugin that has any,
// such as image uploads, has finished.
func Wait(plugins []plugin.Plugin) {
	for _, p := range plugins {
		if w, ok := p.(interface{ Wait() }); ok {
			w.Wait()
		}
	}
}
