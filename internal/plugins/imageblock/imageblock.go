// Package imageblock turns dropped and pasted image files into image
// blocks and uploads them in the background.
//
// A dropped image becomes a placeholder block holding a local src and
// uploading set to true. When the upload finishes the block is looked up
// again by key: on success its data is merged with the uploaded resource
// and uploading turns false; on failure the block reverts to an unstyled
// block without image data. Either update is skipped when the block has
// been deleted in the meantime.
package imageblock

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/mutator"
	"github.com/dshills/mediumdraft/internal/plugin"
	"github.com/dshills/mediumdraft/internal/upload"
)

// Component draws image blocks.
const Component = "image"

// Plugin is the image block plugin.
type Plugin struct {
	uploader upload.Uploader
	ctx      context.Context
	logger   *zap.Logger

	mu    sync.Mutex
	tasks []*upload.Task
}

// Option configures the plugin.
type Option func(*Plugin)

// WithUploader sets the uploader used for dropped images. Without one the
// placeholder keeps its local src.
func WithUploader(u upload.Uploader) Option {
	return func(p *Plugin) {
		p.uploader = u
	}
}

// WithContext sets the context uploads run under.
func WithContext(ctx context.Context) Option {
	return func(p *Plugin) {
		p.ctx = ctx
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Plugin) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates the plugin.
func New(opts ...Option) *Plugin {
	p := &Plugin{
		ctx:    context.Background(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements plugin.Plugin.
func (*Plugin) Name() string { return "image-block" }

func isImage(blk *document.Block) bool {
	return blk != nil && blk.Type == document.Image
}

// BlockRendererFn implements plugin.BlockRenderer.
func (*Plugin) BlockRendererFn(blk *document.Block, _ plugin.Functions) *plugin.RenderSpec {
	if !isImage(blk) {
		return nil
	}
	return &plugin.RenderSpec{
		Component: Component,
		Editable:  true,
		Props: map[string]any{
			"src":       blk.Data.String("src"),
			"uploading": blk.Data.Bool("uploading"),
		},
	}
}

// BlockStyleFn implements plugin.BlockStyler.
func (*Plugin) BlockStyleFn(blk *document.Block) string {
	if !isImage(blk) {
		return ""
	}
	const base = plugin.BaseBlockClass
	cls := base + " " + base + "--image"
	if blk.Data.Bool("uploading") {
		cls += " " + base + "--image--uploading"
	}
	return cls
}

// HandlePastedText implements plugin.PastedTextHandler. Text pasted into
// an image block becomes its caption.
func (*Plugin) HandlePastedText(text, _ string, s *document.Snapshot, f plugin.Functions) plugin.HandleValue {
	if !isImage(mutator.CurrentBlock(s)) {
		return plugin.NotHandled
	}
	f.SetEditorState(mutator.ReplaceText(s, text))
	return plugin.Handled
}

// HandlePastedFiles implements plugin.PastedFilesHandler.
func (p *Plugin) HandlePastedFiles(files []upload.File, f plugin.Functions) plugin.HandleValue {
	return p.HandleDroppedFiles(f.EditorState().Selection(), files, f)
}

// HandleDroppedFiles implements plugin.DroppedFilesHandler. Only the first
// image is used. An empty text block is replaced in place; otherwise the
// image goes into a new block after the drop target.
func (p *Plugin) HandleDroppedFiles(sel document.Selection, files []upload.File, f plugin.Functions) plugin.HandleValue {
	if !sel.IsCollapsed() || len(files) == 0 {
		return plugin.NotHandled
	}
	images := upload.Images(files)
	if len(images) == 0 {
		return plugin.NotHandled
	}
	file := images[0]

	s := f.EditorState()
	target := s.Block(sel.StartKey())
	if target == nil {
		return plugin.NotHandled
	}
	data := document.Data{
		"src":       localSource(file),
		"uploading": p.uploader != nil,
	}

	var (
		next *document.Snapshot
		key  document.Key
	)
	if target.Len() == 0 && !target.Type.IsAtomic() {
		key = target.Key
		next = mutator.AddNewBlock(mutator.ForceSelection(s, sel), document.Image, data)
	} else {
		var err error
		key = s.GenerateKey()
		next, err = mutator.AddNewBlockAt(s, target.Key, document.Image, data, key)
		if err != nil {
			p.logger.Warn("failed to insert image block", zap.Error(err))
			return plugin.NotHandled
		}
	}
	f.SetEditorState(mutator.ForceSelection(next, document.Caret(key, 0)))

	if p.uploader != nil {
		p.track(upload.Start(p.ctx, p.uploader, []upload.File{file}, func(res []upload.Resource, err error) {
			p.finish(f, key, res, err)
		}))
	}
	return plugin.Handled
}

func (p *Plugin) finish(f plugin.Functions, key document.Key, res []upload.Resource, err error) {
	if err != nil {
		p.logger.Warn("image upload failed", zap.String("block", string(key)), zap.Error(err))
		f.DeferUpdate(func(cur *document.Snapshot) *document.Snapshot {
			return Revert(cur, key)
		})
		return
	}
	data := document.Data(res[0].BlockData()).With("uploading", false)
	f.DeferUpdate(func(cur *document.Snapshot) *document.Snapshot {
		return mutator.SetBlockData(cur, key, data)
	})
}

// Revert turns the block with key back into an unstyled block without
// image data. A missing block is a no-op.
func Revert(s *document.Snapshot, key document.Key) *document.Snapshot {
	blk := s.Block(key)
	if blk == nil {
		return s
	}
	s = mutator.UpdateDataOfBlock(s, blk, document.Data{})
	return mutator.ResetBlockWithTypeAt(s, key, document.Unstyled, nil)
}

func (p *Plugin) track(t *upload.Task) {
	p.mu.Lock()
	p.tasks = append(p.tasks, t)
	p.mu.Unlock()
}

// Wait blocks until every upload started so far has finished and its
// result has been committed, or queued behind an event being dispatched.
func (p *Plugin) Wait() {
	p.mu.Lock()
	tasks := p.tasks
	p.tasks = nil
	p.mu.Unlock()

	for _, t := range tasks {
		_, _ = t.Wait()
	}
}

// localSource is the src shown while a file uploads.
func localSource(f upload.File) string {
	name := f.Name
	if name == "" {
		name = "image" + f.Extension()
	}
	return "blob:" + url.PathEscape(strings.TrimSpace(name))
}
