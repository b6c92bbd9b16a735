package mutator

import (
	"strings"

	"github.com/dshills/mediumdraft/internal/document"
)

// LinkInfo describes the link entity next to the caret.
type LinkInfo struct {
	EntityKey document.EntityKey
	BlockKey  document.Key
	URL       string
}

// IsCursorBetweenLink reports the link entity bound to the character
// immediately before a collapsed caret in a non-atomic block, or nil.
func IsCursorBetweenLink(s *document.Snapshot) *LinkInfo {
	sel := s.Selection()
	blk := CurrentBlock(s)
	if blk == nil || blk.Type.IsAtomic() || !sel.IsCollapsed() {
		return nil
	}
	if blk.Len() == 0 || sel.AnchorOffset <= 0 {
		return nil
	}

	ek := blk.EntityAt(sel.AnchorOffset - 1)
	if ek == "" {
		return nil
	}
	ent, ok := s.Entity(ek)
	if !ok || ent.Type != document.LinkEntity {
		return nil
	}
	return &LinkInfo{EntityKey: ek, BlockKey: blk.Key, URL: ent.URL()}
}

// ApplyLink binds a new mutable link entity for url to the selected text.
// A collapsed selection or an empty url is a no-op.
func ApplyLink(s *document.Snapshot, url string) *document.Snapshot {
	sel := s.Selection()
	if sel.IsCollapsed() || url == "" {
		return s
	}

	e := s.Edit()
	ek := e.CreateEntity(document.LinkEntity, document.Mutable, document.Data{"url": url})
	for _, blk := range selectedBlocks(s) {
		start, end := 0, blk.Len()
		if blk.Key == sel.StartKey() {
			start = clamp(sel.StartOffset(), blk.Len())
		}
		if blk.Key == sel.EndKey() {
			end = clamp(sel.EndOffset(), blk.Len())
		}
		if start >= end {
			continue
		}
		chars := append([]document.CharMeta(nil), blk.Chars...)
		for i := start; i < end; i++ {
			chars[i].Entity = ek
		}
		e.Put(blk.WithChars(chars))
	}
	return e.Commit(document.ChangeApplyEntity)
}

// RemoveLink unbinds entity from every character of the block with key.
// The entity itself stays in the entity map. Missing blocks are a no-op.
func RemoveLink(s *document.Snapshot, key document.Key, entity document.EntityKey) *document.Snapshot {
	blk := s.Block(key)
	if blk == nil || entity == "" {
		return s
	}
	chars := append([]document.CharMeta(nil), blk.Chars...)
	changed := false
	for i := range chars {
		if chars[i].Entity == entity {
			chars[i].Entity = ""
			changed = true
		}
	}
	if !changed {
		return s
	}
	return s.Edit().Put(blk.WithChars(chars)).Commit(document.ChangeApplyEntity)
}

// NormalizeURL prefixes bare addresses: values containing @ become mailto:
// links, anything else without an http or mailto: prefix gets http://.
func NormalizeURL(url string) string {
	if url == "" || strings.HasPrefix(url, "http") || strings.HasPrefix(url, "mailto:") {
		return url
	}
	if strings.Contains(url, "@") {
		return "mailto:" + url
	}
	return "http://" + url
}
