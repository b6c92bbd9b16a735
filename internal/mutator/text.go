package mutator

import "github.com/dshills/mediumdraft/internal/document"

// RemoveRange deletes the selected text, joining the start and end blocks
// when the selection spans several blocks. The caret ends at the selection
// start. A collapsed selection is a no-op.
func RemoveRange(s *document.Snapshot) *document.Snapshot {
	sel := s.Selection()
	if sel.IsCollapsed() {
		return s
	}
	startKey, endKey := sel.StartKey(), sel.EndKey()
	startIdx, endIdx := s.IndexOf(startKey), s.IndexOf(endKey)
	if startIdx < 0 || endIdx < 0 || startIdx > endIdx {
		return s
	}
	start, end := s.BlockAt(startIdx), s.BlockAt(endIdx)
	so := clamp(sel.StartOffset(), start.Len())
	eo := clamp(sel.EndOffset(), end.Len())
	if startIdx == endIdx && so > eo {
		so, eo = eo, so
	}

	startRunes, endRunes := start.Runes(), end.Runes()
	text := string(startRunes[:so]) + string(endRunes[eo:])
	chars := make([]document.CharMeta, 0, so+len(endRunes)-eo)
	chars = append(chars, start.Chars[:so]...)
	chars = append(chars, end.Chars[eo:]...)

	e := s.Edit().Put(start.WithText(text, chars))
	for i := startIdx + 1; i <= endIdx; i++ {
		e.Remove(s.BlockAt(i).Key)
	}
	caret := document.Caret(startKey, so)
	caret.HasFocus = sel.HasFocus
	return e.Select(caret).Commit(document.ChangeRemoveRange)
}

// InsertText inserts text at the caret, replacing the selected range first
// when the selection is expanded. Inserted characters take the inline
// styles of the character before the caret and no entity.
func InsertText(s *document.Snapshot, text string) *document.Snapshot {
	if text == "" {
		return s
	}
	if !s.Selection().IsCollapsed() {
		s = RemoveRange(s)
	}
	sel := s.Selection()
	blk := s.Block(sel.StartKey())
	if blk == nil {
		return s
	}

	off := clamp(sel.StartOffset(), blk.Len())
	runes := blk.Runes()
	ins := []rune(text)
	styles := blk.StylesAt(off - 1)

	newRunes := make([]rune, 0, len(runes)+len(ins))
	newRunes = append(newRunes, runes[:off]...)
	newRunes = append(newRunes, ins...)
	newRunes = append(newRunes, runes[off:]...)

	chars := make([]document.CharMeta, 0, len(newRunes))
	chars = append(chars, blk.Chars[:off]...)
	for range ins {
		chars = append(chars, document.CharMeta{Styles: styles})
	}
	chars = append(chars, blk.Chars[off:]...)

	caret := document.Caret(blk.Key, off+len(ins))
	caret.HasFocus = sel.HasFocus
	return s.Edit().
		Put(blk.WithText(string(newRunes), chars)).
		Select(caret).
		Commit(document.ChangeInsertCharacters)
}

// ReplaceText is InsertText for an expanded selection; with a collapsed
// selection it inserts.
func ReplaceText(s *document.Snapshot, text string) *document.Snapshot {
	if text == "" {
		return RemoveRange(s)
	}
	return InsertText(s, text)
}

// InsertSoftNewline inserts a line break inside the current block.
func InsertSoftNewline(s *document.Snapshot) *document.Snapshot {
	return InsertText(s, "\n")
}

// SplitBlock splits the block at the caret into two blocks of the same type
// and depth. The text after the caret moves into a new block that starts
// with the default data for its type; the caret moves to its start.
func SplitBlock(s *document.Snapshot) *document.Snapshot {
	if !s.Selection().IsCollapsed() {
		s = RemoveRange(s)
	}
	sel := s.Selection()
	blk := s.Block(sel.StartKey())
	if blk == nil {
		return s
	}

	off := clamp(sel.StartOffset(), blk.Len())
	runes := blk.Runes()
	top := blk.WithText(string(runes[:off]), append([]document.CharMeta(nil), blk.Chars[:off]...))

	e := s.Edit().Put(top)
	key := e.GenerateKey()
	below := document.NewBlock(key, blk.Type, "", document.DefaultBlockData(blk.Type, nil)).
		WithText(string(runes[off:]), append([]document.CharMeta(nil), blk.Chars[off:]...)).
		WithDepth(blk.Depth)
	if err := e.InsertAfter(blk.Key, below); err != nil {
		return s
	}

	caret := document.Caret(key, 0)
	caret.HasFocus = sel.HasFocus
	return e.Select(caret).Commit(document.ChangeSplitBlock)
}

// ToggleInlineStyle adds style to every selected character, or removes it
// when every selected character already has it. A collapsed selection is a
// no-op.
func ToggleInlineStyle(s *document.Snapshot, style document.InlineStyle) *document.Snapshot {
	sel := s.Selection()
	if sel.IsCollapsed() {
		return s
	}

	type span struct {
		blk        *document.Block
		start, end int
	}
	var spans []span
	all := true
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
		spans = append(spans, span{blk, start, end})
		for i := start; i < end; i++ {
			if !blk.Chars[i].Styles.Has(style) {
				all = false
			}
		}
	}
	if len(spans) == 0 {
		return s
	}

	e := s.Edit()
	for _, sp := range spans {
		chars := append([]document.CharMeta(nil), sp.blk.Chars...)
		for i := sp.start; i < sp.end; i++ {
			if all {
				chars[i].Styles = chars[i].Styles.Without(style)
			} else {
				chars[i].Styles = chars[i].Styles.With(style)
			}
		}
		e.Put(sp.blk.WithChars(chars))
	}
	return e.Commit(document.ChangeInlineStyle)
}
