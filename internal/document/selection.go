package document

// Selection is an anchor/focus pair of block positions.
// Backward is true when the focus precedes the anchor in document order.
type Selection struct {
	AnchorKey    Key
	AnchorOffset int
	FocusKey     Key
	FocusOffset  int
	Backward     bool
	HasFocus     bool
}

// Caret returns a collapsed selection at offset within key.
func Caret(key Key, offset int) Selection {
	return Selection{
		AnchorKey:    key,
		AnchorOffset: offset,
		FocusKey:     key,
		FocusOffset:  offset,
	}
}

// Range returns a forward selection from (startKey, startOffset) to
// (endKey, endOffset).
func Range(startKey Key, startOffset int, endKey Key, endOffset int) Selection {
	return Selection{
		AnchorKey:    startKey,
		AnchorOffset: startOffset,
		FocusKey:     endKey,
		FocusOffset:  endOffset,
	}
}

// IsCollapsed reports whether anchor and focus are the same position.
func (s Selection) IsCollapsed() bool {
	return s.AnchorKey == s.FocusKey && s.AnchorOffset == s.FocusOffset
}

// StartKey returns the key of the earlier end of the selection.
func (s Selection) StartKey() Key {
	if s.Backward {
		return s.FocusKey
	}
	return s.AnchorKey
}

// StartOffset returns the offset of the earlier end of the selection.
func (s Selection) StartOffset() int {
	if s.Backward {
		return s.FocusOffset
	}
	return s.AnchorOffset
}

// EndKey returns the key of the later end of the selection.
func (s Selection) EndKey() Key {
	if s.Backward {
		return s.AnchorKey
	}
	return s.FocusKey
}

// EndOffset returns the offset of the later end of the selection.
func (s Selection) EndOffset() int {
	if s.Backward {
		return s.AnchorOffset
	}
	return s.FocusOffset
}

// Collapse returns a caret at the selection start.
func (s Selection) Collapse() Selection {
	c := Caret(s.StartKey(), s.StartOffset())
	c.HasFocus = s.HasFocus
	return c
}

// WithOffsets returns s with both offsets replaced.
func (s Selection) WithOffsets(anchor, focus int) Selection {
	s.AnchorOffset = anchor
	s.FocusOffset = focus
	return s
}

// WithKeys returns s with both keys replaced.
func (s Selection) WithKeys(anchor, focus Key) Selection {
	s.AnchorKey = anchor
	s.FocusKey = focus
	return s
}
