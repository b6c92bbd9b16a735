package terminal

import "github.com/dshills/mediumdraft/internal/document"

type direction int

const (
	left direction = iota
	right
	up
	down
)

// move returns s with the focus moved one step in d. Without extend the
// selection collapses to the new position; a range collapses to its edge
// on left and right.
func move(s *document.Snapshot, d direction, extend bool) *document.Snapshot {
	sel := s.Selection()
	key, off := sel.FocusKey, sel.FocusOffset
	blk := s.Block(key)
	if blk == nil {
		return s
	}

	switch {
	case d == left && !extend && !sel.IsCollapsed():
		key, off = sel.StartKey(), sel.StartOffset()
	case d == right && !extend && !sel.IsCollapsed():
		key, off = sel.EndKey(), sel.EndOffset()
	case d == left:
		if off > 0 {
			off--
		} else if prev := s.BlockBefore(key); prev != nil {
			key, off = prev.Key, prev.Len()
		}
	case d == right:
		if off < blk.Len() {
			off++
		} else if next := s.BlockAfter(key); next != nil {
			key, off = next.Key, 0
		}
	case d == up:
		if prev := s.BlockBefore(key); prev != nil {
			key, off = prev.Key, min(off, prev.Len())
		} else {
			off = 0
		}
	case d == down:
		if next := s.BlockAfter(key); next != nil {
			key, off = next.Key, min(off, next.Len())
		} else {
			off = blk.Len()
		}
	}

	next := document.Caret(key, off)
	if extend {
		next = document.Range(sel.AnchorKey, sel.AnchorOffset, key, off)
		next.Backward = before(s, key, off, sel.AnchorKey, sel.AnchorOffset)
	}
	next.HasFocus = sel.HasFocus
	return s.WithSelection(next)
}

func before(s *document.Snapshot, k1 document.Key, o1 int, k2 document.Key, o2 int) bool {
	i1, i2 := s.IndexOf(k1), s.IndexOf(k2)
	if i1 != i2 {
		return i1 < i2
	}
	return o1 < o2
}
