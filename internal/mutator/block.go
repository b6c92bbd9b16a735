package mutator

import (
	"fmt"

	"github.com/dshills/mediumdraft/internal/document"
)

// CurrentBlock returns the block holding the start of the selection, or nil.
func CurrentBlock(s *document.Snapshot) *document.Block {
	return s.Block(s.Selection().StartKey())
}

// AddNewBlock retypes the empty block under a collapsed selection to
// newType, seeding its data from the defaults for that type.
//
// The input is returned unchanged when the selection is expanded, the
// block is not empty or the block already has newType; non-empty blocks
// must be split instead of silently retyped.
func AddNewBlock(s *document.Snapshot, newType document.BlockType, initial document.Data) *document.Snapshot {
	sel := s.Selection()
	if !sel.IsCollapsed() {
		return s
	}
	blk := CurrentBlock(s)
	if blk == nil || blk.Len() != 0 || blk.Type == newType {
		return s
	}

	next := blk.WithType(newType).WithData(document.DefaultBlockData(newType, initial))
	return s.Edit().Put(next).Select(sel).Commit(document.ChangeBlockType)
}

// AddNewBlockAt inserts an empty block of newType immediately after pivot
// and places the caret at its start. When key is empty a fresh key is
// generated. A missing pivot or an already used key is an error.
func AddNewBlockAt(s *document.Snapshot, pivot document.Key, newType document.BlockType, initial document.Data, key document.Key) (*document.Snapshot, error) {
	if !s.Has(pivot) {
		return nil, fmt.Errorf("%w: the pivot key %q is not present in the block map", document.ErrBlockNotFound, pivot)
	}

	e := s.Edit()
	if key == "" {
		key = e.GenerateKey()
	}
	blk := document.NewBlock(key, newType, "", document.DefaultBlockData(newType, initial))
	if err := e.InsertAfter(pivot, blk); err != nil {
		return nil, err
	}

	sel := document.Caret(key, 0)
	sel.HasFocus = s.Selection().HasFocus
	return e.Select(sel).Commit(document.ChangeSplitBlock), nil
}

// ResetBlockWithType changes the type of the block at the selection start,
// deep-merging overrides and the default data for newType into its data,
// and moves both selection offsets to 0.
func ResetBlockWithType(s *document.Snapshot, newType document.BlockType, overrides document.Data) *document.Snapshot {
	sel := s.Selection()
	blk := s.Block(sel.StartKey())
	if blk == nil {
		return s
	}
	next := resetBlock(blk, newType, overrides)
	return s.Edit().Put(next).Select(sel.WithOffsets(0, 0)).Commit(document.ChangeBlockType)
}

// ResetBlockWithTypeAt is ResetBlockWithType addressed by key. The
// selection is left where it is. It is a no-op when key is not present,
// which makes it safe to call from deferred callbacks.
func ResetBlockWithTypeAt(s *document.Snapshot, key document.Key, newType document.BlockType, overrides document.Data) *document.Snapshot {
	blk := s.Block(key)
	if blk == nil {
		return s
	}
	return s.Edit().Put(resetBlock(blk, newType, overrides)).Commit(document.ChangeBlockType)
}

func resetBlock(blk *document.Block, newType document.BlockType, overrides document.Data) *document.Block {
	data := blk.Data.Merge(overrides).Merge(document.DefaultBlockData(newType, nil))
	return blk.WithType(newType).WithData(data)
}

// UpdateDataOfBlock replaces the data of blk with data. The type, text and
// selection are untouched. The current version of the block is looked up by
// key, so a stale blk value only contributes its key.
func UpdateDataOfBlock(s *document.Snapshot, blk *document.Block, data document.Data) *document.Snapshot {
	if blk == nil {
		return s
	}
	cur := s.Block(blk.Key)
	if cur == nil {
		return s
	}
	return s.Edit().Put(cur.WithData(data)).Commit(document.ChangeBlockData)
}

// SetBlockData merges data into the block with key. The selection is
// untouched and a missing key is a no-op.
func SetBlockData(s *document.Snapshot, key document.Key, data document.Data) *document.Snapshot {
	cur := s.Block(key)
	if cur == nil {
		return s
	}
	return s.Edit().Put(cur.WithData(cur.Data.Merge(data))).Commit(document.ChangeBlockData)
}

// SwapBlocks exchanges the content of a and b while both keys keep their
// positions: after the swap the key of a holds the content of b and the
// other way round. The selection moves to the key of b, which now holds the
// content that was in a, with offsets clamped to that content.
func SwapBlocks(s *document.Snapshot, a, b *document.Block) *document.Snapshot {
	if a == nil || b == nil || a.Key == b.Key {
		return s
	}
	from, to := s.Block(a.Key), s.Block(b.Key)
	if from == nil || to == nil {
		return s
	}

	sel := s.Selection().WithKeys(to.Key, to.Key)
	sel = sel.WithOffsets(clamp(sel.AnchorOffset, from.Len()), clamp(sel.FocusOffset, from.Len()))
	sel.Backward = sel.AnchorOffset > sel.FocusOffset

	return s.Edit().
		Put(to.WithKey(from.Key)).
		Put(from.WithKey(to.Key)).
		Select(sel).
		Commit(document.ChangeMoveBlock)
}

// RemoveBlock deletes the block with key. A selection inside the removed
// block moves to the end of the previous block, or the start of the next
// one. Removing the only block leaves an empty unstyled block in its place.
func RemoveBlock(s *document.Snapshot, key document.Key) *document.Snapshot {
	blk := s.Block(key)
	if blk == nil {
		return s
	}
	if s.Len() == 1 {
		empty := document.NewBlock(key, document.Unstyled, "", nil)
		return s.Edit().Put(empty).Select(document.Caret(key, 0)).Commit(document.ChangeRemoveBlock)
	}

	e := s.Edit().Remove(key)
	sel := s.Selection()
	if sel.AnchorKey == key || sel.FocusKey == key {
		if prev := s.BlockBefore(key); prev != nil {
			sel = document.Caret(prev.Key, prev.Len())
		} else {
			sel = document.Caret(s.BlockAfter(key).Key, 0)
		}
		e.Select(sel)
	}
	return e.Commit(document.ChangeRemoveBlock)
}

// ForceSelection returns s with sel as the selection. Offsets are clamped
// to the referenced blocks; a selection naming a missing block is ignored.
func ForceSelection(s *document.Snapshot, sel document.Selection) *document.Snapshot {
	anchor, focus := s.Block(sel.AnchorKey), s.Block(sel.FocusKey)
	if anchor == nil || focus == nil {
		return s
	}
	sel.AnchorOffset = clamp(sel.AnchorOffset, anchor.Len())
	sel.FocusOffset = clamp(sel.FocusOffset, focus.Len())
	return s.WithSelection(sel)
}

// ToggleBlockType sets every non-atomic block touched by the selection to
// t, or back to unstyled when the block at the selection start already has
// type t.
func ToggleBlockType(s *document.Snapshot, t document.BlockType) *document.Snapshot {
	start := CurrentBlock(s)
	if start == nil || start.Type.IsAtomic() {
		return s
	}
	target := t
	if start.Type == t {
		target = document.Unstyled
	}

	e := s.Edit()
	for _, blk := range selectedBlocks(s) {
		if blk.Type.IsAtomic() {
			continue
		}
		data := blk.Data.Merge(document.DefaultBlockData(target, nil))
		e.Put(blk.WithType(target).WithData(data))
	}
	return e.Commit(document.ChangeBlockType)
}

// selectedBlocks returns the blocks from the selection start to its end.
func selectedBlocks(s *document.Snapshot) []*document.Block {
	sel := s.Selection()
	from, to := s.IndexOf(sel.StartKey()), s.IndexOf(sel.EndKey())
	if from < 0 || to < 0 {
		return nil
	}
	if from > to {
		from, to = to, from
	}
	out := make([]*document.Block, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, s.BlockAt(i))
	}
	return out
}

func clamp(v, limit int) int {
	if v < 0 {
		return 0
	}
	if v > limit {
		return limit
	}
	return v
}
