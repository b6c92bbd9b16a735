package document

import (
	"fmt"
	"strconv"
	"strings"
)

// Snapshot is an immutable document: ordered blocks, selection and entities.
type Snapshot struct {
	order           []Key
	blocks          *arena
	selection       Selection
	selectionBefore Selection
	entities        map[EntityKey]Entity
	lastEntity      int
	change          ChangeType
}

// New creates a snapshot from blocks in document order with the caret at
// the start of the first block. Blocks with duplicate keys replace earlier
// ones in place.
func New(blocks ...*Block) *Snapshot {
	s := &Snapshot{entities: map[EntityKey]Entity{}}
	if len(blocks) == 0 {
		blocks = []*Block{NewBlock(GenerateKey(nil), Unstyled, "", nil)}
	}
	e := s.Edit()
	for _, b := range blocks {
		e.Put(b)
	}
	e.Select(Caret(blocks[0].Key, 0))
	out := e.Commit(ChangeNone)
	out.selectionBefore = out.selection
	return out
}

// Empty creates a snapshot holding a single empty unstyled block.
func Empty() *Snapshot {
	return New()
}

// FromText creates a snapshot with one unstyled block per line of text.
func FromText(text string) *Snapshot {
	lines := strings.Split(text, "\n")
	blocks := make([]*Block, 0, len(lines))
	seen := make(map[Key]bool, len(lines))
	for _, line := range lines {
		k := GenerateKey(func(k Key) bool { return seen[k] })
		seen[k] = true
		blocks = append(blocks, NewBlock(k, Unstyled, line, nil))
	}
	return New(blocks...)
}

// Len returns the number of blocks.
func (s *Snapshot) Len() int {
	return len(s.order)
}

// Keys returns the block keys in document order.
func (s *Snapshot) Keys() []Key {
	out := make([]Key, len(s.order))
	copy(out, s.order)
	return out
}

// Blocks returns the blocks in document order.
func (s *Snapshot) Blocks() []*Block {
	out := make([]*Block, len(s.order))
	for i, k := range s.order {
		out[i] = s.blocks.get(k)
	}
	return out
}

// Block returns the block with key, or nil if it is not in the snapshot.
func (s *Snapshot) Block(key Key) *Block {
	return s.blocks.get(key)
}

// Has reports whether key is in the snapshot.
func (s *Snapshot) Has(key Key) bool {
	return s.blocks.get(key) != nil
}

// BlockAt returns the block at index i in document order, or nil.
func (s *Snapshot) BlockAt(i int) *Block {
	if i < 0 || i >= len(s.order) {
		return nil
	}
	return s.blocks.get(s.order[i])
}

// IndexOf returns the position of key in document order, or -1.
func (s *Snapshot) IndexOf(key Key) int {
	for i, k := range s.order {
		if k == key {
			return i
		}
	}
	return -1
}

// FirstBlock returns the first block.
func (s *Snapshot) FirstBlock() *Block {
	return s.BlockAt(0)
}

// LastBlock returns the last block.
func (s *Snapshot) LastBlock() *Block {
	return s.BlockAt(len(s.order) - 1)
}

// BlockBefore returns the block preceding key, or nil.
func (s *Snapshot) BlockBefore(key Key) *Block {
	i := s.IndexOf(key)
	if i <= 0 {
		return nil
	}
	return s.BlockAt(i - 1)
}

// BlockAfter returns the block following key, or nil.
func (s *Snapshot) BlockAfter(key Key) *Block {
	i := s.IndexOf(key)
	if i < 0 {
		return nil
	}
	return s.BlockAt(i + 1)
}

// Selection returns the current selection.
func (s *Snapshot) Selection() Selection {
	return s.selection
}

// SelectionBefore returns the selection prior to the change that produced s.
func (s *Snapshot) SelectionBefore() Selection {
	return s.selectionBefore
}

// LastChange returns the change type that produced s.
func (s *Snapshot) LastChange() ChangeType {
	return s.change
}

// Entity returns the entity stored under key.
func (s *Snapshot) Entity(key EntityKey) (Entity, bool) {
	e, ok := s.entities[key]
	return e, ok
}

// EntityCount returns the number of entities.
func (s *Snapshot) EntityCount() int {
	return len(s.entities)
}

// PlainText returns the text of all blocks joined by newlines.
func (s *Snapshot) PlainText() string {
	var sb strings.Builder
	for i, k := range s.order {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(s.blocks.get(k).Text)
	}
	return sb.String()
}

// GenerateKey returns a block key not used by s.
func (s *Snapshot) GenerateKey() Key {
	return GenerateKey(s.Has)
}

// WithSelection returns a snapshot with sel as the selection.
func (s *Snapshot) WithSelection(sel Selection) *Snapshot {
	return s.Edit().Select(sel).Commit(ChangeSelectionOnly)
}

// CreateEntity returns a snapshot holding a new entity and its key.
func (s *Snapshot) CreateEntity(t EntityType, m Mutability, data Data) (*Snapshot, EntityKey) {
	e := s.Edit()
	key := e.CreateEntity(t, m, data)
	next := e.Commit(ChangeApplyEntity)
	next.selectionBefore = s.selectionBefore
	return next, key
}

// Validate checks the snapshot invariants: unique keys, character metadata
// lengths, entity references and selection bounds.
func (s *Snapshot) Validate() error {
	seen := make(map[Key]bool, len(s.order))
	for _, k := range s.order {
		if seen[k] {
			return fmt.Errorf("%w: %q", ErrDuplicateKey, k)
		}
		seen[k] = true

		b := s.blocks.get(k)
		if b == nil {
			return fmt.Errorf("%w: %q", ErrBlockNotFound, k)
		}
		if b.Key != k {
			return fmt.Errorf("%w: block stored under %q has key %q", ErrDuplicateKey, k, b.Key)
		}
		if len(b.Chars) != b.Len() {
			return fmt.Errorf("%w: block %q has %d characters and %d metadata entries",
				ErrCharacterMetadata, k, b.Len(), len(b.Chars))
		}
		for _, c := range b.Chars {
			if c.Entity == "" {
				continue
			}
			if _, ok := s.entities[c.Entity]; !ok {
				return fmt.Errorf("%w: %q in block %q", ErrEntityNotFound, c.Entity, k)
			}
		}
	}
	return s.validateSelection(s.selection)
}

func (s *Snapshot) validateSelection(sel Selection) error {
	check := func(key Key, offset int) error {
		b := s.blocks.get(key)
		if b == nil {
			return fmt.Errorf("%w: block %q not found", ErrInvalidSelection, key)
		}
		if offset < 0 || offset > b.Len() {
			return fmt.Errorf("%w: offset %d outside block %q of length %d",
				ErrInvalidSelection, offset, key, b.Len())
		}
		return nil
	}
	if err := check(sel.AnchorKey, sel.AnchorOffset); err != nil {
		return err
	}
	return check(sel.FocusKey, sel.FocusOffset)
}

// Builder accumulates changes to a snapshot. Commit produces the new
// snapshot; the base snapshot is never modified.
type Builder struct {
	base       *Snapshot
	order      []Key
	ownOrder   bool
	changes    map[Key]*Block
	selection  Selection
	entities   map[EntityKey]Entity
	ownEnt     bool
	lastEntity int
}

// Edit starts a set of changes based on s.
func (s *Snapshot) Edit() *Builder {
	return &Builder{
		base:       s,
		order:      s.order,
		changes:    make(map[Key]*Block),
		selection:  s.selection,
		entities:   s.entities,
		lastEntity: s.lastEntity,
	}
}

// Block returns the block with key, including pending changes.
func (b *Builder) Block(key Key) *Block {
	if blk, ok := b.changes[key]; ok {
		return blk
	}
	return b.base.blocks.get(key)
}

// Has reports whether key exists, including pending changes.
func (b *Builder) Has(key Key) bool {
	return b.Block(key) != nil
}

// GenerateKey returns a block key unused by the base and pending changes.
func (b *Builder) GenerateKey() Key {
	return GenerateKey(b.Has)
}

func (b *Builder) mutableOrder() {
	if b.ownOrder {
		return
	}
	order := make([]Key, len(b.order), len(b.order)+1)
	copy(order, b.order)
	b.order = order
	b.ownOrder = true
}

func (b *Builder) indexOf(key Key) int {
	for i, k := range b.order {
		if k == key {
			return i
		}
	}
	return -1
}

// Put replaces the block with the same key, or appends it when the key is new.
func (b *Builder) Put(blk *Block) *Builder {
	if !b.Has(blk.Key) {
		b.mutableOrder()
		b.order = append(b.order, blk.Key)
	}
	b.changes[blk.Key] = blk
	return b
}

// InsertAfter places blk immediately after pivot.
func (b *Builder) InsertAfter(pivot Key, blk *Block) error {
	return b.insert(pivot, blk, 1)
}

// InsertBefore places blk immediately before pivot.
func (b *Builder) InsertBefore(pivot Key, blk *Block) error {
	return b.insert(pivot, blk, 0)
}

func (b *Builder) insert(pivot Key, blk *Block, shift int) error {
	if b.Has(blk.Key) {
		return fmt.Errorf("%w: %q", ErrDuplicateKey, blk.Key)
	}
	i := b.indexOf(pivot)
	if i < 0 {
		return fmt.Errorf("%w: pivot %q", ErrBlockNotFound, pivot)
	}
	b.mutableOrder()
	i += shift
	b.order = append(b.order, "")
	copy(b.order[i+1:], b.order[i:])
	b.order[i] = blk.Key
	b.changes[blk.Key] = blk
	return nil
}

// Remove deletes the block with key. Missing keys are ignored.
func (b *Builder) Remove(key Key) *Builder {
	i := b.indexOf(key)
	if i < 0 {
		return b
	}
	b.mutableOrder()
	b.order = append(b.order[:i], b.order[i+1:]...)
	b.changes[key] = nil
	return b
}

// Select sets the selection of the resulting snapshot.
func (b *Builder) Select(sel Selection) *Builder {
	b.selection = sel
	return b
}

// CreateEntity adds an entity and returns its key.
func (b *Builder) CreateEntity(t EntityType, m Mutability, data Data) EntityKey {
	if !b.ownEnt {
		ents := make(map[EntityKey]Entity, len(b.entities)+1)
		for k, v := range b.entities {
			ents[k] = v
		}
		b.entities = ents
		b.ownEnt = true
	}
	b.lastEntity++
	key := EntityKey(strconv.Itoa(b.lastEntity))
	b.entities[key] = Entity{Type: t, Mutability: m, Data: data.Clone()}
	return key
}

// Commit returns the snapshot holding all accumulated changes.
func (b *Builder) Commit(change ChangeType) *Snapshot {
	return &Snapshot{
		order:           b.order,
		blocks:          b.base.blocks.layer(b.changes, b.order),
		selection:       b.selection,
		selectionBefore: b.base.selection,
		entities:        b.entities,
		lastEntity:      b.lastEntity,
		change:          change,
	}
}
