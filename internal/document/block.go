package document

import (
	"sort"
	"unicode/utf8"
)

// Key identifies a block. Keys are unique within a snapshot and stable
// across snapshots unless the block is replaced.
type Key string

// EntityKey identifies an entity within a snapshot lineage.
type EntityKey string

// StyleSet is an immutable, sorted set of inline styles.
type StyleSet []InlineStyle

// Has reports whether style is in the set.
func (s StyleSet) Has(style InlineStyle) bool {
	i := sort.Search(len(s), func(i int) bool { return s[i] >= style })
	return i < len(s) && s[i] == style
}

// With returns a set that also contains style.
func (s StyleSet) With(style InlineStyle) StyleSet {
	if s.Has(style) {
		return s
	}
	out := make(StyleSet, 0, len(s)+1)
	out = append(out, s...)
	out = append(out, style)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Without returns a set that does not contain style.
func (s StyleSet) Without(style InlineStyle) StyleSet {
	if !s.Has(style) {
		return s
	}
	out := make(StyleSet, 0, len(s)-1)
	for _, st := range s {
		if st != style {
			out = append(out, st)
		}
	}
	return out
}

// CharMeta annotates a single character with its styles and entity.
type CharMeta struct {
	Styles StyleSet
	Entity EntityKey
}

// Block is a single structural unit of the document.
//
// Blocks are values: a *Block reachable from a Snapshot must never be
// modified. The With* methods return modified copies.
type Block struct {
	Key   Key
	Type  BlockType
	Text  string
	Chars []CharMeta
	Data  Data
	Depth int
}

// NewBlock creates a block with plain character metadata for text.
func NewBlock(key Key, t BlockType, text string, data Data) *Block {
	return &Block{
		Key:   key,
		Type:  t,
		Text:  text,
		Chars: make([]CharMeta, utf8.RuneCountInString(text)),
		Data:  data.Clone(),
	}
}

// Len returns the text length in runes.
func (b *Block) Len() int {
	return utf8.RuneCountInString(b.Text)
}

// Runes returns the text as runes.
func (b *Block) Runes() []rune {
	return []rune(b.Text)
}

// EntityAt returns the entity bound to the character at offset, or "".
func (b *Block) EntityAt(offset int) EntityKey {
	if offset < 0 || offset >= len(b.Chars) {
		return ""
	}
	return b.Chars[offset].Entity
}

// StylesAt returns the inline styles of the character at offset.
func (b *Block) StylesAt(offset int) StyleSet {
	if offset < 0 || offset >= len(b.Chars) {
		return nil
	}
	return b.Chars[offset].Styles
}

// EntityRanges calls fn for every maximal run of characters bound to the
// same non-empty entity.
func (b *Block) EntityRanges(fn func(entity EntityKey, start, end int)) {
	start := -1
	var current EntityKey
	for i, c := range b.Chars {
		if c.Entity == current {
			continue
		}
		if current != "" {
			fn(current, start, i)
		}
		current = c.Entity
		start = i
	}
	if current != "" {
		fn(current, start, len(b.Chars))
	}
}

func (b *Block) clone() *Block {
	nb := *b
	return &nb
}

// WithKey returns a copy of b with a different key.
func (b *Block) WithKey(key Key) *Block {
	nb := b.clone()
	nb.Key = key
	return nb
}

// WithType returns a copy of b with a different type.
func (b *Block) WithType(t BlockType) *Block {
	nb := b.clone()
	nb.Type = t
	return nb
}

// WithData returns a copy of b whose data is replaced by data.
func (b *Block) WithData(data Data) *Block {
	nb := b.clone()
	nb.Data = data.Clone()
	return nb
}

// WithDepth returns a copy of b with a different depth.
func (b *Block) WithDepth(depth int) *Block {
	nb := b.clone()
	nb.Depth = depth
	return nb
}

// WithText returns a copy of b with new text and character metadata.
// When chars is nil, plain metadata is generated.
func (b *Block) WithText(text string, chars []CharMeta) *Block {
	nb := b.clone()
	nb.Text = text
	if chars == nil {
		chars = make([]CharMeta, utf8.RuneCountInString(text))
	}
	nb.Chars = chars
	return nb
}

// WithChars returns a copy of b with replaced character metadata.
func (b *Block) WithChars(chars []CharMeta) *Block {
	nb := b.clone()
	nb.Chars = chars
	return nb
}
