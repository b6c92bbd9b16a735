package document

import "strings"

// BlockType tags the structural role of a block.
type BlockType string

// Block types.
const (
	Unstyled          BlockType = "unstyled"
	Paragraph         BlockType = Unstyled
	HeaderOne         BlockType = "header-one"
	HeaderTwo         BlockType = "header-two"
	HeaderThree       BlockType = "header-three"
	HeaderFour        BlockType = "header-four"
	HeaderFive        BlockType = "header-five"
	HeaderSix         BlockType = "header-six"
	OrderedListItem   BlockType = "ordered-list-item"
	UnorderedListItem BlockType = "unordered-list-item"
	Todo              BlockType = "todo"
	Blockquote        BlockType = "blockquote"
	BlockquoteCaption BlockType = "block-quote-caption"
	Caption           BlockType = "caption"
	Code              BlockType = "code-block"
	Atomic            BlockType = "atomic"
	Image             BlockType = "atomic:image"
	Break             BlockType = "atomic:break"
)

// BlockTypes lists every known block type.
var BlockTypes = []BlockType{
	Unstyled,
	HeaderOne, HeaderTwo, HeaderThree, HeaderFour, HeaderFive, HeaderSix,
	OrderedListItem, UnorderedListItem, Todo,
	Blockquote, BlockquoteCaption, Caption,
	Code,
	Atomic, Image, Break,
}

// IsAtomic reports whether blocks of this type hold no editable text.
func (t BlockType) IsAtomic() bool {
	return strings.HasPrefix(string(t), string(Atomic))
}

// IsList reports whether t is a list item type.
func (t BlockType) IsList() bool {
	return t == OrderedListItem || t == UnorderedListItem || t == Todo
}

// Valid reports whether t is one of the known block types.
func (t BlockType) Valid() bool {
	for _, bt := range BlockTypes {
		if bt == t {
			return true
		}
	}
	return false
}

// InlineStyle names a character level style.
type InlineStyle string

// Inline styles.
const (
	Bold          InlineStyle = "BOLD"
	InlineCode    InlineStyle = "CODE"
	Italic        InlineStyle = "ITALIC"
	Strikethrough InlineStyle = "STRIKETHROUGH"
	Underline     InlineStyle = "UNDERLINE"
	Highlight     InlineStyle = "HIGHLIGHT"
)

// EntityType tags an entity.
type EntityType string

// Entity types.
const (
	LinkEntity EntityType = "LINK"
)

// Mutability controls how edits inside an entity range behave.
type Mutability string

// Mutability values.
const (
	Mutable   Mutability = "MUTABLE"
	Immutable Mutability = "IMMUTABLE"
	Segmented Mutability = "SEGMENTED"
)

// ChangeType records the kind of edit that produced a snapshot.
type ChangeType string

// Change types.
const (
	ChangeNone             ChangeType = ""
	ChangeInsertCharacters ChangeType = "insert-characters"
	ChangeRemoveRange      ChangeType = "remove-range"
	ChangeSplitBlock       ChangeType = "split-block"
	ChangeBlockType        ChangeType = "change-block-type"
	ChangeBlockData        ChangeType = "change-block-data"
	ChangeInlineStyle      ChangeType = "change-inline-style"
	ChangeApplyEntity      ChangeType = "apply-entity"
	ChangeSelectionOnly    ChangeType = "selection"
	ChangeMoveBlock        ChangeType = "move-block"
	ChangeRemoveBlock      ChangeType = "remove-block"
)
