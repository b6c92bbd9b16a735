package document

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// RawContent is the JSON storage form of a document.
type RawContent struct {
	Blocks    []RawBlock           `json:"blocks"`
	EntityMap map[string]RawEntity `json:"entityMap"`
}

// RawBlock is the JSON form of a block.
type RawBlock struct {
	Key               string           `json:"key"`
	Text              string           `json:"text"`
	Type              string           `json:"type"`
	Depth             int              `json:"depth"`
	InlineStyleRanges []RawStyleRange  `json:"inlineStyleRanges"`
	EntityRanges      []RawEntityRange `json:"entityRanges"`
	Data              map[string]any   `json:"data"`
}

// RawStyleRange marks a run of characters with one inline style.
type RawStyleRange struct {
	Offset int    `json:"offset"`
	Length int    `json:"length"`
	Style  string `json:"style"`
}

// RawEntityRange binds a run of characters to an entry of the entity map.
type RawEntityRange struct {
	Offset int `json:"offset"`
	Length int `json:"length"`
	Key    int `json:"key"`
}

// RawEntity is the JSON form of an entity.
type RawEntity struct {
	Type       string         `json:"type"`
	Mutability string         `json:"mutability"`
	Data       map[string]any `json:"data"`
}

// ParseRaw decodes raw JSON content into a snapshot.
func ParseRaw(data []byte) (*Snapshot, error) {
	var raw RawContent
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding raw content: %w", err)
	}
	return FromRaw(raw)
}

// FromRaw builds a snapshot from raw content. Missing block keys are
// generated; unknown block types are kept as given.
func FromRaw(raw RawContent) (*Snapshot, error) {
	s := &Snapshot{entities: map[EntityKey]Entity{}}
	e := s.Edit()

	rawKeys := make([]string, 0, len(raw.EntityMap))
	for k := range raw.EntityMap {
		rawKeys = append(rawKeys, k)
	}
	sort.Slice(rawKeys, func(i, j int) bool { return lessNumeric(rawKeys[i], rawKeys[j]) })

	entityKeys := make(map[string]EntityKey, len(raw.EntityMap))
	for _, rk := range rawKeys {
		re := raw.EntityMap[rk]
		entityKeys[rk] = e.CreateEntity(EntityType(re.Type), Mutability(re.Mutability), Data(re.Data))
	}

	var first Key
	for i, rb := range raw.Blocks {
		key := Key(rb.Key)
		if key == "" {
			key = e.GenerateKey()
		}
		if e.Has(key) {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		if i == 0 {
			first = key
		}

		typ := BlockType(rb.Type)
		if typ == "" {
			typ = Unstyled
		}
		blk := NewBlock(key, typ, rb.Text, Data(rb.Data))
		blk.Depth = rb.Depth

		chars := blk.Chars
		for _, r := range rb.InlineStyleRanges {
			if err := checkRange(key, r.Offset, r.Length, len(chars)); err != nil {
				return nil, err
			}
			for j := r.Offset; j < r.Offset+r.Length; j++ {
				chars[j].Styles = chars[j].Styles.With(InlineStyle(r.Style))
			}
		}
		for _, r := range rb.EntityRanges {
			if err := checkRange(key, r.Offset, r.Length, len(chars)); err != nil {
				return nil, err
			}
			ek, ok := entityKeys[strconv.Itoa(r.Key)]
			if !ok {
				return nil, fmt.Errorf("%w: raw key %d in block %q", ErrEntityNotFound, r.Key, key)
			}
			for j := r.Offset; j < r.Offset+r.Length; j++ {
				chars[j].Entity = ek
			}
		}
		e.Put(blk)
	}

	if first == "" {
		first = e.GenerateKey()
		e.Put(NewBlock(first, Unstyled, "", nil))
	}
	e.Select(Caret(first, 0))
	out := e.Commit(ChangeNone)
	out.selectionBefore = out.selection
	return out, nil
}

func checkRange(key Key, offset, length, size int) error {
	if offset < 0 || length < 0 || offset+length > size {
		return fmt.Errorf("range %d+%d outside block %q of length %d", offset, length, key, size)
	}
	return nil
}

func lessNumeric(a, b string) bool {
	ai, aerr := strconv.Atoi(a)
	bi, berr := strconv.Atoi(b)
	if aerr == nil && berr == nil {
		return ai < bi
	}
	return a < b
}

// ToRaw converts s to its raw content form. Entities are renumbered from 0
// in order of first reference.
func (s *Snapshot) ToRaw() RawContent {
	raw := RawContent{
		Blocks:    make([]RawBlock, 0, len(s.order)),
		EntityMap: map[string]RawEntity{},
	}
	entityIndex := map[EntityKey]int{}

	for _, blk := range s.Blocks() {
		rb := RawBlock{
			Key:               string(blk.Key),
			Text:              blk.Text,
			Type:              string(blk.Type),
			Depth:             blk.Depth,
			InlineStyleRanges: styleRanges(blk),
			EntityRanges:      []RawEntityRange{},
			Data:              map[string]any(blk.Data.Clone()),
		}

		blk.EntityRanges(func(ek EntityKey, start, end int) {
			idx, ok := entityIndex[ek]
			if !ok {
				idx = len(entityIndex)
				entityIndex[ek] = idx
				ent := s.entities[ek]
				raw.EntityMap[strconv.Itoa(idx)] = RawEntity{
					Type:       string(ent.Type),
					Mutability: string(ent.Mutability),
					Data:       map[string]any(ent.Data.Clone()),
				}
			}
			rb.EntityRanges = append(rb.EntityRanges, RawEntityRange{Offset: start, Length: end - start, Key: idx})
		})
		raw.Blocks = append(raw.Blocks, rb)
	}
	return raw
}

// MarshalRaw encodes s as indented raw JSON.
func (s *Snapshot) MarshalRaw() ([]byte, error) {
	return json.MarshalIndent(s.ToRaw(), "", "  ")
}

// styleRanges collapses per-character styles into maximal runs per style,
// ordered by offset then style name.
func styleRanges(blk *Block) []RawStyleRange {
	out := []RawStyleRange{}
	open := map[InlineStyle]int{}
	flush := func(style InlineStyle, end int) {
		out = append(out, RawStyleRange{Offset: open[style], Length: end - open[style], Style: string(style)})
		delete(open, style)
	}
	for i := 0; i <= len(blk.Chars); i++ {
		var styles StyleSet
		if i < len(blk.Chars) {
			styles = blk.Chars[i].Styles
		}
		closing := make([]InlineStyle, 0, len(open))
		for style := range open {
			if !styles.Has(style) {
				closing = append(closing, style)
			}
		}
		sort.Slice(closing, func(a, b int) bool { return closing[a] < closing[b] })
		for _, style := range closing {
			flush(style, i)
		}
		for _, style := range styles {
			if _, ok := open[style]; !ok {
				open[style] = i
			}
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Offset != out[b].Offset {
			return out[a].Offset < out[b].Offset
		}
		return out[a].Style < out[b].Style
	})
	return out
}
