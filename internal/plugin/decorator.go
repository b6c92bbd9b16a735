package plugin

import (
	"strconv"
	"strings"

	"github.com/dshills/mediumdraft/internal/document"
)

// Strategy finds the ranges of blk to decorate and reports each one with
// emit. Offsets are rune offsets, end exclusive.
type Strategy func(blk *document.Block, s *document.Snapshot, emit func(start, end int))

// SimpleDecorator pairs a strategy with the component drawing its ranges.
type SimpleDecorator struct {
	Strategy  Strategy
	Component string
	Props     map[string]any
}

// CompositeDecorator assigns a decoration key to every character of a
// block. Undecorated characters have the key "".
type CompositeDecorator interface {
	Decorations(blk *document.Block, s *document.Snapshot) []string
	ComponentForKey(key string) string
	PropsForKey(key string) map[string]any
}

// DecoratorSpec is a decorator contributed by a plugin: a simple decorator
// or a composite one.
type DecoratorSpec struct {
	Simple    *SimpleDecorator
	Composite CompositeDecorator
}

// Simple wraps d as a DecoratorSpec.
func Simple(d SimpleDecorator) DecoratorSpec {
	return DecoratorSpec{Simple: &d}
}

// Compose wraps c as a DecoratorSpec.
func Compose(c CompositeDecorator) DecoratorSpec {
	return DecoratorSpec{Composite: c}
}

// Composite combines simple decorators. Earlier decorators win where
// ranges overlap; a range that overlaps an earlier one is dropped whole.
type Composite struct {
	decorators []SimpleDecorator
}

// NewComposite creates a composite of decorators.
func NewComposite(decorators ...SimpleDecorator) *Composite {
	return &Composite{decorators: decorators}
}

// Decorations implements CompositeDecorator. Keys have the form
// "<decorator>.<occurrence>".
func (c *Composite) Decorations(blk *document.Block, s *document.Snapshot) []string {
	out := make([]string, blk.Len())
	for i, d := range c.decorators {
		if d.Strategy == nil {
			continue
		}
		n := 0
		d.Strategy(blk, s, func(start, end int) {
			if start < 0 || end > len(out) || start >= end || !free(out, start, end) {
				return
			}
			key := strconv.Itoa(i) + "." + strconv.Itoa(n)
			n++
			for j := start; j < end; j++ {
				out[j] = key
			}
		})
	}
	return out
}

func free(keys []string, start, end int) bool {
	for _, k := range keys[start:end] {
		if k != "" {
			return false
		}
	}
	return true
}

func (c *Composite) decorator(key string) *SimpleDecorator {
	idx, _, _ := strings.Cut(key, ".")
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 || i >= len(c.decorators) {
		return nil
	}
	return &c.decorators[i]
}

// ComponentForKey implements CompositeDecorator.
func (c *Composite) ComponentForKey(key string) string {
	if d := c.decorator(key); d != nil {
		return d.Component
	}
	return ""
}

// PropsForKey implements CompositeDecorator.
func (c *Composite) PropsForKey(key string) map[string]any {
	if d := c.decorator(key); d != nil {
		return d.Props
	}
	return nil
}

// MultiDecorator combines composite decorators. The first composite to
// decorate a character wins it. Keys have the form "<composite>.<key>".
type MultiDecorator struct {
	composites []CompositeDecorator
}

// NewMultiDecorator creates a decorator combining composites.
func NewMultiDecorator(composites ...CompositeDecorator) *MultiDecorator {
	return &MultiDecorator{composites: composites}
}

// Decorations implements CompositeDecorator.
func (m *MultiDecorator) Decorations(blk *document.Block, s *document.Snapshot) []string {
	out := make([]string, blk.Len())
	for i, c := range m.composites {
		prefix := strconv.Itoa(i) + "."
		for j, k := range c.Decorations(blk, s) {
			if j < len(out) && k != "" && out[j] == "" {
				out[j] = prefix + k
			}
		}
	}
	return out
}

func (m *MultiDecorator) split(key string) (CompositeDecorator, string) {
	idx, rest, ok := strings.Cut(key, ".")
	if !ok {
		return nil, ""
	}
	i, err := strconv.Atoi(idx)
	if err != nil || i < 0 || i >= len(m.composites) {
		return nil, ""
	}
	return m.composites[i], rest
}

// ComponentForKey implements CompositeDecorator.
func (m *MultiDecorator) ComponentForKey(key string) string {
	if c, rest := m.split(key); c != nil {
		return c.ComponentForKey(rest)
	}
	return ""
}

// PropsForKey implements CompositeDecorator.
func (m *MultiDecorator) PropsForKey(key string) map[string]any {
	if c, rest := m.split(key); c != nil {
		return c.PropsForKey(rest)
	}
	return nil
}

// Len returns the number of combined composites.
func (m *MultiDecorator) Len() int {
	return len(m.composites)
}

// Decoration is a maximal decorated range of a block.
type Decoration struct {
	Start, End int
	Key        string
	Component  string
	Props      map[string]any
}

// Ranges returns the decorated ranges of blk in order.
func Ranges(d CompositeDecorator, blk *document.Block, s *document.Snapshot) []Decoration {
	keys := d.Decorations(blk, s)
	var out []Decoration
	for i := 0; i < len(keys); {
		j := i + 1
		for j < len(keys) && keys[j] == keys[i] {
			j++
		}
		if keys[i] != "" {
			out = append(out, Decoration{
				Start:     i,
				End:       j,
				Key:       keys[i],
				Component: d.ComponentForKey(keys[i]),
				Props:     d.PropsForKey(keys[i]),
			})
		}
		i = j
	}
	return out
}

// normalizeDecorators groups consecutive simple decorators into one
// composite and keeps composites as they are.
func normalizeDecorators(specs []DecoratorSpec) []CompositeDecorator {
	var (
		out     []CompositeDecorator
		pending []SimpleDecorator
	)
	flush := func() {
		if len(pending) > 0 {
			out = append(out, NewComposite(pending...))
			pending = nil
		}
	}
	for _, spec := range specs {
		switch {
		case spec.Composite != nil:
			flush()
			out = append(out, spec.Composite)
		case spec.Simple != nil:
			pending = append(pending, *spec.Simple)
		}
	}
	flush()
	return out
}
