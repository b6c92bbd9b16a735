package document

// maxArenaDepth bounds the number of copy-on-write layers a lookup walks
// before the arena is flattened.
const maxArenaDepth = 16

// arena stores blocks by key. Each edit adds a layer holding only the
// changed blocks; a nil entry in a layer is a tombstone for a removed block.
type arena struct {
	parent *arena
	blocks map[Key]*Block
	depth  int
}

func (a *arena) get(key Key) *Block {
	for cur := a; cur != nil; cur = cur.parent {
		if b, ok := cur.blocks[key]; ok {
			return b
		}
	}
	return nil
}

// layer returns an arena with changes on top of a. When the chain grows too
// deep, the live blocks named by order are copied into a fresh root.
func (a *arena) layer(changes map[Key]*Block, order []Key) *arena {
	if len(changes) == 0 {
		return a
	}
	if a == nil {
		return &arena{blocks: changes}
	}
	if a.depth+1 < maxArenaDepth {
		return &arena{parent: a, blocks: changes, depth: a.depth + 1}
	}

	flat := make(map[Key]*Block, len(order))
	for _, k := range order {
		if b, ok := changes[k]; ok {
			flat[k] = b
			continue
		}
		flat[k] = a.get(k)
	}
	return &arena{blocks: flat}
}
