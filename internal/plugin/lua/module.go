package lua

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/mutator"
)

// ModuleName is the name scripts require the editing module by.
const ModuleName = "draft"

// session is the state of one hook call: the editor handle and the working
// snapshot draft functions read and replace.
type session struct {
	snap *document.Snapshot
}

func (p *Plugin) openModule(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"currentBlock":       p.luaCurrentBlock,
		"blockText":          p.luaBlockText,
		"blockType":          p.luaBlockType,
		"selection":          p.luaSelection,
		"addNewBlock":        p.luaAddNewBlock,
		"resetBlockWithType": p.luaResetBlockWithType,
		"toggleBlockType":    p.luaToggleBlockType,
		"insertText":         p.luaInsertText,
		"setBlockData":       p.luaSetBlockData,
		"log":                p.luaLog,
	})
	L.Push(mod)
	return 1
}

// snapshot returns the working snapshot or raises a Lua error when the
// hook has none.
func (p *Plugin) snapshot(L *lua.LState) *document.Snapshot {
	if p.sess == nil || p.sess.snap == nil {
		L.RaiseError("%s: no document in this hook", ModuleName)
	}
	return p.sess.snap
}

func (p *Plugin) update(L *lua.LState, fn func(*document.Snapshot) *document.Snapshot) {
	p.sess.snap = fn(p.snapshot(L))
}

// blockArg returns the block named by the optional key argument n, or the
// current block.
func (p *Plugin) blockArg(L *lua.LState, n int) *document.Block {
	s := p.snapshot(L)
	if key, ok := L.Get(n).(lua.LString); ok {
		return s.Block(document.Key(key))
	}
	return mutator.CurrentBlock(s)
}

func typeArg(L *lua.LState, n int) document.BlockType {
	t := document.BlockType(L.CheckString(n))
	if !t.Valid() {
		L.ArgError(n, "unknown block type "+string(t))
	}
	return t
}

func (p *Plugin) luaCurrentBlock(L *lua.LState) int {
	L.Push(blockTable(L, mutator.CurrentBlock(p.snapshot(L))))
	return 1
}

func (p *Plugin) luaBlockText(L *lua.LState) int {
	if blk := p.blockArg(L, 1); blk != nil {
		L.Push(lua.LString(blk.Text))
		return 1
	}
	L.Push(lua.LNil)
	return 1
}

func (p *Plugin) luaBlockType(L *lua.LState) int {
	if blk := p.blockArg(L, 1); blk != nil {
		L.Push(lua.LString(blk.Type))
		return 1
	}
	L.Push(lua.LNil)
	return 1
}

func (p *Plugin) luaSelection(L *lua.LState) int {
	L.Push(selectionTable(L, p.snapshot(L).Selection()))
	return 1
}

func (p *Plugin) luaAddNewBlock(L *lua.LState) int {
	t, data := typeArg(L, 1), toData(L.Get(2))
	p.update(L, func(s *document.Snapshot) *document.Snapshot {
		return mutator.AddNewBlock(s, t, data)
	})
	return 0
}

func (p *Plugin) luaResetBlockWithType(L *lua.LState) int {
	t, data := typeArg(L, 1), toData(L.Get(2))
	p.update(L, func(s *document.Snapshot) *document.Snapshot {
		return mutator.ResetBlockWithType(s, t, data)
	})
	return 0
}

func (p *Plugin) luaToggleBlockType(L *lua.LState) int {
	t := typeArg(L, 1)
	p.update(L, func(s *document.Snapshot) *document.Snapshot {
		return mutator.ToggleBlockType(s, t)
	})
	return 0
}

func (p *Plugin) luaInsertText(L *lua.LState) int {
	text := L.CheckString(1)
	p.update(L, func(s *document.Snapshot) *document.Snapshot {
		return mutator.InsertText(s, text)
	})
	return 0
}

func (p *Plugin) luaSetBlockData(L *lua.LState) int {
	key := document.Key(L.CheckString(1))
	data := toData(L.CheckTable(2))
	p.update(L, func(s *document.Snapshot) *document.Snapshot {
		return mutator.SetBlockData(s, key, data)
	})
	return 0
}

func (p *Plugin) luaLog(L *lua.LState) int {
	p.logger.Info(L.CheckString(1), zap.String("plugin", p.name))
	return 0
}
