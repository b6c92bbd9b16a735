package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// unsafeGlobals load code from outside the script.
var unsafeGlobals = []string{
	"dofile",
	"loadfile",
	"load",
	"loadstring",
}

// installSandbox removes the file loading functions, registers modules as
// globals and replaces require with a lookup restricted to them.
func installSandbox(L *lua.LState, modules map[string]lua.LGFunction) {
	for _, name := range unsafeGlobals {
		L.SetGlobal(name, lua.LNil)
	}

	loaded := L.NewTable()
	for name, open := range modules {
		L.Push(L.NewFunction(open))
		L.Call(0, 1)
		mod := L.Get(-1)
		L.Pop(1)
		loaded.RawSetString(name, mod)
		L.SetGlobal(name, mod)
	}

	L.SetGlobal("require", L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		mod := loaded.RawGetString(name)
		if mod == lua.LNil {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(mod)
		return 1
	}))
}
