package lua

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/plugin"
)

// ToGoValue converts a Lua value to a Go value. Tables with contiguous
// integer keys from 1 become []any, other tables map[string]any. Whole
// numbers become int64. Functions and nil become nil.
func ToGoValue(lv lua.LValue) any {
	return toGoValue(lv, make(map[*lua.LTable]bool))
}

func toGoValue(lv lua.LValue, visited map[*lua.LTable]bool) any {
	switch v := lv.(type) {
	case lua.LBool:
		return bool(v)
	case lua.LNumber:
		f := float64(v)
		if f == float64(int64(f)) {
			return int64(f)
		}
		return f
	case lua.LString:
		return string(v)
	case *lua.LTable:
		if visited[v] {
			return nil
		}
		visited[v] = true
		defer delete(visited, v)
		return tableToGo(v, visited)
	case *lua.LUserData:
		return v.Value
	}
	return nil
}

func tableToGo(t *lua.LTable, visited map[*lua.LTable]bool) any {
	n := t.Len()
	count := 0
	t.ForEach(func(_, _ lua.LValue) { count++ })

	if n > 0 && n == count {
		arr := make([]any, n)
		for i := 1; i <= n; i++ {
			arr[i-1] = toGoValue(t.RawGetInt(i), visited)
		}
		return arr
	}

	m := make(map[string]any, count)
	t.ForEach(func(k, v lua.LValue) {
		var key string
		switch kv := k.(type) {
		case lua.LString:
			key = string(kv)
		case lua.LNumber:
			key = fmt.Sprint(float64(kv))
		default:
			key = k.String()
		}
		m[key] = toGoValue(v, visited)
	})
	return m
}

// ToLuaValue converts a Go value to a Lua value.
func ToLuaValue(L *lua.LState, v any) lua.LValue {
	switch val := v.(type) {
	case nil:
		return lua.LNil
	case bool:
		return lua.LBool(val)
	case int:
		return lua.LNumber(val)
	case int32:
		return lua.LNumber(val)
	case int64:
		return lua.LNumber(val)
	case float32:
		return lua.LNumber(val)
	case float64:
		return lua.LNumber(val)
	case string:
		return lua.LString(val)
	case []any:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, ToLuaValue(L, item))
		}
		return t
	case []string:
		t := L.NewTable()
		for i, item := range val {
			t.RawSetInt(i+1, lua.LString(item))
		}
		return t
	case map[string]any:
		return mapToTable(L, val)
	case document.Data:
		return mapToTable(L, val)
	case lua.LValue:
		return val
	}
	return lua.LString(fmt.Sprint(v))
}

func mapToTable(L *lua.LState, m map[string]any) *lua.LTable {
	t := L.NewTable()
	for k, v := range m {
		t.RawSetString(k, ToLuaValue(L, v))
	}
	return t
}

// toData converts a Lua table to block data. Anything else is nil.
func toData(lv lua.LValue) document.Data {
	if m, ok := ToGoValue(lv).(map[string]any); ok {
		return document.Data(m)
	}
	return nil
}

// blockTable describes blk to scripts.
func blockTable(L *lua.LState, blk *document.Block) lua.LValue {
	if blk == nil {
		return lua.LNil
	}
	t := L.NewTable()
	t.RawSetString("key", lua.LString(blk.Key))
	t.RawSetString("type", lua.LString(blk.Type))
	t.RawSetString("text", lua.LString(blk.Text))
	t.RawSetString("depth", lua.LNumber(blk.Depth))
	t.RawSetString("data", mapToTable(L, blk.Data))
	return t
}

// selectionTable describes sel to scripts.
func selectionTable(L *lua.LState, sel document.Selection) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("anchorKey", lua.LString(sel.AnchorKey))
	t.RawSetString("anchorOffset", lua.LNumber(sel.AnchorOffset))
	t.RawSetString("focusKey", lua.LString(sel.FocusKey))
	t.RawSetString("focusOffset", lua.LNumber(sel.FocusOffset))
	t.RawSetString("backward", lua.LBool(sel.Backward))
	t.RawSetString("collapsed", lua.LBool(sel.IsCollapsed()))
	return t
}

// eventTable describes a key event to scripts. Control combinations carry
// the lower case rune and the Rune key name whether the terminal reported
// a control key or a rune with the control modifier.
func eventTable(L *lua.LState, ev *tcell.EventKey) lua.LValue {
	if ev == nil {
		return lua.LNil
	}
	t := L.NewTable()
	r, ctrl := plugin.CtrlRune(ev)
	name := tcell.KeyNames[ev.Key()]
	if ctrl {
		name = tcell.KeyNames[tcell.KeyRune]
	}
	t.RawSetString("name", lua.LString(name))

	mods := ev.Modifiers()
	if !ctrl && ev.Key() == tcell.KeyRune {
		r = ev.Rune()
	}
	if r != 0 {
		t.RawSetString("rune", lua.LString(string(r)))
	}
	t.RawSetString("ctrl", lua.LBool(ctrl || mods&tcell.ModCtrl != 0))
	t.RawSetString("alt", lua.LBool(mods&tcell.ModAlt != 0))
	t.RawSetString("shift", lua.LBool(mods&tcell.ModShift != 0))
	t.RawSetString("meta", lua.LBool(mods&tcell.ModMeta != 0))
	return t
}

// truthy reports whether a hook result stops dispatch: true or the string
// "handled".
func truthy(results []lua.LValue) bool {
	if len(results) == 0 {
		return false
	}
	switch v := results[0].(type) {
	case lua.LBool:
		return bool(v)
	case lua.LString:
		return string(v) == string(plugin.Handled)
	}
	return false
}

// firstString returns the first result when it is a string.
func firstString(results []lua.LValue) string {
	if len(results) == 0 {
		return ""
	}
	if s, ok := results[0].(lua.LString); ok {
		return string(s)
	}
	return ""
}
