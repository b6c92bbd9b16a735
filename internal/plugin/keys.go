package plugin

import (
	"unicode"

	"github.com/gdamore/tcell/v2"
)

// CtrlRune returns the lower case rune of a control key combination.
// Terminals report these either as control keys or as runes with the
// control modifier.
func CtrlRune(ev *tcell.EventKey) (rune, bool) {
	if k := ev.Key(); k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		return rune('a' + (k - tcell.KeyCtrlA)), true
	}
	if ev.Key() == tcell.KeyRune && ev.Modifiers()&tcell.ModCtrl != 0 {
		return unicode.ToLower(ev.Rune()), true
	}
	return 0, false
}

// HasCommandModifier reports whether ev carries the control or meta
// modifier.
func HasCommandModifier(ev *tcell.EventKey) bool {
	return ev != nil && ev.Modifiers()&(tcell.ModCtrl|tcell.ModMeta) != 0
}

// IsSoftNewline reports whether ev is a return that should insert a line
// break instead of splitting the block.
func IsSoftNewline(ev *tcell.EventKey) bool {
	return ev != nil && ev.Key() == tcell.KeyEnter && ev.Modifiers()&tcell.ModShift != 0
}
