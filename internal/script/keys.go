package script

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"
)

var namedKeys = map[string]tcell.Key{
	"enter":     tcell.KeyEnter,
	"return":    tcell.KeyEnter,
	"tab":       tcell.KeyTab,
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"backspace": tcell.KeyBackspace2,
	"delete":    tcell.KeyDelete,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
}

var modifiers = map[string]tcell.ModMask{
	"ctrl":  tcell.ModCtrl,
	"alt":   tcell.ModAlt,
	"shift": tcell.ModShift,
	"meta":  tcell.ModMeta,
	"cmd":   tcell.ModMeta,
}

// ParseKey parses a key description such as "ctrl+alt+1", "shift+enter"
// or "x" into a key event. Names are case insensitive; "space" and
// "plus" name those runes.
func ParseKey(desc string) (*tcell.EventKey, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(desc)), "+")
	name := parts[len(parts)-1]

	var mod tcell.ModMask
	for _, p := range parts[:len(parts)-1] {
		m, ok := modifiers[p]
		if !ok {
			return nil, fmt.Errorf("%w: modifier %q in %q", ErrUnknownKey, p, desc)
		}
		mod |= m
	}

	if k, ok := namedKeys[name]; ok {
		return tcell.NewEventKey(k, 0, mod), nil
	}
	switch name {
	case "space":
		name = " "
	case "plus":
		name = "+"
	}
	if r, size := utf8.DecodeRuneInString(name); size > 0 && size == len(name) && r != utf8.RuneError {
		return tcell.NewEventKey(tcell.KeyRune, r, mod), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKey, desc)
}

// parseModifiers parses the modifiers of a return step, e.g. "shift" or
// "ctrl+shift".
func parseModifiers(desc string) (tcell.ModMask, error) {
	var mod tcell.ModMask
	desc = strings.ToLower(strings.TrimSpace(desc))
	if desc == "" {
		return mod, nil
	}
	for _, p := range strings.Split(desc, "+") {
		m, ok := modifiers[p]
		if !ok {
			return 0, fmt.Errorf("%w: modifier %q", ErrUnknownKey, p)
		}
		mod |= m
	}
	return mod, nil
}
