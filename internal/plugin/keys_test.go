package plugin

import (
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestCtrlRune(t *testing.T) {
	r, ok := CtrlRune(tcell.NewEventKey(tcell.KeyRune, 'L', tcell.ModCtrl|tcell.ModShift))
	assert.True(t, ok)
	assert.Equal(t, 'l', r)

	r, ok = CtrlRune(tcell.NewEventKey(tcell.KeyCtrlK, 0, tcell.ModCtrl))
	assert.True(t, ok)
	assert.Equal(t, 'k', r)

	_, ok = CtrlRune(tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone))
	assert.False(t, ok)
}

func TestModifiers(t *testing.T) {
	assert.True(t, HasCommandModifier(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModCtrl)))
	assert.False(t, HasCommandModifier(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModShift)))
	assert.False(t, HasCommandModifier(nil))

	assert.True(t, IsSoftNewline(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModShift)))
	assert.False(t, IsSoftNewline(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
}
