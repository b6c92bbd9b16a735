package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	a, b := &mapPlugin{name: "a"}, &mapPlugin{name: "b"}

	r, err := NewRegistry(a)
	require.NoError(t, err)
	rev := r.Revision()

	require.NoError(t, r.Add(b))
	assert.Greater(t, r.Revision(), rev)
	assert.Equal(t, []Plugin{a, b}, r.Plugins())

	got, ok := r.Get("b")
	assert.True(t, ok)
	assert.Same(t, b, got)

	require.NoError(t, r.Remove("a"))
	assert.Equal(t, []Plugin{b}, r.Plugins())

	assert.ErrorIs(t, r.Remove("a"), ErrPluginNotFound)
	assert.ErrorIs(t, r.Add(b), ErrDuplicatePlugin)
	assert.ErrorIs(t, r.Add(nil), ErrInvalidPlugin)
	assert.ErrorIs(t, r.Set(&mapPlugin{}), ErrInvalidPlugin)
	assert.Equal(t, []Plugin{b}, r.Plugins())
}

func TestCacheRebuildsOnRevisionChange(t *testing.T) {
	r, err := NewRegistry(&mapPlugin{name: "a"})
	require.NoError(t, err)
	var c Cache

	first := c.Get(r)
	assert.Same(t, first, c.Get(r))
	assert.Equal(t, 1, c.Builds())

	require.NoError(t, r.Add(&mapPlugin{name: "b"}))
	second := c.Get(r)
	assert.NotSame(t, first, second)
	assert.Len(t, second.Plugins(), 2)
	assert.Equal(t, 2, c.Builds())

	r.Touch()
	c.Get(r)
	assert.Equal(t, 3, c.Builds())
}

func TestCacheMissesInPlaceMutation(t *testing.T) {
	p := &mapPlugin{name: "a", styles: StyleMap{"X": {"color": "red"}}}
	r, err := NewRegistry(p)
	require.NoError(t, err)
	var c Cache

	assert.Equal(t, Style{"color": "red"}, c.Get(r).CustomStyleMap()["X"])

	p.styles = StyleMap{"X": {"color": "blue"}}
	assert.Equal(t, Style{"color": "red"}, c.Get(r).CustomStyleMap()["X"])

	r.Touch()
	assert.Equal(t, Style{"color": "blue"}, c.Get(r).CustomStyleMap()["X"])
}
