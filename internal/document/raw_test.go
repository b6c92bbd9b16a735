package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rawDoc = `{
  "blocks": [
    {"key": "k1", "text": "Hello world", "type": "header-one", "depth": 0,
     "inlineStyleRanges": [{"offset": 0, "length": 5, "style": "BOLD"}],
     "entityRanges": [{"offset": 6, "length": 5, "key": 0}],
     "data": {}},
    {"key": "k2", "text": "", "type": "atomic:image", "depth": 0,
     "inlineStyleRanges": [], "entityRanges": [],
     "data": {"src": "https://x/1.png"}}
  ],
  "entityMap": {"0": {"type": "LINK", "mutability": "MUTABLE", "data": {"url": "https://example.com"}}}
}`

func TestParseRaw(t *testing.T) {
	s, err := ParseRaw([]byte(rawDoc))
	require.NoError(t, err)
	require.NoError(t, s.Validate())

	b := s.Block("k1")
	require.NotNil(t, b)
	assert.Equal(t, HeaderOne, b.Type)
	assert.True(t, b.StylesAt(0).Has(Bold))
	assert.False(t, b.StylesAt(5).Has(Bold))

	ent, ok := s.Entity(b.EntityAt(6))
	require.True(t, ok)
	assert.Equal(t, LinkEntity, ent.Type)
	assert.Equal(t, "https://example.com", ent.URL())

	assert.Equal(t, "https://x/1.png", s.Block("k2").Data.String("src"))
	assert.Equal(t, Caret("k1", 0), s.Selection())
}

func TestToRawRanges(t *testing.T) {
	s, err := ParseRaw([]byte(rawDoc))
	require.NoError(t, err)

	raw := s.ToRaw()
	require.Len(t, raw.Blocks, 2)
	assert.Equal(t, []RawStyleRange{{Offset: 0, Length: 5, Style: "BOLD"}}, raw.Blocks[0].InlineStyleRanges)
	assert.Equal(t, []RawEntityRange{{Offset: 6, Length: 5, Key: 0}}, raw.Blocks[0].EntityRanges)
	assert.Equal(t, "https://example.com", raw.EntityMap["0"].Data["url"])
}

func TestParseRawRejectsBadRanges(t *testing.T) {
	_, err := ParseRaw([]byte(`{"blocks":[{"key":"a","text":"ab","type":"unstyled",
		"inlineStyleRanges":[{"offset":1,"length":5,"style":"BOLD"}]}]}`))
	assert.Error(t, err)

	_, err = ParseRaw([]byte(`{"blocks":[{"key":"a","text":"ab","type":"unstyled",
		"entityRanges":[{"offset":0,"length":1,"key":3}]}]}`))
	assert.ErrorIs(t, err, ErrEntityNotFound)

	_, err = ParseRaw([]byte(`{"blocks":[{"key":"a","text":""},{"key":"a","text":""}]}`))
	assert.ErrorIs(t, err, ErrDuplicateKey)
}

func TestFromRawEmptyDocument(t *testing.T) {
	s, err := FromRaw(RawContent{})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	require.NoError(t, s.Validate())
}
