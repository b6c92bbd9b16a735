package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dshills/mediumdraft/internal/document"
)

func TestMove(t *testing.T) {
	base := document.New(
		document.NewBlock("a", document.Unstyled, "ab", nil),
		document.NewBlock("b", document.Unstyled, "cd", nil),
	)

	tests := []struct {
		name   string
		from   document.Selection
		dir    direction
		extend bool
		want   document.Selection
	}{
		{"left at start stays", document.Caret("a", 0), left, false, document.Caret("a", 0)},
		{"right", document.Caret("a", 0), right, false, document.Caret("a", 1)},
		{"right crosses blocks", document.Caret("a", 2), right, false, document.Caret("b", 0)},
		{"left crosses blocks", document.Caret("b", 0), left, false, document.Caret("a", 2)},
		{"up keeps column", document.Caret("b", 1), up, false, document.Caret("a", 1)},
		{"up at top goes home", document.Caret("a", 2), up, false, document.Caret("a", 0)},
		{"down at bottom goes end", document.Caret("b", 1), down, false, document.Caret("b", 2)},
		{"left collapses range", document.Range("a", 1, "b", 1), left, false, document.Caret("a", 1)},
		{"right collapses range", document.Range("a", 1, "b", 1), right, false, document.Caret("b", 1)},
		{
			name: "shift left extends backward",
			from: document.Caret("a", 1), dir: left, extend: true,
			want: document.Selection{AnchorKey: "a", AnchorOffset: 1, FocusKey: "a", FocusOffset: 0, Backward: true},
		},
		{
			name: "shift down extends forward",
			from: document.Caret("a", 1), dir: down, extend: true,
			want: document.Range("a", 1, "b", 1),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := move(base.WithSelection(tt.from), tt.dir, tt.extend)
			assert.Equal(t, tt.want, got.Selection())
		})
	}
}
