package terminal

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/dshills/mediumdraft/internal/document"
	"github.com/dshills/mediumdraft/internal/editor"
)

const helpText = "^S save  ^Q quit"

var inlineStyles = map[document.InlineStyle]func(tcell.Style) tcell.Style{
	document.Bold:          func(s tcell.Style) tcell.Style { return s.Bold(true) },
	document.Italic:        func(s tcell.Style) tcell.Style { return s.Italic(true) },
	document.Underline:     func(s tcell.Style) tcell.Style { return s.Underline(true) },
	document.Strikethrough: func(s tcell.Style) tcell.Style { return s.StrikeThrough(true) },
	document.InlineCode:    func(s tcell.Style) tcell.Style { return s.Foreground(tcell.ColorGreen) },
	document.Highlight:     func(s tcell.Style) tcell.Style { return s.Reverse(true) },
}

// canvas tracks the drawing position and where the caret ended up.
type canvas struct {
	screen        tcell.Screen
	width, height int
	x, y          int
	indent        int
	cursorX       int
	cursorY       int
}

func (c *canvas) put(r rune, style tcell.Style) {
	w := uniseg.StringWidth(string(r))
	if c.x+w > c.width {
		c.newline()
	}
	if c.y < c.height {
		c.screen.SetContent(c.x, c.y, r, nil, style)
	}
	c.x += w
}

func (c *canvas) text(s string, style tcell.Style) {
	for _, r := range s {
		c.put(r, style)
	}
}

func (c *canvas) newline() {
	c.y++
	c.x = c.indent
}

func (c *canvas) markCursor() {
	c.cursorX, c.cursorY = c.x, c.y
}

func (v *View) draw(e *editor.Editor) {
	v.screen.Clear()
	width, height := v.screen.Size()
	c := &canvas{
		screen:  v.screen,
		width:   width,
		height:  height - 1,
		cursorY: -1,
	}

	s := e.EditorState()
	sel := s.Selection()
	ordinal := 0
	for _, rb := range e.Render() {
		blk := s.Block(rb.Key)
		if blk.Type == document.OrderedListItem {
			ordinal++
		} else {
			ordinal = 0
		}

		prefix, base := blockLook(blk, ordinal)
		c.x, c.indent = 0, 0
		c.text(prefix, base.Dim(true))
		c.indent = c.x

		switch blk.Type {
		case document.Image:
			c.text(imageLabel(blk), base)
		case document.Break:
			c.text(strings.Repeat("─", max(width-c.x, 0)), base.Dim(true))
		default:
			linked := make([]bool, blk.Len())
			for _, d := range rb.Decorations {
				for i := max(d.Start, 0); i < d.End && i < len(linked); i++ {
					linked[i] = true
				}
			}
			for i, r := range blk.Runes() {
				if blk.Key == sel.FocusKey && i == sel.FocusOffset {
					c.markCursor()
				}
				if r == '\n' {
					c.newline()
					continue
				}
				style := base
				for _, st := range blk.StylesAt(i) {
					if fn, ok := inlineStyles[st]; ok {
						style = fn(style)
					}
				}
				if linked[i] {
					style = style.Underline(true).Foreground(tcell.ColorBlue)
				}
				if selected(s, sel, blk.Key, i) {
					style = style.Reverse(true)
				}
				c.put(r, style)
			}
		}
		if blk.Key == sel.FocusKey && sel.FocusOffset >= blk.Len() {
			c.markCursor()
		}
		c.newline()
	}

	if placeholder := e.Props().Placeholder; placeholder != "" && isBlank(s) {
		c.x, c.y, c.indent = 0, 0, 0
		c.text(placeholder, tcell.StyleDefault.Dim(true))
	}

	v.drawStatus(helpText + "  " + v.statusText())
	if c.cursorY >= 0 && c.cursorY < c.height && e.Focused() {
		v.screen.ShowCursor(c.cursorX, c.cursorY)
	} else {
		v.screen.HideCursor()
	}
	v.screen.Show()
}

func (v *View) drawStatus(line string) {
	width, height := v.screen.Size()
	style := tcell.StyleDefault.Reverse(true)
	x := 0
	for _, r := range line {
		if x >= width {
			break
		}
		v.screen.SetContent(x, height-1, r, nil, style)
		x += uniseg.StringWidth(string(r))
	}
	for ; x < width; x++ {
		v.screen.SetContent(x, height-1, ' ', nil, style)
	}
}

func (v *View) drawPrompt(message string, buf []rune) {
	line := message + ": " + string(buf)
	v.drawStatus(line)
	_, height := v.screen.Size()
	v.screen.ShowCursor(uniseg.StringWidth(line), height-1)
	v.screen.Show()
}

// blockLook returns the prefix and base style of a block.
func blockLook(blk *document.Block, ordinal int) (string, tcell.Style) {
	style := tcell.StyleDefault
	indent := strings.Repeat("  ", blk.Depth)
	switch blk.Type {
	case document.HeaderOne:
		return "# ", style.Bold(true)
	case document.HeaderTwo:
		return "## ", style.Bold(true)
	case document.HeaderThree, document.HeaderFour, document.HeaderFive, document.HeaderSix:
		return "### ", style.Bold(true)
	case document.UnorderedListItem:
		return indent + "• ", style
	case document.OrderedListItem:
		return fmt.Sprintf("%s%d. ", indent, ordinal), style
	case document.Todo:
		if blk.Data.Bool("checked") {
			return "[x] ", style.StrikeThrough(true).Dim(true)
		}
		return "[ ] ", style
	case document.Blockquote:
		return "> ", style.Italic(true)
	case document.BlockquoteCaption, document.Caption:
		return "  ", style.Dim(true)
	case document.Code:
		return "│ ", style.Foreground(tcell.ColorGreen)
	}
	return "", style
}

func imageLabel(blk *document.Block) string {
	src := blk.Data.String("src")
	if blk.Data.Bool("uploading") {
		return "[image uploading: " + src + "]"
	}
	return "[image: " + src + "]"
}

// selected reports whether character i of block key lies inside a
// non-collapsed selection.
func selected(s *document.Snapshot, sel document.Selection, key document.Key, i int) bool {
	if sel.IsCollapsed() {
		return false
	}
	idx := s.IndexOf(key)
	start, end := s.IndexOf(sel.StartKey()), s.IndexOf(sel.EndKey())
	if idx < start || idx > end {
		return false
	}
	if idx == start && i < sel.StartOffset() {
		return false
	}
	if idx == end && i >= sel.EndOffset() {
		return false
	}
	return true
}

func isBlank(s *document.Snapshot) bool {
	if s.Len() != 1 {
		return false
	}
	blk := s.FirstBlock()
	return blk.Len() == 0 && blk.Type == document.Unstyled
}
