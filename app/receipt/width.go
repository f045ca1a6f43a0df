package receipt

import "strings"

// Alignment controls how Pad distributes fill space.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
	AlignCenter
)

// RuneWidth returns the number of character columns a rune occupies on
// fixed-width receipt paper. CJK ideographs occupy two columns, everything
// else occupies one.
func RuneWidth(r rune) int {
	if (r >= 0x4E00 && r <= 0x9FFF) || (r >= 0x3400 && r <= 0x4DBF) {
		return 2
	}
	return 1
}

// DisplayWidth returns the total column width of text.
func DisplayWidth(text string) int {
	width := 0
	for _, r := range text {
		width += RuneWidth(r)
	}
	return width
}

// Truncate cuts text so its display width does not exceed maxWidth. A wide
// character that would straddle the boundary is dropped entirely.
func Truncate(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	width := 0
	for i, r := range text {
		w := RuneWidth(r)
		if width+w > maxWidth {
			return text[:i]
		}
		width += w
	}
	return text
}

// Pad aligns text inside a field of the given column width. When the text is
// already as wide or wider than the field, it is truncated instead. Center
// alignment puts the extra space on the right when the remainder is odd.
func Pad(text string, width int, align Alignment) string {
	tw := DisplayWidth(text)
	if tw >= width {
		return Truncate(text, width)
	}
	fill := width - tw
	switch align {
	case AlignRight:
		return strings.Repeat(" ", fill) + text
	case AlignCenter:
		left := fill / 2
		return strings.Repeat(" ", left) + text + strings.Repeat(" ", fill-left)
	default:
		return text + strings.Repeat(" ", fill)
	}
}

// Wrap breaks text into lines that each fit within width columns. The break
// is greedy and never splits a single character; joining the returned lines
// reproduces the input exactly. Empty input yields no lines. Widths below 2
// are clamped to 2 so a wide character always has a line it can live on, so
// lines may exceed a requested width of 1.
func Wrap(text string, width int) []string {
	if text == "" {
		return nil
	}
	if width < 2 {
		width = 2
	}
	var lines []string
	var line strings.Builder
	lineWidth := 0
	for _, r := range text {
		w := RuneWidth(r)
		if lineWidth+w > width {
			lines = append(lines, line.String())
			line.Reset()
			lineWidth = 0
		}
		line.WriteRune(r)
		lineWidth += w
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
