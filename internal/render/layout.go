package render

import "strings"

// Page margins in points.
const (
	MarginTop    = 50.0
	MarginBottom = 50.0
	MarginLeft   = 60.0
	MarginRight  = 60.0
)

// Cursor is the vertical layout position. It is passed into and returned
// from every drawing step rather than kept on the renderer.
type Cursor struct {
	Page int
	Y    float64
}

// Frame is the printable area of a page.
type Frame struct {
	Left, Top, Right, Bottom float64
}

func newFrame(pageWidth, pageHeight float64) Frame {
	return Frame{
		Left:   MarginLeft,
		Top:    MarginTop,
		Right:  pageWidth - MarginRight,
		Bottom: pageHeight - MarginBottom,
	}
}

func (f Frame) Width() float64 { return f.Right - f.Left }

// Fits reports whether a block of height h starting at c stays on the page.
func (f Frame) Fits(c Cursor, h float64) bool {
	return c.Y+h <= f.Bottom
}

// Wrap splits text into lines no wider than width. A word wider than width
// is broken across lines at rune boundaries.
func Wrap(text string, width float64, measure func(string) float64) []string {
	var (
		lines   []string
		current string
	)
	for _, word := range strings.Fields(text) {
		if current != "" {
			if candidate := current + " " + word; measure(candidate) <= width {
				current = candidate
				continue
			}
			lines = append(lines, current)
		}

		pieces := breakWord(word, width, measure)
		lines = append(lines, pieces[:len(pieces)-1]...)
		current = pieces[len(pieces)-1]
	}
	if current == "" {
		return lines
	}
	return append(lines, current)
}

// breakWord cuts word into pieces that fit width. Every piece holds at least
// one rune, so a width smaller than a single glyph still terminates.
func breakWord(word string, width float64, measure func(string) float64) []string {
	if measure(word) <= width {
		return []string{word}
	}

	var pieces []string
	runes := []rune(word)
	for len(runes) > 0 {
		n := 1
		for n < len(runes) && measure(string(runes[:n+1])) <= width {
			n++
		}
		pieces = append(pieces, string(runes[:n]))
		runes = runes[n:]
	}
	return pieces
}
