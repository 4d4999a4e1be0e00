package render

import (
	"io"
	"strconv"
	"strings"
)

// RGB is an 8-bit color.
type RGB struct {
	R, G, B int
}

var (
	black = RGB{}
	white = RGB{R: 255, G: 255, B: 255}
)

// ParseColor reads #rrggbb (or #rgb) and returns fallback for anything else.
func ParseColor(hex string, fallback RGB) RGB {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) != 6 {
		return fallback
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return fallback
	}
	return RGB{R: int(v >> 16 & 0xff), G: int(v >> 8 & 0xff), B: int(v & 0xff)}
}

// Canvas is the drawing surface a document is laid out on. Coordinates are
// points from the top-left corner of the current page; y passed to Text is
// the text baseline.
type Canvas interface {
	PageSize() (width, height float64)
	AddPage()
	SetFont(family string, bold bool, size float64)
	SetTextColor(c RGB)
	TextWidth(s string) float64
	Text(x, y float64, s string)
	FillRect(x, y, w, h float64, c RGB)
	Line(x1, y1, x2, y2, width float64, c RGB)
	// Output writes the finished document. Errors here are sink failures.
	Output(w io.Writer) error
}

// documentInfo is implemented by canvases that can carry metadata.
type documentInfo interface {
	SetDocumentInfo(title, author string)
}

type droppedReporter interface {
	Dropped() (int, []rune)
}
