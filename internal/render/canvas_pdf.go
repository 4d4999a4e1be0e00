package render

import (
	"io"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
)

const creator = "ats-resume"

// PDFCanvas draws on an A4 portrait page using the PDF core fonts.
// Runes outside cp1252 cannot be encoded by those fonts; they are drawn as
// dots and counted.
type PDFCanvas struct {
	pdf       *fpdf.Fpdf
	translate func(string) string

	dropped int
	samples []rune
}

// NewPDFCanvas returns an empty A4 canvas measured in points.
func NewPDFCanvas() *PDFCanvas {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetMargins(MarginLeft, MarginTop, MarginRight)
	pdf.SetAutoPageBreak(false, MarginBottom)
	pdf.SetCreator(creator, true)

	return &PDFCanvas{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *PDFCanvas) SetDocumentInfo(title, author string) {
	c.pdf.SetTitle(title, true)
	c.pdf.SetAuthor(author, true)
}

func (c *PDFCanvas) PageSize() (float64, float64) {
	return c.pdf.GetPageSize()
}

func (c *PDFCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *PDFCanvas) SetFont(family string, bold bool, size float64) {
	style := ""
	if bold {
		style = "B"
	}
	c.pdf.SetFont(coreFamily(family), style, size)
}

func (c *PDFCanvas) SetTextColor(rgb RGB) {
	c.pdf.SetTextColor(rgb.R, rgb.G, rgb.B)
}

func (c *PDFCanvas) TextWidth(s string) float64 {
	return c.pdf.GetStringWidth(c.translate(s))
}

func (c *PDFCanvas) Text(x, y float64, s string) {
	c.track(s)
	c.pdf.Text(x, y, c.translate(s))
}

// Dropped reports how many drawn runes had no glyph in the core fonts and up
// to maxDroppedSamples distinct examples of them.
func (c *PDFCanvas) Dropped() (int, []rune) {
	return c.dropped, c.samples
}

const maxDroppedSamples = 5

func (c *PDFCanvas) track(s string) {
	for _, r := range s {
		if r < utf8.RuneSelf || c.translate(string(r)) != "." {
			continue
		}
		c.dropped++
		if len(c.samples) < maxDroppedSamples && !slices.Contains(c.samples, r) {
			c.samples = append(c.samples, r)
		}
	}
}

func (c *PDFCanvas) FillRect(x, y, w, h float64, rgb RGB) {
	c.pdf.SetFillColor(rgb.R, rgb.G, rgb.B)
	c.pdf.Rect(x, y, w, h, "F")
}

func (c *PDFCanvas) Line(x1, y1, x2, y2, width float64, rgb RGB) {
	c.pdf.SetDrawColor(rgb.R, rgb.G, rgb.B)
	c.pdf.SetLineWidth(width)
	c.pdf.Line(x1, y1, x2, y2)
}

func (c *PDFCanvas) Output(w io.Writer) error {
	return c.pdf.Output(w)
}

// coreFamily maps template font names onto the built-in PDF families.
func coreFamily(name string) string {
	n := strings.ToLower(name)
	switch {
	case strings.Contains(n, "courier"), strings.Contains(n, "mono"):
		return "Courier"
	case strings.Contains(n, "times"), strings.Contains(n, "georgia"),
		strings.Contains(n, "serif") && !strings.Contains(n, "sans"):
		return "Times"
	default:
		return "Helvetica"
	}
}
