package render

import (
	"strings"

	"github.com/spigell/ats-resume/internal/engine"
	"github.com/spigell/ats-resume/internal/templates"
)

type font struct {
	family string
	bold   bool
	size   float64
}

// palette is the set of colors used inside one region of the page.
type palette struct {
	text   RGB
	title  RGB
	muted  RGB
	rule   RGB
	accent RGB
	track  RGB
	// fill shades every line drawn in the region when set.
	fill *RGB
}

type style struct {
	features templates.Features

	heading   string
	body      string
	nameSize  float64
	titleSize float64
	bodySize  float64

	leading    float64
	sectionGap float64
	entryGap   float64

	main    palette
	sidebar palette
}

func newStyle(doc engine.FormattedDocument) style {
	colors := doc.Colors
	fonts := doc.Fonts

	st := style{
		features:   doc.Features,
		heading:    orDefault(fonts.Heading, "Helvetica"),
		body:       orDefault(fonts.Body, "Helvetica"),
		nameSize:   positive(fonts.NameSize, 24),
		titleSize:  positive(fonts.SectionTitleSize, 12),
		bodySize:   positive(fonts.BodySize, 11),
		leading:    1.35,
		sectionGap: 14,
		entryGap:   6,
	}
	if doc.Features.CompactMode {
		st.leading = 1.2
		st.sectionGap = 8
		st.entryGap = 3
	}

	primary := ParseColor(colors.Get("primary", "#000000"), black)
	secondary := ParseColor(colors.Get("secondary", "#333333"), black)
	accent := ParseColor(colors.Get("accent", "#000000"), black)

	st.main = palette{
		text:   primary,
		title:  primary,
		muted:  secondary,
		rule:   ParseColor(colors.Get("rule", "#cccccc"), RGB{R: 204, G: 204, B: 204}),
		accent: accent,
		track:  RGB{R: 229, G: 229, B: 229},
	}

	fill := ParseColor(colors.Get("sidebarBg", "#f2f2f2"), RGB{R: 242, G: 242, B: 242})
	onFill := ParseColor(colors.Get("sidebarText", colors.Get("primary", "#000000")), black)
	st.sidebar = palette{
		text:   onFill,
		title:  onFill,
		muted:  onFill,
		rule:   onFill,
		accent: accent,
		track:  secondary,
		fill:   &fill,
	}

	return st
}

func (st style) bodyFont() font  { return font{family: st.body, size: st.bodySize} }
func (st style) boldFont() font  { return font{family: st.body, bold: true, size: st.bodySize} }
func (st style) titleFont() font { return font{family: st.heading, bold: true, size: st.titleSize} }
func (st style) nameFont() font  { return font{family: st.heading, bold: true, size: st.nameSize} }

func (st style) lineHeight(f font) float64 { return f.size * st.leading }

func (st style) sectionTitle(title string) string {
	if st.features.UppercaseTitles {
		return strings.ToUpper(title)
	}
	return title
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

func positive(v, fallback float64) float64 {
	if v <= 0 {
		return fallback
	}
	return v
}
