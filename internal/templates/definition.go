package templates

import (
	"strings"

	"github.com/spigell/ats-resume/internal/resume"
)

type Layout string

const (
	SingleColumn Layout = "single_column"
	TwoColumn    Layout = "two_column"
)

type SkillsDisplay string

const (
	SkillsChips  SkillsDisplay = "chips"
	SkillsTags   SkillsDisplay = "tags"
	SkillsInline SkillsDisplay = "inline"
)

type ContactLayout string

const (
	ContactCentered ContactLayout = "centered"
	ContactSidebar  ContactLayout = "sidebar"
	ContactInline   ContactLayout = "inline"
)

// Colors maps token names (primary, accent, sidebarBg, ...) to hex values.
type Colors map[string]string

// Get returns the named color or fallback when the template leaves it unset.
func (c Colors) Get(name, fallback string) string {
	if v, ok := c[name]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// Fonts sizes are in points.
type Fonts struct {
	Heading          string  `json:"heading"`
	Body             string  `json:"body"`
	NameSize         float64 `json:"nameSize"`
	SectionTitleSize float64 `json:"sectionTitleSize"`
	BodySize         float64 `json:"bodySize"`
}

// Features is the closed set of presentation switches a template may flip.
type Features struct {
	ShowSkillLevel   bool          `json:"showSkillLevel"`
	SkillsDisplay    SkillsDisplay `json:"skillsDisplay"`
	ContactLayout    ContactLayout `json:"contactLayout"`
	HeaderBorder     bool          `json:"headerBorder"`
	SectionBorder    bool          `json:"sectionBorder"`
	CompactMode      bool          `json:"compactMode"`
	ShowIcons        bool          `json:"showIcons"`
	LanguageProgress bool          `json:"languageProgress"`
	UppercaseTitles  bool          `json:"uppercaseTitles"`
}

// Definition is an immutable template description. Values handed out by a
// Registry are deep copies, so mutating them never affects the catalog.
type Definition struct {
	ID              string                 `json:"id"`
	Name            string                 `json:"name"`
	Description     string                 `json:"description"`
	Layout          Layout                 `json:"layout"`
	Colors          Colors                 `json:"colors"`
	Fonts           Fonts                  `json:"fonts"`
	SectionOrder    []resume.Kind          `json:"sectionOrder,omitempty"`
	SidebarSections []resume.Kind          `json:"sidebarSections,omitempty"`
	MainSections    []resume.Kind          `json:"mainSections,omitempty"`
	SectionTitles   map[resume.Kind]string `json:"sectionTitles"`
	Features        Features               `json:"features"`
}

// Title returns the display title for kind, falling back to its default.
func (d Definition) Title(kind resume.Kind) string {
	if title := strings.TrimSpace(d.SectionTitles[kind]); title != "" {
		return title
	}
	return kind.DefaultTitle()
}

// Sections returns every section kind the template renders, in reading order.
func (d Definition) Sections() []resume.Kind {
	if d.Layout == TwoColumn {
		out := make([]resume.Kind, 0, len(d.SidebarSections)+len(d.MainSections))
		out = append(out, d.SidebarSections...)
		return append(out, d.MainSections...)
	}
	return append([]resume.Kind(nil), d.SectionOrder...)
}

func (d Definition) clone() Definition {
	out := d
	out.Colors = make(Colors, len(d.Colors))
	for k, v := range d.Colors {
		out.Colors[k] = v
	}
	out.SectionOrder = append([]resume.Kind(nil), d.SectionOrder...)
	out.SidebarSections = append([]resume.Kind(nil), d.SidebarSections...)
	out.MainSections = append([]resume.Kind(nil), d.MainSections...)
	out.SectionTitles = make(map[resume.Kind]string, len(d.SectionTitles))
	for k, v := range d.SectionTitles {
		out.SectionTitles[k] = v
	}
	return out
}

// normalize canonicalizes section tags (e.g. internship -> experience) and
// fills feature defaults left out of the definition file.
func (d *Definition) normalize() {
	d.SectionOrder = canonicalKinds(d.SectionOrder)
	d.SidebarSections = canonicalKinds(d.SidebarSections)
	d.MainSections = canonicalKinds(d.MainSections)

	titles := make(map[resume.Kind]string, len(d.SectionTitles))
	for k, v := range d.SectionTitles {
		kind, _ := resume.ParseKind(string(k))
		titles[kind] = v
	}
	d.SectionTitles = titles

	if d.Colors == nil {
		d.Colors = Colors{}
	}
	if d.Features.SkillsDisplay == "" {
		d.Features.SkillsDisplay = SkillsChips
	}
	if d.Features.ContactLayout == "" {
		d.Features.ContactLayout = ContactCentered
		if d.Layout == TwoColumn {
			d.Features.ContactLayout = ContactSidebar
		}
	}
}

func canonicalKinds(in []resume.Kind) []resume.Kind {
	if len(in) == 0 {
		return nil
	}
	out := make([]resume.Kind, 0, len(in))
	for _, k := range in {
		kind, _ := resume.ParseKind(string(k))
		out = append(out, kind)
	}
	return out
}
