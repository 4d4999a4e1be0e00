// Package engine applies a template definition to a resume document.
package engine

import (
	"github.com/spigell/ats-resume/internal/formatter"
	"github.com/spigell/ats-resume/internal/resume"
	"github.com/spigell/ats-resume/internal/templates"
)

// FormattedDocument is the render-ready output of Apply. Single-column
// documents fill Sections; two-column documents fill Sidebar and Main.
type FormattedDocument struct {
	TemplateID string              `json:"templateId"`
	Layout     templates.Layout    `json:"layout"`
	Colors     templates.Colors    `json:"colors"`
	Fonts      templates.Fonts     `json:"fonts"`
	Features   templates.Features  `json:"features"`
	Sections   []formatter.Section `json:"sections,omitempty"`
	Sidebar    []formatter.Section `json:"sidebar,omitempty"`
	Main       []formatter.Section `json:"main,omitempty"`
}

// Ordered returns all sections in reading order (sidebar before main).
func (d FormattedDocument) Ordered() []formatter.Section {
	if d.Layout != templates.TwoColumn {
		return d.Sections
	}
	out := make([]formatter.Section, 0, len(d.Sidebar)+len(d.Main))
	out = append(out, d.Sidebar...)
	return append(out, d.Main...)
}

// IsEmpty reports whether no section survived formatting.
func (d FormattedDocument) IsEmpty() bool {
	return len(d.Sections) == 0 && len(d.Sidebar) == 0 && len(d.Main) == 0
}

// Engine resolves templates against a registry.
type Engine struct {
	registry *templates.Registry
}

func New(registry *templates.Registry) *Engine {
	if registry == nil {
		registry = templates.Default()
	}
	return &Engine{registry: registry}
}

// Apply formats doc with the process-wide template registry.
func Apply(doc resume.Document, templateID string) FormattedDocument {
	return New(nil).Apply(doc, templateID)
}

// Apply formats doc with the template registered as templateID, falling back
// to the default template for unknown ids.
func (e *Engine) Apply(doc resume.Document, templateID string) FormattedDocument {
	def := e.registry.Get(templateID)
	return Format(doc, def)
}

// Format formats doc with an explicit definition.
func Format(doc resume.Document, def templates.Definition) FormattedDocument {
	out := FormattedDocument{
		TemplateID: def.ID,
		Layout:     def.Layout,
		Colors:     def.Colors,
		Fonts:      def.Fonts,
		Features:   def.Features,
	}

	if def.Layout == templates.TwoColumn {
		seen := map[resume.Kind]bool{resume.KindContact: true}
		out.Sidebar = append(out.Sidebar, sections(resume.KindContact, doc, def)...)
		out.Sidebar = append(out.Sidebar, collect(def.SidebarSections, seen, doc, def)...)
		out.Main = collect(def.MainSections, seen, doc, def)
		return out
	}

	out.Sections = collect(def.SectionOrder, map[resume.Kind]bool{}, doc, def)
	return out
}

func collect(order []resume.Kind, seen map[resume.Kind]bool, doc resume.Document, def templates.Definition) []formatter.Section {
	var out []formatter.Section
	for _, kind := range order {
		if seen[kind] {
			continue
		}
		seen[kind] = true
		out = append(out, sections(kind, doc, def)...)
	}
	return out
}

// sections dispatches kind to its formatter. Unknown kinds yield nothing.
func sections(kind resume.Kind, doc resume.Document, def templates.Definition) []formatter.Section {
	f := def.Features
	title := def.Title(kind)

	switch kind {
	case resume.KindContact:
		if s := formatter.Contact(doc.Contact, f); s != nil {
			s.Title = title
			return []formatter.Section{s}
		}
	case resume.KindSummary:
		if s := formatter.Summary(doc.Summary, f); s != nil {
			s.Title = title
			return []formatter.Section{s}
		}
	case resume.KindSkills:
		if s := formatter.Skills(doc.Skills, doc.SkillCategories, f); s != nil {
			s.Title = title
			return []formatter.Section{s}
		}
	case resume.KindEducation:
		if s := formatter.Education(doc.Education, f); s != nil {
			s.Title = title
			return []formatter.Section{s}
		}
	case resume.KindProjects:
		if s := formatter.Projects(doc.Projects, f); s != nil {
			s.Title = title
			return []formatter.Section{s}
		}
	case resume.KindExperience:
		if s := formatter.Experience(doc.Experience, f); s != nil {
			s.Title = title
			return []formatter.Section{s}
		}
	case resume.KindCertificates:
		if s := formatter.Certificates(doc.Certificates, f); s != nil {
			s.Title = title
			return []formatter.Section{s}
		}
	case resume.KindLanguages:
		if s := formatter.Languages(doc.Languages, f); s != nil {
			s.Title = title
			return []formatter.Section{s}
		}
	case resume.KindCustom:
		custom := formatter.Custom(doc.CustomSections, f)
		out := make([]formatter.Section, 0, len(custom))
		for _, s := range custom {
			if s.Title == "" {
				s.Title = title
			}
			out = append(out, s)
		}
		return out
	}
	return nil
}
