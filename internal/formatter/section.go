// Package formatter turns raw resume sections into render-ready records.
//
// Every formatter is a pure function of the section data and the template
// features. A nil result means the section has no content and must be
// omitted from the document.
package formatter

import (
	"github.com/spigell/ats-resume/internal/resume"
	"github.com/spigell/ats-resume/internal/templates"
)

// Section is a render-ready section. The set of implementations is closed:
// only the types in this package satisfy it.
type Section interface {
	Head() Header
	isSection()
}

// Header is shared by every section.
type Header struct {
	Kind  resume.Kind `json:"kind"`
	Title string      `json:"title"`
}

func (h Header) Head() Header { return h }
func (Header) isSection()     {}

type ContactSection struct {
	Header
	Name     string                  `json:"name"`
	JobTitle string                  `json:"jobTitle,omitempty"`
	Email    string                  `json:"email,omitempty"`
	Phone    string                  `json:"phone,omitempty"`
	LinkedIn string                  `json:"linkedin,omitempty"`
	GitHub   string                  `json:"github,omitempty"`
	Location string                  `json:"location,omitempty"`
	Items    []string                `json:"items,omitempty"`
	Line     string                  `json:"displayLine"`
	Layout   templates.ContactLayout `json:"layout"`
}

type SummarySection struct {
	Header
	Content    string `json:"content"`
	ATSContent string `json:"atsContent"`
}

type SkillsSection struct {
	Header
	Skills     []resume.SkillEntry     `json:"skills,omitempty"`
	Categories []resume.SkillCategory  `json:"categories,omitempty"`
	ATSContent string                  `json:"atsContent"`
	Display    templates.SkillsDisplay `json:"display"`
	ShowLevel  bool                    `json:"showLevel"`
}

// Categorized reports whether the skills come grouped by category.
func (s *SkillsSection) Categorized() bool { return len(s.Categories) > 0 }

type EducationItem struct {
	Degree      string   `json:"degree"`
	Institution string   `json:"institution"`
	Year        string   `json:"year"`
	GPA         string   `json:"gpa"`
	Coursework  []string `json:"coursework,omitempty"`
}

type EducationSection struct {
	Header
	Entries []EducationItem `json:"entries"`
}

type ExperienceItem struct {
	Title       string   `json:"title"`
	Company     string   `json:"company"`
	Duration    string   `json:"duration"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets,omitempty"`
}

type ExperienceSection struct {
	Header
	Entries []ExperienceItem `json:"entries"`
}

type Project struct {
	Name             string   `json:"name"`
	Role             string   `json:"role"`
	Technologies     []string `json:"technologies"`
	Duration         string   `json:"duration"`
	Description      string   `json:"description"`
	Link             string   `json:"link"`
	Responsibilities []string `json:"responsibilities"`
	Achievements     []string `json:"achievements"`
}

type ProjectsSection struct {
	Header
	Entries []Project `json:"entries"`
}

type Certificate struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer"`
	Date         string `json:"date"`
	CredentialID string `json:"credentialId"`
}

type CertificatesSection struct {
	Header
	Entries []Certificate `json:"entries"`
}

type Language struct {
	Name        string             `json:"name"`
	Proficiency resume.Proficiency `json:"proficiency"`
}

type LanguagesSection struct {
	Header
	Entries []Language `json:"entries"`
	// Progress asks the renderer to draw proficiency as a filled bar.
	Progress bool `json:"progress"`
}

type CustomSection struct {
	Header
	Content string `json:"content"`
}
