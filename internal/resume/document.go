package resume

import "strings"

// Document is the canonical in-memory resume, independent of any template.
type Document struct {
	Contact         Contact            `json:"contact"`
	Summary         string             `json:"summary,omitempty"`
	Skills          []SkillEntry       `json:"skills,omitempty"`
	SkillCategories []SkillCategory    `json:"skillCategories,omitempty"`
	Education       []EducationEntry   `json:"education,omitempty"`
	Projects        []ProjectEntry     `json:"projects,omitempty"`
	Experience      []ExperienceEntry  `json:"experience,omitempty"`
	Certificates    []CertificateEntry `json:"certificates,omitempty"`
	Languages       []LanguageEntry    `json:"languages,omitempty"`
	CustomSections  []CustomSection    `json:"customSections,omitempty"`
}

type Contact struct {
	Name     string `json:"name,omitempty"`
	JobTitle string `json:"jobTitle,omitempty"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Location string `json:"location,omitempty"`
}

// IsEmpty reports whether no contact field carries a value.
func (c Contact) IsEmpty() bool {
	for _, v := range []string{c.Name, c.JobTitle, c.Email, c.Phone, c.LinkedIn, c.GitHub, c.Location} {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// SkillEntry accepts either a bare label or {name, level} on input.
type SkillEntry struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// SkillCategory groups skill labels produced by an enrichment step.
type SkillCategory struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

type EducationEntry struct {
	Degree      string `json:"degree,omitempty"`
	College     string `json:"college,omitempty"`
	Institution string `json:"institution,omitempty"`
	Year        string `json:"year,omitempty"`
	GPA         string `json:"gpa,omitempty"`
	Coursework  List   `json:"coursework,omitempty"`
}

type ProjectEntry struct {
	Name         string   `json:"name,omitempty"`
	Role         string   `json:"role,omitempty"`
	Technologies List     `json:"technologies,omitempty"`
	Duration     string   `json:"duration,omitempty"`
	Description  string   `json:"description,omitempty"`
	Link         string   `json:"link,omitempty"`
	Achievements []string `json:"achievements,omitempty"`
}

type ExperienceEntry struct {
	Title       string `json:"title,omitempty"`
	Role        string `json:"role,omitempty"`
	Company     string `json:"company,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

type CertificateEntry struct {
	Name         string `json:"name,omitempty"`
	Title        string `json:"title,omitempty"`
	Issuer       string `json:"issuer,omitempty"`
	Organization string `json:"organization,omitempty"`
	Date         string `json:"date,omitempty"`
	CredentialID string `json:"credentialId,omitempty"`
}

type LanguageEntry struct {
	Name        string      `json:"name"`
	Proficiency Proficiency `json:"proficiency,omitempty"`
}

type CustomSection struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// HasSkill reports whether a skill with exactly this label is present.
func (d *Document) HasSkill(name string) bool {
	for _, s := range d.Skills {
		if s.Name == name {
			return true
		}
	}
	return false
}

// AddSkill appends s unless a skill with the same label exists already.
func (d *Document) AddSkill(s SkillEntry) bool {
	s.Name = strings.TrimSpace(s.Name)
	if s.Name == "" || d.HasSkill(s.Name) {
		return false
	}
	d.Skills = append(d.Skills, s)
	return true
}

// SkillNames returns the labels of the deduplicated skill list.
func (d Document) SkillNames() []string {
	skills := DedupeSkills(d.Skills)
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}

// IsEmpty reports whether the document has no renderable content at all.
func (d Document) IsEmpty() bool {
	return d.Contact.IsEmpty() &&
		strings.TrimSpace(d.Summary) == "" &&
		len(d.Skills) == 0 &&
		len(d.SkillCategories) == 0 &&
		len(d.Education) == 0 &&
		len(d.Projects) == 0 &&
		len(d.Experience) == 0 &&
		len(d.Certificates) == 0 &&
		len(d.Languages) == 0 &&
		len(d.CustomSections) == 0
}

// DedupeSkills drops blank labels and repeated labels (exact match), keeping
// the first occurrence.
func DedupeSkills(skills []SkillEntry) []SkillEntry {
	if len(skills) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(skills))
	out := make([]SkillEntry, 0, len(skills))
	for _, s := range skills {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, SkillEntry{Name: name, Level: strings.TrimSpace(s.Level)})
	}
	return out
}

// Normalize returns a copy with trimmed contact fields, deduplicated skills
// and canonical language proficiencies. Structure is never changed otherwise.
func Normalize(d Document) Document {
	out := d
	out.Contact = Contact{
		Name:     strings.TrimSpace(d.Contact.Name),
		JobTitle: strings.TrimSpace(d.Contact.JobTitle),
		Email:    strings.TrimSpace(d.Contact.Email),
		Phone:    strings.TrimSpace(d.Contact.Phone),
		LinkedIn: strings.TrimSpace(d.Contact.LinkedIn),
		GitHub:   strings.TrimSpace(d.Contact.GitHub),
		Location: strings.TrimSpace(d.Contact.Location),
	}
	out.Skills = DedupeSkills(d.Skills)

	if len(d.Languages) > 0 {
		out.Languages = make([]LanguageEntry, len(d.Languages))
		for i, l := range d.Languages {
			p, _ := ParseProficiency(string(l.Proficiency))
			out.Languages[i] = LanguageEntry{Name: strings.TrimSpace(l.Name), Proficiency: p}
		}
	}

	return out
}
