package formatter

import (
	"regexp"
	"strings"

	"github.com/spigell/ats-resume/internal/resume"
	"github.com/spigell/ats-resume/internal/templates"
)

const (
	NamePlaceholder = "Name Not Provided"
	DefaultRole     = "Developer"
	DefaultProject  = "Project"

	contactSeparator = " | "
)

var (
	atsUnsafe    = regexp.MustCompile(`[^\w\s.,;:-]`)
	bulletMarker = regexp.MustCompile(`^[•\-*]?\s*`)
)

// Contact returns nil when no contact field is set at all.
func Contact(c resume.Contact, f templates.Features) *ContactSection {
	if c.IsEmpty() {
		return nil
	}

	s := &ContactSection{
		Header:   Header{Kind: resume.KindContact},
		Name:     strings.TrimSpace(c.Name),
		JobTitle: strings.TrimSpace(c.JobTitle),
		Email:    strings.TrimSpace(c.Email),
		Phone:    strings.TrimSpace(c.Phone),
		LinkedIn: strings.TrimSpace(c.LinkedIn),
		GitHub:   strings.TrimSpace(c.GitHub),
		Location: strings.TrimSpace(c.Location),
		Layout:   f.ContactLayout,
	}
	if s.Name == "" {
		s.Name = NamePlaceholder
	}

	if s.Email != "" {
		s.Items = append(s.Items, s.Email)
	}
	if s.Phone != "" {
		s.Items = append(s.Items, s.Phone)
	}
	if s.LinkedIn != "" {
		s.Items = append(s.Items, "LinkedIn")
	}
	if s.GitHub != "" {
		s.Items = append(s.Items, "GitHub")
	}
	if s.Location != "" {
		s.Items = append(s.Items, s.Location)
	}
	s.Line = strings.Join(s.Items, contactSeparator)

	return s
}

// Summary keeps the text as written and adds an ATS-safe variant.
func Summary(text string, _ templates.Features) *SummarySection {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return &SummarySection{
		Header:     Header{Kind: resume.KindSummary},
		Content:    text,
		ATSContent: ATSSafe(text),
	}
}

// ATSSafe strips everything except word characters, whitespace and . , ; : -
func ATSSafe(text string) string {
	return atsUnsafe.ReplaceAllString(text, "")
}

// Skills prefers the categorized breakdown when one is supplied.
func Skills(skills []resume.SkillEntry, categories []resume.SkillCategory, f templates.Features) *SkillsSection {
	flat := resume.DedupeSkills(skills)
	grouped := compactCategories(categories)
	if len(flat) == 0 && len(grouped) == 0 {
		return nil
	}

	labels := make([]string, 0, len(flat))
	for _, s := range flat {
		labels = append(labels, s.Name)
	}
	if len(labels) == 0 {
		seen := map[string]bool{}
		for _, c := range grouped {
			for _, label := range c.Skills {
				if !seen[label] {
					seen[label] = true
					labels = append(labels, label)
				}
			}
		}
	}

	return &SkillsSection{
		Header:     Header{Kind: resume.KindSkills},
		Skills:     flat,
		Categories: grouped,
		ATSContent: strings.Join(labels, ", "),
		Display:    f.SkillsDisplay,
		ShowLevel:  f.ShowSkillLevel,
	}
}

func compactCategories(categories []resume.SkillCategory) []resume.SkillCategory {
	var out []resume.SkillCategory
	for _, c := range categories {
		skills := resume.List(c.Skills).Compact()
		name := strings.TrimSpace(c.Name)
		if name == "" || len(skills) == 0 {
			continue
		}
		out = append(out, resume.SkillCategory{Name: name, Skills: skills})
	}
	return out
}

// Education keeps entries with blank optional fields.
func Education(entries []resume.EducationEntry, _ templates.Features) *EducationSection {
	out := make([]EducationItem, 0, len(entries))
	for _, e := range entries {
		item := EducationItem{
			Degree:      strings.TrimSpace(e.Degree),
			Institution: firstNonEmpty(e.College, e.Institution),
			Year:        strings.TrimSpace(e.Year),
			GPA:         strings.TrimSpace(e.GPA),
			Coursework:  e.Coursework.Compact(),
		}
		if item.Degree == "" && item.Institution == "" && item.Year == "" && item.GPA == "" && len(item.Coursework) == 0 {
			continue
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil
	}
	return &EducationSection{Header: Header{Kind: resume.KindEducation}, Entries: out}
}

func Experience(entries []resume.ExperienceEntry, _ templates.Features) *ExperienceSection {
	out := make([]ExperienceItem, 0, len(entries))
	for _, e := range entries {
		item := ExperienceItem{
			Title:       firstNonEmpty(e.Role, e.Title),
			Company:     strings.TrimSpace(e.Company),
			Duration:    strings.TrimSpace(e.Duration),
			Description: strings.TrimSpace(e.Description),
		}
		item.Bullets = FormatBullets(item.Description)
		if item.Title == "" && item.Company == "" && item.Duration == "" && item.Description == "" {
			continue
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil
	}
	return &ExperienceSection{Header: Header{Kind: resume.KindExperience}, Entries: out}
}

// FormatBullets splits free text into bullet lines. Text containing a
// newline, bullet glyph or hyphen is split on all three; anything else is a
// single bullet. Applying it to its own joined output is a no-op.
func FormatBullets(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if !strings.ContainsAny(text, "\n•-") {
		return []string{text}
	}

	pieces := strings.FieldsFunc(text, func(r rune) bool {
		return r == '\n' || r == '•' || r == '-'
	})
	out := make([]string, 0, len(pieces))
	for _, p := range pieces {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func Projects(entries []resume.ProjectEntry, _ templates.Features) *ProjectsSection {
	out := make([]Project, 0, len(entries))
	for _, e := range entries {
		technologies := e.Technologies.Compact()
		achievements := resume.List(e.Achievements).Compact()
		description := strings.TrimSpace(e.Description)
		if firstNonEmpty(e.Name, e.Role, e.Duration, e.Link, description) == "" && len(technologies) == 0 && len(achievements) == 0 {
			continue
		}
		if technologies == nil {
			technologies = []string{}
		}
		if achievements == nil {
			achievements = []string{}
		}

		out = append(out, Project{
			Name:             firstNonEmpty(e.Name, DefaultProject),
			Role:             firstNonEmpty(e.Role, DefaultRole),
			Technologies:     technologies,
			Duration:         strings.TrimSpace(e.Duration),
			Description:      description,
			Link:             strings.TrimSpace(e.Link),
			Responsibilities: responsibilities(description),
			Achievements:     achievements,
		})
	}
	if len(out) == 0 {
		return nil
	}
	return &ProjectsSection{Header: Header{Kind: resume.KindProjects}, Entries: out}
}

func responsibilities(description string) []string {
	out := []string{}
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(bulletMarker.ReplaceAllString(strings.TrimSpace(line), ""))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func Certificates(entries []resume.CertificateEntry, _ templates.Features) *CertificatesSection {
	out := make([]Certificate, 0, len(entries))
	for _, e := range entries {
		item := Certificate{
			Name:         firstNonEmpty(e.Name, e.Title),
			Issuer:       firstNonEmpty(e.Issuer, e.Organization),
			Date:         strings.TrimSpace(e.Date),
			CredentialID: strings.TrimSpace(e.CredentialID),
		}
		if item == (Certificate{}) {
			continue
		}
		out = append(out, item)
	}
	if len(out) == 0 {
		return nil
	}
	return &CertificatesSection{Header: Header{Kind: resume.KindCertificates}, Entries: out}
}

// Languages passes entries through; proficiency bars are drawn by the renderer.
func Languages(entries []resume.LanguageEntry, f templates.Features) *LanguagesSection {
	out := make([]Language, 0, len(entries))
	for _, e := range entries {
		if strings.TrimSpace(e.Name) == "" {
			continue
		}
		out = append(out, Language{Name: e.Name, Proficiency: e.Proficiency})
	}
	if len(out) == 0 {
		return nil
	}
	return &LanguagesSection{
		Header:   Header{Kind: resume.KindLanguages},
		Entries:  out,
		Progress: f.LanguageProgress,
	}
}

// Custom yields one section per entry that has a title or content.
func Custom(entries []resume.CustomSection, _ templates.Features) []*CustomSection {
	var out []*CustomSection
	for _, e := range entries {
		if strings.TrimSpace(e.Title) == "" && strings.TrimSpace(e.Content) == "" {
			continue
		}
		out = append(out, &CustomSection{
			Header:  Header{Kind: resume.KindCustom, Title: e.Title},
			Content: e.Content,
		})
	}
	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
