package resume

import "strings"

// Kind identifies a renderable resume section.
type Kind string

const (
	KindContact      Kind = "contact"
	KindSummary      Kind = "summary"
	KindSkills       Kind = "skills"
	KindEducation    Kind = "education"
	KindProjects     Kind = "projects"
	KindExperience   Kind = "experience"
	KindCertificates Kind = "certificates"
	KindLanguages    Kind = "languages"
	KindCustom       Kind = "custom"
)

var kinds = []Kind{
	KindContact,
	KindSummary,
	KindSkills,
	KindEducation,
	KindProjects,
	KindExperience,
	KindCertificates,
	KindLanguages,
	KindCustom,
}

var kindAliases = map[string]Kind{
	"internship":     KindExperience,
	"internships":    KindExperience,
	"work":           KindExperience,
	"certifications": KindCertificates,
	"customsections": KindCustom,
}

var defaultTitles = map[Kind]string{
	KindContact:      "Contact",
	KindSummary:      "Professional Summary",
	KindSkills:       "Skills",
	KindEducation:    "Education",
	KindProjects:     "Projects",
	KindExperience:   "Experience",
	KindCertificates: "Certifications",
	KindLanguages:    "Languages",
	KindCustom:       "Additional Information",
}

// Kinds returns every known section kind in canonical order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind normalizes a section tag. Aliases such as "internship" map to
// their canonical kind. Unknown tags are returned lowercased with ok=false so
// callers can carry them without failing.
func ParseKind(s string) (Kind, bool) {
	tag := strings.ToLower(strings.TrimSpace(s))
	if alias, ok := kindAliases[tag]; ok {
		return alias, true
	}
	k := Kind(tag)
	return k, k.Known()
}

// Known reports whether k is one of the canonical kinds.
func (k Kind) Known() bool {
	_, ok := defaultTitles[k]
	return ok
}

// DefaultTitle is used when a template does not title the section itself.
func (k Kind) DefaultTitle() string {
	if title, ok := defaultTitles[k]; ok {
		return title
	}
	return string(k)
}

func (k Kind) String() string { return string(k) }
