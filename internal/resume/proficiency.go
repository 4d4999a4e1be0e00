package resume

import "strings"

// Proficiency is a language level on a fixed ordered scale.
type Proficiency string

const (
	ProficiencyBasic        Proficiency = "Basic"
	ProficiencyIntermediate Proficiency = "Intermediate"
	ProficiencyAdvanced     Proficiency = "Advanced"
	ProficiencyFluent       Proficiency = "Fluent"
	ProficiencyNative       Proficiency = "Native"
)

var proficiencyScale = []Proficiency{
	ProficiencyBasic,
	ProficiencyIntermediate,
	ProficiencyAdvanced,
	ProficiencyFluent,
	ProficiencyNative,
}

var proficiencyPercent = map[Proficiency]int{
	ProficiencyNative:       100,
	ProficiencyFluent:       90,
	ProficiencyAdvanced:     75,
	ProficiencyIntermediate: 50,
	ProficiencyBasic:        25,
}

// ParseProficiency matches s case-insensitively against the scale.
func ParseProficiency(s string) (Proficiency, bool) {
	s = strings.TrimSpace(s)
	for _, p := range proficiencyScale {
		if strings.EqualFold(s, string(p)) {
			return p, true
		}
	}
	return Proficiency(s), false
}

// Rank is the 1-based position on the scale, or 0 for unknown values.
func (p Proficiency) Rank() int {
	canonical, ok := ParseProficiency(string(p))
	if !ok {
		return 0
	}
	for i, level := range proficiencyScale {
		if level == canonical {
			return i + 1
		}
	}
	return 0
}

// Percent is the filled proportion used by progress indicators.
func (p Proficiency) Percent() int {
	canonical, _ := ParseProficiency(string(p))
	return proficiencyPercent[canonical]
}

// Less orders proficiencies along the scale.
func (p Proficiency) Less(other Proficiency) bool {
	return p.Rank() < other.Rank()
}
