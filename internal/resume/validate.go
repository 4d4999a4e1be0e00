package resume

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Report carries caller-side validation findings. It is never an error:
// formatting and rendering tolerate every finding listed here.
type Report struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

// IsValid reports whether no required field is missing.
func (r Report) IsValid() bool { return len(r.Errors) == 0 }

// RequiredFields and RecommendedFields describe the checks Validate performs.
var (
	RequiredFields    = []string{"contact.name", "contact.email"}
	RecommendedFields = []string{"skills", "education", "summary"}
)

type identity struct {
	Name  string `validate:"required"`
	Email string `validate:"required"`
}

type recommended struct {
	Skills    []SkillEntry     `validate:"min=1"`
	Education []EducationEntry `validate:"min=1"`
	Summary   string           `validate:"required"`
}

var identityMessages = map[string]string{
	"Name":  "Name is required",
	"Email": "Email is required",
}

var recommendedMessages = map[string]string{
	"Skills":    "Adding skills is recommended",
	"Education": "Adding education is recommended",
	"Summary":   "A professional summary helps with ATS scoring",
}

var validate = validator.New()

// Validate checks identity fields and recommended sections.
func Validate(doc Document) Report {
	report := Report{Errors: []string{}, Warnings: []string{}}

	report.Errors = append(report.Errors, check(identity{
		Name:  strings.TrimSpace(doc.Contact.Name),
		Email: strings.TrimSpace(doc.Contact.Email),
	}, identityMessages)...)

	email := strings.TrimSpace(doc.Contact.Email)
	if email != "" && validate.Var(email, "email") != nil {
		report.Warnings = append(report.Warnings, "Email address looks malformed")
	}

	report.Warnings = append(report.Warnings, check(recommended{
		Skills:    DedupeSkills(doc.Skills),
		Education: doc.Education,
		Summary:   strings.TrimSpace(doc.Summary),
	}, recommendedMessages)...)

	return report
}

func check(v any, messages map[string]string) []string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}

	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if msg, ok := messages[fe.Field()]; ok {
			out = append(out, msg)
		}
	}
	return out
}
