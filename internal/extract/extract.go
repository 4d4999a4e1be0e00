// Package extract recovers a partial resume from unstructured text.
//
// Every rule is best-effort: a pattern that does not match leaves the field
// empty and never produces an error.
package extract

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spigell/ats-resume/internal/resume"
)

var (
	emailPattern    = regexp.MustCompile(`[\w.-]+@[\w.-]+\.\w+`)
	phonePattern    = regexp.MustCompile(`(\+\d{1,3}[-.\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	linkedInPattern = regexp.MustCompile(`(?i)linkedin\.com/in/[\w-]+`)
	gitHubPattern   = regexp.MustCompile(`(?i)github\.com/[\w-]+`)
	punctuation     = regexp.MustCompile(`[^\w\s]`)

	summaryHeading = regexp.MustCompile(`(?im)^[ \t]*(?:professional[ \t]+|career[ \t]+)?(?:summary|objective|profile)\b[ \t]*:?[ \t]*`)
	stopHeading    = regexp.MustCompile(`(?i)^\s*(?:education|experience|skills)\b`)
)

// SkillKeywords is the fixed vocabulary scanned for skills, in output order.
var SkillKeywords = []string{
	"python", "java", "javascript", "c++", "c#", "html", "css",
	"react", "angular", "vue", "node.js", "express", "django", "flask",
	"sql", "mongodb", "postgresql", "mysql", "git", "docker", "aws",
	"machine learning", "data science", "tensorflow", "pytorch",
}

var skillPatterns = compileSkills(SkillKeywords)

// Degree patterns in priority order. Only the first pattern that matches
// anywhere in the text is used.
var degreePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bB\.?E\b\.?\s*(?:in\s+)?\w+`),
	regexp.MustCompile(`(?i)\bB\.?Tech\b\.?\s*(?:in\s+)?\w+`),
	regexp.MustCompile(`(?i)\bBachelor(?:'s)?\s+of\s+\w+`),
	regexp.MustCompile(`(?i)\bM\.?S\b\.?\s*(?:in\s+)?\w+`),
	regexp.MustCompile(`(?i)\bMaster(?:'s)?\s+of\s+\w+`),
}

// Extract builds a partial document from raw text. Experience and
// certificates are never populated.
func Extract(raw string) resume.Document {
	doc := resume.Document{
		Contact:      Contact(raw),
		Summary:      Summary(raw),
		Education:    Education(raw),
		Experience:   []resume.ExperienceEntry{},
		Certificates: []resume.CertificateEntry{},
	}
	for _, skill := range Skills(raw) {
		doc.AddSkill(resume.SkillEntry{Name: skill})
	}
	return doc
}

func Contact(raw string) resume.Contact {
	c := resume.Contact{
		Name:  Name(raw),
		Email: emailPattern.FindString(raw),
		Phone: phonePattern.FindString(raw),
	}
	if m := linkedInPattern.FindString(raw); m != "" {
		c.LinkedIn = "https://" + m
	}
	if m := gitHubPattern.FindString(raw); m != "" {
		c.GitHub = "https://" + m
	}
	return c
}

// Name takes the first non-empty line with punctuation removed.
func Name(raw string) string {
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			return strings.TrimSpace(punctuation.ReplaceAllString(line, ""))
		}
	}
	return ""
}

// Skills returns the keywords found in raw as whole words, in keyword order.
func Skills(raw string) []string {
	var found []string
	seen := map[string]bool{}
	for i, pattern := range skillPatterns {
		if !pattern.MatchString(raw) {
			continue
		}
		label := capitalize(SkillKeywords[i])
		if !seen[label] {
			seen[label] = true
			found = append(found, label)
		}
	}
	return found
}

// Education returns at most one entry holding the first matching degree.
func Education(raw string) []resume.EducationEntry {
	for _, pattern := range degreePatterns {
		if m := pattern.FindString(raw); m != "" {
			return []resume.EducationEntry{{Degree: strings.TrimSpace(m)}}
		}
	}
	return nil
}

// Summary returns the text after a summary, objective or profile heading,
// up to a blank line or the next education, experience or skills heading.
// Lines are joined with single spaces.
func Summary(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	loc := summaryHeading.FindStringIndex(raw)
	if loc == nil {
		return ""
	}

	rest := raw[loc[1]:]
	first, tail, _ := strings.Cut(rest, "\n")

	var parts []string
	if first = strings.TrimSpace(first); first != "" {
		if stopHeading.MatchString(first) {
			return ""
		}
		parts = append(parts, first)
	}

	for _, line := range strings.Split(tail, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if len(parts) == 0 {
				continue
			}
			break
		}
		if stopHeading.MatchString(line) {
			break
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

// compileSkills builds case-insensitive whole-word matchers. Word edges are
// custom so that symbols such as "c++" and "node.js" match as written while
// "java" does not match inside "javascript".
func compileSkills(keywords []string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		out[i] = regexp.MustCompile(`(?i)(?:^|[^\w+#.])` + regexp.QuoteMeta(kw) + `(?:$|[^\w+#])`)
	}
	return out
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
