package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/ats-resume/internal/resume"
)

type textGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

const (
	defaultMaxLogLength     = 200
	defaultTone             = "Professional"
	maxUserInstructionRunes = 500
)

var (
	//go:embed prompts/system.md
	systemPrompt string
	//go:embed prompts/summary.md
	summaryPrompt string
	//go:embed prompts/categorize.md
	categorizePrompt string
	//go:embed prompts/description.md
	descriptionPrompt string
)

// PromptOverrides carries optional user preferences injected into prompts.
// They are advisory and sanitized before use.
type PromptOverrides struct {
	Tone             string
	Keywords         string
	UserInstructions string
}

// Enhancer implements enhance.Enhancer on top of a Gemini generator.
type Enhancer struct {
	generator textGenerator
	logger    *zap.Logger
	overrides PromptOverrides
}

func NewEnhancer(generator textGenerator, logger *zap.Logger) *Enhancer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enhancer{generator: generator, logger: logger}
}

func (e *Enhancer) SetPromptOverrides(o PromptOverrides) {
	e.overrides = o
}

func (e *Enhancer) Summary(ctx context.Context, doc resume.Document) (string, error) {
	degree := "Engineering student"
	if len(doc.Education) > 0 && strings.TrimSpace(doc.Education[0].Degree) != "" {
		degree = strings.TrimSpace(doc.Education[0].Degree)
	}

	prompt := e.fill(summaryPrompt, map[string]string{
		"SUMMARY":   orNotProvided(doc.Summary),
		"SKILLS":    orNotProvided(strings.Join(doc.SkillNames(), ", ")),
		"EDUCATION": degree,
	})

	raw, err := e.generator.GenerateContent(ctx, systemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("generate summary: %w", err)
	}
	return cleanProse(raw), nil
}

func (e *Enhancer) CategorizeSkills(ctx context.Context, skills []string) ([]resume.SkillCategory, error) {
	if len(skills) == 0 {
		return nil, nil
	}

	prompt := e.fill(categorizePrompt, map[string]string{
		"SKILLS": strings.Join(skills, ", "),
	})

	raw, err := e.generator.GenerateContent(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, fmt.Errorf("categorize skills: %w", err)
	}

	categories, err := parseCategories(raw)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("skills categorized",
		zap.Int("skills", len(skills)),
		zap.Int("categories", len(categories)),
	)
	return categories, nil
}

func (e *Enhancer) Description(ctx context.Context, text string) (string, error) {
	prompt := e.fill(descriptionPrompt, map[string]string{
		"DESCRIPTION": strings.TrimSpace(text),
	})

	raw, err := e.generator.GenerateContent(ctx, systemPrompt, prompt)
	if err != nil {
		return "", fmt.Errorf("rewrite description: %w", err)
	}
	return strings.TrimSpace(extractJSON(raw)), nil
}

func (e *Enhancer) fill(template string, values map[string]string) string {
	values["TONE"] = singleLine(e.overrides.Tone, defaultTone)
	values["KEYWORDS"] = keywordList(e.overrides.Keywords)
	values["USER_INSTRUCTIONS"] = instructionsBlock(e.overrides.UserInstructions)

	pairs := make([]string, 0, 2*len(values))
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func parseCategories(raw string) ([]resume.SkillCategory, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(extractJSON(raw)), &data); err != nil {
		return nil, fmt.Errorf("parse gemini categories: %w", err)
	}

	var out []resume.SkillCategory
	for name, value := range data {
		skills := coerceStrings(value)
		if len(skills) == 0 {
			continue
		}
		out = append(out, resume.SkillCategory{Name: strings.TrimSpace(name), Skills: skills})
	}
	return resume.SortCategories(out), nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func coerceStrings(v any) []string {
	switch val := v.(type) {
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := coerceString(item); s != "" {
				out = append(out, s)
			}
		}
		return out
	case string:
		return resume.SplitList(val)
	default:
		return nil
	}
}

func coerceString(v any) string {
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		if v == nil {
			return ""
		}
		bytes, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(bytes)
	}
}

// cleanProse strips code fences and wrapping quotes from a free-text answer.
func cleanProse(raw string) string {
	out := strings.TrimSpace(extractJSON(raw))
	if len(out) >= 2 && out[0] == '"' && out[len(out)-1] == '"' {
		out = strings.TrimSpace(out[1 : len(out)-1])
	}
	return out
}

func orNotProvided(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return "Not provided"
	}
	return s
}

func neutralizeBrackets(s string) string {
	return strings.NewReplacer("[", "(", "]", ")", "{{", "(", "}}", ")").Replace(s)
}

func singleLine(s, fallback string) string {
	s = strings.Join(strings.Fields(neutralizeBrackets(s)), " ")
	if s == "" {
		return fallback
	}
	return s
}

func keywordList(s string) string {
	items := resume.SplitList(neutralizeBrackets(s))
	for i, item := range items {
		items[i] = strings.Join(strings.Fields(item), " ")
	}
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

// instructionsBlock renders free-form user notes as an indented list, one item
// per non-empty line, capped at maxUserInstructionRunes.
func instructionsBlock(s string) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) > maxUserInstructionRunes {
		runes = runes[:maxUserInstructionRunes]
	}

	var lines []string
	for _, line := range strings.Split(neutralizeBrackets(string(runes)), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, "  - "+line)
		}
	}
	if len(lines) == 0 {
		return "  - none"
	}
	return strings.Join(lines, "\n")
}
