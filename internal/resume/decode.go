package resume

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// List is an ordered sequence of strings that also accepts a single
// comma-joined string on input.
type List []string

// SplitList splits s on commas, trimming pieces and dropping empty ones.
func SplitList(s string) List {
	parts := strings.Split(s, ",")
	out := make(List, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Compact trims every element and drops empty ones.
func (l List) Compact() List {
	out := make(List, 0, len(l))
	for _, item := range l {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// DecodeError is returned when input cannot be turned into a Document.
type DecodeError struct {
	Stage string
	Cause error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode resume (%s): %v", e.Stage, e.Cause)
}

func (e *DecodeError) Unwrap() error { return e.Cause }

var fieldAliases = map[string]string{
	"internship":      "experience",
	"internships":     "experience",
	"formattedSkills": "skillCategories",
	"certifications":  "certificates",
}

// categoryOrder fixes the display order of well-known skill categories.
var categoryOrder = []string{"programming", "tools", "soft_skills", "other", "all"}

// Decode parses a JSON or YAML resume payload. Input is heterogeneous:
// skills may be strings or objects, technologies may be a list or a
// comma-joined string and several fields have accepted aliases.
func Decode(data []byte) (Document, error) {
	raw := map[string]any{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return Document{}, &DecodeError{Stage: "json", Cause: err}
		}
	} else if len(trimmed) > 0 {
		if err := yaml.Unmarshal(trimmed, &raw); err != nil {
			return Document{}, &DecodeError{Stage: "yaml", Cause: err}
		}
	}

	return FromMap(raw)
}

// FromMap decodes an already-parsed generic payload.
func FromMap(raw map[string]any) (Document, error) {
	var doc Document
	if len(raw) == 0 {
		return doc, nil
	}

	for alias, canonical := range fieldAliases {
		value, ok := raw[alias]
		if !ok {
			continue
		}
		if _, exists := raw[canonical]; !exists {
			raw[canonical] = value
		}
		delete(raw, alias)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &doc,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			stringToSkillsHook,
			stringToSkillEntryHook,
			stringToListHook,
			mapToSkillCategoriesHook,
		),
	})
	if err != nil {
		return Document{}, &DecodeError{Stage: "decoder", Cause: err}
	}

	if err := decoder.Decode(raw); err != nil {
		return Document{}, &DecodeError{Stage: "fields", Cause: err}
	}

	return doc, nil
}

var (
	listType       = reflect.TypeOf(List(nil))
	skillEntryType = reflect.TypeOf(SkillEntry{})
	skillsType     = reflect.TypeOf([]SkillEntry(nil))
	categoriesType = reflect.TypeOf([]SkillCategory(nil))
)

func stringToListHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != listType {
		return data, nil
	}
	return []string(SplitList(data.(string))), nil
}

func stringToSkillEntryHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != skillEntryType {
		return data, nil
	}
	return map[string]any{"name": strings.TrimSpace(data.(string))}, nil
}

func stringToSkillsHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.String || to != skillsType {
		return data, nil
	}
	labels := SplitList(data.(string))
	out := make([]map[string]any, 0, len(labels))
	for _, label := range labels {
		out = append(out, map[string]any{"name": label})
	}
	return out, nil
}

// mapToSkillCategoriesHook turns {category: [labels]} into an ordered list.
func mapToSkillCategoriesHook(from, to reflect.Type, data any) (any, error) {
	if from.Kind() != reflect.Map || to != categoriesType {
		return data, nil
	}

	generic, ok := data.(map[string]any)
	if !ok {
		return data, nil
	}

	names := make([]string, 0, len(generic))
	for name := range generic {
		names = append(names, name)
	}
	sortCategories(names)

	out := make([]map[string]any, 0, len(names))
	for _, name := range names {
		skills := categoryLabels(generic[name])
		if len(skills) == 0 {
			continue
		}
		out = append(out, map[string]any{"name": name, "skills": skills})
	}
	return out, nil
}

func categoryLabels(v any) []string {
	switch val := v.(type) {
	case string:
		return SplitList(val)
	case []any:
		labels := make([]string, 0, len(val))
		for _, item := range val {
			if item == nil {
				continue
			}
			if label := strings.TrimSpace(fmt.Sprint(item)); label != "" {
				labels = append(labels, label)
			}
		}
		return labels
	case []string:
		return List(val).Compact()
	default:
		return nil
	}
}

func sortCategories(names []string) {
	rank := func(name string) int {
		for i, known := range categoryOrder {
			if strings.EqualFold(name, known) {
				return i
			}
		}
		return len(categoryOrder)
	}
	sort.SliceStable(names, func(i, j int) bool {
		ri, rj := rank(names[i]), rank(names[j])
		if ri != rj {
			return ri < rj
		}
		return names[i] < names[j]
	})
}

// SortCategories orders categories the same way decoded input is ordered.
func SortCategories(categories []SkillCategory) []SkillCategory {
	byName := make(map[string]SkillCategory, len(categories))
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		if _, dup := byName[c.Name]; dup {
			continue
		}
		byName[c.Name] = c
		names = append(names, c.Name)
	}
	sortCategories(names)

	out := make([]SkillCategory, 0, len(names))
	for _, name := range names {
		out = append(out, byName[name])
	}
	return out
}
