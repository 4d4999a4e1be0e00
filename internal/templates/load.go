package templates

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/spigell/ats-resume/internal/resume"
)

//go:embed definitions/*.yaml
var builtinFS embed.FS

// builtinOrder is the listing order of the bundled templates.
var builtinOrder = []string{"ats", "modern", "minimal"}

// DefinitionError reports every problem found in a single definition file.
type DefinitionError struct {
	Source   string
	Problems []string
	Cause    error
}

func (e *DefinitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template %s: %v", e.Source, e.Cause)
	}
	return fmt.Sprintf("template %s: %s", e.Source, strings.Join(e.Problems, "; "))
}

func (e *DefinitionError) Unwrap() error { return e.Cause }

// Builtin returns the bundled template definitions.
func Builtin() ([]Definition, error) {
	defs, err := loadFS(builtinFS, "definitions")
	if err != nil {
		return nil, err
	}

	rank := make(map[string]int, len(builtinOrder))
	for i, id := range builtinOrder {
		rank[id] = i
	}
	sort.SliceStable(defs, func(i, j int) bool {
		ri, iok := rank[defs[i].ID]
		rj, jok := rank[defs[j].ID]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return defs[i].ID < defs[j].ID
		}
	})
	return defs, nil
}

// LoadDir reads every *.yaml / *.yml definition in dir.
func LoadDir(dir string) ([]Definition, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("templates dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("templates dir %q is not a directory", dir)
	}
	return loadFS(os.DirFS(dir), ".")
}

func loadFS(fsys fs.FS, root string) ([]Definition, error) {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}

	defs := make([]Definition, 0, len(entries))
	for _, entry := range entries {
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if entry.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}

		name := path.Join(root, entry.Name())
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, fmt.Errorf("read template %s: %w", name, err)
		}

		def, err := Parse(entry.Name(), data)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Parse decodes and checks a single YAML (or JSON) definition.
func Parse(source string, data []byte) (Definition, error) {
	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Definition{}, &DefinitionError{Source: source, Cause: err}
	}

	problems, err := validateSchema(raw)
	if err != nil {
		return Definition{}, &DefinitionError{Source: source, Cause: err}
	}
	if len(problems) > 0 {
		return Definition{}, &DefinitionError{Source: source, Problems: problems}
	}

	var def Definition
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		ErrorUnused: true,
		Result:      &def,
	})
	if err != nil {
		return Definition{}, &DefinitionError{Source: source, Cause: err}
	}
	if err := decoder.Decode(raw); err != nil {
		return Definition{}, &DefinitionError{Source: source, Cause: err}
	}

	def.normalize()

	if problems := check(def); len(problems) > 0 {
		return Definition{}, &DefinitionError{Source: source, Problems: problems}
	}
	return def, nil
}

// check enforces the structural rules the schema cannot express.
func check(def Definition) []string {
	var problems []string

	if dups := duplicates(def.SectionOrder); len(dups) > 0 {
		problems = append(problems, fmt.Sprintf("sectionOrder repeats %v", dups))
	}

	if def.Layout != TwoColumn {
		if len(def.SectionOrder) == 0 {
			problems = append(problems, "sectionOrder must not be empty")
		}
		return problems
	}

	if len(def.SidebarSections) == 0 || def.SidebarSections[0] != resume.KindContact {
		problems = append(problems, "sidebarSections must start with contact")
	}

	placed := map[resume.Kind]string{}
	for _, group := range []struct {
		name  string
		kinds []resume.Kind
	}{
		{name: "sidebarSections", kinds: def.SidebarSections},
		{name: "mainSections", kinds: def.MainSections},
	} {
		for _, k := range group.kinds {
			if prev, ok := placed[k]; ok {
				problems = append(problems, fmt.Sprintf("%s lists %q already placed in %s", group.name, k, prev))
				continue
			}
			placed[k] = group.name
		}
	}

	for k := range def.SectionTitles {
		if _, ok := placed[k]; !ok {
			problems = append(problems, fmt.Sprintf("section %q has a title but no column", k))
		}
	}
	for k := range placed {
		if k == resume.KindContact {
			continue
		}
		if _, ok := def.SectionTitles[k]; !ok {
			problems = append(problems, fmt.Sprintf("section %q is placed but has no title", k))
		}
	}

	sort.Strings(problems)
	return problems
}

func duplicates(kinds []resume.Kind) []resume.Kind {
	seen := make(map[resume.Kind]bool, len(kinds))
	var dups []resume.Kind
	for _, k := range kinds {
		if seen[k] {
			dups = append(dups, k)
		}
		seen[k] = true
	}
	return dups
}
