package templates

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/ats-resume/internal/resume"
)

func TestBuiltinDefinitions(t *testing.T) {
	defs, err := Builtin()
	require.NoError(t, err)
	require.Len(t, defs, 3)

	assert.Equal(t, "ats", defs[0].ID)
	assert.Equal(t, "modern", defs[1].ID)
	assert.Equal(t, "minimal", defs[2].ID)

	ats := defs[0]
	assert.Equal(t, SingleColumn, ats.Layout)
	assert.Equal(t, 22.0, ats.Fonts.NameSize)
	assert.Equal(t, SkillsChips, ats.Features.SkillsDisplay)
	assert.True(t, ats.Features.HeaderBorder)
	assert.Equal(t, "Internship Experience", ats.Title(resume.KindExperience))
	assert.Contains(t, ats.SectionOrder, resume.KindExperience)

	minimal := defs[2]
	assert.True(t, minimal.Features.CompactMode)
	assert.True(t, minimal.Features.UppercaseTitles)
	assert.Equal(t, ContactInline, minimal.Features.ContactLayout)
	assert.Equal(t, "PROFILE", minimal.Title(resume.KindSummary))
}

func TestTwoColumnTemplatesPartitionTitledSections(t *testing.T) {
	defs, err := Builtin()
	require.NoError(t, err)

	for _, def := range defs {
		if def.Layout != TwoColumn {
			continue
		}

		require.NotEmpty(t, def.SidebarSections, def.ID)
		assert.Equal(t, resume.KindContact, def.SidebarSections[0], def.ID)

		inSidebar := map[resume.Kind]bool{}
		for _, k := range def.SidebarSections {
			inSidebar[k] = true
		}
		for _, k := range def.MainSections {
			assert.False(t, inSidebar[k], "%s: %s in both columns", def.ID, k)
		}

		union := map[resume.Kind]bool{}
		for _, k := range def.Sections() {
			union[k] = true
		}
		for k := range def.SectionTitles {
			assert.True(t, union[k], "%s: titled section %s has no column", def.ID, k)
		}
		for k := range union {
			if k == resume.KindContact {
				continue
			}
			_, titled := def.SectionTitles[k]
			assert.True(t, titled, "%s: placed section %s has no title", def.ID, k)
		}
	}
}

func TestRegistryFallsBackToDefault(t *testing.T) {
	reg := Default()

	assert.Equal(t, DefaultID, reg.Get("nonexistent-id").ID)
	assert.Equal(t, DefaultID, reg.Get("").ID)
	assert.Equal(t, "modern", reg.Get(" Modern ").ID)

	_, ok := reg.Lookup("nonexistent-id")
	assert.False(t, ok)
	assert.Equal(t, []string{"ats", "modern", "minimal"}, reg.IDs())
}

func TestRegistryHandsOutCopies(t *testing.T) {
	reg := Default()

	def := reg.Get("modern")
	def.Colors["primary"] = "#ff0000"
	def.SectionTitles[resume.KindSummary] = "Changed"
	def.SidebarSections[0] = resume.KindSkills

	again := reg.Get("modern")
	assert.Equal(t, "#2c3e50", again.Colors["primary"])
	assert.Equal(t, "About Me", again.Title(resume.KindSummary))
	assert.Equal(t, resume.KindContact, again.SidebarSections[0])

	listed := reg.List()
	listed[0].ID = "mutated"
	assert.Equal(t, "ats", reg.List()[0].ID)
}

func TestNewRegistryRequiresDefault(t *testing.T) {
	_, err := NewRegistry(Definition{ID: "other", Layout: SingleColumn})
	require.Error(t, err)
}

func TestParseRejectsInvalidDefinitions(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{
			name: "unknown feature flag",
			yaml: `
id: broken
layout: single_column
fonts: {heading: Times, body: Times, nameSize: 20, sectionTitleSize: 12, bodySize: 10}
sectionOrder: [contact]
sectionTitles: {summary: Summary}
features: {showSkilLevel: true}
`,
		},
		{
			name: "bad enum",
			yaml: `
id: broken
layout: single_column
fonts: {heading: Times, body: Times, nameSize: 20, sectionTitleSize: 12, bodySize: 10}
sectionOrder: [contact]
sectionTitles: {summary: Summary}
features: {skillsDisplay: bubbles}
`,
		},
		{
			name: "sidebar without contact first",
			yaml: `
id: broken
layout: two_column
fonts: {heading: Times, body: Times, nameSize: 20, sectionTitleSize: 12, bodySize: 10}
sidebarSections: [skills, contact]
mainSections: [summary]
sectionTitles: {skills: Skills, summary: Summary}
features: {}
`,
		},
		{
			name: "section in both columns",
			yaml: `
id: broken
layout: two_column
fonts: {heading: Times, body: Times, nameSize: 20, sectionTitleSize: 12, bodySize: 10}
sidebarSections: [contact, skills]
mainSections: [summary, skills]
sectionTitles: {skills: Skills, summary: Summary}
features: {}
`,
		},
		{
			name: "alias duplicates canonical kind",
			yaml: `
id: broken
layout: single_column
fonts: {heading: Times, body: Times, nameSize: 20, sectionTitleSize: 12, bodySize: 10}
sectionOrder: [contact, internship, experience]
sectionTitles: {experience: Experience}
features: {}
`,
		},
		{
			name: "missing fonts",
			yaml: `
id: broken
layout: single_column
sectionOrder: [contact]
sectionTitles: {}
features: {}
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse("broken.yaml", []byte(tc.yaml))
			require.Error(t, err)

			var defErr *DefinitionError
			require.True(t, errors.As(err, &defErr))
			assert.Equal(t, "broken.yaml", defErr.Source)
		})
	}
}

func TestParseToleratesFutureSectionKinds(t *testing.T) {
	def, err := Parse("future.yaml", []byte(`
id: future
layout: single_column
fonts: {heading: Times, body: Times, nameSize: 20, sectionTitleSize: 12, bodySize: 10}
sectionOrder: [contact, awards, summary]
sectionTitles: {awards: Awards}
features: {}
`))
	require.NoError(t, err)
	assert.Equal(t, []resume.Kind{resume.KindContact, "awards", resume.KindSummary}, def.SectionOrder)
	assert.Equal(t, SkillsChips, def.Features.SkillsDisplay)
	assert.Equal(t, ContactCentered, def.Features.ContactLayout)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	custom := `
id: compact
name: Compact
layout: single_column
fonts: {heading: Helvetica, body: Helvetica, nameSize: 18, sectionTitleSize: 11, bodySize: 9}
sectionOrder: [contact, skills]
sectionTitles: {skills: Stack}
features: {compactMode: true}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "compact.yml"), []byte(custom), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))

	defs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "compact", defs[0].ID)

	builtin, err := Builtin()
	require.NoError(t, err)

	reg, err := NewRegistry(append(builtin, defs...)...)
	require.NoError(t, err)
	assert.Equal(t, "Stack", reg.Get("compact").Title(resume.KindSkills))
	assert.Len(t, reg.List(), 4)

	_, err = LoadDir(filepath.Join(dir, "missing"))
	require.Error(t, err)
}
