package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spigell/ats-resume/internal/resume"
	"github.com/spigell/ats-resume/internal/templates"
)

var features = templates.Features{SkillsDisplay: templates.SkillsChips, ContactLayout: templates.ContactCentered}

func TestContact(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		contact  resume.Contact
		wantNil  bool
		wantName string
		wantLine string
	}{
		{
			name:     "skips absent fields without stray separators",
			contact:  resume.Contact{Name: "A. Kumar", Email: "a@x.com", Phone: "9876543210"},
			wantName: "A. Kumar",
			wantLine: "a@x.com | 9876543210",
		},
		{
			name: "profile links become tokens",
			contact: resume.Contact{
				Name:     "Jane",
				Email:    "jane@example.com",
				LinkedIn: "https://linkedin.com/in/jane",
				GitHub:   "https://github.com/jane",
				Location: "Pune",
			},
			wantName: "Jane",
			wantLine: "jane@example.com | LinkedIn | GitHub | Pune",
		},
		{
			name:     "missing name gets placeholder",
			contact:  resume.Contact{Phone: "123"},
			wantName: NamePlaceholder,
			wantLine: "123",
		},
		{
			name:     "name only",
			contact:  resume.Contact{Name: "Jane"},
			wantName: "Jane",
			wantLine: "",
		},
		{
			name:    "empty contact",
			contact: resume.Contact{Name: "  "},
			wantNil: true,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := Contact(tc.contact, features)
			if tc.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, resume.KindContact, got.Kind)
			assert.Equal(t, tc.wantName, got.Name)
			assert.Equal(t, tc.wantLine, got.Line)
		})
	}
}

func TestSummary(t *testing.T) {
	assert.Nil(t, Summary(" \n ", features))

	text := "Builds APIs (Go/Rust) & ships fast! 100% test-driven; detail: yes."
	got := Summary(text, features)
	require.NotNil(t, got)
	assert.Equal(t, text, got.Content)
	assert.Equal(t, "Builds APIs GoRust  ships fast 100 test-driven; detail: yes.", got.ATSContent)
}

func TestSkills(t *testing.T) {
	assert.Nil(t, Skills(nil, nil, features))

	t.Run("flat", func(t *testing.T) {
		got := Skills([]resume.SkillEntry{{Name: "Go", Level: "Advanced"}, {Name: "SQL"}, {Name: "Go"}}, nil, features)
		require.NotNil(t, got)
		assert.False(t, got.Categorized())
		assert.Len(t, got.Skills, 2)
		assert.Equal(t, "Go, SQL", got.ATSContent)
		assert.Equal(t, templates.SkillsChips, got.Display)
	})

	t.Run("categorized", func(t *testing.T) {
		got := Skills(
			[]resume.SkillEntry{{Name: "Go"}, {Name: "Git"}},
			[]resume.SkillCategory{{Name: "programming", Skills: []string{"Go"}}, {Name: "tools", Skills: []string{"Git", " "}}, {Name: "empty"}},
			features,
		)
		require.NotNil(t, got)
		assert.True(t, got.Categorized())
		require.Len(t, got.Categories, 2)
		assert.Equal(t, []string{"Git"}, got.Categories[1].Skills)
		assert.Equal(t, "Go, Git", got.ATSContent)
	})

	t.Run("categories only", func(t *testing.T) {
		got := Skills(nil, []resume.SkillCategory{{Name: "all", Skills: []string{"Go", "SQL"}}}, features)
		require.NotNil(t, got)
		assert.Equal(t, "Go, SQL", got.ATSContent)
	})
}

func TestAddingDuplicateSkillKeepsRenderedCount(t *testing.T) {
	doc := resume.Document{Skills: []resume.SkillEntry{{Name: "Go"}, {Name: "SQL"}}}
	before := len(Skills(doc.Skills, nil, features).Skills)

	doc.Skills = append(doc.Skills, resume.SkillEntry{Name: "Go"})
	after := len(Skills(doc.Skills, nil, features).Skills)

	assert.Equal(t, before, after)
}

func TestEducation(t *testing.T) {
	got := Education([]resume.EducationEntry{
		{Degree: "B.Tech", College: " ", Institution: "IIT", Year: "2024"},
		{Degree: "School", College: "DPS"},
		{},
	}, features)
	require.NotNil(t, got)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, []EducationItem{
		{Degree: "B.Tech", Institution: "IIT", Year: "2024"},
		{Degree: "School", Institution: "DPS"},
	}, got.Entries)

	assert.Nil(t, Education([]resume.EducationEntry{{}}, features))
}

func TestFormatBullets(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want []string
	}{
		{name: "mixed separators", in: "Built UI\n- Wrote tests\n• Shipped feature", want: []string{"Built UI", "Wrote tests", "Shipped feature"}},
		{name: "single sentence", in: "  Maintained the build  ", want: []string{"Maintained the build"}},
		{name: "blank", in: " \n ", want: nil},
		{name: "only separators", in: "-\n•", want: nil},
		{name: "hyphen inside words splits", in: "Built in-house tools", want: []string{"Built in", "house tools"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, FormatBullets(tc.in))
		})
	}
}

func TestFormatBulletsIdempotent(t *testing.T) {
	inputs := []string{
		"Built UI\n- Wrote tests\n• Shipped feature",
		"one line",
		"a-b-c",
		"\n\n•  x \n- y -",
		"",
	}
	for _, in := range inputs {
		once := FormatBullets(in)
		twice := FormatBullets(strings.Join(once, "\n"))
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestExperience(t *testing.T) {
	got := Experience([]resume.ExperienceEntry{
		{Title: "Intern", Company: "Acme", Description: "Built UI\n- Wrote tests\n• Shipped feature"},
		{Role: "Developer", Title: "ignored"},
		{},
	}, features)
	require.NotNil(t, got)
	require.Len(t, got.Entries, 2)
	assert.Equal(t, []ExperienceItem{
		{
			Title:       "Intern",
			Company:     "Acme",
			Description: "Built UI\n- Wrote tests\n• Shipped feature",
			Bullets:     []string{"Built UI", "Wrote tests", "Shipped feature"},
		},
		{Title: "Developer"},
	}, got.Entries)
}

func TestProjects(t *testing.T) {
	doc, err := resume.Decode([]byte(`projects:
  - name: Tracker
    technologies: "React, Node.js,  MongoDB "
    description: |
      • Designed the schema

      - Wrote the API
  - description: Side work
  - {}
`))
	require.NoError(t, err)

	got := Projects(doc.Projects, features)
	require.NotNil(t, got)
	require.Len(t, got.Entries, 2)

	first := got.Entries[0]
	assert.Equal(t, []string{"React", "Node.js", "MongoDB"}, first.Technologies)
	assert.Equal(t, DefaultRole, first.Role)
	assert.Equal(t, []string{"Designed the schema", "Wrote the API"}, first.Responsibilities)
	assert.Equal(t, []string{}, first.Achievements)

	second := got.Entries[1]
	assert.Equal(t, DefaultProject, second.Name)
	assert.Equal(t, []string{}, second.Technologies)
	assert.Equal(t, []string{"Side work"}, second.Responsibilities)
}

func TestCertificates(t *testing.T) {
	got := Certificates([]resume.CertificateEntry{
		{Title: "CKA", Organization: "CNCF", Date: "2024"},
		{Name: "AWS SA", Title: "ignored", Issuer: "Amazon", Organization: "ignored", CredentialID: "X1"},
		{},
	}, features)
	require.NotNil(t, got)
	assert.Equal(t, []Certificate{
		{Name: "CKA", Issuer: "CNCF", Date: "2024"},
		{Name: "AWS SA", Issuer: "Amazon", CredentialID: "X1"},
	}, got.Entries)
}

func TestLanguages(t *testing.T) {
	got := Languages([]resume.LanguageEntry{{Name: "English", Proficiency: resume.ProficiencyFluent}, {Name: ""}},
		templates.Features{LanguageProgress: true})
	require.NotNil(t, got)
	assert.True(t, got.Progress)
	assert.Equal(t, []Language{{Name: "English", Proficiency: resume.ProficiencyFluent}}, got.Entries)

	assert.Nil(t, Languages(nil, features))
}

func TestCustom(t *testing.T) {
	got := Custom([]resume.CustomSection{
		{Title: "Awards", Content: "Hackathon winner"},
		{},
		{Title: "Volunteering", Content: "Mentor"},
	}, features)
	require.Len(t, got, 2)
	assert.Equal(t, "Awards", got[0].Title)
	assert.Equal(t, resume.KindCustom, got[1].Kind)
	assert.Equal(t, "Mentor", got[1].Content)

	assert.Empty(t, Custom(nil, features))
}

func TestFormattersReturnNilForEmptyData(t *testing.T) {
	assert.Nil(t, Contact(resume.Contact{}, features))
	assert.Nil(t, Summary("", features))
	assert.Nil(t, Skills(nil, nil, features))
	assert.Nil(t, Education(nil, features))
	assert.Nil(t, Experience(nil, features))
	assert.Nil(t, Projects(nil, features))
	assert.Nil(t, Certificates(nil, features))
	assert.Nil(t, Languages(nil, features))
	assert.Nil(t, Custom(nil, features))
}
