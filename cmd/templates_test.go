package cmd

import (
	"encoding/json"
	"testing"

	"github.com/spigell/ats-resume/internal/resume"
	"github.com/spigell/ats-resume/internal/templates"
)

func TestDescribeTemplateResolvesEveryTitle(t *testing.T) {
	def, ok := templates.Default().Lookup("ats")
	if !ok {
		t.Fatal("ats template is not registered")
	}

	info := describeTemplate(def)

	if len(info.Titles) != len(resume.Kinds()) {
		t.Fatalf("expected a title per section kind, got %+v", info.Titles)
	}
	if got := info.Titles[resume.KindExperience]; got != "Internship Experience" {
		t.Fatalf("unexpected experience title: %q", got)
	}
	if got := info.Titles[resume.KindContact]; got != "Contact" {
		t.Fatalf("contact should fall back to its default title, got %q", got)
	}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"id", "sectionTitles", "titles", "requiredFields", "recommendedFields"} {
		if _, ok := decoded[key]; !ok {
			t.Fatalf("missing %q in %s", key, data)
		}
	}
}
