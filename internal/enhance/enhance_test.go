package enhance

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spigell/ats-resume/internal/resume"
)

type stubEnhancer struct {
	mu sync.Mutex

	summary    string
	summaryErr error
	categories []resume.SkillCategory
	catErr     error
	descErr    error

	descriptions []string
}

func (s *stubEnhancer) Summary(context.Context, resume.Document) (string, error) {
	return s.summary, s.summaryErr
}

func (s *stubEnhancer) CategorizeSkills(context.Context, []string) ([]resume.SkillCategory, error) {
	return s.categories, s.catErr
}

func (s *stubEnhancer) Description(_ context.Context, text string) (string, error) {
	s.mu.Lock()
	s.descriptions = append(s.descriptions, text)
	s.mu.Unlock()
	if s.descErr != nil {
		return "", s.descErr
	}
	return "- " + strings.ToUpper(text), nil
}

func sampleDoc() resume.Document {
	return resume.Document{
		Summary:   "Student.",
		Skills:    []resume.SkillEntry{{Name: "Go"}, {Name: "SQL"}, {Name: "Docker"}, {Name: "Git"}},
		Education: []resume.EducationEntry{{Degree: "B.Tech"}},
		Experience: []resume.ExperienceEntry{
			{Title: "Intern", Description: "built ui"},
			{Title: "Volunteer"},
			{Title: "Assistant", Description: "graded papers"},
		},
	}
}

func TestDocumentAppliesEnhancements(t *testing.T) {
	stub := &stubEnhancer{
		summary: " Driven engineer. ",
		categories: []resume.SkillCategory{
			{Name: "tools", Skills: []string{"Docker", "Git"}},
			{Name: "programming", Skills: []string{"Go", "SQL"}},
		},
	}
	doc := sampleDoc()

	out, err := Document(context.Background(), doc, stub, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, "Driven engineer.", out.Summary)
	require.Len(t, out.SkillCategories, 2)
	assert.Equal(t, "programming", out.SkillCategories[0].Name)
	assert.Equal(t, "- BUILT UI", out.Experience[0].Description)
	assert.Empty(t, out.Experience[1].Description)
	assert.Equal(t, "- GRADED PAPERS", out.Experience[2].Description)
	assert.ElementsMatch(t, []string{"built ui", "graded papers"}, stub.descriptions)

	// input untouched
	assert.Equal(t, sampleDoc(), doc)
}

func TestDocumentFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	boom := errors.New("provider down")
	stub := &stubEnhancer{summaryErr: boom, catErr: boom, descErr: boom}

	out, err := Document(context.Background(), sampleDoc(), stub, zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, FallbackSummary(sampleDoc()), out.Summary)
	assert.Empty(t, out.SkillCategories)
	assert.Equal(t, "built ui", out.Experience[0].Description)
	assert.Equal(t, "graded papers", out.Experience[2].Description)
	assert.Equal(t, 4, logs.Len())
}

func TestDocumentKeepsSuppliedCategories(t *testing.T) {
	stub := &stubEnhancer{summary: "x", categories: []resume.SkillCategory{{Name: "other", Skills: []string{"Go"}}}}
	doc := sampleDoc()
	doc.SkillCategories = []resume.SkillCategory{{Name: "programming", Skills: []string{"Go"}}}

	out, err := Document(context.Background(), doc, stub, nil)
	require.NoError(t, err)
	assert.Equal(t, doc.SkillCategories, out.SkillCategories)
}

func TestDocumentSkipsSummaryWithoutInput(t *testing.T) {
	stub := &stubEnhancer{summary: "should not be used"}
	doc := resume.Document{Contact: resume.Contact{Name: "Jane"}}

	out, err := Document(context.Background(), doc, stub, nil)
	require.NoError(t, err)
	assert.Empty(t, out.Summary)
}

func TestDocumentWithoutEnhancer(t *testing.T) {
	out, err := Document(context.Background(), sampleDoc(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, sampleDoc(), out)
}

func TestDocumentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	doc := sampleDoc()
	out, err := Document(ctx, doc, &stubEnhancer{summary: "x"}, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, doc, out)
}

func TestFallbackSummary(t *testing.T) {
	assert.Equal(t,
		"Motivated B.Tech student with strong foundation in Go, SQL, Docker. "+
			"Eager to apply academic knowledge to real-world challenges. "+
			"Quick learner with excellent problem-solving abilities and team collaboration skills.",
		FallbackSummary(sampleDoc()))

	assert.True(t, strings.HasPrefix(FallbackSummary(resume.Document{}),
		"Motivated Engineering student with strong foundation in various technical skills."))
}
