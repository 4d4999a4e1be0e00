// Package enhance rewrites resume prose with an external text generator.
//
// Enrichment only ever replaces string values and adds skill categories. Any
// provider failure falls back to a deterministic value so that a document is
// always produced.
package enhance

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spigell/ats-resume/internal/resume"
)

const maxParallel = 4

// Enhancer is implemented by text-generation providers.
type Enhancer interface {
	Summary(ctx context.Context, doc resume.Document) (string, error)
	CategorizeSkills(ctx context.Context, skills []string) ([]resume.SkillCategory, error)
	Description(ctx context.Context, text string) (string, error)
}

// FallbackSummary builds a summary from the first degree and up to three skills.
func FallbackSummary(doc resume.Document) string {
	degree := "Engineering"
	if len(doc.Education) > 0 && strings.TrimSpace(doc.Education[0].Degree) != "" {
		degree = strings.TrimSpace(doc.Education[0].Degree)
	}

	skills := "various technical skills"
	if names := doc.SkillNames(); len(names) > 0 {
		if len(names) > 3 {
			names = names[:3]
		}
		skills = strings.Join(names, ", ")
	}

	return fmt.Sprintf("Motivated %s student with strong foundation in %s. "+
		"Eager to apply academic knowledge to real-world challenges. "+
		"Quick learner with excellent problem-solving abilities and team collaboration skills.", degree, skills)
}

// Document returns an enriched copy of doc. The summary is generated when the
// document has a summary or skills, skills are categorized unless categories
// were supplied, and every experience description is rewritten. Provider
// errors are logged and replaced by fallbacks; only cancellation of ctx is
// returned.
func Document(ctx context.Context, doc resume.Document, e Enhancer, logger *zap.Logger) (resume.Document, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	out := doc
	out.Experience = append([]resume.ExperienceEntry(nil), doc.Experience...)
	if e == nil {
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallel)

	skills := doc.SkillNames()

	if strings.TrimSpace(doc.Summary) != "" || len(skills) > 0 {
		g.Go(func() error {
			summary, err := e.Summary(gctx, doc)
			if err == nil {
				summary = strings.TrimSpace(summary)
			}
			if err != nil || summary == "" {
				logger.Warn("summary generation failed, using fallback", zap.Error(err))
				summary = FallbackSummary(doc)
			}
			out.Summary = summary
			return nil
		})
	}

	if len(skills) > 0 && len(doc.SkillCategories) == 0 {
		g.Go(func() error {
			categories, err := e.CategorizeSkills(gctx, skills)
			if err != nil {
				logger.Warn("skill categorization failed, keeping flat list", zap.Error(err))
				return nil
			}
			out.SkillCategories = resume.SortCategories(categories)
			return nil
		})
	}

	for i := range out.Experience {
		original := out.Experience[i].Description
		if strings.TrimSpace(original) == "" {
			continue
		}
		g.Go(func() error {
			rewritten, err := e.Description(gctx, original)
			if err != nil || strings.TrimSpace(rewritten) == "" {
				logger.Warn("description rewrite failed, keeping original",
					zap.Int("entry", i),
					zap.Error(err),
				)
				return nil
			}
			out.Experience[i].Description = strings.TrimSpace(rewritten)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return doc, err
	}
	if err := ctx.Err(); err != nil {
		return doc, err
	}

	logger.Debug("document enhanced",
		zap.Int("skills", len(skills)),
		zap.Int("categories", len(out.SkillCategories)),
		zap.Int("experience", len(out.Experience)),
	)
	return out, nil
}
