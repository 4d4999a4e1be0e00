// Package pipeline prepares a resume document before formatting. Steps run in
// order and each one can be disabled without removing it from the list.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spigell/ats-resume/internal/enhance"
	"github.com/spigell/ats-resume/internal/resume"
)

// Step represents a single preparation step applied to a document.
type Step interface {
	Name() string
	Disable(reason string)
	IsEnabled() bool

	Validate(cfg *Config) error
	Apply(ctx context.Context, deps Deps, doc resume.Document) (resume.Document, Stats, error)
}

// Deps aggregates dependencies shared across all steps.
type Deps struct {
	Logger   *zap.Logger
	Enhancer enhance.Enhancer
}

// Stats counts list entries (skills, education, experience, ...) around a step.
type Stats struct {
	Initial int
	Dropped int
	Left    int
}

// Config contains settings consumed by the steps.
type Config struct {
	// Strict turns validation errors into a pipeline failure.
	Strict bool
	AI     *AIConfig
}

type AIConfig struct {
	Enabled  bool
	Provider string
	Gemini   *GeminiConfig
}

type GeminiConfig struct {
	Model        string
	MaxRetries   int
	MaxLogLength int
}

// Status represents runtime information about a step.
type Status struct {
	Name    string
	Enabled bool
	Reason  string
	Details map[string]string
}

type statusProvider interface {
	Status() Status
}

type reportCollector interface {
	Report() resume.Report
}

// Default returns the standard steps in execution order.
func Default() []Step {
	return []Step{NewNormalize(), NewValidate(), NewEnhance()}
}

// DisableByName marks a step with the provided name as disabled while keeping it in the list.
func DisableByName(steps []Step, name, reason string) {
	for _, step := range steps {
		if step.Name() == name {
			step.Disable(reason)
		}
	}
}

// Run executes the enabled steps sequentially and returns the prepared
// document together with the validation report collected on the way.
func Run(ctx context.Context, cfg *Config, deps Deps, steps []Step, doc resume.Document) (resume.Document, resume.Report, error) {
	report := resume.Report{Errors: []string{}, Warnings: []string{}}

	for _, step := range steps {
		if !step.IsEnabled() {
			continue
		}
		if err := step.Validate(cfg); err != nil {
			return doc, report, fmt.Errorf("%s: %w", step.Name(), err)
		}
	}

	for _, step := range steps {
		if !step.IsEnabled() {
			if deps.Logger != nil {
				deps.Logger.Info("step disabled", zap.String("name", step.Name()))
			}
			continue
		}

		if err := ctx.Err(); err != nil {
			return doc, report, err
		}

		next, info, err := step.Apply(ctx, deps, doc)
		if collector, ok := step.(reportCollector); ok {
			r := collector.Report()
			report.Errors = append(report.Errors, r.Errors...)
			report.Warnings = append(report.Warnings, r.Warnings...)
		}
		if err != nil {
			return doc, report, fmt.Errorf("%s: %w", step.Name(), err)
		}

		if deps.Logger != nil {
			deps.Logger.Info("pipeline step",
				zap.String("name", step.Name()),
				zap.Int("initial", info.Initial),
				zap.Int("dropped", info.Dropped),
				zap.Int("left", info.Left),
			)
		}

		doc = next
	}

	return doc, report, nil
}

// Describe returns status entries for the provided steps.
func Describe(steps []Step) []Status {
	statuses := make([]Status, 0, len(steps))
	for _, step := range steps {
		if reporter, ok := step.(statusProvider); ok {
			statuses = append(statuses, reporter.Status())
			continue
		}

		statuses = append(statuses, Status{
			Name:    step.Name(),
			Enabled: step.IsEnabled(),
		})
	}
	return statuses
}

func entries(doc resume.Document) int {
	return len(doc.Skills) + len(doc.Education) + len(doc.Projects) + len(doc.Experience) +
		len(doc.Certificates) + len(doc.Languages) + len(doc.CustomSections)
}

func stats(before, after resume.Document) Stats {
	initial, left := entries(before), entries(after)
	return Stats{Initial: initial, Dropped: initial - left, Left: left}
}
