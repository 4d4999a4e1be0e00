package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/ats-resume/internal/enhance"
	"github.com/spigell/ats-resume/internal/resume"
)

// ErrInvalid is returned by the validate step in strict mode.
var ErrInvalid = errors.New("resume is missing required fields")

type normalizeStep struct {
	disabled bool
	reason   string
}

// NewNormalize creates the step that trims contact fields, drops blank and
// repeated skills and canonicalizes language proficiencies.
func NewNormalize() Step {
	return &normalizeStep{}
}

func (s *normalizeStep) Name() string { return "normalize" }

func (s *normalizeStep) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *normalizeStep) IsEnabled() bool { return !s.disabled }

func (s *normalizeStep) Validate(*Config) error { return nil }

func (s *normalizeStep) Apply(_ context.Context, deps Deps, doc resume.Document) (resume.Document, Stats, error) {
	out := resume.Normalize(doc)
	info := stats(doc, out)
	if deps.Logger != nil && info.Dropped > 0 {
		deps.Logger.Debug("dropped blank or repeated skills",
			zap.Int("dropped", info.Dropped),
			zap.Strings("skills", out.SkillNames()),
		)
	}
	return out, info, nil
}

func (s *normalizeStep) Status() Status {
	return Status{Name: s.Name(), Enabled: s.IsEnabled(), Reason: s.reason}
}

type validateStep struct {
	disabled bool
	reason   string
	strict   bool
	report   resume.Report
}

// NewValidate creates the step that checks identity fields and recommended
// sections. Findings are collected into the pipeline report.
func NewValidate() Step {
	return &validateStep{}
}

func (s *validateStep) Name() string { return "validate" }

func (s *validateStep) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *validateStep) IsEnabled() bool { return !s.disabled }

func (s *validateStep) Validate(cfg *Config) error {
	s.strict = cfg != nil && cfg.Strict
	return nil
}

func (s *validateStep) Apply(_ context.Context, deps Deps, doc resume.Document) (resume.Document, Stats, error) {
	s.report = resume.Validate(doc)
	n := entries(doc)
	info := Stats{Initial: n, Left: n}

	if deps.Logger != nil {
		for _, msg := range s.report.Errors {
			deps.Logger.Warn("validation error", zap.String("message", msg))
		}
		for _, msg := range s.report.Warnings {
			deps.Logger.Info("validation warning", zap.String("message", msg))
		}
	}

	if s.strict && !s.report.IsValid() {
		return doc, info, fmt.Errorf("%w: %s", ErrInvalid, strings.Join(s.report.Errors, "; "))
	}
	return doc, info, nil
}

func (s *validateStep) Report() resume.Report { return s.report }

func (s *validateStep) Status() Status {
	return Status{
		Name:    s.Name(),
		Enabled: s.IsEnabled(),
		Reason:  s.reason,
		Details: map[string]string{"strict": strconv.FormatBool(s.strict)},
	}
}

type enhanceStep struct {
	disabled bool
	reason   string
	config   *AIConfig
}

// NewEnhance creates the step that rewrites prose with the configured
// enrichment provider.
func NewEnhance() Step {
	return &enhanceStep{}
}

func (s *enhanceStep) Name() string { return "enhance" }

func (s *enhanceStep) Disable(reason string) {
	s.disabled = true
	s.reason = reason
}

func (s *enhanceStep) IsEnabled() bool { return !s.disabled }

func (s *enhanceStep) Validate(cfg *Config) error {
	s.config = nil
	if cfg != nil {
		s.config = cfg.AI
	}
	if !s.IsEnabled() {
		return nil
	}
	if cfg == nil || cfg.AI == nil || !cfg.AI.Enabled {
		s.Disable("ai is not enabled")
		return nil
	}
	if provider := strings.TrimSpace(cfg.AI.Provider); provider != "" && provider != "gemini" {
		return fmt.Errorf("unsupported ai provider %q", provider)
	}
	if cfg.AI.Gemini == nil || strings.TrimSpace(cfg.AI.Gemini.Model) == "" {
		return errors.New("gemini model is required when enhancement is enabled")
	}
	return nil
}

func (s *enhanceStep) Apply(ctx context.Context, deps Deps, doc resume.Document) (resume.Document, Stats, error) {
	n := entries(doc)
	if deps.Enhancer == nil {
		if deps.Logger != nil {
			deps.Logger.Info("enhancer is not configured; skipping enhance step")
		}
		return doc, Stats{Initial: n, Left: n}, nil
	}

	out, err := enhance.Document(ctx, doc, deps.Enhancer, deps.Logger)
	if err != nil {
		return doc, Stats{}, err
	}
	return out, stats(doc, out), nil
}

func (s *enhanceStep) Status() Status {
	details := map[string]string{}
	if s.config != nil {
		details["provider"] = s.config.Provider
		if s.config.Gemini != nil {
			details["model"] = s.config.Gemini.Model
			details["max_retries"] = strconv.Itoa(s.config.Gemini.MaxRetries)
			details["max_log_length"] = strconv.Itoa(s.config.Gemini.MaxLogLength)
		}
	}
	return Status{Name: s.Name(), Enabled: s.IsEnabled(), Reason: s.reason, Details: details}
}
