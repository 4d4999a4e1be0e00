package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-resume/internal/engine"
	"github.com/spigell/ats-resume/internal/logger"
	"github.com/spigell/ats-resume/internal/pipeline"
	"github.com/spigell/ats-resume/internal/render"
	"github.com/spigell/ats-resume/internal/resume"
	"github.com/spigell/ats-resume/internal/templates"
)

const stdoutPath = "-"

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a resume document to PDF",
	Run: func(cmd *cobra.Command, _ []string) {
		runRender(cmd)
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringP("input", "i", "", "resume data file (YAML or JSON, '-' for stdin)")
	renderCmd.Flags().StringP("template", "t", "", "template id (default is ats)")
	renderCmd.Flags().StringP("output", "o", "", "output PDF path ('-' for stdout, default is resume-<uuid>.pdf)")
	renderCmd.Flags().Bool("enhance", false, "rewrite summary and descriptions with the configured AI provider")
	renderCmd.Flags().Bool("interactive", false, "choose the template from a list")
	renderCmd.Flags().Bool("strict", false, "fail when required fields are missing")
}

func runRender(cmd *cobra.Command) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	l, config := setup()
	applyFlags(cmd, config)

	input, _ := cmd.Flags().GetString("input")
	doc, err := loadDocument(input)
	if err != nil {
		l.Fatal("loading resume", zap.Error(err))
	}

	templateID := config.Template
	if interactive, _ := cmd.Flags().GetBool("interactive"); interactive {
		templateID, err = chooseTemplate(templates.Default())
		if err != nil {
			l.Fatal("choosing a template", zap.Error(err))
		}
	}

	l = logger.WithDocument(l, input, templateID)

	enhanceRequested, _ := cmd.Flags().GetBool("enhance")
	doc, _, err = prepare(ctx, l, config, doc, enhanceRequested)
	if err != nil {
		l.Fatal("preparing resume", zap.Error(err))
	}

	formatted := engine.Apply(doc, templateID)
	if formatted.TemplateID != strings.ToLower(strings.TrimSpace(templateID)) {
		l.Warn("unknown template, using default",
			zap.String("requested", templateID),
			zap.String("used", formatted.TemplateID),
		)
	}

	output := outputPath(config.Output)
	if err := writePDF(ctx, l, formatted, output); err != nil {
		var sinkErr *render.SinkError
		if errors.As(err, &sinkErr) {
			l.Fatal("writing document", zap.String("output", output), zap.Error(sinkErr.Err))
		}
		l.Fatal("rendering document", zap.Error(err))
	}

	l.Info("document rendered",
		zap.String("output", output),
		zap.String("template", formatted.TemplateID),
		zap.Int("sections", len(formatted.Ordered())),
	)
}

// prepare runs the preparation pipeline. The enhancer is only built when
// enhancement is enabled.
func prepare(ctx context.Context, l *zap.Logger, config *Config, doc resume.Document, enhanceRequested bool) (resume.Document, resume.Report, error) {
	cfg := pipelineConfig(config, enhanceRequested)
	deps := pipeline.Deps{Logger: l.Named("pipeline")}

	if cfg.AI != nil && cfg.AI.Enabled {
		enhancer, err := newEnhancer(ctx, config.AI, l)
		if err != nil {
			return doc, resume.Report{}, fmt.Errorf("building enhancer: %w", err)
		}
		deps.Enhancer = enhancer
	}

	steps := pipeline.Default()
	out, report, err := pipeline.Run(ctx, cfg, deps, steps, doc)

	for _, status := range pipeline.Describe(steps) {
		l.Debug("pipeline status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	return out, report, err
}

func chooseTemplate(reg *templates.Registry) (string, error) {
	defs := reg.List()
	prompt := promptui.Select{
		Label: "Template",
		Items: defs,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}?",
			Active:   "> {{ .ID | cyan }} ({{ .Name }})",
			Inactive: "  {{ .ID }} ({{ .Name }})",
			Selected: "Template: {{ .ID | green }}",
			Details:  "{{ .Description }}",
		},
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return defs[idx].ID, nil
}

func outputPath(configured string) string {
	if p := strings.TrimSpace(configured); p != "" {
		return p
	}
	return fmt.Sprintf("resume-%s.pdf", uuid.NewString())
}

// writePDF renders doc to path. A partially written file is removed on failure.
func writePDF(ctx context.Context, l *zap.Logger, doc engine.FormattedDocument, path string) error {
	r := render.New(render.WithLogger(l.Named("render")))

	if path == stdoutPath {
		return r.Render(ctx, doc, os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return &render.SinkError{Err: err}
	}

	err = r.Render(ctx, doc, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = &render.SinkError{Err: closeErr}
	}
	if err != nil {
		_ = os.Remove(path)
	}
	return err
}

// writeTo is used by commands that emit JSON either to a file or stdout.
func writeTo(path string, write func(io.Writer) error) error {
	if strings.TrimSpace(path) == "" || path == stdoutPath {
		return write(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
