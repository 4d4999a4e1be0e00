package cmd

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-resume/internal/engine"
	"github.com/spigell/ats-resume/internal/resume"
)

func TestLoadDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.yaml")
	data := "contact:\n  name: Jane Doe\n  email: jane@example.com\nskills:\n  - Go\n  - name: SQL\n    level: advanced\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := loadDocument(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if doc.Contact.Name != "Jane Doe" || len(doc.Skills) != 2 {
		t.Fatalf("unexpected document: %+v", doc)
	}
}

func TestLoadDocumentRequiresInput(t *testing.T) {
	if _, err := loadDocument("  "); err == nil {
		t.Fatal("expected error for empty input")
	}

	if _, err := loadDocument(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestPipelineConfig(t *testing.T) {
	cfg := pipelineConfig(&Config{Strict: true}, false)
	if !cfg.Strict || cfg.AI != nil {
		t.Fatalf("unexpected config without ai section: %+v", cfg)
	}

	cfg = pipelineConfig(&Config{}, true)
	if cfg.AI == nil || !cfg.AI.Enabled || cfg.AI.Provider != "gemini" {
		t.Fatalf("enhance flag should enable gemini: %+v", cfg.AI)
	}

	cfg = pipelineConfig(&Config{AI: &AIConfig{
		Provider: " Gemini ",
		Gemini:   &GeminiConfig{Model: "gemini-2.5-flash", MaxRetries: 4, MaxLogLength: 50},
	}}, false)
	if cfg.AI.Enabled {
		t.Fatal("ai should stay disabled without flag or config")
	}
	if cfg.AI.Provider != "gemini" || cfg.AI.Gemini.Model != "gemini-2.5-flash" || cfg.AI.Gemini.MaxRetries != 4 {
		t.Fatalf("unexpected ai config: %+v %+v", cfg.AI, cfg.AI.Gemini)
	}
}

func TestNewEnhancerRejectsUnknownProvider(t *testing.T) {
	_, err := newEnhancer(context.Background(), &AIConfig{Provider: "ollama", Gemini: &GeminiConfig{}}, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "unsupported ai provider") {
		t.Fatalf("expected provider error, got %v", err)
	}

	if _, err := newEnhancer(context.Background(), nil, zap.NewNop()); err == nil {
		t.Fatal("expected error without gemini config")
	}
}

func TestNewEnhancerRequiresKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	_, err := newEnhancer(context.Background(), &AIConfig{Gemini: &GeminiConfig{}}, zap.NewNop())
	if err == nil || !strings.Contains(err.Error(), "GEMINI_API_KEY") {
		t.Fatalf("expected missing key error, got %v", err)
	}
}

func TestApplyFlags(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().StringP("template", "t", "", "")
	cmd.Flags().StringP("output", "o", "", "")
	cmd.Flags().Bool("strict", false, "")

	if err := cmd.Flags().Parse([]string{"-t", "modern", "--strict"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	config := &Config{Template: "ats", Output: "from-config.pdf"}
	applyFlags(cmd, config)

	if config.Template != "modern" || !config.Strict {
		t.Fatalf("flags were not applied: %+v", config)
	}
	if config.Output != "from-config.pdf" {
		t.Fatalf("unset flag overrode config: %q", config.Output)
	}
}

func TestJSONOutputIgnoresConfiguredPDFPath(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().StringP("output", "o", "", "")
	if err := cmd.Flags().Parse(nil); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	config := &Config{Output: "out.pdf"}
	applyFlags(cmd, config)

	if got := jsonOutput(cmd); got != "" {
		t.Fatalf("json output should default to stdout, got %q", got)
	}

	if err := cmd.Flags().Parse([]string{"-o", "parsed.json"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	if got := jsonOutput(cmd); got != "parsed.json" {
		t.Fatalf("unexpected json output: %q", got)
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath(" cv.pdf "); got != "cv.pdf" {
		t.Fatalf("unexpected path: %q", got)
	}

	got := outputPath("")
	if !strings.HasPrefix(got, "resume-") || !strings.HasSuffix(got, ".pdf") {
		t.Fatalf("unexpected generated path: %q", got)
	}
	if got == outputPath("") {
		t.Fatal("generated paths should be unique")
	}
}

func TestWritePDF(t *testing.T) {
	doc := resume.Document{Contact: resume.Contact{Name: "Jane Doe", Email: "jane@example.com"}}
	path := filepath.Join(t.TempDir(), "cv.pdf")

	if err := writePDF(context.Background(), zap.NewNop(), engine.Apply(doc, "ats"), path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf")
	}
}

func TestWritePDFRemovesPartialFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "cv.pdf")
	doc := resume.Document{Contact: resume.Contact{Name: "Jane Doe"}}
	if err := writePDF(ctx, zap.NewNop(), engine.Apply(doc, "ats"), path); err == nil {
		t.Fatal("expected cancellation error")
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("partial file was left behind: %v", err)
	}
}

func TestWriteTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	err := writeTo(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "{}\n")
		return err
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil || string(data) != "{}\n" {
		t.Fatalf("unexpected file content %q: %v", data, err)
	}
}
