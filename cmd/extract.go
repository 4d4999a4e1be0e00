package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-resume/internal/engine"
	"github.com/spigell/ats-resume/internal/extract"
	"github.com/spigell/ats-resume/internal/logger"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract structured resume data from a PDF, DOCX or text file",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		l, config := setup()
		applyFlags(cmd, config)

		input, _ := cmd.Flags().GetString("input")
		if strings.TrimSpace(input) == "" {
			l.Fatal("input file is required (use -i)")
		}

		data, err := os.ReadFile(filepath.Clean(input))
		if err != nil {
			l.Fatal("reading input", zap.Error(err))
		}

		mimeType, _ := cmd.Flags().GetString("mime")
		l = logger.WithDocument(l, input, config.Template)
		l.Debug("extracting text", zap.String("mime", extract.DetectMime(mimeType, input, data)))

		text, err := extract.Text(ctx, data, mimeType, input)
		if err != nil {
			l.Fatal("extracting text", zap.Error(err))
		}

		doc := extract.Extract(text)
		l.Info("resume extracted",
			zap.String("name", doc.Contact.Name),
			zap.Int("skills", len(doc.Skills)),
			zap.Int("education", len(doc.Education)),
		)

		err = writeTo(jsonOutput(cmd), func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		})
		if err != nil {
			l.Fatal("writing extracted resume", zap.Error(err))
		}

		pdfPath, _ := cmd.Flags().GetString("pdf")
		if pdfPath == "" {
			return
		}

		enhanceRequested, _ := cmd.Flags().GetBool("enhance")
		doc, _, err = prepare(ctx, l, config, doc, enhanceRequested)
		if err != nil {
			l.Fatal("preparing resume", zap.Error(err))
		}

		formatted := engine.Apply(doc, config.Template)
		if err := writePDF(ctx, l, formatted, pdfPath); err != nil {
			l.Fatal("rendering document", zap.Error(err))
		}
		l.Info("document rendered", zap.String("output", pdfPath), zap.String("template", formatted.TemplateID))
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("input", "i", "", "uploaded resume (PDF, DOCX or plain text)")
	extractCmd.Flags().StringP("output", "o", "", "output JSON path (default is stdout)")
	extractCmd.Flags().String("mime", "", "declared mime type of the input (detected when empty)")
	extractCmd.Flags().String("pdf", "", "also render the extracted resume to this PDF path")
	extractCmd.Flags().StringP("template", "t", "", "template id used with --pdf (default is ats)")
	extractCmd.Flags().Bool("enhance", false, "rewrite summary and descriptions before rendering with --pdf")
}
