package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-resume/internal/engine"
	"github.com/spigell/ats-resume/internal/logger"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the formatted sections of a resume as JSON",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		l, config := setup()
		applyFlags(cmd, config)

		input, _ := cmd.Flags().GetString("input")
		doc, err := loadDocument(input)
		if err != nil {
			l.Fatal("loading resume", zap.Error(err))
		}

		l = logger.WithDocument(l, input, config.Template)

		enhanceRequested, _ := cmd.Flags().GetBool("enhance")
		doc, _, err = prepare(ctx, l, config, doc, enhanceRequested)
		if err != nil {
			l.Fatal("preparing resume", zap.Error(err))
		}

		formatted := engine.Apply(doc, config.Template)
		err = writeTo(jsonOutput(cmd), func(w io.Writer) error {
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(formatted)
		})
		if err != nil {
			l.Fatal("writing preview", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringP("input", "i", "", "resume data file (YAML or JSON, '-' for stdin)")
	previewCmd.Flags().StringP("template", "t", "", "template id (default is ats)")
	previewCmd.Flags().StringP("output", "o", "", "output JSON path (default is stdout)")
	previewCmd.Flags().Bool("enhance", false, "rewrite summary and descriptions with the configured AI provider")
}
