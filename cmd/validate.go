package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-resume/internal/resume"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a resume for missing required and recommended fields",
	Run: func(cmd *cobra.Command, _ []string) {
		l, _ := setup()

		input, _ := cmd.Flags().GetString("input")
		doc, err := loadDocument(input)
		if err != nil {
			l.Fatal("loading resume", zap.Error(err))
		}

		report := resume.Validate(resume.Normalize(doc))
		for _, msg := range report.Errors {
			fmt.Printf("error: %s\n", msg)
		}
		for _, msg := range report.Warnings {
			fmt.Printf("warning: %s\n", msg)
		}

		if !report.IsValid() {
			os.Exit(1)
		}
		fmt.Println("ok")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("input", "i", "", "resume data file (YAML or JSON, '-' for stdin)")
}
