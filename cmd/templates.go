package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/ats-resume/internal/resume"
	"github.com/spigell/ats-resume/internal/templates"
)

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "Inspect the available resume templates",
}

var templatesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered templates",
	Run: func(_ *cobra.Command, _ []string) {
		setup()

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tLAYOUT\tDESCRIPTION")
		for _, def := range templates.Default().List() {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", def.ID, def.Name, def.Layout, def.Description)
		}
		w.Flush()
	},
}

// templateInfo is the output of "templates show".
type templateInfo struct {
	templates.Definition
	Titles            map[resume.Kind]string `json:"titles"`
	RequiredFields    []string               `json:"requiredFields"`
	RecommendedFields []string               `json:"recommendedFields"`
}

// describeTemplate resolves the title of every section kind, including the
// ones the template leaves at their defaults.
func describeTemplate(def templates.Definition) templateInfo {
	titles := make(map[resume.Kind]string, len(resume.Kinds()))
	for _, kind := range resume.Kinds() {
		titles[kind] = def.Title(kind)
	}
	return templateInfo{
		Definition:        def,
		Titles:            titles,
		RequiredFields:    resume.RequiredFields,
		RecommendedFields: resume.RecommendedFields,
	}
}

var templatesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print a template definition as JSON",
	Args:  cobra.ExactArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		l, _ := setup()

		def, ok := templates.Default().Lookup(args[0])
		if !ok {
			l.Fatal("template not found",
				zap.String("id", args[0]),
				zap.Strings("available", templates.Default().IDs()),
			)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(describeTemplate(def)); err != nil {
			l.Fatal("encoding template", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(templatesCmd)
	templatesCmd.AddCommand(templatesListCmd, templatesShowCmd)
}
