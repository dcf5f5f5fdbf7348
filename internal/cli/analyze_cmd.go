package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pelicanstate/constructhub/internal/cli/formatter"
)

func newAnalyzeCmd(app *App) *cobra.Command {
	var templateID string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze TEXT...",
		Short: "Classify a scope description and raise compliance flags",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := app.parseTemplateFlag(templateID)
			if err != nil {
				return err
			}
			result := app.Analyzer.Analyze(joinArgs(args), selected)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatAnalysis(result, app.templateName))
			return nil
		},
	}

	cmd.Flags().StringVar(&templateID, "template", "", "Force a template id")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
