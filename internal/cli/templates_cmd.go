package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pelicanstate/constructhub/internal/cli/formatter"
)

func newTemplatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "templates",
		Aliases: []string{"template"},
		Short:   "Browse job templates",
	}

	cmd.AddCommand(
		newTemplatesListCmd(app),
		newTemplatesShowCmd(app),
	)

	return cmd
}

func newTemplatesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTemplateList(app.Library.Templates()))
			return nil
		},
	}
}

func newTemplatesShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show template details and work breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.Library.Lookup(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatTemplateShow(cfg, app.Library.WBS(cfg.ID)))
			return nil
		},
	}
}
