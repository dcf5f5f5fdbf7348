package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pelicanstate/constructhub/internal/assembly"
	"github.com/pelicanstate/constructhub/internal/cli/formatter"
)

func newRatesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "View and update hourly labor rates",
	}

	cmd.AddCommand(
		newRatesListCmd(app),
		newRatesSetCmd(app),
	)

	return cmd
}

func newRatesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List labor rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			rates, err := app.Rates.List(commandContext(cmd))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatRates(rates))
			return nil
		},
	}
}

func newRatesSetCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "set CLASS RATE",
		Short: "Set the hourly rate for a rate class or role",
		Long: fmt.Sprintf(`Sets an hourly rate. CLASS may be a rate class (%q, %q, %q) or a role
name, which is resolved to its rate class.`,
			assembly.RateManualLabor, assembly.RateProjectManagement, assembly.RateConstructionSupervision),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rate, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				return fmt.Errorf("invalid rate %q: %w", args[1], err)
			}
			class := assembly.ResolveRateClass(args[0])
			if err := app.Rates.Set(commandContext(cmd), class, rate); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s/h.\n", class, formatter.FormatMoney(rate))
			return nil
		},
	}
	// Flags end at CLASS so a negative RATE reaches validation.
	cmd.Flags().SetInterspersed(false)
	return cmd
}
