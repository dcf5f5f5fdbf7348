package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pelicanstate/constructhub/internal/cli/formatter"
	"github.com/pelicanstate/constructhub/internal/domain"
)

func newTasksCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Inspect stored work orders",
	}

	cmd.AddCommand(
		newTasksListCmd(app),
		newTasksRemoveCmd(app),
	)

	return cmd
}

func newTasksListCmd(app *App) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List work orders for a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := app.Tasks.ListTasks(commandContext(cmd), projectID)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatWorkOrders(orderValues(orders)))
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newTasksRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove ID",
		Short: "Delete a work order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Tasks.DeleteTask(commandContext(cmd), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s.\n", args[0])
			return nil
		},
	}
}

func orderValues(orders []*domain.WorkOrder) []domain.WorkOrder {
	out := make([]domain.WorkOrder, 0, len(orders))
	for _, w := range orders {
		out = append(out, *w)
	}
	return out
}
