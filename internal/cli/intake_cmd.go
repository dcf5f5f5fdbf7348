package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pelicanstate/constructhub/internal/assembly"
	"github.com/pelicanstate/constructhub/internal/cli/formatter"
)

// ErrProjectRequired is returned by intake --create without --project.
var ErrProjectRequired = errors.New("--project is required with --create")

func newIntakeCmd(app *App) *cobra.Command {
	var flags sessionFlags
	var answersFile, projectID string
	var budget float64
	var create bool

	cmd := &cobra.Command{
		Use:   "intake SUMMARY...",
		Short: "Run the clarification conversation and build a job plan",
		Long: `Analyzes the job summary, asks the clarification questions and builds a
work-breakdown plan. Answers come from --answers-file (one per line), the
terminal, or stdin when it is not a terminal. With --create the selected plan
tasks are stored as work orders for --project.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			out := cmd.OutOrStdout()
			projectID = strings.TrimSpace(projectID)
			if create && projectID == "" {
				return ErrProjectRequired
			}
			opts, err := flags.options(app, projectID)
			if err != nil {
				return err
			}

			prompter, closeFn, err := app.prompterFor(cmd, answersFile)
			if err != nil {
				return err
			}
			defer closeFn()

			session := app.NewSession()
			snap, done := session.Start(ctx, joinArgs(args), opts)
			if msgs := snap.Conversation.Messages; len(msgs) > 0 {
				fmt.Fprintln(out, formatter.FormatConversation(msgs[len(msgs)-1:]))
			}

			pending := snap.Conversation.PendingQuestions
			for len(pending) > 0 {
				answer, ok, err := prompter.Ask(pending[0])
				if err != nil {
					return err
				}
				if !ok {
					break
				}
				state, err := session.Answer(answer)
				if err != nil {
					return err
				}
				pending = state.PendingQuestions
			}

			final, err := awaitResearch(ctx, cmd, app, session, done, flags.wait)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatChecklist(final.Checklist, app.templateName))

			plan, phases, err := session.BuildPlan(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, formatter.FormatPlan(plan, phases))

			if !create {
				return nil
			}
			edits := assembly.PlanEditsFrom(plan)
			titles := make([]string, 0, len(plan.Tasks))
			for _, t := range plan.Tasks {
				titles = append(titles, t.Title)
			}
			chosen, err := prompter.SelectTasks(titles)
			if err != nil {
				return err
			}
			edits.SelectedTaskTitles = nil
			edits.Select(chosen...)

			orders, err := app.Tasks.CreateTasks(ctx, projectID, plan, &edits, budget)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Created %d tasks for %s.\n", len(orders), projectID)
			fmt.Fprint(out, formatter.FormatWorkOrders(orders))
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVar(&answersFile, "answers-file", "", "File with one answer per line")
	cmd.Flags().StringVar(&projectID, "project", "", "Project id for created tasks")
	cmd.Flags().Float64Var(&budget, "budget", 0, "Job budget used for the materials allowance")
	cmd.Flags().BoolVar(&create, "create", false, "Store the plan tasks as work orders")
	return cmd
}

// prompterFor picks the answer source: a file, the terminal, or stdin.
func (a *App) prompterFor(cmd *cobra.Command, answersFile string) (Prompter, func(), error) {
	if answersFile != "" {
		f, err := os.Open(answersFile)
		if err != nil {
			return nil, nil, fmt.Errorf("opening answers file: %w", err)
		}
		return newLinePrompter(f), func() { f.Close() }, nil
	}
	if a.interactive() {
		return huhPrompter{}, func() {}, nil
	}
	return newLinePrompter(cmd.InOrStdin()), func() {}, nil
}
