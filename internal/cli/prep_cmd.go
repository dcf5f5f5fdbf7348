package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/pelicanstate/constructhub/internal/cli/formatter"
	"github.com/pelicanstate/constructhub/internal/service"
)

const defaultResearchWait = 20 * time.Second

type sessionFlags struct {
	templateID   string
	jurisdiction string
	noResearch   bool
	wait         time.Duration
}

func (f *sessionFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.templateID, "template", "", "Force a template id")
	fs.StringVar(&f.jurisdiction, "jurisdiction", "", "Louisiana, NewOrleans or BatonRouge")
	fs.BoolVar(&f.noResearch, "no-research", false, "Skip external research")
	fs.DurationVar(&f.wait, "wait", defaultResearchWait, "How long to wait for research results")
}

func (f *sessionFlags) options(app *App, projectID string) (service.StartOptions, error) {
	selected, err := app.parseTemplateFlag(f.templateID)
	if err != nil {
		return service.StartOptions{}, err
	}
	j, err := parseJurisdictionFlag(f.jurisdiction)
	if err != nil {
		return service.StartOptions{}, err
	}
	return service.StartOptions{
		Template:     selected,
		Jurisdiction: j,
		ProjectID:    projectID,
		SkipResearch: f.noResearch || !app.ResearchEnabled,
	}, nil
}

// awaitResearch blocks until done closes, the wait elapses or ctx ends.
// It returns the latest snapshot either way.
func awaitResearch(ctx context.Context, cmd *cobra.Command, app *App, session *service.IntakeSession, done <-chan struct{}, wait time.Duration) (service.IntakeSnapshot, error) {
	snap, err := session.Snapshot()
	if err != nil || !snap.ResearchPending {
		return snap, err
	}

	if app.interactive() {
		stop := formatter.StartSpinner(cmd.ErrOrStderr(), "Researching permits and codes...")
		defer stop()
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
	case <-ctx.Done():
	}
	return session.Snapshot()
}

func newPrepCmd(app *App) *cobra.Command {
	var flags sessionFlags
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "prep TEXT...",
		Short: "Build a consultation prep checklist for a job",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := commandContext(cmd)
			opts, err := flags.options(app, "")
			if err != nil {
				return err
			}

			session := app.NewSession()
			_, done := session.Start(ctx, joinArgs(args), opts)
			snap, err := awaitResearch(ctx, cmd, app, session, done, flags.wait)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), snap.Checklist)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, formatter.FormatAnalysis(snap.Analysis, app.templateName))
			fmt.Fprintln(out, formatter.FormatChecklist(snap.Checklist, app.templateName))
			if snap.ResearchPending {
				fmt.Fprintln(out, formatter.Dim("Research is still running; showing knowledge-base results only."))
			}
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the checklist as JSON")
	return cmd
}
