package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pelicanstate/constructhub/internal/catalog"
	"github.com/pelicanstate/constructhub/internal/domain"
	"github.com/pelicanstate/constructhub/internal/planner"
	"github.com/pelicanstate/constructhub/internal/scope"
	"github.com/pelicanstate/constructhub/internal/service"
)

// ErrInvalidJurisdiction is returned for a --jurisdiction outside the known set.
var ErrInvalidJurisdiction = errors.New("unknown jurisdiction")

// App holds the services used by CLI commands.
type App struct {
	Library  *catalog.Library
	Analyzer *scope.Analyzer
	Planner  *planner.Planner
	Tasks    service.TaskService
	Rates    service.RateService

	// NewSession returns a fresh intake session per command invocation.
	NewSession func() *service.IntakeSession

	// ResearchEnabled reports whether any research provider is wired.
	ResearchEnabled bool

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

func (a *App) templateName(t domain.TaskTemplate) string {
	return a.Library.MustConfig(t).Name
}

// NewRootCmd creates the top-level "constructhub" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "constructhub",
		Short:         "Scope analysis, consultation prep and job planning",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newTemplatesCmd(app),
		newAnalyzeCmd(app),
		newPrepCmd(app),
		newIntakeCmd(app),
		newRatesCmd(app),
		newTasksCmd(app),
	)

	return root
}

// parseTemplateFlag resolves an optional --template value.
func (a *App) parseTemplateFlag(value string) (*domain.TaskTemplate, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	cfg, err := a.Library.Lookup(value)
	if err != nil {
		return nil, err
	}
	return &cfg.ID, nil
}

func parseJurisdictionFlag(value string) (*domain.Jurisdiction, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	j, ok := domain.ParseJurisdiction(value)
	if !ok {
		return nil, fmt.Errorf("%w: %q (want Louisiana, NewOrleans or BatonRouge)", ErrInvalidJurisdiction, value)
	}
	return &j, nil
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
