package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pelicanstate/constructhub/internal/assembly"
	"github.com/pelicanstate/constructhub/internal/catalog"
	"github.com/pelicanstate/constructhub/internal/consultation"
	"github.com/pelicanstate/constructhub/internal/domain"
	"github.com/pelicanstate/constructhub/internal/intelligence"
	"github.com/pelicanstate/constructhub/internal/planner"
	"github.com/pelicanstate/constructhub/internal/repository"
	"github.com/pelicanstate/constructhub/internal/scope"
	"github.com/pelicanstate/constructhub/internal/service"
	"github.com/pelicanstate/constructhub/internal/testutil"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// testApp wires a full App backed by an in-memory DB. research may be nil.
func testApp(t *testing.T, research *intelligence.ResearchService) *App {
	t.Helper()
	database := testutil.NewTestDB(t)
	rates := repository.NewSQLiteLaborRateRepo(database)
	workOrders := repository.NewSQLiteWorkOrderRepo(database)

	analyzer := scope.NewAnalyzer(nil, nil)
	p := planner.New(analyzer)
	builder := consultation.NewBuilder(nil, nil)

	return &App{
		Library:  catalog.Default(),
		Analyzer: analyzer,
		Planner:  p,
		Tasks:    service.NewTaskService(assembly.NewAssembler(rates), workOrders, testutil.NewTestUoW(database)),
		Rates:    service.NewRateService(rates),
		NewSession: func() *service.IntakeSession {
			var opts []service.IntakeOption
			if research != nil {
				opts = append(opts, service.WithResearch(research))
			}
			return service.NewIntakeSession(analyzer, builder, p, opts...)
		},
		ResearchEnabled: research != nil,
	}
}

// executeCmd runs a cobra command with stdin and captures stdout/stderr.
func executeCmd(t *testing.T, app *App, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd(app)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return ansiPattern.ReplaceAllString(buf.String(), ""), err
}

func TestTemplatesList(t *testing.T) {
	out, err := executeCmd(t, testApp(t, nil), "", "templates", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TEMPLATES")
	for _, cfg := range catalog.Default().Templates() {
		assert.Contains(t, out, cfg.Name)
	}
}

func TestTemplatesShow(t *testing.T) {
	app := testApp(t, nil)
	out, err := executeCmd(t, app, "", "templates", "show", "ROOFING")
	require.NoError(t, err)

	cfg := catalog.Default().MustConfig(domain.TemplateRoofing)
	assert.Contains(t, out, cfg.Name)
	assert.Contains(t, out, cfg.WalkthroughQuestions[0])
	assert.Contains(t, out, "WORK BREAKDOWN")

	_, err = executeCmd(t, app, "", "templates", "show", "spaceship")
	assert.ErrorIs(t, err, catalog.ErrUnknownTemplate)
}

func TestAnalyze_TextAndJSON(t *testing.T) {
	app := testApp(t, nil)

	out, err := executeCmd(t, app, "", "analyze", "Replace", "boiler", "in", "historic", "building")
	require.NoError(t, err)
	assert.Contains(t, out, "SCOPE ANALYSIS")
	assert.Contains(t, out, "COMPLIANCE FLAGS")

	out, err = executeCmd(t, app, "", "analyze", "--json", "--template", "plumbing", "Replace boiler")
	require.NoError(t, err)
	assert.Contains(t, out, `"primaryTemplate": "plumbing"`)
	assert.Contains(t, out, `"primaryConfidence": 0.7`)
}

func TestPrep_RejectsBadJurisdiction(t *testing.T) {
	_, err := executeCmd(t, testApp(t, nil), "", "prep", "--jurisdiction", "Shreveport", "fix roof")
	assert.ErrorIs(t, err, ErrInvalidJurisdiction)
}

func TestPrep_IncludesResearch(t *testing.T) {
	research := intelligence.NewResearchService([]intelligence.ResearchProvider{
		intelligence.ProviderFunc{ID: "static", Fn: func(context.Context, string) (string, error) {
			return `{"permits":[{"name":"Flue Inspection","authority":"City","required":"likely"}]}`, nil
		}},
	})
	out, err := executeCmd(t, testApp(t, research), "", "prep", "--jurisdiction", "new orleans", testutil.ScopeBoilerSHPO)
	require.NoError(t, err)

	assert.Contains(t, out, "CONSULTATION PREP")
	assert.Contains(t, out, "Flue Inspection")
	assert.Contains(t, out, "(verification required)")
	assert.NotContains(t, out, "still running")
}

func TestPrep_NoResearchFlag(t *testing.T) {
	research := intelligence.NewResearchService([]intelligence.ResearchProvider{
		intelligence.ProviderFunc{ID: "static", Fn: func(context.Context, string) (string, error) {
			return `{"permits":[{"name":"Flue Inspection"}]}`, nil
		}},
	})
	out, err := executeCmd(t, testApp(t, research), "", "prep", "--no-research", testutil.ScopeBoilerSHPO)
	require.NoError(t, err)
	assert.NotContains(t, out, "Flue Inspection")
}

func TestIntake_AnswersFromStdinAndCreate(t *testing.T) {
	app := testApp(t, nil)
	stdin := "# comments are skipped\nTwo weeks in June\n\nNo drawings yet\n" + stopWord + "\nnever read\n"

	out, err := executeCmd(t, app, stdin,
		"intake", "--project", "proj-7", "--budget", "4000", "--create",
		"Install", "rooftop", "shade", "structure")
	require.NoError(t, err)

	assert.Contains(t, out, "Planner")
	assert.Contains(t, out, "PROJECT PLAN")
	assert.Contains(t, out, "Two weeks in June")
	assert.Contains(t, out, "No drawings yet")
	assert.NotContains(t, out, "never read")
	assert.Contains(t, out, "Created ")
	assert.Contains(t, out, "Total estimate")

	orders, err := app.Tasks.ListTasks(context.Background(), "proj-7")
	require.NoError(t, err)
	assert.NotEmpty(t, orders)

	listed, err := executeCmd(t, app, "", "tasks", "list", "--project", "proj-7")
	require.NoError(t, err)
	assert.Contains(t, listed, orders[0].Title)
}

func TestIntake_AnswersFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "answers.txt")
	require.NoError(t, os.WriteFile(path, []byte("Flat roof\n"), 0o600))

	out, err := executeCmd(t, testApp(t, nil), "", "intake", "--answers-file", path, "Replace roof shingles")
	require.NoError(t, err)
	assert.Contains(t, out, "Flat roof")
	assert.NotContains(t, out, "Created ")
}

func TestIntake_CreateRequiresProject(t *testing.T) {
	_, err := executeCmd(t, testApp(t, nil), "", "intake", "--create", "Replace roof")
	assert.ErrorIs(t, err, ErrProjectRequired)
}

func TestRates_ListAndSet(t *testing.T) {
	app := testApp(t, nil)

	out, err := executeCmd(t, app, "", "rates", "list")
	require.NoError(t, err)
	assert.Contains(t, out, assembly.RateManualLabor)
	assert.Contains(t, out, "$45")

	out, err = executeCmd(t, app, "", "rates", "set", "manual", "52.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Manual Labor is now $52.50/h.")

	_, err = executeCmd(t, app, "", "rates", "set", "manual", "-3")
	assert.ErrorIs(t, err, repository.ErrInvalidRate)
	_, err = executeCmd(t, app, "", "rates", "set", "--", "manual", "-3")
	assert.ErrorIs(t, err, repository.ErrInvalidRate)
	_, err = executeCmd(t, app, "", "rates", "set", "manual", "abc")
	assert.Error(t, err)
}

func TestTasks_ListRequiresProjectAndRemove(t *testing.T) {
	app := testApp(t, nil)
	_, err := executeCmd(t, app, "", "tasks", "list")
	assert.Error(t, err)

	_, err = executeCmd(t, app, "", "tasks", "remove", "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestLinePrompter(t *testing.T) {
	p := newLinePrompter(strings.NewReader("a\n\n# skip\nb\n"))

	got, ok, err := p.Ask("q1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a", got)

	got, ok, _ = p.Ask("q2")
	assert.True(t, ok)
	assert.Equal(t, "b", got)

	_, ok, err = p.Ask("q3")
	require.NoError(t, err)
	assert.False(t, ok)

	titles, err := p.SelectTasks([]string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, titles)
}
