package formatter

import (
	"bytes"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pelicanstate/constructhub/internal/domain"
)

// ansiPattern matches ANSI escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func idName(t domain.TaskTemplate) string { return "Template " + string(t) }

func TestFormatMoney(t *testing.T) {
	cases := map[float64]string{
		0:       "$0",
		45:      "$45",
		875:     "$875",
		1234.5:  "$1,234.50",
		1000000: "$1,000,000",
		-20.25:  "-$20.25",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatMoney(in), "input %v", in)
	}
}

func TestFormatHours(t *testing.T) {
	assert.Equal(t, "0h", FormatHours(0))
	assert.Equal(t, "6h", FormatHours(6))
	assert.Equal(t, "1.5h", FormatHours(1.5))
}

func TestRenderProgress(t *testing.T) {
	assert.Equal(t, "[█████░░░░░] 1/2", stripANSI(RenderProgress(1, 2, 10)))
	assert.Equal(t, "[░░░░] 0/0", stripANSI(RenderProgress(0, 0, 4)))
	assert.Equal(t, "[████] 5/5", stripANSI(RenderProgress(5, 5, 4)))
}

func TestRenderTable_AlignsStyledCells(t *testing.T) {
	out := stripANSI(RenderTable(
		[]string{"A", "LONG HEADER"},
		[][]string{{Bold("wide cell"), "x"}, {"y"}},
	))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "A          LONG HEADER", lines[0])
	assert.Equal(t, "wide cell  x", lines[2])
	assert.Equal(t, "y          ", lines[3])
	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderWBS(t *testing.T) {
	phases := []domain.WBSPhase{{
		Code: "1", Name: "Preparation",
		Tasks: []domain.WBSTask{
			{Code: "1.1", Title: "Site survey", DurationHours: 2},
			{Code: "1.2", Title: "Permits", DurationHours: 1.5, DependsOn: []string{"1.1"}},
		},
	}}
	out := stripANSI(RenderWBS(phases))

	assert.Contains(t, out, "1 Preparation")
	assert.Contains(t, out, "├─ 1.1 Site survey")
	assert.Contains(t, out, "└─ 1.2 Permits")
	assert.Contains(t, out, "[ 3.5h ]")
	assert.Contains(t, out, "[ 1.5h after 1.1 ]")
}

func TestFormatAnalysis(t *testing.T) {
	nola := domain.JurisdictionNewOrleans
	out := stripANSI(FormatAnalysis(domain.ScopeAnalysisResult{
		PrimaryTemplate:       domain.TemplateHVACRepair,
		PrimaryConfidence:     0.72,
		SecondarySuggestions:  []domain.TemplateSuggestion{{Template: domain.TemplateHistoricRestoration, Confidence: 0.3}},
		DetectedKeywords:      []string{"boiler", "historic"},
		SuggestedJurisdiction: &nola,
		ComplianceFlags: []domain.ScopeComplianceFlag{
			{ID: "kw-historic", Type: domain.FlagHistoric, Message: "Historic review likely", Severity: domain.SeverityWarning},
		},
		Rationale: "Matched boiler.",
	}, idName))

	assert.Contains(t, out, "Template hvacRepair  72%")
	assert.Contains(t, out, "New Orleans")
	assert.Contains(t, out, "boiler, historic")
	assert.Contains(t, out, "Template historicRestoration  30%")
	assert.Contains(t, out, "● WARNING")
	assert.Contains(t, out, "Historic review likely")
}

func TestFormatChecklist(t *testing.T) {
	c := &domain.ConsultationChecklist{
		JobType: domain.TemplateRoofing,
		Questions: []domain.IntakeChecklistItem{
			{ID: "q-123456789", Text: "Roof age?", Required: true, Checked: true},
			{ID: "q-2", Text: "Confirm scope", Reason: "Echo the request"},
		},
		Photos:      []domain.IntakeChecklistItem{{ID: "p-1", Text: "Gutters", UserAdded: true}},
		SafetyNotes: []domain.SafetyNote{{Text: "Fall protection", Severity: domain.SeverityDanger}},
		Research: []domain.IntakeResearchSnippet{
			{Category: domain.SnippetCode, Title: "IRC R905", Source: domain.SourceKnowledgeBase, Confidence: 0.85},
			{Category: domain.SnippetPermit, Title: "Building Permit", Content: "Issued by City.", Source: domain.SourceLLM, Confidence: 0.7},
		},
	}
	out := stripANSI(FormatChecklist(c, idName))

	assert.Contains(t, out, "1/3")
	assert.Contains(t, out, "[x] Roof age? *  q-123456")
	assert.Contains(t, out, "Echo the request")
	assert.Contains(t, out, "Gutters (added)")
	assert.Contains(t, out, "▲ DANGER Fall protection")
	assert.NotContains(t, out, "MEASUREMENTS")
	assert.Less(t, strings.Index(out, "Building Permit"), strings.Index(out, "IRC R905"))
	assert.Contains(t, out, "AI Permit Building Permit")

	assert.Equal(t, "No checklist.", stripANSI(FormatChecklist(nil, idName)))
}

func TestFormatWorkOrdersAndRates(t *testing.T) {
	orders := []domain.WorkOrder{{
		ID: "wo-abcdefghij", WBSCode: "1.1", Title: "1.1 Survey",
		Status: domain.WorkOrderPending, Priority: domain.PriorityMedium,
		Labor:     []domain.LaborLine{{Hours: 6, HourlyRate: 85}, {Hours: 12, HourlyRate: 45}},
		Materials: []domain.MaterialLine{{Quantity: 1, UnitCost: 875}},
	}}
	out := stripANSI(FormatWorkOrders(orders))
	assert.Contains(t, out, "wo-abcde")
	assert.Contains(t, out, "○ Pending")
	assert.Contains(t, out, "18h")
	assert.Contains(t, out, "Total estimate $1,925")
	assert.Equal(t, "No tasks.\n", stripANSI(FormatWorkOrders(nil)))

	rates := stripANSI(FormatRates([]domain.LaborRate{
		{RateClass: "Manual Labor", HourlyRate: 45, UpdatedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)},
	}))
	assert.Contains(t, rates, "Manual Labor")
	assert.Contains(t, rates, "$45")
	assert.Contains(t, rates, "Mar 1, 2026")
}

func TestFormatConversation(t *testing.T) {
	out := stripANSI(FormatConversation([]domain.ConversationMessage{
		{Role: domain.RoleUser, Content: "Fix the roof"},
		{Role: domain.RoleAssistant, Content: "How old is it?\nAny leaks?"},
	}))
	assert.Equal(t, "You\n  Fix the roof\n\nPlanner\n  How old is it?\n  Any leaks?\n", out)
}

func TestFormatTemplateShow(t *testing.T) {
	out := stripANSI(FormatTemplateShow(domain.TemplateConfig{
		ID: domain.TemplateRoofing, Name: "Roofing", Category: "Exterior",
		WalkthroughQuestions: []string{"Roof age?"},
		MaterialGuidance:     "Shingles",
	}, []domain.WBSPhase{{Code: "1", Name: "Tear-off"}}))

	assert.Contains(t, out, "Roofing  Exterior")
	assert.Contains(t, out, "1. Roof age?")
	assert.Contains(t, out, "Materials Shingles")
	assert.Contains(t, out, "1 Tear-off")

	list := stripANSI(FormatTemplateList([]domain.TemplateConfig{
		{ID: domain.TemplateRoofing, Name: "Roofing", Category: "Exterior", Keywords: []string{"roof", "shingle", "gutter", "flashing", "leak"}},
	}))
	assert.Contains(t, list, "TEMPLATES")
	assert.Contains(t, list, "roof, shingle, gutter, flashing")
	assert.NotContains(t, list, "leak")
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinner_StopTwiceClearsLine(t *testing.T) {
	var buf syncBuffer
	stop := StartSpinner(&buf, "researching")
	time.Sleep(200 * time.Millisecond)
	stop()
	stop()

	out := buf.String()
	assert.Contains(t, stripANSI(out), "researching")
	assert.True(t, strings.HasSuffix(out, "\r\033[K"))
}
