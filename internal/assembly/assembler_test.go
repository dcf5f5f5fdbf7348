package assembly

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pelicanstate/constructhub/internal/domain"
)

var fixedNow = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)

func newTestAssembler(rates RateTable) *Assembler {
	n := 0
	return NewAssembler(rates,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { n++; return fmt.Sprintf("wo-%d", n) }),
	)
}

func samplePlan() domain.ProjectPlan {
	return domain.ProjectPlan{
		TemplateName: "Concrete",
		Materials:    "Ready-mix",
		Tasks: []domain.TemplateTask{
			{Title: "1.1 Site survey", Description: "Assessment: walk the site", Phase: "Assessment", WBSCode: "1.1", DurationHours: 2},
			{
				Title:     "2.1 Pour slab",
				Status:    "scheduled",
				Priority:  domain.PriorityHigh,
				Category:  "Flatwork",
				WBSCode:   "2.1",
				DependsOn: []string{"1.1"},
				Labor:     []domain.LaborSpec{{Role: "Finisher crew (manual)", Hours: 10}, {Role: "Site foreman", Hours: 4}},
				Materials: []domain.MaterialSpec{{Name: "Ready-mix concrete (cubic yard)", Quantity: 8, UnitCost: 165}},
			},
		},
	}
}

func TestResolveRateClass(t *testing.T) {
	tests := map[string]string{
		"Project Management":     RateProjectManagement,
		"project manager":        RateProjectManagement,
		"Manual Labor":           RateManualLabor,
		"MANUAL helper":          RateManualLabor,
		"Site foreman":           RateConstructionSupervision,
		"":                       RateConstructionSupervision,
		"manual project handoff": RateProjectManagement,
	}
	for role, want := range tests {
		assert.Equal(t, want, ResolveRateClass(role), role)
	}
}

func TestMaterialsAllowance(t *testing.T) {
	assert.Equal(t, 750.0, MaterialsAllowance(0))
	assert.Equal(t, 750.0, MaterialsAllowance(2000))
	assert.Equal(t, 1750.0, MaterialsAllowance(5000))
	assert.Equal(t, 1167.0, MaterialsAllowance(3333))
}

func TestAssemble_DefaultsWhenTaskIsBare(t *testing.T) {
	a := newTestAssembler(nil)

	orders := a.Assemble(context.Background(), samplePlan(), nil, 4000)
	require.Len(t, orders, 2)

	wo := orders[0]
	assert.Equal(t, "wo-1", wo.ID)
	assert.Equal(t, domain.WorkOrderPending, wo.Status)
	assert.Equal(t, domain.PriorityMedium, wo.Priority)
	assert.Equal(t, "Concrete", wo.Category)
	assert.Equal(t, fixedNow, wo.CreatedAt)
	assert.Equal(t, 4000.0, wo.Budget)

	assert.Equal(t, []domain.LaborLine{
		{Role: RateProjectManagement, RateClass: RateProjectManagement, Hours: 6, HourlyRate: 85},
		{Role: RateManualLabor, RateClass: RateManualLabor, Hours: 12, HourlyRate: 45},
	}, wo.Labor)
	assert.Equal(t, []domain.MaterialLine{{Name: "Materials allowance", Quantity: 1, UnitCost: 1400}}, wo.Materials)
	assert.InDelta(t, 6*85+12*45+1400, wo.EstimatedCost(), 1e-9)
}

func TestAssemble_UsesTaskSpecs(t *testing.T) {
	a := newTestAssembler(nil)

	wo := a.Assemble(context.Background(), samplePlan(), nil, 4000)[1]

	assert.Equal(t, domain.WorkOrderScheduled, wo.Status)
	assert.Equal(t, domain.PriorityHigh, wo.Priority)
	assert.Equal(t, "Flatwork", wo.Category)
	assert.Equal(t, []string{"1.1"}, wo.DependsOn)
	require.Len(t, wo.Labor, 2)
	assert.Equal(t, RateManualLabor, wo.Labor[0].RateClass)
	assert.Equal(t, 45.0, wo.Labor[0].HourlyRate)
	assert.Equal(t, RateConstructionSupervision, wo.Labor[1].RateClass)
	assert.Equal(t, 95.0, wo.Labor[1].HourlyRate)
	assert.InDelta(t, 8*165.0, wo.MaterialCost(), 1e-9)
}

func TestAssemble_RateTableOverridesDefaults(t *testing.T) {
	table := RateTableFunc(func(context.Context) (map[string]float64, error) {
		return map[string]float64{RateManualLabor: 52, RateProjectManagement: 0}, nil
	})
	a := newTestAssembler(table)

	wo := a.Assemble(context.Background(), samplePlan(), nil, 0)[0]

	assert.Equal(t, 85.0, wo.Labor[0].HourlyRate, "non-positive entry falls back to default")
	assert.Equal(t, 52.0, wo.Labor[1].HourlyRate)
}

func TestAssemble_RateTableFailureUsesDefaults(t *testing.T) {
	table := RateTableFunc(func(context.Context) (map[string]float64, error) {
		return nil, errors.New("rates service down")
	})
	a := newTestAssembler(table)

	wo := a.Assemble(context.Background(), samplePlan(), nil, 0)[0]

	assert.Equal(t, 85.0, wo.Labor[0].HourlyRate)
	assert.Equal(t, 45.0, wo.Labor[1].HourlyRate)
}

func TestAssemble_EditsSelectAndAnnotate(t *testing.T) {
	a := newTestAssembler(nil)
	plan := samplePlan()
	edits := PlanEditsFrom(plan)
	edits.Deselect("1.1 Site survey")
	edits.Materials = "Client supplies rebar"
	edits.Labor = " "

	orders := a.Assemble(context.Background(), plan, &edits, 1000)

	require.Len(t, orders, 1)
	assert.Equal(t, "2.1 Pour slab", orders[0].Title)
	assert.Equal(t, "Materials: Client supplies rebar", orders[0].Notes)
}

func TestAssemble_UnchangedEditsLeaveNotesEmpty(t *testing.T) {
	a := newTestAssembler(nil)
	plan := samplePlan()
	plan.Labor = "Finisher crew"
	edits := PlanEditsFrom(plan)
	edits.Materials = " Ready-mix "

	orders := a.Assemble(context.Background(), plan, &edits, 1000)
	require.Len(t, orders, 2)
	assert.Empty(t, orders[0].Notes)

	edits.Labor = "Finisher crew plus pump operator"
	orders = a.Assemble(context.Background(), plan, &edits, 1000)
	assert.Equal(t, "Labor: Finisher crew plus pump operator", orders[0].Notes)
}

func TestAssemble_EmptySelection(t *testing.T) {
	a := newTestAssembler(nil)
	edits := domain.PlanEdits{}

	orders := a.Assemble(context.Background(), samplePlan(), &edits, 1000)

	assert.NotNil(t, orders)
	assert.Empty(t, orders)
}

func TestPlanEditsFrom(t *testing.T) {
	plan := samplePlan()
	plan.Questions = []string{"Slab thickness?"}

	edits := PlanEditsFrom(plan)
	edits.Questions[0] = "changed"

	assert.Equal(t, "Slab thickness?", plan.Questions[0])
	assert.Equal(t, "Ready-mix", edits.Materials)
	assert.True(t, edits.IsSelected("1.1 Site survey"))
	assert.True(t, edits.IsSelected("2.1 Pour slab"))
	assert.Len(t, edits.SelectedTaskTitles, 2)
}
