// Package assembly turns an edited project plan into work-order payloads.
package assembly

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pelicanstate/constructhub/internal/domain"
)

const (
	defaultPMHours         = 6
	defaultManualHours     = 12
	minMaterialsAllowance  = 750
	materialsAllowanceRate = 0.35

	materialsAllowanceName = "Materials allowance"
)

// Assembler converts plan tasks into work orders. It performs no I/O beyond
// reading the rate table.
type Assembler struct {
	rates RateTable
	now   func() time.Time
	newID func() string
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock sets the time source for CreatedAt/UpdatedAt.
func WithClock(now func() time.Time) Option {
	return func(a *Assembler) { a.now = now }
}

// WithIDGenerator sets the work-order id source.
func WithIDGenerator(newID func() string) Option {
	return func(a *Assembler) { a.newID = newID }
}

// NewAssembler creates an Assembler. A nil rate table uses DefaultRates.
func NewAssembler(rates RateTable, opts ...Option) *Assembler {
	a := &Assembler{
		rates: rates,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// PlanEditsFrom builds the initial editable projection of plan with every
// task selected.
func PlanEditsFrom(plan domain.ProjectPlan) domain.PlanEdits {
	edits := domain.PlanEdits{
		Questions: append([]string(nil), plan.Questions...),
		Materials: plan.Materials,
		Labor:     plan.Labor,
	}
	edits.SelectedTaskTitles = make(map[string]struct{}, len(plan.Tasks))
	for _, t := range plan.Tasks {
		edits.Select(t.Title)
	}
	return edits
}

// MaterialsAllowance is the lump-sum material line used when a task lists
// no materials.
func MaterialsAllowance(budget float64) float64 {
	return math.Max(minMaterialsAllowance, math.Round(budget*materialsAllowanceRate))
}

// Assemble returns one work order per selected plan task, in plan order.
// A nil edits selects every task.
func (a *Assembler) Assemble(ctx context.Context, plan domain.ProjectPlan, edits *domain.PlanEdits, budget float64) []domain.WorkOrder {
	rates := effectiveRates(ctx, a.rates)
	notes := editNotes(plan, edits)
	now := a.now()

	orders := make([]domain.WorkOrder, 0, len(plan.Tasks))
	for _, task := range plan.Tasks {
		if edits != nil && !edits.IsSelected(task.Title) {
			continue
		}
		orders = append(orders, domain.WorkOrder{
			ID:            a.newID(),
			Title:         task.Title,
			Description:   task.Description,
			Status:        domain.WorkOrderStatus(domain.CoalesceStr(task.Status, string(domain.WorkOrderPending))),
			Priority:      domain.Priority(domain.CoalesceStr(string(task.Priority), string(domain.PriorityMedium))),
			Category:      domain.CoalesceStr(task.Category, plan.TemplateName),
			Phase:         task.Phase,
			WBSCode:       task.WBSCode,
			DurationHours: task.DurationHours,
			DependsOn:     append([]string(nil), task.DependsOn...),
			Notes:         notes,
			Budget:        budget,
			Labor:         laborLines(task.Labor, rates),
			Materials:     materialLines(task.Materials, budget),
			CreatedAt:     now,
			UpdatedAt:     now,
		})
	}
	return orders
}

func laborLines(specs []domain.LaborSpec, rates map[string]float64) []domain.LaborLine {
	if len(specs) == 0 {
		specs = []domain.LaborSpec{
			{Role: RateProjectManagement, Hours: defaultPMHours},
			{Role: RateManualLabor, Hours: defaultManualHours},
		}
	}
	lines := make([]domain.LaborLine, 0, len(specs))
	for _, s := range specs {
		class := ResolveRateClass(s.Role)
		lines = append(lines, domain.LaborLine{
			Role:       s.Role,
			RateClass:  class,
			Hours:      s.Hours,
			HourlyRate: rateFor(rates, class),
		})
	}
	return lines
}

func materialLines(specs []domain.MaterialSpec, budget float64) []domain.MaterialLine {
	if len(specs) == 0 {
		return []domain.MaterialLine{{
			Name:     materialsAllowanceName,
			Quantity: 1,
			UnitCost: MaterialsAllowance(budget),
		}}
	}
	lines := make([]domain.MaterialLine, 0, len(specs))
	for _, s := range specs {
		lines = append(lines, domain.MaterialLine{Name: s.Name, Quantity: s.Quantity, UnitCost: s.UnitCost})
	}
	return lines
}

// editNotes records only the materials and labor text the user changed
// from the generated plan.
func editNotes(plan domain.ProjectPlan, edits *domain.PlanEdits) string {
	if edits == nil {
		return ""
	}
	var parts []string
	if m := strings.TrimSpace(edits.Materials); m != "" && m != strings.TrimSpace(plan.Materials) {
		parts = append(parts, "Materials: "+m)
	}
	if l := strings.TrimSpace(edits.Labor); l != "" && l != strings.TrimSpace(plan.Labor) {
		parts = append(parts, "Labor: "+l)
	}
	return strings.Join(parts, "\n")
}
