package testutil

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pelicanstate/constructhub/internal/domain"
)

// FixedTime is the deterministic timestamp used by fixtures.
var FixedTime = time.Date(2026, 4, 1, 14, 30, 0, 0, time.UTC)

// WorkOrderOption customizes a test work order.
type WorkOrderOption func(*domain.WorkOrder)

func WithStatus(s domain.WorkOrderStatus) WorkOrderOption {
	return func(w *domain.WorkOrder) { w.Status = s }
}

func WithWBS(phase, code string, dependsOn ...string) WorkOrderOption {
	return func(w *domain.WorkOrder) {
		w.Phase = phase
		w.WBSCode = code
		w.DependsOn = dependsOn
	}
}

func WithLabor(lines ...domain.LaborLine) WorkOrderOption {
	return func(w *domain.WorkOrder) { w.Labor = lines }
}

func WithMaterials(lines ...domain.MaterialLine) WorkOrderOption {
	return func(w *domain.WorkOrder) { w.Materials = lines }
}

func WithCreatedAt(t time.Time) WorkOrderOption {
	return func(w *domain.WorkOrder) {
		w.CreatedAt = t
		w.UpdatedAt = t
	}
}

// NewTestWorkOrder builds a pending work order with one labor and one
// material line.
func NewTestWorkOrder(projectID, title string, opts ...WorkOrderOption) *domain.WorkOrder {
	w := &domain.WorkOrder{
		ID:          uuid.NewString(),
		ProjectID:   projectID,
		Title:       title,
		Description: "Test task " + title,
		Status:      domain.WorkOrderPending,
		Priority:    domain.PriorityMedium,
		Category:    "General Service",
		Budget:      2500,
		Labor: []domain.LaborLine{
			{Role: "Manual Labor", RateClass: "Manual Labor", Hours: 12, HourlyRate: 45},
		},
		Materials: []domain.MaterialLine{
			{Name: "Materials allowance", Quantity: 1, UnitCost: 875},
		},
		CreatedAt: FixedTime,
		UpdatedAt: FixedTime,
	}
	for _, o := range opts {
		o(w)
	}
	return w
}

// ScopeBoilerSHPO is the historic boiler replacement scope used across
// end-to-end tests.
const ScopeBoilerSHPO = "Replace boiler in historic building, coordinate SHPO approval"

// SequentialIDs returns a deterministic id generator: prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

// Clock returns a fixed-time clock function.
func Clock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
