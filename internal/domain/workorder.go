package domain

import "time"

// LaborLine is a resolved labor line item on a work order.
type LaborLine struct {
	Role       string  `json:"role"`
	RateClass  string  `json:"rateClass"`
	Hours      float64 `json:"hours"`
	HourlyRate float64 `json:"hourlyRate"`
}

// Total returns hours times rate.
func (l LaborLine) Total() float64 {
	return l.Hours * l.HourlyRate
}

// MaterialLine is a resolved material line item on a work order.
type MaterialLine struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	UnitCost float64 `json:"unitCost"`
}

// Total returns quantity times unit cost.
func (m MaterialLine) Total() float64 {
	return m.Quantity * m.UnitCost
}

// WorkOrder is a concrete task-creation payload produced from a plan task.
type WorkOrder struct {
	ID            string          `json:"id"`
	ProjectID     string          `json:"projectId"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Status        WorkOrderStatus `json:"status"`
	Priority      Priority        `json:"priority"`
	Category      string          `json:"category"`
	Phase         string          `json:"phase,omitempty"`
	WBSCode       string          `json:"wbsCode,omitempty"`
	DurationHours float64         `json:"durationHours,omitempty"`
	DependsOn     []string        `json:"dependsOn,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Budget        float64         `json:"budget"`
	Labor         []LaborLine     `json:"labor"`
	Materials     []MaterialLine  `json:"materials"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// LaborCost sums all labor lines.
func (w *WorkOrder) LaborCost() float64 {
	var total float64
	for _, l := range w.Labor {
		total += l.Total()
	}
	return total
}

// MaterialCost sums all material lines.
func (w *WorkOrder) MaterialCost() float64 {
	var total float64
	for _, m := range w.Materials {
		total += m.Total()
	}
	return total
}

// EstimatedCost is labor plus materials.
func (w *WorkOrder) EstimatedCost() float64 {
	return w.LaborCost() + w.MaterialCost()
}

// LaborRate is one stored hourly rate for a rate class.
type LaborRate struct {
	RateClass  string    `json:"rateClass"`
	HourlyRate float64   `json:"hourlyRate"`
	UpdatedAt  time.Time `json:"updatedAt"`
}
