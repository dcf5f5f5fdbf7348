package domain

// TemplateTask is one recommended task of a template or an assembled plan.
type TemplateTask struct {
	Title         string         `json:"title" yaml:"title"`
	Description   string         `json:"description" yaml:"description"`
	Status        string         `json:"status,omitempty" yaml:"status,omitempty"`
	Priority      Priority       `json:"priority,omitempty" yaml:"priority,omitempty"`
	Category      string         `json:"category,omitempty" yaml:"category,omitempty"`
	Materials     []MaterialSpec `json:"materials,omitempty" yaml:"materials,omitempty"`
	Labor         []LaborSpec    `json:"labor,omitempty" yaml:"labor,omitempty"`
	Phase         string         `json:"phase,omitempty" yaml:"phase,omitempty"`
	WBSCode       string         `json:"wbsCode,omitempty" yaml:"wbs_code,omitempty"`
	DurationHours float64        `json:"durationHours,omitempty" yaml:"duration_hours,omitempty"`
	DependsOn     []string       `json:"dependsOn,omitempty" yaml:"depends_on,omitempty"`
}

// LaborSpec is a requested role and its hours on a task.
type LaborSpec struct {
	Role  string  `json:"role" yaml:"role"`
	Hours float64 `json:"hours" yaml:"hours"`
}

// MaterialSpec is a requested material line on a task.
type MaterialSpec struct {
	Name     string  `json:"name" yaml:"name"`
	Quantity float64 `json:"quantity" yaml:"quantity"`
	UnitCost float64 `json:"unitCost" yaml:"unit_cost"`
}

// TemplateConfig is the static record for one TaskTemplate.
type TemplateConfig struct {
	ID                   TaskTemplate   `json:"id" yaml:"id"`
	Name                 string         `json:"name" yaml:"name"`
	Category             string         `json:"category" yaml:"category"`
	Description          string         `json:"description" yaml:"description"`
	Keywords             []string       `json:"keywords" yaml:"keywords"`
	WalkthroughQuestions []string       `json:"walkthroughQuestions" yaml:"walkthrough_questions"`
	MaterialGuidance     string         `json:"materialGuidance" yaml:"material_guidance"`
	LaborGuidance        string         `json:"laborGuidance" yaml:"labor_guidance"`
	CostGuidance         string         `json:"costGuidance" yaml:"cost_guidance"`
	DefaultTasks         []TemplateTask `json:"defaultTasks" yaml:"default_tasks"`
}

// WBSTask is a single work-breakdown task under a phase.
type WBSTask struct {
	Code          string   `json:"code" yaml:"code"`
	Title         string   `json:"title" yaml:"title"`
	Description   string   `json:"description" yaml:"description"`
	DurationHours float64  `json:"durationHours" yaml:"duration_hours"`
	DependsOn     []string `json:"dependsOn,omitempty" yaml:"depends_on,omitempty"`
}

// WBSPhase groups WBS tasks under a numbered phase.
type WBSPhase struct {
	Code  string    `json:"code" yaml:"code"`
	Name  string    `json:"name" yaml:"name"`
	Tasks []WBSTask `json:"tasks" yaml:"tasks"`
}

// TaskCount returns the number of tasks across all phases.
func TaskCount(phases []WBSPhase) int {
	n := 0
	for _, p := range phases {
		n += len(p.Tasks)
	}
	return n
}
