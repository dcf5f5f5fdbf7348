package domain

// ProjectPlan is a generated plan bound to a template. Treated as immutable
// once generated; regeneration creates a new plan.
type ProjectPlan struct {
	Questions     []string       `json:"questions"`
	Materials     string         `json:"materials"`
	Labor         string         `json:"labor"`
	CostHeuristic string         `json:"costHeuristic"`
	Tasks         []TemplateTask `json:"tasks"`
	TemplateName  string         `json:"templateName"`
	Description   string         `json:"description"`
}

// PlanEdits is the user-editable projection of a ProjectPlan.
type PlanEdits struct {
	Questions          []string            `json:"questions"`
	Materials          string              `json:"materials"`
	Labor              string              `json:"labor"`
	SelectedTaskTitles map[string]struct{} `json:"selectedTaskTitles"`
}

// IsSelected reports whether the task title is selected for creation.
func (e *PlanEdits) IsSelected(title string) bool {
	_, ok := e.SelectedTaskTitles[title]
	return ok
}

// Select marks titles as selected.
func (e *PlanEdits) Select(titles ...string) {
	if e.SelectedTaskTitles == nil {
		e.SelectedTaskTitles = make(map[string]struct{}, len(titles))
	}
	for _, t := range titles {
		e.SelectedTaskTitles[t] = struct{}{}
	}
}

// Deselect removes titles from the selection.
func (e *PlanEdits) Deselect(titles ...string) {
	for _, t := range titles {
		delete(e.SelectedTaskTitles, t)
	}
}
