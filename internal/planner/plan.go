package planner

import (
	"strings"

	"github.com/pelicanstate/constructhub/internal/domain"
)

// BuildPlan flattens the recommended template's WBS into a plan. Templates
// without a custom WBS use the default structure. The returned phases are a
// copy the caller may keep.
func (p *Planner) BuildPlan(state domain.IntakeConversationState) (domain.ProjectPlan, []domain.WBSPhase) {
	phases := clonePhases(p.library.WBS(state.RecommendedTemplate))

	tasks := make([]domain.TemplateTask, 0, domain.TaskCount(phases))
	for _, phase := range phases {
		for _, t := range phase.Tasks {
			tasks = append(tasks, domain.TemplateTask{
				Title:         t.Code + " " + t.Title,
				Description:   phase.Name + ": " + t.Description,
				Status:        string(domain.WorkOrderPending),
				Category:      phase.Name,
				Phase:         phase.Name,
				WBSCode:       t.Code,
				DurationHours: t.DurationHours,
				DependsOn:     append([]string(nil), t.DependsOn...),
			})
		}
	}

	plan := p.planShell(state.RecommendedTemplate)
	plan.Tasks = tasks
	plan.Description = describe(state)
	return plan, phases
}

// PlanFromTemplate builds a plan from a template's default tasks without a
// conversation.
func (p *Planner) PlanFromTemplate(t domain.TaskTemplate, description string) domain.ProjectPlan {
	plan := p.planShell(t)
	cfg, _ := p.library.Config(t)
	plan.Tasks = make([]domain.TemplateTask, 0, len(cfg.DefaultTasks))
	for _, task := range cfg.DefaultTasks {
		task.Status = domain.CoalesceStr(task.Status, string(domain.WorkOrderPending))
		task.Category = domain.CoalesceStr(task.Category, cfg.Category)
		task.Materials = append([]domain.MaterialSpec(nil), task.Materials...)
		task.Labor = append([]domain.LaborSpec(nil), task.Labor...)
		plan.Tasks = append(plan.Tasks, task)
	}
	plan.Description = strings.TrimSpace(description)
	return plan
}

func (p *Planner) planShell(t domain.TaskTemplate) domain.ProjectPlan {
	cfg, ok := p.library.Config(t)
	if !ok {
		return domain.ProjectPlan{
			Questions:    []string{},
			TemplateName: string(t),
		}
	}
	return domain.ProjectPlan{
		Questions:     append([]string{}, cfg.WalkthroughQuestions...),
		Materials:     cfg.MaterialGuidance,
		Labor:         cfg.LaborGuidance,
		CostHeuristic: cfg.CostGuidance,
		TemplateName:  cfg.Name,
	}
}

func describe(state domain.IntakeConversationState) string {
	var b strings.Builder
	b.WriteString(state.ScopeSummary)
	if len(state.Answered) == 0 {
		return b.String()
	}
	if b.Len() > 0 {
		b.WriteString("\n\n")
	}
	b.WriteString("Clarifications:")
	for _, q := range state.Answered {
		b.WriteString("\n- ")
		b.WriteString(q)
		b.WriteString("\n  ")
		b.WriteString(state.Responses[q])
	}
	return b.String()
}

func clonePhases(phases []domain.WBSPhase) []domain.WBSPhase {
	out := make([]domain.WBSPhase, len(phases))
	for i, ph := range phases {
		out[i] = domain.WBSPhase{Code: ph.Code, Name: ph.Name, Tasks: make([]domain.WBSTask, len(ph.Tasks))}
		for j, t := range ph.Tasks {
			t.DependsOn = append([]string(nil), t.DependsOn...)
			out[i].Tasks[j] = t
		}
	}
	return out
}
