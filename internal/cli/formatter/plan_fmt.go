package formatter

import (
	"fmt"
	"strings"

	"github.com/pelicanstate/constructhub/internal/domain"
)

// FormatConversation renders the conversation log.
func FormatConversation(messages []domain.ConversationMessage) string {
	var b strings.Builder
	for _, m := range messages {
		who := StyleBlue.Render("You")
		if m.Role == domain.RoleAssistant {
			who = StylePurple.Render("Planner")
		}
		fmt.Fprintf(&b, "%s\n%s\n\n", who, Indent(m.Content, 2))
	}
	return strings.TrimRight(b.String(), "\n") + "\n"
}

// FormatPlan renders a project plan and its work breakdown.
func FormatPlan(p domain.ProjectPlan, phases []domain.WBSPhase) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(p.TemplateName), Dim(fmt.Sprintf("%d tasks", len(p.Tasks))))

	if p.Description != "" {
		b.WriteString("\n" + Header("Description") + "\n")
		b.WriteString(Indent(p.Description, 2) + "\n")
	}

	b.WriteString("\n" + Header("Guidance") + "\n")
	fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("Materials"), p.Materials)
	fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("Labor    "), p.Labor)
	fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("Cost     "), p.CostHeuristic)

	if len(phases) > 0 {
		b.WriteString("\n" + Header("Work breakdown") + "\n")
		b.WriteString(Indent(RenderWBS(phases), 2))
	} else if len(p.Tasks) > 0 {
		b.WriteString("\n" + Header("Tasks") + "\n")
		for _, t := range p.Tasks {
			fmt.Fprintf(&b, "  • %s\n", t.Title)
		}
	}

	return RenderBox("Project plan", strings.TrimRight(b.String(), "\n"))
}

// FormatWorkOrders renders work orders as a table with a cost total.
func FormatWorkOrders(orders []domain.WorkOrder) string {
	if len(orders) == 0 {
		return Dim("No tasks.") + "\n"
	}
	headers := []string{"ID", "WBS", "TITLE", "STATUS", "PRIORITY", "HOURS", "EST. COST"}
	rows := make([][]string, 0, len(orders))
	var total float64
	for _, w := range orders {
		var hours float64
		for _, l := range w.Labor {
			hours += l.Hours
		}
		cost := w.EstimatedCost()
		total += cost
		rows = append(rows, []string{
			TruncID(w.ID),
			Dim(w.WBSCode),
			w.Title,
			WorkOrderStatusPill(w.Status),
			PriorityBadge(w.Priority),
			FormatHours(hours),
			FormatMoney(cost),
		})
	}
	return RenderTable(headers, rows) + fmt.Sprintf("\n%s %s\n", StyleDim.Render("Total estimate"), Bold(FormatMoney(total)))
}

// FormatRates renders the labor rate table.
func FormatRates(rates []domain.LaborRate) string {
	headers := []string{"RATE CLASS", "HOURLY", "UPDATED"}
	rows := make([][]string, 0, len(rates))
	for _, r := range rates {
		updated := "--"
		if !r.UpdatedAt.IsZero() {
			updated = r.UpdatedAt.Format("Jan 2, 2006")
		}
		rows = append(rows, []string{Bold(r.RateClass), FormatMoney(r.HourlyRate), Dim(updated)})
	}
	return RenderTable(headers, rows)
}
