package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/pelicanstate/constructhub/internal/domain"
)

// TreeItem represents a single node in a tree display.
type TreeItem struct {
	Code   string
	Title  string
	Level  int
	IsLast bool
	Detail string
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
)

// RenderTree renders items as an indented tree with box-drawing connectors.
// Detail badges are right-aligned across the whole tree.
func RenderTree(items []TreeItem) string {
	if len(items) == 0 {
		return ""
	}

	contents := make([]string, len(items))
	widest := 0
	for idx, item := range items {
		var prefix string
		if item.Level > 0 {
			prefix = strings.Repeat(treePipe, item.Level-1)
			if item.IsLast {
				prefix += treeCorner
			} else {
				prefix += treeBranch
			}
		}
		title := item.Title
		if item.Level == 0 {
			title = StyleBold.Render(title)
		}
		if item.Code != "" {
			title = StyleDim.Render(item.Code+" ") + title
		}
		contents[idx] = prefix + title
		widest = max(widest, lipgloss.Width(contents[idx]))
	}

	var b strings.Builder
	for idx, item := range items {
		b.WriteString(contents[idx])
		if item.Detail != "" {
			pad := widest - lipgloss.Width(contents[idx])
			b.WriteString(strings.Repeat(" ", pad) + "  " + StyleBlue.Render("[ "+item.Detail+" ]"))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// RenderWBS renders phases and their tasks with durations and dependencies.
func RenderWBS(phases []domain.WBSPhase) string {
	items := make([]TreeItem, 0, domain.TaskCount(phases)+len(phases))
	for _, phase := range phases {
		var hours float64
		for _, t := range phase.Tasks {
			hours += t.DurationHours
		}
		items = append(items, TreeItem{Code: phase.Code, Title: phase.Name, Detail: FormatHours(hours)})
		for i, t := range phase.Tasks {
			detail := FormatHours(t.DurationHours)
			if len(t.DependsOn) > 0 {
				detail += " after " + strings.Join(t.DependsOn, ", ")
			}
			items = append(items, TreeItem{
				Code:   t.Code,
				Title:  t.Title,
				Level:  1,
				IsLast: i == len(phase.Tasks)-1,
				Detail: detail,
			})
		}
	}
	return RenderTree(items)
}
