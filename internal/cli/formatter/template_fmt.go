package formatter

import (
	"fmt"
	"strings"

	"github.com/pelicanstate/constructhub/internal/domain"
)

// FormatTemplateList renders the template catalogue inside a bordered box.
func FormatTemplateList(templates []domain.TemplateConfig) string {
	headers := []string{"ID", "NAME", "CATEGORY", "KEYWORDS"}
	rows := make([][]string, 0, len(templates))

	for _, t := range templates {
		keywords := t.Keywords
		if len(keywords) > 4 {
			keywords = keywords[:4]
		}
		rows = append(rows, []string{
			Dim(string(t.ID)),
			Bold(t.Name),
			StylePurple.Render(t.Category),
			Dim(strings.Join(keywords, ", ")),
		})
	}

	return RenderBox("Templates", RenderTable(headers, rows))
}

// FormatTemplateShow renders one template's guidance, questions and WBS.
func FormatTemplateShow(t domain.TemplateConfig, phases []domain.WBSPhase) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", StyleBold.Render(t.Name), StylePurple.Render(t.Category))
	fmt.Fprintf(&b, "  %s  %s\n", StyleDim.Render("ID"), Dim(string(t.ID)))
	if t.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", t.Description)
	}

	b.WriteString("\n" + Header("Walkthrough questions") + "\n")
	for i, q := range t.WalkthroughQuestions {
		fmt.Fprintf(&b, "  %d. %s\n", i+1, q)
	}

	b.WriteString("\n" + Header("Guidance") + "\n")
	fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("Materials"), t.MaterialGuidance)
	fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("Labor    "), t.LaborGuidance)
	fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("Cost     "), t.CostGuidance)

	if len(phases) > 0 {
		b.WriteString("\n" + Header("Work breakdown") + "\n")
		b.WriteString(Indent(RenderWBS(phases), 2))
	}

	return RenderBox("", b.String())
}
