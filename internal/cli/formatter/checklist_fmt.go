package formatter

import (
	"fmt"
	"strings"

	"github.com/pelicanstate/constructhub/internal/consultation"
	"github.com/pelicanstate/constructhub/internal/domain"
)

var checklistSections = []struct {
	section domain.ChecklistSection
	title   string
}{
	{domain.SectionQuestions, "Questions to ask"},
	{domain.SectionMeasurements, "Measurements"},
	{domain.SectionPhotos, "Photos"},
	{domain.SectionTools, "Tools to bring"},
}

// FormatChecklist renders a consultation checklist. Item ids are shown so
// they can be passed back to edit commands.
func FormatChecklist(c *domain.ConsultationChecklist, name TemplateNamer) string {
	if c == nil {
		return Dim("No checklist.")
	}
	var b strings.Builder

	done, total := consultation.Progress(c)
	fmt.Fprintf(&b, "%s  %s\n", Bold(name(c.JobType)), RenderProgress(done, total, 20))

	for _, s := range checklistSections {
		items, _ := c.Section(s.section)
		if len(items) == 0 {
			continue
		}
		b.WriteString("\n" + Header(s.title) + "\n")
		for _, it := range items {
			b.WriteString(formatItem(it))
		}
	}

	if len(c.SafetyNotes) > 0 {
		b.WriteString("\n" + Header("Safety") + "\n")
		for _, n := range c.SafetyNotes {
			fmt.Fprintf(&b, "  %s %s\n", SeverityBadge(n.Severity), n.Text)
		}
	}

	if len(c.Research) > 0 {
		b.WriteString("\n" + Header("Research") + "\n")
		b.WriteString(FormatResearch(c.Research))
	}

	return RenderBox("Consultation prep", strings.TrimRight(b.String(), "\n"))
}

func formatItem(it domain.IntakeChecklistItem) string {
	text := it.Text
	if it.Required {
		text += StyleRed.Render(" *")
	}
	if it.UserAdded {
		text += " " + StylePurple.Render("(added)")
	}
	line := fmt.Sprintf("  %s %s  %s\n", Checkbox(it.Checked), text, TruncID(it.ID))
	if it.Reason != "" {
		line += "      " + Dim(it.Reason) + "\n"
	}
	return line
}

// FormatResearch renders research snippets grouped by category.
func FormatResearch(snippets []domain.IntakeResearchSnippet) string {
	var b strings.Builder
	order := []domain.SnippetCategory{domain.SnippetPermit, domain.SnippetCode, domain.SnippetMaterial, domain.SnippetContact}
	for _, cat := range order {
		for _, s := range snippets {
			if s.Category != cat {
				continue
			}
			where := ""
			if s.Jurisdiction != nil {
				where = Dim(" · " + s.Jurisdiction.Label())
			}
			fmt.Fprintf(&b, "  %s %s %s%s  %s\n",
				SourceBadge(s.Source), StyleDim.Render(string(s.Category)), Bold(s.Title), where, Confidence(s.Confidence))
			if s.Content != "" {
				fmt.Fprintf(&b, "      %s\n", s.Content)
			}
		}
	}
	return b.String()
}
