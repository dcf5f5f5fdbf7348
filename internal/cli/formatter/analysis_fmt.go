package formatter

import (
	"fmt"
	"strings"

	"github.com/pelicanstate/constructhub/internal/domain"
)

// TemplateNamer resolves a template id to its display name.
type TemplateNamer func(domain.TaskTemplate) string

// FormatAnalysis renders a scope analysis result.
func FormatAnalysis(r domain.ScopeAnalysisResult, name TemplateNamer) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", Bold(name(r.PrimaryTemplate)), Confidence(r.PrimaryConfidence))
	if r.Rationale != "" {
		fmt.Fprintf(&b, "%s\n", Dim(r.Rationale))
	}
	if r.SuggestedJurisdiction != nil {
		fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("Jurisdiction"), r.SuggestedJurisdiction.Label())
	}
	if len(r.DetectedKeywords) > 0 {
		fmt.Fprintf(&b, "  %s %s\n", StyleDim.Render("Keywords    "), strings.Join(r.DetectedKeywords, ", "))
	}

	if len(r.SecondarySuggestions) > 0 {
		b.WriteString("\n" + Header("Also consider") + "\n")
		for _, s := range r.SecondarySuggestions {
			fmt.Fprintf(&b, "  %s  %s\n", name(s.Template), Confidence(s.Confidence))
		}
	}

	if len(r.ComplianceFlags) > 0 {
		b.WriteString("\n" + Header("Compliance flags") + "\n")
		b.WriteString(FormatFlags(r.ComplianceFlags))
	}

	return RenderBox("Scope analysis", strings.TrimRight(b.String(), "\n"))
}

// FormatFlags renders one line per compliance flag.
func FormatFlags(flags []domain.ScopeComplianceFlag) string {
	headers := []string{"SEVERITY", "TYPE", "MESSAGE"}
	rows := make([][]string, 0, len(flags))
	for _, f := range flags {
		rows = append(rows, []string{SeverityBadge(f.Severity), FlagTypeBadge(f.Type), f.Message})
	}
	return RenderTable(headers, rows)
}
