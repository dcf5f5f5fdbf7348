package intelligence

import (
	"fmt"
	"strings"

	"github.com/pelicanstate/constructhub/internal/catalog"
)

// researchInstructions fixes the response shape expected from providers.
const researchInstructions = `You are a Louisiana construction compliance researcher.
You help a contractor prepare for a site walkthrough by listing the permits,
code references and field considerations that usually apply to a job.

You must output ONLY a JSON object with these exact fields:
- permits: array of objects, each with:
  - name: permit name
  - authority: issuing office or agency
  - required: true, false, or "likely" when it depends on details
  - estimatedFee: short fee estimate, or empty string if unknown
  - notes: one sentence on when it applies
- codeReferences: array of objects, each with:
  - code: code or ordinance name (e.g., "2021 IMC")
  - section: section number, or empty string
  - summary: one sentence on why it matters for this job
- keyConsiderations: array of short strings a field estimator should check

CRITICAL RULES:
1. Only list requirements that plausibly apply in the given jurisdiction
2. Never invent fees; leave estimatedFee empty when unsure
3. Use strict JSON (no comments, no trailing commas)
4. Output ONLY the JSON object, no markdown, no explanation`

// BuildResearchPrompt renders the user prompt for one research request.
func BuildResearchPrompt(req ResearchRequest) string {
	jurisdiction := "Louisiana (statewide)"
	if req.Jurisdiction != nil {
		jurisdiction = req.Jurisdiction.Label()
	}
	tmpl := catalog.Default().MustConfig(req.JobType)

	var b strings.Builder
	b.WriteString(researchInstructions)
	b.WriteString("\n\n## Job\n")
	fmt.Fprintf(&b, "Jurisdiction: %s\n", jurisdiction)
	fmt.Fprintf(&b, "Job type: %s (%s)\n", tmpl.Name, tmpl.ID)
	b.WriteString("Scope:\n")
	b.WriteString(strings.TrimSpace(req.Scope))
	b.WriteString("\n\nReturn permits, codeReferences and keyConsiderations as JSON.")
	return b.String()
}
