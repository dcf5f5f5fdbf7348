package scope

import (
	"fmt"

	"github.com/pelicanstate/constructhub/internal/domain"
)

type keywordFlag struct {
	keyword  string
	flagType domain.FlagType
	severity domain.Severity
	message  string
}

var keywordFlags = []keywordFlag{
	{"historic", domain.FlagHistoric, domain.SeverityWarning,
		"Historic property: exterior and structural changes may need preservation review."},
	{"shpo", domain.FlagHistoric, domain.SeverityCritical,
		"SHPO coordination required before work begins."},
	{"boiler", domain.FlagPermit, domain.SeverityWarning,
		"Boiler work requires a mechanical permit and state boiler inspection."},
	{"gas", domain.FlagSafety, domain.SeverityCritical,
		"Gas line work requires a licensed gas fitter and pressure test."},
	{"asbestos", domain.FlagEnvironmental, domain.SeverityCritical,
		"Suspected asbestos: LDEQ notification and licensed abatement required."},
	{"roof", domain.FlagSafety, domain.SeverityWarning,
		"Roof work requires a fall protection plan."},
}

// complianceFlags combines direct keyword flags (one per keyword) with a
// Permit flag for every applicable permit rule.
func (a *Analyzer) complianceFlags(tokens []string, j *domain.Jurisdiction) []domain.ScopeComplianceFlag {
	present := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		present[t] = true
	}

	flags := make([]domain.ScopeComplianceFlag, 0)
	for _, kf := range keywordFlags {
		if !present[kf.keyword] {
			continue
		}
		flags = append(flags, domain.ScopeComplianceFlag{
			ID:       "kw-" + kf.keyword,
			Type:     kf.flagType,
			Message:  kf.message,
			Severity: kf.severity,
			Source:   "keyword:" + kf.keyword,
		})
	}

	for _, rule := range a.kb.MatchPermitRules(tokens, j) {
		flags = append(flags, domain.ScopeComplianceFlag{
			ID:       "permit-" + rule.ID,
			Type:     domain.FlagPermit,
			Message:  fmt.Sprintf("%s likely required (%s).", rule.Name, rule.Authority),
			Severity: rule.Severity,
			Source:   "permit:" + rule.ID,
		})
	}
	return flags
}
