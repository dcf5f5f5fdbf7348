package knowledge

import "github.com/pelicanstate/constructhub/internal/domain"

// appliesTo reports whether an entry scoped to entry applies under j.
// Statewide entries always apply; a nil j admits only statewide entries.
func appliesTo(entry domain.Jurisdiction, j *domain.Jurisdiction) bool {
	if entry == domain.JurisdictionLouisiana {
		return true
	}
	return j != nil && *j == entry
}

func intersects(triggers []string, keywords map[string]struct{}) bool {
	for _, t := range triggers {
		if _, ok := keywords[t]; ok {
			return true
		}
	}
	return false
}

func keywordSet(keywords []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keywords))
	for _, k := range keywords {
		set[k] = struct{}{}
	}
	return set
}

// MatchPermitRules returns rules whose triggers intersect keywords and whose
// jurisdiction applies, in knowledge-base order.
func (b *Base) MatchPermitRules(keywords []string, j *domain.Jurisdiction) []PermitRule {
	set := keywordSet(keywords)
	var out []PermitRule
	for _, r := range b.PermitRules {
		if appliesTo(r.Jurisdiction, j) && intersects(r.Triggers, set) {
			out = append(out, r)
		}
	}
	return out
}

// FindMeasurementGuide returns the guide for t, if any.
func (b *Base) FindMeasurementGuide(t domain.TaskTemplate) (MeasurementGuide, bool) {
	for _, g := range b.MeasurementGuides {
		if g.Template == t {
			return g, true
		}
	}
	return MeasurementGuide{}, false
}

// DetectSafetyNotes returns safety guides triggered by keywords.
func (b *Base) DetectSafetyNotes(keywords []string) []SafetyGuide {
	set := keywordSet(keywords)
	var out []SafetyGuide
	for _, s := range b.SafetyGuides {
		if intersects(s.Triggers, set) {
			out = append(out, s)
		}
	}
	return out
}

// FindCodeReferences returns code references covering t under j.
func (b *Base) FindCodeReferences(t domain.TaskTemplate, j *domain.Jurisdiction) []CodeReference {
	var out []CodeReference
	for _, c := range b.CodeReferences {
		if !appliesTo(c.Jurisdiction, j) {
			continue
		}
		for _, ct := range c.Templates {
			if ct == t {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
