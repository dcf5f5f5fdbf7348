package domain

import "slices"

// ScopeComplianceFlag is a compliance, safety or jurisdiction signal raised
// while analyzing scope text.
type ScopeComplianceFlag struct {
	ID       string   `json:"id"`
	Type     FlagType `json:"type"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
	Source   string   `json:"source"`
}

// TemplateSuggestion pairs a template with its match confidence.
type TemplateSuggestion struct {
	Template   TaskTemplate `json:"template"`
	Confidence float64      `json:"confidence"`
}

// ScopeAnalysisResult is the immutable output of one scope analysis.
type ScopeAnalysisResult struct {
	ScopeText             string                `json:"scopeText"`
	PrimaryTemplate       TaskTemplate          `json:"primaryTemplate"`
	PrimaryConfidence     float64               `json:"primaryConfidence"`
	SecondarySuggestions  []TemplateSuggestion  `json:"secondarySuggestions"`
	ComplianceFlags       []ScopeComplianceFlag `json:"complianceFlags"`
	DetectedKeywords      []string              `json:"detectedKeywords"`
	SuggestedJurisdiction *Jurisdiction         `json:"suggestedJurisdiction,omitempty"`
	Rationale             string                `json:"rationale"`
}

// WithPrimaryTemplate returns a copy of the result with the primary template
// replaced. Slices are copied so the clone shares no state with r.
func (r ScopeAnalysisResult) WithPrimaryTemplate(t TaskTemplate) ScopeAnalysisResult {
	clone := r
	clone.PrimaryTemplate = t
	clone.SecondarySuggestions = make([]TemplateSuggestion, 0, len(r.SecondarySuggestions))
	for _, s := range r.SecondarySuggestions {
		if s.Template != t {
			clone.SecondarySuggestions = append(clone.SecondarySuggestions, s)
		}
	}
	clone.ComplianceFlags = append([]ScopeComplianceFlag(nil), r.ComplianceFlags...)
	clone.DetectedKeywords = append([]string(nil), r.DetectedKeywords...)
	return clone
}

// HasFlag reports whether any compliance flag has the given type.
func (r ScopeAnalysisResult) HasFlag(t FlagType) bool {
	for _, f := range r.ComplianceFlags {
		if f.Type == t {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the result.
func (r ScopeAnalysisResult) Clone() ScopeAnalysisResult {
	clone := r
	clone.SecondarySuggestions = slices.Clone(r.SecondarySuggestions)
	clone.ComplianceFlags = slices.Clone(r.ComplianceFlags)
	clone.DetectedKeywords = slices.Clone(r.DetectedKeywords)
	if r.SuggestedJurisdiction != nil {
		j := *r.SuggestedJurisdiction
		clone.SuggestedJurisdiction = &j
	}
	return clone
}
