package domain

import "strings"

// TaskTemplate identifies one entry of the fixed job-template catalogue.
type TaskTemplate string

const (
	TemplateDefault             TaskTemplate = "default"
	TemplateHistoricRestoration TaskTemplate = "historicRestoration"
	TemplateEventSetup          TaskTemplate = "eventSetup"
	TemplateLightingUpgrade     TaskTemplate = "lightingUpgrade"
	TemplateHVACRepair          TaskTemplate = "hvacRepair"
	TemplateTenantFinish        TaskTemplate = "tenantFinish"
	TemplateRoofing             TaskTemplate = "roofing"
	TemplateSitework            TaskTemplate = "sitework"
	TemplatePlumbing            TaskTemplate = "plumbing"
	TemplateConcrete            TaskTemplate = "concrete"
)

// AllTaskTemplates is the closed catalogue key set in catalogue order.
var AllTaskTemplates = []TaskTemplate{
	TemplateDefault,
	TemplateHistoricRestoration,
	TemplateEventSetup,
	TemplateLightingUpgrade,
	TemplateHVACRepair,
	TemplateTenantFinish,
	TemplateRoofing,
	TemplateSitework,
	TemplatePlumbing,
	TemplateConcrete,
}

// IsValid reports whether t is a member of the catalogue key set.
func (t TaskTemplate) IsValid() bool {
	for _, known := range AllTaskTemplates {
		if t == known {
			return true
		}
	}
	return false
}

// ParseTaskTemplate resolves a template id case-insensitively.
func ParseTaskTemplate(s string) (TaskTemplate, bool) {
	s = strings.TrimSpace(s)
	for _, known := range AllTaskTemplates {
		if strings.EqualFold(string(known), s) {
			return known, true
		}
	}
	return "", false
}

type Jurisdiction string

const (
	JurisdictionLouisiana  Jurisdiction = "Louisiana"
	JurisdictionNewOrleans Jurisdiction = "NewOrleans"
	JurisdictionBatonRouge Jurisdiction = "BatonRouge"
)

// ValidJurisdictions is the canonical set of accepted jurisdictions.
var ValidJurisdictions = map[Jurisdiction]bool{
	JurisdictionLouisiana:  true,
	JurisdictionNewOrleans: true,
	JurisdictionBatonRouge: true,
}

// ParseJurisdiction resolves a jurisdiction name case-insensitively.
// Both "NewOrleans" and "new orleans" are accepted.
func ParseJurisdiction(s string) (Jurisdiction, bool) {
	compact := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	for j := range ValidJurisdictions {
		if strings.EqualFold(string(j), compact) {
			return j, true
		}
	}
	return "", false
}

// Label returns the human-readable jurisdiction name.
func (j Jurisdiction) Label() string {
	switch j {
	case JurisdictionNewOrleans:
		return "New Orleans"
	case JurisdictionBatonRouge:
		return "Baton Rouge"
	}
	return string(j)
}

type FlagType string

const (
	FlagHistoric      FlagType = "Historic"
	FlagPermit        FlagType = "Permit"
	FlagSafety        FlagType = "Safety"
	FlagEnvironmental FlagType = "Environmental"
)

type Severity string

const (
	SeverityInfo     Severity = "Info"
	SeverityWarning  Severity = "Warning"
	SeverityCritical Severity = "Critical"
	SeverityCaution  Severity = "Caution"
	SeverityDanger   Severity = "Danger"
)

// ValidSeverities is the canonical set of accepted severity strings.
var ValidSeverities = map[Severity]bool{
	SeverityInfo: true, SeverityWarning: true, SeverityCritical: true,
	SeverityCaution: true, SeverityDanger: true,
}

type Role string

const (
	RoleUser      Role = "User"
	RoleAssistant Role = "Assistant"
)

type SnippetCategory string

const (
	SnippetPermit   SnippetCategory = "Permit"
	SnippetCode     SnippetCategory = "Code"
	SnippetMaterial SnippetCategory = "Material"
	SnippetContact  SnippetCategory = "Contact"
)

type SnippetSource string

const (
	SourceKnowledgeBase SnippetSource = "KnowledgeBase"
	SourceLLM           SnippetSource = "LLM"
)

// ChecklistSection names one checkable list of a consultation checklist.
type ChecklistSection string

const (
	SectionQuestions    ChecklistSection = "questions"
	SectionMeasurements ChecklistSection = "measurements"
	SectionPhotos       ChecklistSection = "photos"
	SectionTools        ChecklistSection = "tools"
)

type WorkOrderStatus string

const (
	WorkOrderPending    WorkOrderStatus = "pending"
	WorkOrderScheduled  WorkOrderStatus = "scheduled"
	WorkOrderInProgress WorkOrderStatus = "in_progress"
	WorkOrderComplete   WorkOrderStatus = "complete"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)
