package domain

import (
	"slices"
	"time"
)

// IntakeChecklistItem is one checkable line of a consultation checklist.
type IntakeChecklistItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Reason    string `json:"reason,omitempty"`
	Required  bool   `json:"required"`
	Checked   bool   `json:"checked"`
	UserAdded bool   `json:"userAdded,omitempty"`
}

// SafetyNote is a non-checkable safety reminder attached to a checklist.
type SafetyNote struct {
	ID       string   `json:"id"`
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
	Source   string   `json:"source,omitempty"`
}

// IntakeResearchSnippet is supplementary permit/code/material guidance.
type IntakeResearchSnippet struct {
	ID           string          `json:"id"`
	Category     SnippetCategory `json:"category"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	Jurisdiction *Jurisdiction   `json:"jurisdiction,omitempty"`
	Source       SnippetSource   `json:"source"`
	Confidence   float64         `json:"confidence"`
}

// ConsultationChecklist is the editable pre-walkthrough preparation list.
type ConsultationChecklist struct {
	ID           string                  `json:"id"`
	ProjectID    string                  `json:"projectId,omitempty"`
	JobType      TaskTemplate            `json:"jobType"`
	Questions    []IntakeChecklistItem   `json:"questions"`
	Measurements []IntakeChecklistItem   `json:"measurements"`
	Photos       []IntakeChecklistItem   `json:"photos"`
	Tools        []IntakeChecklistItem   `json:"tools"`
	SafetyNotes  []SafetyNote            `json:"safetyNotes"`
	Research     []IntakeResearchSnippet `json:"research"`
	GeneratedAt  time.Time               `json:"generatedAt"`
	UpdatedAt    *time.Time              `json:"updatedAt,omitempty"`
}

// Section returns the items of the named section.
func (c *ConsultationChecklist) Section(s ChecklistSection) ([]IntakeChecklistItem, bool) {
	switch s {
	case SectionQuestions:
		return c.Questions, true
	case SectionMeasurements:
		return c.Measurements, true
	case SectionPhotos:
		return c.Photos, true
	case SectionTools:
		return c.Tools, true
	}
	return nil, false
}

// SetSection replaces the items of the named section and stamps UpdatedAt.
func (c *ConsultationChecklist) SetSection(s ChecklistSection, items []IntakeChecklistItem, now time.Time) bool {
	switch s {
	case SectionQuestions:
		c.Questions = items
	case SectionMeasurements:
		c.Measurements = items
	case SectionPhotos:
		c.Photos = items
	case SectionTools:
		c.Tools = items
	default:
		return false
	}
	c.Touch(now)
	return true
}

// Touch stamps UpdatedAt.
func (c *ConsultationChecklist) Touch(now time.Time) {
	c.UpdatedAt = &now
}

// ChecklistSections lists the checkable sections in display order.
var ChecklistSections = []ChecklistSection{
	SectionQuestions, SectionMeasurements, SectionPhotos, SectionTools,
}

// Clone returns a deep copy of the checklist.
func (c *ConsultationChecklist) Clone() *ConsultationChecklist {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Questions = slices.Clone(c.Questions)
	clone.Measurements = slices.Clone(c.Measurements)
	clone.Photos = slices.Clone(c.Photos)
	clone.Tools = slices.Clone(c.Tools)
	clone.SafetyNotes = slices.Clone(c.SafetyNotes)
	clone.Research = slices.Clone(c.Research)
	if c.UpdatedAt != nil {
		t := *c.UpdatedAt
		clone.UpdatedAt = &t
	}
	return &clone
}
