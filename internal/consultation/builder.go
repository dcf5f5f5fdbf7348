// Package consultation builds the pre-walkthrough consultation checklist
// from a scope analysis and applies item edits to it.
package consultation

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pelicanstate/constructhub/internal/catalog"
	"github.com/pelicanstate/constructhub/internal/domain"
	"github.com/pelicanstate/constructhub/internal/knowledge"
)

const (
	scopeEchoLimit     = 120
	permitConfidence   = 0.9
	codeConfidence     = 0.85
	toolReasonDefault  = "Recommended to bring"
	scopeConfirmReason = "Reminder: confirm constraints and expectations with the client"
)

// Builder assembles consultation checklists.
type Builder struct {
	library *catalog.Library
	kb      *knowledge.Base
	now     func() time.Time
	newID   func() string
}

// Option configures a Builder.
type Option func(*Builder)

// WithClock overrides the clock used for GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithIDGenerator overrides the id generator for checklist entries.
func WithIDGenerator(newID func() string) Option {
	return func(b *Builder) { b.newID = newID }
}

// NewBuilder creates a Builder. Nil library or knowledge base use the
// embedded defaults.
func NewBuilder(lib *catalog.Library, kb *knowledge.Base, opts ...Option) *Builder {
	if lib == nil {
		lib = catalog.Default()
	}
	if kb == nil {
		kb = knowledge.Default()
	}
	b := &Builder{
		library: lib,
		kb:      kb,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// NewItemID returns a fresh id from the builder's generator.
func (b *Builder) NewItemID() string { return b.newID() }

// Now returns the builder's current time.
func (b *Builder) Now() time.Time { return b.now() }

// GenerateChecklist builds a checklist for analysis.PrimaryTemplate. A nil
// jurisdiction uses the analysis's suggested jurisdiction.
func (b *Builder) GenerateChecklist(analysis domain.ScopeAnalysisResult, jurisdiction *domain.Jurisdiction) *domain.ConsultationChecklist {
	if jurisdiction == nil {
		jurisdiction = analysis.SuggestedJurisdiction
	}
	cfg := b.library.MustConfig(analysis.PrimaryTemplate)

	c := &domain.ConsultationChecklist{
		ID:           b.newID(),
		JobType:      cfg.ID,
		Questions:    b.questions(cfg, analysis.ScopeText),
		Measurements: []domain.IntakeChecklistItem{},
		Photos:       []domain.IntakeChecklistItem{},
		Tools:        []domain.IntakeChecklistItem{},
		SafetyNotes:  b.safetyNotes(analysis.DetectedKeywords),
		Research:     b.research(cfg.ID, analysis.DetectedKeywords, jurisdiction),
		GeneratedAt:  b.now(),
	}

	if guide, ok := b.kb.FindMeasurementGuide(cfg.ID); ok {
		c.Measurements = b.guideItems(guide.Measurements, true, "")
		c.Photos = b.guideItems(guide.Photos, true, "")
		c.Tools = b.guideItems(guide.Tools, false, toolReasonDefault)
	}
	return c
}

func (b *Builder) questions(cfg domain.TemplateConfig, scopeText string) []domain.IntakeChecklistItem {
	items := make([]domain.IntakeChecklistItem, 0, len(cfg.WalkthroughQuestions)+1)
	for _, q := range cfg.WalkthroughQuestions {
		items = append(items, domain.IntakeChecklistItem{
			ID:       b.newID(),
			Text:     q,
			Required: true,
		})
	}
	if scopeText != "" {
		items = append(items, domain.IntakeChecklistItem{
			ID:     b.newID(),
			Text:   fmt.Sprintf("Confirm scope with client: %q", TruncateScope(scopeText)),
			Reason: scopeConfirmReason,
		})
	}
	return items
}

func (b *Builder) guideItems(guide []knowledge.GuideItem, required bool, reasonPrefix string) []domain.IntakeChecklistItem {
	items := make([]domain.IntakeChecklistItem, 0, len(guide))
	for _, g := range guide {
		reason := g.Reason
		if reasonPrefix != "" {
			reason = reasonPrefix
			if g.Reason != "" {
				reason += ": " + g.Reason
			}
		}
		items = append(items, domain.IntakeChecklistItem{
			ID:       b.newID(),
			Text:     g.Text,
			Reason:   reason,
			Required: required,
		})
	}
	return items
}

func (b *Builder) safetyNotes(keywords []string) []domain.SafetyNote {
	guides := b.kb.DetectSafetyNotes(keywords)
	notes := make([]domain.SafetyNote, 0, len(guides))
	for _, g := range guides {
		notes = append(notes, domain.SafetyNote{
			ID:       b.newID(),
			Text:     g.Text,
			Severity: g.Severity,
			Source:   g.Source,
		})
	}
	return notes
}

func (b *Builder) research(t domain.TaskTemplate, keywords []string, j *domain.Jurisdiction) []domain.IntakeResearchSnippet {
	rules := b.kb.MatchPermitRules(keywords, j)
	codes := b.kb.FindCodeReferences(t, j)

	snippets := make([]domain.IntakeResearchSnippet, 0, len(rules)+len(codes))
	for _, r := range rules {
		snippets = append(snippets, domain.IntakeResearchSnippet{
			ID:           b.newID(),
			Category:     domain.SnippetPermit,
			Title:        r.Name,
			Content:      fmt.Sprintf("%s Issued by %s. Estimated fee: %s.", r.Description, r.Authority, r.FeeRange()),
			Jurisdiction: domain.JurisdictionPtr(r.Jurisdiction),
			Source:       domain.SourceKnowledgeBase,
			Confidence:   permitConfidence,
		})
	}
	for _, c := range codes {
		snippets = append(snippets, domain.IntakeResearchSnippet{
			ID:           b.newID(),
			Category:     domain.SnippetCode,
			Title:        c.Code + ": " + c.Title,
			Content:      c.Summary,
			Jurisdiction: domain.JurisdictionPtr(c.Jurisdiction),
			Source:       domain.SourceKnowledgeBase,
			Confidence:   codeConfidence,
		})
	}
	return snippets
}

// TruncateScope shortens s to 120 characters plus an ellipsis.
func TruncateScope(s string) string {
	if utf8.RuneCountInString(s) <= scopeEchoLimit {
		return s
	}
	return string([]rune(s)[:scopeEchoLimit]) + "..."
}
