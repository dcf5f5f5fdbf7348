package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/pelicanstate/constructhub/internal/consultation"
	"github.com/pelicanstate/constructhub/internal/domain"
	"github.com/pelicanstate/constructhub/internal/intelligence"
	"github.com/pelicanstate/constructhub/internal/planner"
	"github.com/pelicanstate/constructhub/internal/scope"
)

// StartOptions tune one intake session.
type StartOptions struct {
	Template     *domain.TaskTemplate
	Jurisdiction *domain.Jurisdiction
	ProjectID    string
	SkipResearch bool
}

// IntakeSnapshot is a deep copy of the session state.
type IntakeSnapshot struct {
	Analysis        domain.ScopeAnalysisResult
	Checklist       *domain.ConsultationChecklist
	Conversation    *domain.IntakeConversationState
	Generation      uint64
	ResearchPending bool
}

// IntakeSession owns the current analysis, checklist and conversation of
// one intake workflow. Every transition is serialized and chains from the
// latest state. Research runs in the background; a result that arrives
// after a newer Start or OverrideTemplate is discarded.
type IntakeSession struct {
	analyzer *scope.Analyzer
	builder  *consultation.Builder
	planner  *planner.Planner
	research *intelligence.ResearchService
	observer UseCaseObserver
	now      func() time.Time

	mu              sync.Mutex
	started         bool
	generation      uint64
	researchPending bool
	summary         string
	jurisdiction    *domain.Jurisdiction
	projectID       string
	skipResearch    bool
	analysis        domain.ScopeAnalysisResult
	checklist       *domain.ConsultationChecklist
	conversation    *domain.IntakeConversationState
}

// IntakeOption configures an IntakeSession.
type IntakeOption func(*IntakeSession)

// WithResearch enables background research snippets.
func WithResearch(r *intelligence.ResearchService) IntakeOption {
	return func(s *IntakeSession) { s.research = r }
}

// WithObserver sets the use-case observer.
func WithObserver(o UseCaseObserver) IntakeOption {
	return func(s *IntakeSession) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithSessionClock sets the clock used to stamp checklist edits.
func WithSessionClock(now func() time.Time) IntakeOption {
	return func(s *IntakeSession) { s.now = now }
}

func NewIntakeSession(analyzer *scope.Analyzer, builder *consultation.Builder, p *planner.Planner, opts ...IntakeOption) *IntakeSession {
	s := &IntakeSession{
		analyzer: analyzer,
		builder:  builder,
		planner:  p,
		observer: NoopUseCaseObserver{},
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Start analyzes summary, builds the checklist and opens the conversation,
// replacing any previous workflow. The returned channel is closed when the
// research attempt for this start has finished (immediately when research
// is disabled).
func (s *IntakeSession) Start(ctx context.Context, summary string, opts StartOptions) (IntakeSnapshot, <-chan struct{}) {
	startedAt := time.Now()

	s.mu.Lock()
	state, analysis := s.planner.BeginWithTemplate(summary, opts.Template)
	s.started = true
	s.summary = state.ScopeSummary
	s.jurisdiction = opts.Jurisdiction
	s.projectID = opts.ProjectID
	s.skipResearch = opts.SkipResearch
	s.analysis = analysis
	s.conversation = &state
	s.checklist = s.buildChecklistLocked()
	done := s.launchResearchLocked(ctx)
	snap := s.snapshotLocked()
	s.mu.Unlock()

	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "intake-start",
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   true,
		Fields: map[string]any{
			"template":   string(analysis.PrimaryTemplate),
			"confidence": analysis.PrimaryConfidence,
			"flags":      len(analysis.ComplianceFlags),
			"research":   snap.ResearchPending,
		},
	})
	return snap, done
}

// OverrideTemplate switches the workflow to template t. The analysis is
// recomputed with t selected, the checklist is regenerated against it and
// the conversation is retargeted. Research restarts for the new job type.
func (s *IntakeSession) OverrideTemplate(ctx context.Context, t domain.TaskTemplate) (IntakeSnapshot, <-chan struct{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started || s.conversation == nil {
		return IntakeSnapshot{}, nil, ErrNoConversation
	}
	s.analysis = s.analyzer.Analyze(s.summary, &t)
	next := s.planner.Retarget(*s.conversation, s.analysis.PrimaryTemplate)
	s.conversation = &next
	s.checklist = s.buildChecklistLocked()
	done := s.launchResearchLocked(ctx)
	return s.snapshotLocked(), done, nil
}

// Answer records an answer to the front pending question.
func (s *IntakeSession) Answer(answer string) (domain.IntakeConversationState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conversation == nil {
		return domain.IntakeConversationState{}, ErrNoConversation
	}
	next := s.planner.RecordAnswer(*s.conversation, answer)
	s.conversation = &next
	return next.Clone(), nil
}

func (s *IntakeSession) ToggleItem(section domain.ChecklistSection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checklist == nil {
		return ErrNoConversation
	}
	return consultation.Toggle(s.checklist, section, id, s.now())
}

func (s *IntakeSession) RemoveItem(section domain.ChecklistSection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checklist == nil {
		return ErrNoConversation
	}
	return consultation.Remove(s.checklist, section, id, s.now())
}

// AddCustomItem appends a user item and returns its id. Blank text adds
// nothing and returns an empty id.
func (s *IntakeSession) AddCustomItem(section domain.ChecklistSection, text string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.checklist == nil {
		return "", ErrNoConversation
	}
	id := s.builder.NewItemID()
	added, err := consultation.AddCustom(s.checklist, section, id, text, s.now())
	if err != nil || !added {
		return "", err
	}
	return id, nil
}

// Snapshot returns a copy of the current state.
func (s *IntakeSession) Snapshot() (IntakeSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return IntakeSnapshot{}, ErrNoConversation
	}
	return s.snapshotLocked(), nil
}

// BuildPlan assembles the plan for the current conversation and discards
// the conversation. The checklist stays available.
func (s *IntakeSession) BuildPlan(ctx context.Context) (domain.ProjectPlan, []domain.WBSPhase, error) {
	startedAt := time.Now()

	s.mu.Lock()
	if s.conversation == nil {
		s.mu.Unlock()
		return domain.ProjectPlan{}, nil, ErrNoConversation
	}
	conv := *s.conversation
	s.conversation = nil
	s.mu.Unlock()

	plan, phases := s.planner.BuildPlan(conv)
	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:      "intake-build-plan",
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   true,
		Fields: map[string]any{
			"template": string(conv.RecommendedTemplate),
			"tasks":    len(plan.Tasks),
			"ready":    conv.ReadyForPlan,
		},
	})
	return plan, phases, nil
}

func (s *IntakeSession) buildChecklistLocked() *domain.ConsultationChecklist {
	c := s.builder.GenerateChecklist(s.analysis, s.jurisdiction)
	c.ProjectID = s.projectID
	return c
}

// launchResearchLocked bumps the generation and starts research for the
// current analysis. Callers hold s.mu.
func (s *IntakeSession) launchResearchLocked(ctx context.Context) <-chan struct{} {
	s.generation++
	gen := s.generation
	done := make(chan struct{})

	if s.research == nil || s.skipResearch || strings.TrimSpace(s.summary) == "" {
		s.researchPending = false
		close(done)
		return done
	}

	jurisdiction := s.jurisdiction
	if jurisdiction == nil {
		jurisdiction = s.analysis.SuggestedJurisdiction
	}
	req := intelligence.ResearchRequest{
		Scope:        s.summary,
		JobType:      s.analysis.PrimaryTemplate,
		Jurisdiction: jurisdiction,
	}
	s.researchPending = true

	go func() {
		defer close(done)
		snippets := s.research.GetResearchSnippets(ctx, req)
		s.applyResearch(ctx, gen, snippets)
	}()
	return done
}

func (s *IntakeSession) applyResearch(ctx context.Context, gen uint64, snippets []domain.IntakeResearchSnippet) {
	s.mu.Lock()
	stale := gen != s.generation
	added := 0
	if !stale {
		s.researchPending = false
		if s.checklist != nil {
			added = consultation.MergeResearch(s.checklist, snippets, s.now())
		}
	}
	s.mu.Unlock()

	s.observer.ObserveUseCase(ctx, UseCaseEvent{
		Name:    "intake-research",
		Success: true,
		Fields: map[string]any{
			"generation": gen,
			"stale":      stale,
			"snippets":   len(snippets),
			"added":      added,
		},
	})
}

func (s *IntakeSession) snapshotLocked() IntakeSnapshot {
	snap := IntakeSnapshot{
		Analysis:        s.analysis.Clone(),
		Checklist:       s.checklist.Clone(),
		Generation:      s.generation,
		ResearchPending: s.researchPending,
	}
	if s.conversation != nil {
		conv := s.conversation.Clone()
		snap.Conversation = &conv
	}
	return snap
}
