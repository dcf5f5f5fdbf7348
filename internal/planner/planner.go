// Package planner drives the intake clarification conversation and
// assembles WBS-based project plans from its outcome.
package planner

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pelicanstate/constructhub/internal/catalog"
	"github.com/pelicanstate/constructhub/internal/domain"
	"github.com/pelicanstate/constructhub/internal/scope"
)

const maxTemplateQuestions = 3

// GenericQuestions are asked in every conversation after the template's own.
var GenericQuestions = []string{
	"Are there deadlines, shutdown windows or working-hour restrictions we need to plan around?",
	"Are drawings, specifications or photos of the existing conditions available?",
	"Are there any known constraints such as access, budget limits or HOA and landlord rules?",
}

// Planner runs conversations and builds plans. It holds no per-conversation
// state; every transition takes and returns a value.
type Planner struct {
	analyzer *scope.Analyzer
	library  *catalog.Library
	now      func() time.Time
	newID    func() string
}

// Option configures a Planner.
type Option func(*Planner)

// WithClock overrides the message timestamp clock.
func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// WithIDGenerator overrides the id generator for conversations and messages.
func WithIDGenerator(newID func() string) Option {
	return func(p *Planner) { p.newID = newID }
}

// New creates a Planner. A nil analyzer uses the embedded catalogue.
func New(analyzer *scope.Analyzer, opts ...Option) *Planner {
	if analyzer == nil {
		analyzer = scope.NewAnalyzer(nil, nil)
	}
	p := &Planner{
		analyzer: analyzer,
		library:  analyzer.Library(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Begin analyzes the summary and opens a conversation with the template's
// first questions plus the generic ones queued.
func (p *Planner) Begin(summary string) (domain.IntakeConversationState, domain.ScopeAnalysisResult) {
	return p.BeginWithTemplate(summary, nil)
}

// BeginWithTemplate is Begin with a manually selected template, which always
// becomes the recommended one.
func (p *Planner) BeginWithTemplate(summary string, selected *domain.TaskTemplate) (domain.IntakeConversationState, domain.ScopeAnalysisResult) {
	summary = strings.TrimSpace(summary)
	analysis := p.analyzer.Analyze(summary, selected)
	cfg := p.library.MustConfig(analysis.PrimaryTemplate)

	queue := buildQueue(cfg.WalkthroughQuestions)

	state := domain.IntakeConversationState{
		ID:                  p.newID(),
		ScopeSummary:        summary,
		Messages:            []domain.ConversationMessage{},
		PendingQuestions:    queue,
		Responses:           map[string]string{},
		Answered:            []string{},
		RecommendedTemplate: analysis.PrimaryTemplate,
	}
	if summary != "" {
		state.Messages = append(state.Messages, p.message(domain.RoleUser, summary))
	}
	state.Messages = append(state.Messages, p.message(domain.RoleAssistant, openingReply(cfg, analysis, state.PendingQuestions)))
	state.ReadyForPlan = len(state.PendingQuestions) == 0
	return state, analysis
}

// RecordAnswer answers the front pending question. With an empty queue the
// answer is logged as free-form chat and the state stays plan-ready.
func (p *Planner) RecordAnswer(state domain.IntakeConversationState, answer string) domain.IntakeConversationState {
	next := state.Clone()
	answer = strings.TrimSpace(answer)

	if len(next.PendingQuestions) == 0 {
		next.Messages = append(next.Messages, p.message(domain.RoleUser, answer))
		next.ReadyForPlan = true
		return next
	}

	question := next.PendingQuestions[0]
	next.PendingQuestions = next.PendingQuestions[1:]
	if _, dup := next.Responses[question]; !dup {
		next.Answered = append(next.Answered, question)
	}
	next.Responses[question] = answer
	next.Messages = append(next.Messages, p.message(domain.RoleUser, answer))

	var reply string
	if len(next.PendingQuestions) > 0 {
		reply = fmt.Sprintf("Thanks. Next question (%d remaining): %s", len(next.PendingQuestions), next.PendingQuestions[0])
	} else {
		name := p.library.MustConfig(next.RecommendedTemplate).Name
		reply = fmt.Sprintf("Thanks, that covers everything. I'm ready to build the %s plan.", name)
	}
	next.Messages = append(next.Messages, p.message(domain.RoleAssistant, reply))
	next.ReadyForPlan = len(next.PendingQuestions) == 0
	return next
}

// Retarget switches the conversation to template t. Questions already
// answered are not asked again; the new template's remaining questions
// replace the pending queue.
func (p *Planner) Retarget(state domain.IntakeConversationState, t domain.TaskTemplate) domain.IntakeConversationState {
	next := state.Clone()
	if next.RecommendedTemplate == t {
		return next
	}
	cfg := p.library.MustConfig(t)
	next.RecommendedTemplate = cfg.ID

	pending := make([]string, 0, maxTemplateQuestions+len(GenericQuestions))
	for _, q := range buildQueue(cfg.WalkthroughQuestions) {
		if _, answered := next.Responses[q]; !answered {
			pending = append(pending, q)
		}
	}
	next.PendingQuestions = pending

	reply := fmt.Sprintf("Switched to the %s template.", cfg.Name)
	if len(pending) > 0 {
		reply += fmt.Sprintf(" Next question (%d remaining): %s", len(pending), pending[0])
	} else {
		reply += " I'm ready to build the plan."
	}
	next.Messages = append(next.Messages, p.message(domain.RoleAssistant, reply))
	next.ReadyForPlan = len(next.PendingQuestions) == 0
	return next
}

// buildQueue takes up to three template questions followed by the generic
// questions, dropping blanks and duplicates.
func buildQueue(templateQuestions []string) []string {
	queue := make([]string, 0, maxTemplateQuestions+len(GenericQuestions))
	seen := make(map[string]bool)
	enqueue := func(q string) {
		q = strings.TrimSpace(q)
		if q == "" || seen[q] {
			return
		}
		seen[q] = true
		queue = append(queue, q)
	}
	for i, q := range templateQuestions {
		if i == maxTemplateQuestions {
			break
		}
		enqueue(q)
	}
	for _, q := range GenericQuestions {
		enqueue(q)
	}
	return queue
}

func (p *Planner) message(role domain.Role, content string) domain.ConversationMessage {
	return domain.ConversationMessage{
		ID:        p.newID(),
		Role:      role,
		Content:   content,
		Timestamp: p.now(),
	}
}

func openingReply(cfg domain.TemplateConfig, analysis domain.ScopeAnalysisResult, queue []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "This looks like a %s job (%d%% confidence).", cfg.Name, int(math.Round(analysis.PrimaryConfidence*100)))
	if len(queue) == 0 {
		b.WriteString(" I have everything I need to build the plan.")
		return b.String()
	}
	b.WriteString(" A few questions before I build the plan:")
	for i, q := range queue {
		if i == 3 {
			break
		}
		fmt.Fprintf(&b, "\n%d. %s", i+1, q)
	}
	return b.String()
}
