package domain

import (
	"maps"
	"slices"
	"time"
)

// ConversationMessage is one entry of the intake conversation log.
type ConversationMessage struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// IntakeConversationState is the value-typed state of a clarification
// conversation. Transitions return a new state; the receiver is never mutated.
type IntakeConversationState struct {
	ID                  string                `json:"id"`
	ScopeSummary        string                `json:"scopeSummary"`
	Messages            []ConversationMessage `json:"messages"`
	PendingQuestions    []string              `json:"pendingQuestions"`
	Responses           map[string]string     `json:"responses"`
	Answered            []string              `json:"answered"`
	RecommendedTemplate TaskTemplate          `json:"recommendedTemplate"`
	ReadyForPlan        bool                  `json:"readyForPlan"`
}

// Clone returns a deep copy of the state.
func (s IntakeConversationState) Clone() IntakeConversationState {
	clone := s
	clone.Messages = slices.Clone(s.Messages)
	clone.PendingQuestions = slices.Clone(s.PendingQuestions)
	clone.Answered = slices.Clone(s.Answered)
	clone.Responses = maps.Clone(s.Responses)
	if clone.Responses == nil {
		clone.Responses = map[string]string{}
	}
	return clone
}
