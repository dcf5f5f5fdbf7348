package service

import "errors"

var (
	// ErrNoConversation is returned by session operations before Start or
	// after the conversation was consumed by BuildPlan.
	ErrNoConversation = errors.New("no active intake conversation")

	// ErrNoTasksSelected is returned when plan edits deselect every task.
	ErrNoTasksSelected = errors.New("no tasks selected")
)
