package core

import (
	"fmt"

	"github.com/google/uuid"
)

// Status is the lifecycle position of a single WorkflowState node.
//
//	idle --(first step)--> running
//	running --(continuation | delegation)--> running
//	running --(completion)--> finished
//	running --(tool request)--> paused
//	paused --(tool results supplied by the caller)--> running
//	any --(unhandled error)--> failed
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusPaused   Status = "paused"
	StatusFinished Status = "finished"
	StatusFailed   Status = "failed"
)

// IsTerminal reports whether no further transition is expected.
func (s Status) IsTerminal() bool { return s == StatusFinished || s == StatusFailed }

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusIdle, StatusRunning, StatusPaused, StatusFinished, StatusFailed:
		return true
	}
	return false
}

// WorkflowState is one node of the task tree. A node exclusively owns its
// children; every mutating helper returns a new version and leaves the
// receiver untouched, so a tree handed to an observer is a stable snapshot.
type WorkflowState struct {
	ID       string          `json:"id"`
	Agent    string          `json:"agent"`
	Status   Status          `json:"status"`
	Messages []Message       `json:"messages"`
	Children []WorkflowState `json:"children,omitempty"`
}

// NewRootState creates the root of a workflow invocation: idle, owned by
// agent and seeded with the initial request.
func NewRootState(agent, request string) WorkflowState {
	return newState(agent, request)
}

// NewChildState creates an idle node for a delegated task.
func NewChildState(agent, task string) WorkflowState {
	return newState(agent, task)
}

func newState(agent, content string) WorkflowState {
	return WorkflowState{
		ID:       NewID(),
		Agent:    agent,
		Status:   StatusIdle,
		Messages: []Message{UserMessage(content)},
	}
}

// NewID generates a unique node / tool-call identifier.
func NewID() string { return uuid.NewString() }

// Clone returns a deep copy of the subtree rooted at s.
func (s WorkflowState) Clone() WorkflowState {
	c := s
	if s.Messages != nil {
		c.Messages = make([]Message, len(s.Messages))
		for i, m := range s.Messages {
			c.Messages[i] = m.clone()
		}
	}
	if s.Children != nil {
		c.Children = make([]WorkflowState, len(s.Children))
		for i, ch := range s.Children {
			c.Children[i] = ch.Clone()
		}
	}
	return c
}

// WithStatus returns a copy of s with the status replaced.
func (s WorkflowState) WithStatus(status Status) WorkflowState {
	s.Status = status
	return s
}

// WithMessages returns a copy of s with msgs appended. A fresh backing array
// is always allocated so earlier versions never observe the append.
func (s WorkflowState) WithMessages(msgs ...Message) WorkflowState {
	next := make([]Message, 0, len(s.Messages)+len(msgs))
	next = append(next, s.Messages...)
	for _, m := range msgs {
		next = append(next, m.clone())
	}
	s.Messages = next
	return s
}

// WithChildren returns a copy of s with children appended (fresh array).
func (s WorkflowState) WithChildren(children ...WorkflowState) WorkflowState {
	next := make([]WorkflowState, 0, len(s.Children)+len(children))
	next = append(next, s.Children...)
	next = append(next, children...)
	s.Children = next
	return s
}

// Request returns the content of the first user message, the task this node
// was created for.
func (s WorkflowState) Request() string {
	for _, m := range s.Messages {
		if m.Role == RoleUser {
			return m.Content
		}
	}
	return ""
}

// Result returns the content of the last assistant message without tool
// calls, the answer recorded by a completion.
func (s WorkflowState) Result() (string, bool) {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		m := s.Messages[i]
		if m.Role == RoleAssistant && !m.HasToolCalls() {
			return m.Content, true
		}
	}
	return "", false
}

// HasIncompleteChildren reports whether any direct child is not finished.
func (s WorkflowState) HasIncompleteChildren() bool {
	for _, ch := range s.Children {
		if ch.Status != StatusFinished {
			return true
		}
	}
	return false
}

// IsComplete reports whether s and all its descendants are finished.
func (s WorkflowState) IsComplete() bool {
	if s.Status != StatusFinished {
		return false
	}
	for _, ch := range s.Children {
		if !ch.IsComplete() {
			return false
		}
	}
	return true
}

// String renders a compact single-line description used in logs.
func (s WorkflowState) String() string {
	return fmt.Sprintf("%s(%s, msgs=%d, children=%d)", s.Agent, s.Status, len(s.Messages), len(s.Children))
}
