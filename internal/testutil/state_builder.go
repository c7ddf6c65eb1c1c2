package testutil

import (
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/teamwork/core"
)

// StateBuilder provides a fluent helper for constructing workflow nodes in tests.
// Example:
//
//	root := NewStateBuilder("supervisor").
//		User("summarize example.com").
//		Status(core.StatusRunning).
//		Child(NewStateBuilder("resourcePlanner").User("summarize").Status(core.StatusRunning)).
//		Build()
//
// IDs are sequential ("<agent>-<n>") unless overridden.
type StateBuilder struct {
	id       string
	agent    string
	status   core.Status
	messages []core.Message
	children []*StateBuilder
}

var idSeq atomic.Int64

// NewStateBuilder creates an idle node owned by agent.
func NewStateBuilder(agent string) *StateBuilder {
	return &StateBuilder{id: fmt.Sprintf("%s-%d", agent, idSeq.Add(1)), agent: agent, status: core.StatusIdle}
}

// ID overrides the generated node ID (chainable).
func (b *StateBuilder) ID(id string) *StateBuilder { b.id = id; return b }

// Status sets the node status (chainable).
func (b *StateBuilder) Status(s core.Status) *StateBuilder { b.status = s; return b }

// System appends a system message (chainable).
func (b *StateBuilder) System(t string) *StateBuilder {
	b.messages = append(b.messages, core.SystemMessage(t))
	return b
}

// User appends a user message (chainable).
func (b *StateBuilder) User(t string) *StateBuilder {
	b.messages = append(b.messages, core.UserMessage(t))
	return b
}

// Assistant appends an assistant message (chainable).
func (b *StateBuilder) Assistant(t string) *StateBuilder {
	b.messages = append(b.messages, core.AssistantMessage(t))
	return b
}

// ToolCall appends an assistant message requesting a single tool call (chainable).
func (b *StateBuilder) ToolCall(id, name, args string) *StateBuilder {
	b.messages = append(b.messages, core.ToolCallMessage("", core.ToolCall{ID: id, Name: name, Arguments: args}))
	return b
}

// ToolResult appends a tool-role result for the call id (chainable).
func (b *StateBuilder) ToolResult(id, content string) *StateBuilder {
	b.messages = append(b.messages, core.ToolResultMessage(id, content))
	return b
}

// Child appends a child node (chainable).
func (b *StateBuilder) Child(c *StateBuilder) *StateBuilder {
	b.children = append(b.children, c)
	return b
}

// Build constructs the core.WorkflowState value.
func (b *StateBuilder) Build() core.WorkflowState {
	s := core.WorkflowState{
		ID:     b.id,
		Agent:  b.agent,
		Status: b.status,
	}
	if len(b.messages) > 0 {
		s.Messages = append([]core.Message(nil), b.messages...)
	}
	for _, c := range b.children {
		s.Children = append(s.Children, c.Build())
	}
	return s
}

// Finished is a shorthand for a finished node holding a task and its answer.
func Finished(agent, task, result string) *StateBuilder {
	return NewStateBuilder(agent).User(task).Assistant(result).Status(core.StatusFinished)
}
