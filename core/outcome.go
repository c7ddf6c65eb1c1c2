package core

import (
	"errors"
	"fmt"
)

var (
	// ErrIncompleteChildren is returned when a node would finish while one of
	// its children is still pending.
	ErrIncompleteChildren = errors.New("node has incomplete children")
	// ErrEmptyDelegation is returned for a delegation without tasks.
	ErrEmptyDelegation = errors.New("delegation without tasks")
	// ErrNoToolCalls is returned for a tool request without calls.
	ErrNoToolCalls = errors.New("tool request without calls")
	// ErrNotPaused is returned when tool results are supplied to a node that
	// is not waiting for them.
	ErrNotPaused = errors.New("node is not paused")
	// ErrUnknownToolCall is returned for a result whose call id is not pending.
	ErrUnknownToolCall = errors.New("unknown tool call")
)

// Outcome is the result of one agent step. The concrete variants form a
// closed set: Continue, Complete, ToolRequest and Delegate.
type Outcome interface{ isOutcome() }

// Continue records intermediate work and seeds the next iteration of the
// same node with a follow-up user message.
type Continue struct {
	Result   string
	NextStep string
}

func (Continue) isOutcome() {}

// Complete records the final answer of a node.
type Complete struct {
	Result string
}

func (Complete) isOutcome() {}

// ToolRequest suspends the node until the embedding application supplies
// results for every call.
type ToolRequest struct {
	Content string
	Calls   []ToolCall
}

func (ToolRequest) isOutcome() {}

// Delegation is a single (agent, task) pair of a Delegate outcome.
type Delegation struct {
	Agent string
	Task  string
}

// Delegate spawns one idle child per task, preserving task order.
type Delegate struct {
	Tasks []Delegation
}

func (Delegate) isOutcome() {}

// Start performs the first-execution transition idle -> running. Nodes in
// any other status are returned unchanged.
func Start(node WorkflowState) WorkflowState {
	if node.Status == StatusIdle {
		return node.WithStatus(StatusRunning)
	}
	return node
}

// ApplyOutcome folds an outcome into node and returns its next version.
func ApplyOutcome(node WorkflowState, outcome Outcome) (WorkflowState, error) {
	switch o := outcome.(type) {
	case Continue:
		next := node.WithMessages(AssistantMessage(o.Result), UserMessage(o.NextStep))
		return next.WithStatus(StatusRunning), nil
	case Complete:
		if node.HasIncompleteChildren() {
			return WorkflowState{}, fmt.Errorf("complete %s: %w", node.Agent, ErrIncompleteChildren)
		}
		return node.WithMessages(AssistantMessage(o.Result)).WithStatus(StatusFinished), nil
	case ToolRequest:
		if len(o.Calls) == 0 {
			return WorkflowState{}, fmt.Errorf("tool request from %s: %w", node.Agent, ErrNoToolCalls)
		}
		calls := make([]ToolCall, len(o.Calls))
		for i, c := range o.Calls {
			if c.ID == "" {
				c.ID = NewID()
			}
			calls[i] = c
		}
		return node.WithMessages(ToolCallMessage(o.Content, calls...)).WithStatus(StatusPaused), nil
	case Delegate:
		if len(o.Tasks) == 0 {
			return WorkflowState{}, fmt.Errorf("delegation from %s: %w", node.Agent, ErrEmptyDelegation)
		}
		children := make([]WorkflowState, 0, len(o.Tasks))
		for _, t := range o.Tasks {
			children = append(children, NewChildState(t.Agent, t.Task))
		}
		return node.WithChildren(children...).WithStatus(StatusRunning), nil
	case nil:
		return WorkflowState{}, errors.New("nil outcome")
	default:
		return WorkflowState{}, fmt.Errorf("unsupported outcome %T", outcome)
	}
}

// PendingToolCalls returns the calls of the node's last tool-call message
// that have no tool-role result yet.
func PendingToolCalls(node WorkflowState) []ToolCall {
	idx := -1
	for i := len(node.Messages) - 1; i >= 0; i-- {
		if node.Messages[i].HasToolCalls() {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	answered := map[string]bool{}
	for _, m := range node.Messages[idx+1:] {
		if m.Role == RoleTool {
			answered[m.ToolCallID] = true
		}
	}
	var pending []ToolCall
	for _, c := range node.Messages[idx].ToolCalls {
		if !answered[c.ID] {
			pending = append(pending, c)
		}
	}
	return pending
}

// SupplyToolResult appends the result of a pending tool call to the paused
// node at path. Once no call is pending the node resumes (paused -> running).
// This is the caller-side resumption step; the driver never performs it.
func SupplyToolResult(root WorkflowState, path Path, callID, content string) (WorkflowState, error) {
	return root.Update(path, func(n WorkflowState) (WorkflowState, error) {
		return supplyToolResult(n, callID, content)
	})
}

func supplyToolResult(n WorkflowState, callID, content string) (WorkflowState, error) {
	if n.Status != StatusPaused {
		return WorkflowState{}, fmt.Errorf("%s is %s: %w", n.Agent, n.Status, ErrNotPaused)
	}
	pending := PendingToolCalls(n)
	known := false
	for _, c := range pending {
		if c.ID == callID {
			known = true
			break
		}
	}
	if !known {
		return WorkflowState{}, fmt.Errorf("%w: %q", ErrUnknownToolCall, callID)
	}
	n = n.WithMessages(ToolResultMessage(callID, content))
	if len(pending) == 1 {
		n = n.WithStatus(StatusRunning)
	}
	return n, nil
}

// SupplyNodeToolResult is SupplyToolResult for a detached node.
func SupplyNodeToolResult(node WorkflowState, callID, content string) (WorkflowState, error) {
	return supplyToolResult(node, callID, content)
}
