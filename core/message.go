package core

// Role identifies the author of a conversation turn.
type Role string

const (
	// RoleSystem marks framing instructions for the reasoning provider.
	RoleSystem Role = "system"
	// RoleUser marks requests, delegated tasks and follow-up prompts.
	RoleUser Role = "user"
	// RoleAssistant marks provider output recorded by an agent step.
	RoleAssistant Role = "assistant"
	// RoleTool marks the result of an externally executed tool call.
	RoleTool Role = "tool"
)

// ToolCall describes a tool invocation requested by the reasoning provider.
type ToolCall struct {
	ID        string `json:"id"`                  // Correlates the call with its tool-role result
	Name      string `json:"name"`                // Tool name as registered on the agent
	Arguments string `json:"arguments,omitempty"` // Serialized JSON argument object
}

// Message is a single conversation turn. Messages are values and must be
// treated as immutable once appended to a WorkflowState; the order of a
// state's message log is the literal context window sent to the provider.
type Message struct {
	Role       Role       `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"` // Set on tool-role messages only
}

// SystemMessage creates a system-role message.
func SystemMessage(content string) Message { return Message{Role: RoleSystem, Content: content} }

// UserMessage creates a user-role message.
func UserMessage(content string) Message { return Message{Role: RoleUser, Content: content} }

// AssistantMessage creates an assistant-role message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ToolCallMessage creates an assistant message carrying tool invocation
// requests. The calls slice is copied.
func ToolCallMessage(content string, calls ...ToolCall) Message {
	cp := make([]ToolCall, len(calls))
	copy(cp, calls)
	return Message{Role: RoleAssistant, Content: content, ToolCalls: cp}
}

// ToolResultMessage records the output of the tool call identified by callID.
func ToolResultMessage(callID, content string) Message {
	return Message{Role: RoleTool, Content: content, ToolCallID: callID}
}

// HasToolCalls reports whether the message requests tool execution.
func (m Message) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// IsConversational is true for plain user and assistant turns, i.e. messages
// that can be replayed as context without their tool-call counterparts.
func (m Message) IsConversational() bool {
	return (m.Role == RoleUser || m.Role == RoleAssistant) && !m.HasToolCalls()
}

// clone returns a copy that shares no slices with m.
func (m Message) clone() Message {
	if m.ToolCalls != nil {
		calls := make([]ToolCall, len(m.ToolCalls))
		copy(calls, m.ToolCalls)
		m.ToolCalls = calls
	}
	return m
}

// LastMessage returns the most recent message with the given role.
func LastMessage(msgs []Message, role Role) (Message, bool) {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role == role {
			return msgs[i], true
		}
	}
	return Message{}, false
}
