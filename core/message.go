package core

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Message roles. The role determines which optional fields are meaningful:
// ToolCalls appears only on assistant messages that request tool execution,
// ToolCallID only on tool messages answering such a request.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleTool      = "tool"
)

// Message is one entry of a conversation history. Once appended to a history
// it is treated as immutable.
//
// Invariant: a tool message's ToolCallID must reference a ToolCall.ID emitted
// by the immediately preceding assistant message of the same history.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a model-emitted request to invoke a named function. Arguments
// are raw JSON text, opaque until the tool executor parses them.
type ToolCall struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// SystemMessage builds a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds a plain-text assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}

// ToolMessage builds a tool result message correlated to a tool call id.
func ToolMessage(toolCallID, content string) Message {
	return Message{Role: RoleTool, ToolCallID: toolCallID, Content: content}
}

// HasToolCalls reports whether this assistant message requests tool execution.
func (m Message) HasToolCalls() bool { return len(m.ToolCalls) > 0 }

// Clone returns a deep copy of the message. Tool call payloads are copied so
// later mutation cannot alias the original.
func (m Message) Clone() Message {
	clone := Message{
		Role:       m.Role,
		Content:    m.Content,
		ToolCallID: m.ToolCallID,
	}
	if len(m.ToolCalls) > 0 {
		clone.ToolCalls = make([]ToolCall, len(m.ToolCalls))
		for i, tc := range m.ToolCalls {
			args := make(json.RawMessage, len(tc.Arguments))
			copy(args, tc.Arguments)
			clone.ToolCalls[i] = ToolCall{ID: tc.ID, Name: tc.Name, Arguments: args}
		}
	}
	return clone
}

// CloneHistory deep-copies an ordered message list.
func CloneHistory(history []Message) []Message {
	clone := make([]Message, len(history))
	for i, m := range history {
		clone[i] = m.Clone()
	}
	return clone
}

// NewID generates a unique identifier for threads, runs and tool calls.
func NewID() string { return uuid.NewString() }
