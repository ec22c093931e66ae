// Package convo models LLM conversations: roles, typed content parts,
// messages, and a Transcript container that front-ends can observe while an
// assistant run is in progress.
package convo

import "strings"

// Role identifies the sender of a message.
type Role string

const (
	System    Role = "system"
	User      Role = "user"
	Assistant Role = "assistant"
	Tool      Role = "tool"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case System, User, Assistant, Tool:
		return true
	}
	return false
}

// String returns the underlying string value of the role.
func (r Role) String() string { return string(r) }

// Part is a piece of content within a message.
type Part interface {
	PartKind() string
}

// Text is a plain text content part.
type Text struct {
	Text string
}

func (t Text) PartKind() string { return "text" }

// ToolCall is an assistant's request to invoke a tool. Arguments holds the
// raw JSON string so it round-trips through the conversation unchanged.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

func (tc ToolCall) PartKind() string { return "tool_call" }

// ToolResult holds the output of a tool invocation.
type ToolResult struct {
	ToolCallID string
	Content    string
	IsError    bool
}

func (tr ToolResult) PartKind() string { return "tool_result" }

// Message is a single conversation entry. It is a value type that copies
// cheaply.
type Message struct {
	Sender string
	Role   Role
	Parts  []Part
}

// New creates a message with the given sender, role, and content parts.
func New(sender string, r Role, parts ...Part) Message {
	return Message{Sender: sender, Role: r, Parts: parts}
}

// NewText creates a message with a single Text part.
func NewText(sender string, r Role, text string) Message {
	return New(sender, r, Text{Text: text})
}

// TextContent concatenates the text of all Text parts in the message.
func (m Message) TextContent() string {
	var b strings.Builder
	for _, p := range m.Parts {
		if t, ok := p.(Text); ok {
			b.WriteString(t.Text)
		}
	}
	return b.String()
}

// ToolCalls returns all ToolCall parts in the message.
func (m Message) ToolCalls() []ToolCall {
	var calls []ToolCall
	for _, p := range m.Parts {
		if tc, ok := p.(ToolCall); ok {
			calls = append(calls, tc)
		}
	}
	return calls
}

// ToolResults returns all ToolResult parts in the message.
func (m Message) ToolResults() []ToolResult {
	var results []ToolResult
	for _, p := range m.Parts {
		if tr, ok := p.(ToolResult); ok {
			results = append(results, tr)
		}
	}
	return results
}
