package convo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRole_Valid(t *testing.T) {
	assert.True(t, System.Valid())
	assert.True(t, User.Valid())
	assert.True(t, Assistant.Valid())
	assert.True(t, Tool.Valid())
	assert.False(t, Role("narrator").Valid())
}

func TestMessage_TextContent(t *testing.T) {
	m := New("bot", Assistant,
		Text{Text: "one "},
		ToolCall{ID: "1", Name: "web_search"},
		Text{Text: "two"},
	)

	assert.Equal(t, "one two", m.TextContent())
}

func TestMessage_ToolCalls(t *testing.T) {
	m := New("bot", Assistant,
		Text{Text: "searching"},
		ToolCall{ID: "1", Name: "web_search", Arguments: `{"query":"go"}`},
		ToolCall{ID: "2", Name: "fetch_url", Arguments: `{"url":"https://go.dev"}`},
	)

	calls := m.ToolCalls()
	assert.Len(t, calls, 2)
	assert.Equal(t, "web_search", calls[0].Name)
	assert.Equal(t, "fetch_url", calls[1].Name)
}

func TestMessage_ToolResults(t *testing.T) {
	m := New("bot", Tool, ToolResult{ToolCallID: "1", Content: "ok"})

	results := m.ToolResults()
	assert.Len(t, results, 1)
	assert.Equal(t, "ok", results[0].Content)
	assert.False(t, results[0].IsError)
}

func TestNewText(t *testing.T) {
	m := NewText("alice", User, "hello")

	assert.Equal(t, "alice", m.Sender)
	assert.Equal(t, User, m.Role)
	assert.Equal(t, "hello", m.TextContent())
	assert.Empty(t, m.ToolCalls())
}
