// Package chatwire defines the OpenAI-compatible chat-completions wire
// format shared by the groq, openai, and ollama adapters, plus converters
// between the wire types and convo messages.
package chatwire

import (
	"encoding/json"

	"github.com/scribehq/scribe/pkg/convo"
	"github.com/scribehq/scribe/pkg/toolbox"
)

// Request is the body of a chat-completions call.
type Request struct {
	Model         string         `json:"model"`
	Messages      []Message      `json:"messages"`
	Temperature   float64        `json:"temperature,omitempty"`
	MaxTokens     int            `json:"max_tokens,omitempty"`
	Tools         []ToolDef      `json:"tools,omitempty"`
	Stream        bool           `json:"stream,omitempty"`
	StreamOptions *StreamOptions `json:"stream_options,omitempty"`
}

// StreamOptions tunes streamed responses.
type StreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// Message is a single wire-format conversation entry.
type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a function invocation requested by the model.
type ToolCall struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Function Function `json:"function"`
}

// Function carries a tool call's name and raw JSON arguments.
type Function struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ToolDef declares an available tool in a request.
type ToolDef struct {
	Type     string      `json:"type"`
	Function FunctionDef `json:"function"`
}

// FunctionDef describes a tool's interface.
type FunctionDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Response is the body of a blocking chat-completions reply.
type Response struct {
	ID      string   `json:"id"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one completion alternative.
type Choice struct {
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage reports token consumption for a call.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// Chunk is one event of a streamed completion.
type Chunk struct {
	Choices []ChunkChoice `json:"choices"`
	Usage   *Usage        `json:"usage,omitempty"`
}

// ChunkChoice carries the delta of a streamed choice.
type ChunkChoice struct {
	Delta        Delta  `json:"delta"`
	FinishReason string `json:"finish_reason"`
}

// Delta is the incremental content of a streamed choice.
type Delta struct {
	Content string `json:"content"`
}

// FromTranscript converts a transcript into wire messages. Assistant tool
// calls and tool results are expanded into the flat representation the API
// expects.
func FromTranscript(t *convo.Transcript) []Message {
	var msgs []Message

	t.Each(func(_ int, m convo.Message) bool {
		switch m.Role {
		case convo.System, convo.User:
			msgs = append(msgs, Message{
				Role:    m.Role.String(),
				Content: m.TextContent(),
			})
		case convo.Assistant:
			am := Message{
				Role:    convo.Assistant.String(),
				Content: m.TextContent(),
			}

			for _, tc := range m.ToolCalls() {
				am.ToolCalls = append(am.ToolCalls, ToolCall{
					ID:   tc.ID,
					Type: "function",
					Function: Function{
						Name:      tc.Name,
						Arguments: tc.Arguments,
					},
				})
			}

			msgs = append(msgs, am)
		case convo.Tool:
			for _, tr := range m.ToolResults() {
				msgs = append(msgs, Message{
					Role:       convo.Tool.String(),
					Content:    tr.Content,
					ToolCallID: tr.ToolCallID,
				})
			}
		}

		return true
	})

	return msgs
}

// FromTools converts toolbox tools into wire tool definitions. A nil input
// schema becomes an empty object schema.
func FromTools(tools []toolbox.Tool) []ToolDef {
	if len(tools) == 0 {
		return nil
	}

	defs := make([]ToolDef, 0, len(tools))
	for _, t := range tools {
		schema := t.InputSchema
		if schema == nil {
			schema = json.RawMessage(`{"type":"object"}`)
		}

		defs = append(defs, ToolDef{
			Type: "function",
			Function: FunctionDef{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  schema,
			},
		})
	}

	return defs
}

// ToMessage converts a wire reply message into a convo assistant message.
func ToMessage(m Message) convo.Message {
	var parts []convo.Part

	if m.Content != "" {
		parts = append(parts, convo.Text{Text: m.Content})
	}

	for _, tc := range m.ToolCalls {
		parts = append(parts, convo.ToolCall{
			ID:        tc.ID,
			Name:      tc.Function.Name,
			Arguments: tc.Function.Arguments,
		})
	}

	return convo.New("", convo.Assistant, parts...)
}
