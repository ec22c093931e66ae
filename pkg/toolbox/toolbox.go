// Package toolbox provides a registry of named tools an assistant can call.
// Tools declare a JSON Schema for their input and a handler that returns a
// text result. Handler failures are reported back to the model as
// error-flagged tool results rather than terminating the run.
package toolbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/scribehq/scribe/pkg/convo"
)

// Handler executes a tool with the given JSON input and returns a text result.
type Handler func(ctx context.Context, input json.RawMessage) (string, error)

// Tool is an executable tool with a name, description, JSON Schema, and
// handler.
type Tool struct {
	Name        string
	Description string
	InputSchema json.RawMessage
	Handler     Handler
}

// ToolBox holds a collection of tools keyed by name.
type ToolBox struct {
	tools map[string]Tool
}

// New creates an empty ToolBox ready for use.
func New() *ToolBox {
	return &ToolBox{tools: make(map[string]Tool)}
}

// Register adds one or more tools. A tool with an existing name replaces the
// previous registration.
func (tb *ToolBox) Register(tools ...Tool) {
	for _, t := range tools {
		tb.tools[t.Name] = t
	}
}

// Get returns a tool by name and whether it was found.
func (tb *ToolBox) Get(name string) (Tool, bool) {
	t, ok := tb.tools[name]
	return t, ok
}

// Tools returns all registered tools as a slice.
func (tb *ToolBox) Tools() []Tool {
	result := make([]Tool, 0, len(tb.tools))
	for _, t := range tb.tools {
		result = append(result, t)
	}
	return result
}

// Call executes a tool call and returns a ToolResult. An unknown tool or a
// handler error produces a result with IsError set, never an error return.
func (tb *ToolBox) Call(ctx context.Context, tc convo.ToolCall) convo.ToolResult {
	t, ok := tb.tools[tc.Name]
	if !ok {
		return convo.ToolResult{
			ToolCallID: tc.ID,
			Content:    fmt.Sprintf("tool not found: %s", tc.Name),
			IsError:    true,
		}
	}

	result, err := t.Handler(ctx, json.RawMessage(tc.Arguments))
	if err != nil {
		return convo.ToolResult{
			ToolCallID: tc.ID,
			Content:    err.Error(),
			IsError:    true,
		}
	}

	return convo.ToolResult{
		ToolCallID: tc.ID,
		Content:    result,
	}
}
