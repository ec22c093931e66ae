package toolbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribehq/scribe/pkg/convo"
)

func echoTool(name string) Tool {
	return Tool{
		Name:        name,
		Description: "echoes its input",
		InputSchema: json.RawMessage(`{"type":"object"}`),
		Handler: func(_ context.Context, input json.RawMessage) (string, error) {
			return string(input), nil
		},
	}
}

func TestToolBox_RegisterAndGet(t *testing.T) {
	tb := New()
	tb.Register(echoTool("web_search"), echoTool("fetch_url"))

	got, ok := tb.Get("web_search")
	require.True(t, ok)
	assert.Equal(t, "web_search", got.Name)

	_, ok = tb.Get("missing")
	assert.False(t, ok)

	assert.Len(t, tb.Tools(), 2)
}

func TestToolBox_Register_Replaces(t *testing.T) {
	tb := New()
	tb.Register(echoTool("web_search"))
	tb.Register(Tool{Name: "web_search", Description: "replacement"})

	got, ok := tb.Get("web_search")
	require.True(t, ok)
	assert.Equal(t, "replacement", got.Description)
	assert.Len(t, tb.Tools(), 1)
}

func TestToolBox_Call(t *testing.T) {
	tb := New()
	tb.Register(echoTool("web_search"))

	result := tb.Call(context.Background(), convo.ToolCall{
		ID:        "call-1",
		Name:      "web_search",
		Arguments: `{"query":"llamas"}`,
	})

	assert.Equal(t, "call-1", result.ToolCallID)
	assert.Equal(t, `{"query":"llamas"}`, result.Content)
	assert.False(t, result.IsError)
}

func TestToolBox_Call_UnknownTool(t *testing.T) {
	tb := New()

	result := tb.Call(context.Background(), convo.ToolCall{ID: "call-1", Name: "nope"})

	assert.True(t, result.IsError)
	assert.Contains(t, result.Content, "tool not found")
}

func TestToolBox_Call_HandlerError(t *testing.T) {
	tb := New()
	tb.Register(Tool{
		Name: "boom",
		Handler: func(context.Context, json.RawMessage) (string, error) {
			return "", errors.New("upstream unavailable")
		},
	})

	result := tb.Call(context.Background(), convo.ToolCall{ID: "call-2", Name: "boom"})

	assert.True(t, result.IsError)
	assert.Equal(t, "upstream unavailable", result.Content)
}
