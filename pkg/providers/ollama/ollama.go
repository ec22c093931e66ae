// Package ollama implements the modelclient interfaces for a local Ollama
// server through its OpenAI-compatible /v1 surface. No API key is required.
package ollama

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/scribehq/scribe/pkg/convo"
	"github.com/scribehq/scribe/pkg/modelclient"
	"github.com/scribehq/scribe/pkg/providers/chatwire"
	"github.com/scribehq/scribe/pkg/toolbox"
)

// DefaultBaseURL is the OpenAI-compatible base URL of a local Ollama server.
const DefaultBaseURL = "http://localhost:11434/v1"

const completionsPath = "/chat/completions"

var (
	_ modelclient.Completer = (*Adapter)(nil)
	_ modelclient.Streamer  = (*Adapter)(nil)
)

// Adapter sends chat completions to a local Ollama server.
type Adapter struct {
	modelclient.Client
}

// New creates an Adapter for the given base URL. An empty baseURL uses
// DefaultBaseURL.
func New(baseURL string, client *http.Client) *Adapter {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Adapter{
		Client: modelclient.New(baseURL, modelclient.Auth{}, client),
	}
}

// Complete sends the conversation to the local server and returns the
// assistant's reply.
func (a *Adapter) Complete(ctx context.Context, t *convo.Transcript, tools []toolbox.Tool) (convo.Message, error) {
	req := chatwire.Request{
		Model:       a.Name,
		Messages:    chatwire.FromTranscript(t),
		Temperature: a.Temperature,
		MaxTokens:   a.MaxTokens,
		Tools:       chatwire.FromTools(tools),
	}

	var resp chatwire.Response
	if err := a.PostJSON(ctx, completionsPath, req, &resp); err != nil {
		return convo.Message{}, fmt.Errorf("ollama: %w", err)
	}

	if len(resp.Choices) == 0 {
		return convo.Message{}, fmt.Errorf("ollama: empty response")
	}

	return chatwire.ToMessage(resp.Choices[0].Message), nil
}

// Stream sends the conversation with streaming enabled and invokes onDelta
// for every content fragment.
func (a *Adapter) Stream(ctx context.Context, t *convo.Transcript, onDelta func(string)) (convo.Message, error) {
	req := chatwire.Request{
		Model:       a.Name,
		Messages:    chatwire.FromTranscript(t),
		Temperature: a.Temperature,
		MaxTokens:   a.MaxTokens,
		Stream:      true,
	}

	var full string
	err := a.PostSSE(ctx, completionsPath, req, func(data []byte) error {
		var chunk chatwire.Chunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			return fmt.Errorf("decode chunk: %w", err)
		}

		for _, ch := range chunk.Choices {
			if ch.Delta.Content == "" {
				continue
			}
			full += ch.Delta.Content
			if onDelta != nil {
				onDelta(ch.Delta.Content)
			}
		}

		return nil
	})
	if err != nil {
		return convo.Message{}, fmt.Errorf("ollama: %w", err)
	}

	return convo.NewText("", convo.Assistant, full), nil
}
