// Package openai implements the modelclient interfaces for the OpenAI Chat
// Completions API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/scribehq/scribe/pkg/convo"
	"github.com/scribehq/scribe/pkg/modelclient"
	"github.com/scribehq/scribe/pkg/modelclient/usage"
	"github.com/scribehq/scribe/pkg/providers/chatwire"
	"github.com/scribehq/scribe/pkg/toolbox"
)

// DefaultBaseURL is the base URL for the OpenAI API.
const DefaultBaseURL = "https://api.openai.com/v1"

const completionsPath = "/chat/completions"

var (
	_ modelclient.Completer = (*Adapter)(nil)
	_ modelclient.Streamer  = (*Adapter)(nil)
)

// Adapter sends chat completions to the OpenAI API.
type Adapter struct {
	modelclient.Client
}

// New creates an Adapter with the given API key and HTTP client.
func New(apiKey string, client *http.Client) *Adapter {
	a := &Adapter{
		Client: modelclient.New(DefaultBaseURL, modelclient.Auth{Key: apiKey}, client),
	}
	a.MaxTokens = 4096

	return a
}

// Complete sends the conversation to the chat completions endpoint and
// returns the assistant's reply.
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
		return convo.Message{}, fmt.Errorf("openai: %w", err)
	}

	if len(resp.Choices) == 0 {
		return convo.Message{}, fmt.Errorf("openai: empty choices in response")
	}

	a.Usage.Add(usage.TokenCount{
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	})

	return chatwire.ToMessage(resp.Choices[0].Message), nil
}

// Stream sends the conversation with streaming enabled and invokes onDelta
// for every content fragment.
func (a *Adapter) Stream(ctx context.Context, t *convo.Transcript, onDelta func(string)) (convo.Message, error) {
	req := chatwire.Request{
		Model:         a.Name,
		Messages:      chatwire.FromTranscript(t),
		Temperature:   a.Temperature,
		MaxTokens:     a.MaxTokens,
		Stream:        true,
		StreamOptions: &chatwire.StreamOptions{IncludeUsage: true},
	}

	var full string
	err := a.PostSSE(ctx, completionsPath, req, func(data []byte) error {
		var chunk chatwire.Chunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			return fmt.Errorf("decode chunk: %w", err)
		}

		if chunk.Usage != nil {
			a.Usage.Add(usage.TokenCount{
				InputTokens:  chunk.Usage.PromptTokens,
				OutputTokens: chunk.Usage.CompletionTokens,
			})
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
		return convo.Message{}, fmt.Errorf("openai: %w", err)
	}

	return convo.NewText("", convo.Assistant, full), nil
}
