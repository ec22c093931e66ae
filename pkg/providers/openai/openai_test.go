package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribehq/scribe/pkg/convo"
	"github.com/scribehq/scribe/pkg/providers/chatwire"
)

func TestNew_Defaults(t *testing.T) {
	a := New("sk-test", nil)

	assert.Equal(t, DefaultBaseURL, a.BaseURL)
	assert.Equal(t, 4096, a.MaxTokens)
	assert.Equal(t, "sk-test", a.Auth.Key)
}

func TestAdapter_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(chatwire.Response{
			Choices: []chatwire.Choice{{
				Message: chatwire.Message{Role: "assistant", Content: "hello"},
			}},
			Usage: chatwire.Usage{PromptTokens: 5, CompletionTokens: 1},
		})
	}))
	defer srv.Close()

	a := New("sk-test", srv.Client())
	a.BaseURL = srv.URL
	a.Name = "gpt-4o-mini"

	tr := convo.NewTranscript(convo.NewText("user", convo.User, "hi"))
	reply, err := a.Complete(context.Background(), tr, nil)
	require.NoError(t, err)
	assert.Equal(t, "hello", reply.TextContent())
	assert.Equal(t, 6, a.Usage.Total().Total())
}

func TestAdapter_Stream_AssemblesDeltas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		for _, text := range []string{"a", "b", "c"} {
			chunk := chatwire.Chunk{Choices: []chatwire.ChunkChoice{{Delta: chatwire.Delta{Content: text}}}}
			data, _ := json.Marshal(chunk)
			fmt.Fprintf(w, "data: %s\n\n", data)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	a := New("sk-test", srv.Client())
	a.BaseURL = srv.URL
	a.Name = "gpt-4o-mini"

	tr := convo.NewTranscript(convo.NewText("user", convo.User, "hi"))

	var streamed string
	reply, err := a.Stream(context.Background(), tr, func(d string) { streamed += d })
	require.NoError(t, err)

	assert.Equal(t, "abc", streamed)
	assert.Equal(t, "abc", reply.TextContent())
}
