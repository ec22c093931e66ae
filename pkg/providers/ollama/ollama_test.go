package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scribehq/scribe/pkg/convo"
	"github.com/scribehq/scribe/pkg/providers/chatwire"
)

func TestNew_DefaultBaseURL(t *testing.T) {
	a := New("", nil)
	assert.Equal(t, DefaultBaseURL, a.BaseURL)

	a = New("http://gpu-box:11434/v1", nil)
	assert.Equal(t, "http://gpu-box:11434/v1", a.BaseURL)
}

func TestAdapter_Complete_NoAuthHeader(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode(chatwire.Response{
			Choices: []chatwire.Choice{{
				Message: chatwire.Message{Role: "assistant", Content: "local reply"},
			}},
		})
	}))
	defer srv.Close()

	a := New(srv.URL, srv.Client())
	a.Name = "llama3"

	tr := convo.NewTranscript(convo.NewText("user", convo.User, "hi"))
	reply, err := a.Complete(context.Background(), tr, nil)
	require.NoError(t, err)
	assert.Equal(t, "local reply", reply.TextContent())
}
