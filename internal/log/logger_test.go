package log

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_OnceAndFields(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "scribe-test"})

	// A second Configure must not replace the writer.
	Configure(Config{Output: bytes.NewBuffer(nil)})

	logger := WithComponent("api")
	logger.Info().Str("topic", "go generics").Msg("research started")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "scribe-test", entry["service"])
	assert.Equal(t, "api", entry["component"])
	assert.Equal(t, "go generics", entry["topic"])
	assert.Equal(t, "research started", entry["message"])
	assert.NotEmpty(t, entry["time"])
}
