package modelclient

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// streamDoneMarker terminates an OpenAI-style SSE completion stream.
const streamDoneMarker = "[DONE]"

// PostSSE sends a JSON POST to the given path and reads the response as a
// server-sent-event stream. onEvent is invoked with the raw payload of each
// "data:" event. The stream ends at the [DONE] marker, EOF, or when onEvent
// returns an error, which is propagated to the caller.
func (c *Client) PostSSE(ctx context.Context, path string, payload any, onEvent func([]byte) error) error {
	resp, err := c.postForResponse(ctx, path, payload)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	scanner := bufio.NewScanner(resp.Body)
	// Individual SSE events can carry a full completion chunk; allow lines
	// well beyond bufio's 64KB default.
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}

		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}

		data = strings.TrimSpace(data)
		if data == streamDoneMarker {
			return nil
		}

		if err := onEvent([]byte(data)); err != nil {
			return err
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read stream: %w", err)
	}

	return nil
}
