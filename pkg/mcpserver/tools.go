package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/scribehq/scribe/pkg/engine"
	"github.com/scribehq/scribe/pkg/toolbox"
)

// EngineTools builds the toolbox an MCP client gets: run research, list
// stored reports and topics, read one report.
func EngineTools(e *engine.Engine) []toolbox.Tool {
	return []toolbox.Tool{
		{
			Name:        "research_topic",
			Description: "Research a topic on the web and return a Markdown report. The report is also saved locally.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"topic": {"type": "string", "description": "Topic to research"},
					"deep": {"type": "boolean", "description": "Let the model drive search and page fetches itself"}
				},
				"required": ["topic"]
			}`),
			Handler: func(ctx context.Context, args json.RawMessage) (string, error) {
				var in struct {
					Topic string `json:"topic"`
					Deep  *bool  `json:"deep"`
				}
				if err := json.Unmarshal(args, &in); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}
				if strings.TrimSpace(in.Topic) == "" {
					return "", fmt.Errorf("topic is required")
				}

				report, err := e.Research(ctx, in.Topic, engine.ResearchOptions{Deep: in.Deep})
				if err != nil {
					return "", err
				}

				return report.Report, nil
			},
		},
		{
			Name:        "list_reports",
			Description: "List saved research reports with their ids, topics and timestamps.",
			InputSchema: json.RawMessage(`{"type":"object"}`),
			Handler: func(_ context.Context, _ json.RawMessage) (string, error) {
				all, err := e.Store().List()
				if err != nil {
					return "", err
				}
				if len(all) == 0 {
					return "No reports saved yet.", nil
				}

				var b strings.Builder
				for _, r := range all {
					fmt.Fprintf(&b, "- %s  %s  (%s)\n", r.ID, r.Topic, r.CreatedAt.Format("2006-01-02 15:04"))
				}
				return b.String(), nil
			},
		},
		{
			Name:        "get_report",
			Description: "Return the Markdown body of one saved report by id.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {"id": {"type": "string", "description": "Report id"}},
				"required": ["id"]
			}`),
			Handler: func(_ context.Context, args json.RawMessage) (string, error) {
				var in struct {
					ID string `json:"id"`
				}
				if err := json.Unmarshal(args, &in); err != nil {
					return "", fmt.Errorf("invalid arguments: %w", err)
				}

				r, err := e.Store().Get(in.ID)
				if err != nil {
					return "", err
				}
				return r.Report, nil
			},
		},
		{
			Name:        "list_topics",
			Description: "List previously researched topics.",
			InputSchema: json.RawMessage(`{"type":"object"}`),
			Handler: func(_ context.Context, _ json.RawMessage) (string, error) {
				topics, err := e.Store().Topics()
				if err != nil {
					return "", err
				}
				if len(topics) == 0 {
					return "No topics researched yet.", nil
				}
				return "- " + strings.Join(topics, "\n- ") + "\n", nil
			},
		},
	}
}
