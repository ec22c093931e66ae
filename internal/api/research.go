package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/scribehq/scribe/pkg/engine"
	"github.com/scribehq/scribe/pkg/research"
)

// researchRequest is the body of POST /api/research and the first websocket
// message on /api/research/ws.
type researchRequest struct {
	Topic    string `json:"topic"`
	Provider string `json:"provider,omitempty"`
	Deep     *bool  `json:"deep,omitempty"`
}

// streamEvent is one progress notification sent to SSE and websocket clients.
type streamEvent struct {
	Kind  string `json:"kind"`
	Topic string `json:"topic,omitempty"`
	Data  any    `json:"data,omitempty"`
}

// handleResearch runs a research task and streams progress as server-sent
// events. The final event carries the saved report.
func (s *Server) handleResearch(w http.ResponseWriter, r *http.Request) {
	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		writeError(w, http.StatusBadRequest, errTopicRequired)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, errors.New("streaming unsupported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	streamClients.Inc()
	defer streamClients.Dec()

	send := func(e streamEvent) {
		data, err := json.Marshal(e)
		if err != nil {
			return
		}
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", e.Kind, data)
		flusher.Flush()
	}

	s.runStreaming(r.Context(), req, send)
}

// handleResearchWS is the websocket flavor of handleResearch: the client
// sends one researchRequest and receives streamEvent frames until the run
// ends.
func (s *Server) handleResearchWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.logger.Warn().Err(err).Msg("websocket accept failed")
		return
	}
	defer conn.Close(websocket.StatusNormalClosure, "done")

	ctx := r.Context()

	var req researchRequest
	if err := wsjson.Read(ctx, conn, &req); err != nil {
		conn.Close(websocket.StatusInvalidFramePayloadData, "invalid request")
		return
	}
	if strings.TrimSpace(req.Topic) == "" {
		_ = wsjson.Write(ctx, conn, streamEvent{Kind: "error", Data: errTopicRequired.Error()})
		return
	}

	streamClients.Inc()
	defer streamClients.Dec()

	s.runStreaming(ctx, req, func(e streamEvent) {
		_ = wsjson.Write(ctx, conn, e)
	})
}

// runStreaming starts a research run and forwards its bus events to send
// until the run finishes. The terminal event is either "report" or "error".
func (s *Server) runStreaming(ctx context.Context, req researchRequest, send func(streamEvent)) {
	sub := s.engine.Events().Subscribe(256)
	defer s.engine.Events().Unsubscribe(sub)

	run := s.engine.StartResearch(ctx, req.Topic, engine.ResearchOptions{
		Provider: req.Provider,
		Deep:     req.Deep,
	})

	forward := func(e engine.Event) {
		if e.RunID != run.ID {
			return
		}

		switch e.Kind {
		case engine.EventReportDelta:
			reportDeltasTotal.Inc()
			send(streamEvent{Kind: string(e.Kind), Topic: e.Topic, Data: e.Data})
		case engine.EventSourceFound, engine.EventSearchStarted, engine.EventResearchStart:
			send(streamEvent{Kind: string(e.Kind), Topic: e.Topic, Data: e.Data})
		}
	}

	for {
		select {
		case <-ctx.Done():
			researchRunsTotal.WithLabelValues("cancelled").Inc()
			return
		case e := <-sub.C:
			forward(e)
		case <-run.Done():
			// Drain events published before the run closed.
			for {
				select {
				case e := <-sub.C:
					forward(e)
					continue
				default:
				}
				break
			}

			report, err := run.Wait(ctx)
			if err != nil {
				researchRunsTotal.WithLabelValues(errorLabel(err)).Inc()
				send(streamEvent{Kind: "error", Topic: req.Topic, Data: err.Error()})
				return
			}

			researchRunsTotal.WithLabelValues("ok").Inc()
			send(streamEvent{Kind: "report", Topic: req.Topic, Data: report})
			return
		}
	}
}

func errorLabel(err error) string {
	switch {
	case errors.Is(err, research.ErrNoResults):
		return "no_results"
	case errors.Is(err, research.ErrMaxIterations):
		return "max_iterations"
	default:
		return "error"
	}
}
