package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/scribehq/scribe/pkg/reports"
)

func (s *Server) handleListReports(w http.ResponseWriter, _ *http.Request) {
	all, err := s.engine.Store().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	// Keep list payloads small. The full text is behind /reports/{id}.
	type summary struct {
		ID        string `json:"id"`
		Topic     string `json:"topic"`
		Model     string `json:"model,omitempty"`
		CreatedAt string `json:"created_at"`
	}

	out := make([]summary, 0, len(all))
	for _, r := range all {
		out = append(out, summary{
			ID:        r.ID,
			Topic:     r.Topic,
			Model:     r.Model,
			CreatedAt: r.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"reports": out})
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.engine.Store().Get(chi.URLParam(r, "id"))
	if errors.Is(err, reports.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// handleDownloadReport serves the report body as a markdown attachment.
func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	report, err := s.engine.Store().Get(id)
	if errors.Is(err, reports.ErrNotFound) {
		writeError(w, http.StatusNotFound, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", id+".md"))
	_, _ = w.Write([]byte(report.Report))
}

func (s *Server) handleTopics(w http.ResponseWriter, _ *http.Request) {
	topics, err := s.engine.Store().Topics()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if topics == nil {
		topics = []string{}
	}

	writeJSON(w, http.StatusOK, map[string]any{"topics": topics})
}

// handleDiffReports returns a unified diff of the two most recent reports on
// ?topic=.
func (s *Server) handleDiffReports(w http.ResponseWriter, r *http.Request) {
	topic := r.URL.Query().Get("topic")
	if topic == "" {
		writeError(w, http.StatusBadRequest, errTopicRequired)
		return
	}

	diff, err := s.engine.Store().Diff(topic)
	if errors.Is(err, reports.ErrNotEnoughReports) {
		writeError(w, http.StatusConflict, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(diff))
}
