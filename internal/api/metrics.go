package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	researchRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "scribe_research_runs_total",
		Help: "Research runs started via the API, by outcome.",
	}, []string{"status"})

	reportDeltasTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "scribe_report_deltas_total",
		Help: "Report fragments streamed to API clients.",
	})

	streamClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "scribe_stream_clients",
		Help: "Currently connected SSE and websocket clients.",
	})
)
