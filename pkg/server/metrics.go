package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	apperrors "github.com/yurifrl/adinsights/pkg/errors"
)

type metrics struct {
	registry *prometheus.Registry
	runs     *prometheus.CounterVec
	duration prometheus.Histogram
	degraded prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "adinsights",
			Name:      "pipeline_runs_total",
			Help:      "Pipeline runs by outcome.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "adinsights",
			Name:      "pipeline_run_duration_seconds",
			Help:      "Time spent in one pipeline run.",
			Buckets:   prometheus.DefBuckets,
		}),
		degraded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "adinsights",
			Name:      "insights_degraded_total",
			Help:      "Insights and recommendations rendered with a placeholder.",
		}),
	}
	m.registry.MustRegister(m.runs, m.duration, m.degraded)
	return m
}

// observe records one run. status is "success" or the lowercased error type.
func (m *metrics) observe(start time.Time, err error) {
	m.duration.Observe(time.Since(start).Seconds())
	status := "success"
	if err != nil {
		status = strings.ToLower(string(apperrors.TypeOf(err)))
		if status == "" {
			status = "error"
		}
	}
	m.runs.WithLabelValues(status).Inc()
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
