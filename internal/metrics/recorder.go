// Package metrics provides the Prometheus recorder for build and HTTP
// observability.
package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for build results.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Recorder implements build metrics using Prometheus.
type Recorder struct {
	registry      *prom.Registry
	buildDuration prom.Histogram
	buildOutcome  *prom.CounterVec
	documents     *prom.CounterVec
	tasksReceived *prom.CounterVec
}

// NewRecorder constructs and registers Prometheus metrics.
func NewRecorder(reg *prom.Registry) *Recorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	r := &Recorder{registry: reg}
	r.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "rstblog",
		Name:      "build_duration_seconds",
		Help:      "Total build duration",
		Buckets:   prom.DefBuckets,
	})
	r.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "rstblog",
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by final status",
	}, []string{"outcome"})
	r.documents = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "rstblog",
		Name:      "documents_compiled_total",
		Help:      "Documents compiled by kind",
	}, []string{"kind"})
	r.tasksReceived = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "rstblog",
		Name:      "tasks_received_total",
		Help:      "Queue tasks received by type",
	}, []string{"type"})
	reg.MustRegister(r.buildDuration, r.buildOutcome, r.documents, r.tasksReceived)
	return r
}

func (r *Recorder) ObserveBuildDuration(d time.Duration) {
	if r == nil {
		return
	}
	r.buildDuration.Observe(d.Seconds())
}

func (r *Recorder) IncBuildOutcome(outcome string) {
	if r == nil {
		return
	}
	r.buildOutcome.WithLabelValues(outcome).Inc()
}

func (r *Recorder) AddDocuments(kind string, n int) {
	if r == nil {
		return
	}
	r.documents.WithLabelValues(kind).Add(float64(n))
}

func (r *Recorder) IncTaskReceived(taskType string) {
	if r == nil {
		return
	}
	r.tasksReceived.WithLabelValues(taskType).Inc()
}

// Handler returns the HTTP handler exposing the registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
