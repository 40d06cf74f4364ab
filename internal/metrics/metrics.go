package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline run outcomes used as the "status" label.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

type Registry struct {
	reg           *prometheus.Registry
	Runs          *prometheus.CounterVec
	RecordsLoaded prometheus.Counter
	RunDuration   prometheus.Histogram
	ViewRows      *prometheus.GaugeVec
	LastSuccess   prometheus.Gauge
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "order_insights_pipeline_runs_total",
		Help: "Pipeline runs by outcome.",
	}, []string{"status"})
	records := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "order_insights_records_loaded_total",
		Help: "Order records loaded from the source.",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_insights_pipeline_duration_seconds",
		Buckets: prometheus.DefBuckets,
	})
	rows := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "order_insights_view_rows",
		Help: "Rows in the most recently computed view.",
	}, []string{"view"})
	lastSuccess := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "order_insights_last_success_timestamp_seconds",
	})

	r.MustRegister(runs, records, duration, rows, lastSuccess)
	return &Registry{
		reg:           r,
		Runs:          runs,
		RecordsLoaded: records,
		RunDuration:   duration,
		ViewRows:      rows,
		LastSuccess:   lastSuccess,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
