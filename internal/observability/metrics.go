package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "weather_pipeline"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ingestion pipeline.
type Metrics struct {
	RunsTotal       prometheus.Counter
	RunFailures     prometheus.Counter
	RunDuration     prometheus.Histogram
	PipelineRunning prometheus.Gauge
	LastRunUnixTime prometheus.Gauge

	// Per-source ingestion metrics. Labels: source={asos,pm10,uv}.
	FetchErrors   *prometheus.CounterVec
	RecordsParsed *prometheus.CounterVec

	// Dataset metrics.
	FusedRows   prometheus.Histogram
	DatasetRows prometheus.Histogram

	// Storage and publishing metrics.
	StorageWrites    *prometheus.CounterVec // labels: kind={raw,processed,dataset}
	StorageErrors    *prometheus.CounterVec
	RecordsPublished prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RunsTotal,
		m.RunFailures,
		m.RunDuration,
		m.PipelineRunning,
		m.LastRunUnixTime,
		m.FetchErrors,
		m.RecordsParsed,
		m.FusedRows,
		m.DatasetRows,
		m.StorageWrites,
		m.StorageErrors,
		m.RecordsPublished,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RunsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total pipeline runs attempted.",
		}),
		RunFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "run_failures_total",
			Help:      "Total pipeline runs that failed.",
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-parse-fuse-store cycle.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running",
			Help:      "1 while a pipeline run is in progress.",
		}),
		LastRunUnixTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_successful_run_timestamp_seconds",
			Help:      "Unix time of the last successful run.",
		}),
		FetchErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_errors_total",
			Help:      "Upstream API fetch failures by source.",
		}, []string{"source"}),
		RecordsParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_parsed_total",
			Help:      "Observation records parsed by source.",
		}, []string{"source"}),
		FusedRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fused_rows",
			Help:      "Rows in the fused table per run.",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		}),
		DatasetRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows in the written feature dataset per run.",
			Buckets:   []float64{0, 1, 5, 10, 50, 100, 500, 1000},
		}),
		StorageWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_writes_total",
			Help:      "Successful artifact store writes by kind.",
		}, []string{"kind"}),
		StorageErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "storage_errors_total",
			Help:      "Failed artifact store writes by kind.",
		}, []string{"kind"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_published_total",
			Help:      "Feature records published to the downstream topic.",
		}),
	}
}
