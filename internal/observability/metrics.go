package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "hazard_dashboard"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// selection pipeline and the dashboard engine.
type Metrics struct {
	SelectionsConsumed prometheus.Counter
	ViewsProduced      prometheus.Counter
	TransformErrors    prometheus.Counter
	PipelineRunning    prometheus.Gauge

	// Batch processing metrics.
	BatchSize               prometheus.Histogram
	BatchProcessingDuration prometheus.Histogram

	// Engine metrics.
	DerivationDuration *prometheus.HistogramVec // labels: panel
	DerivationFailures *prometheus.CounterVec   // labels: panel, kind
	ViewCache          *prometheus.CounterVec   // labels: result={hit,miss}
	HazardTypeResets   prometheus.Counter
	DatasetRows        *prometheus.GaugeVec // labels: dataset
	ActiveSessions     prometheus.Gauge
}

func newMetrics(full bool) *Metrics {
	counter := func(name, help string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}
	gauge := func(name, help string) prometheus.Gauge {
		return prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: name, Help: help})
	}
	batchBuckets := []float64{1, 5, 10, 20, 30, 40, 50, 75, 100}
	durationBuckets := []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10}
	derivationBuckets := []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5}
	if !full {
		batchBuckets, durationBuckets, derivationBuckets = nil, nil, nil
	}

	return &Metrics{
		SelectionsConsumed: counter("selections_consumed_total", "Total selection updates read from the source topic."),
		ViewsProduced:      counter("views_produced_total", "Total dashboard views written to the sink topic."),
		TransformErrors:    counter("transform_errors_total", "Total selection updates that could not be applied."),
		PipelineRunning:    gauge("pipeline_running", "1 when the pipeline is active, 0 when shut down."),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_size",
			Help:      "Number of selection updates per batch extracted from Kafka.",
			Buckets:   batchBuckets,
		}),
		BatchProcessingDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-transform-load cycle.",
			Buckets:   durationBuckets,
		}),
		DerivationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "derivation_duration_seconds",
			Help:      "Time spent deriving one dashboard panel.",
			Buckets:   derivationBuckets,
		}, []string{"panel"}),
		DerivationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "derivation_failures_total",
			Help:      "Panel derivations that failed, by panel and error kind.",
		}, []string{"panel", "kind"}),
		ViewCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "view_cache_total",
			Help:      "Dashboard cache lookups by result.",
		}, []string{"result"}),
		HazardTypeResets: counter("hazard_type_resets_total", "Selections whose hazard type was cleared after a category change."),
		DatasetRows: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "dataset_rows",
			Help:      "Rows loaded per dataset.",
		}, []string{"dataset"}),
		ActiveSessions: gauge("active_sessions", "Selection sessions held in memory."),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics(true)
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid "already
// registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics(false)
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.SelectionsConsumed,
		m.ViewsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchProcessingDuration,
		m.DerivationDuration,
		m.DerivationFailures,
		m.ViewCache,
		m.HazardTypeResets,
		m.DatasetRows,
		m.ActiveSessions,
	}
}

// ObserveDerivation records one panel derivation. errKind is empty on success.
func (m *Metrics) ObserveDerivation(panel string, seconds float64, errKind string) {
	m.DerivationDuration.WithLabelValues(panel).Observe(seconds)
	if errKind != "" {
		m.DerivationFailures.WithLabelValues(panel, errKind).Inc()
	}
}

// ObserveViewCache records a dashboard cache lookup.
func (m *Metrics) ObserveViewCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.ViewCache.WithLabelValues(result).Inc()
}

// RecordDatasetRows publishes the loaded row count of each dataset.
func (m *Metrics) RecordDatasetRows(counts map[string]int) {
	for name, n := range counts {
		m.DatasetRows.WithLabelValues(name).Set(float64(n))
	}
}
