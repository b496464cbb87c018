package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "forest_cover"

// Metrics holds the Prometheus collectors for the prediction API.
type Metrics struct {
	Requests          *prometheus.CounterVec   // labels: endpoint, code
	Predictions       *prometheus.CounterVec   // labels: cover_type
	BatchRows         prometheus.Histogram     // rows per CSV upload
	InferenceDuration *prometheus.HistogramVec // labels: endpoint={single,batch}
	ArtifactsLoaded   *prometheus.GaugeVec     // labels: artifact={model,preprocessor}
	EventsPublished   *prometheus.CounterVec   // labels: outcome={success,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.Requests,
		m.Predictions,
		m.BatchRows,
		m.InferenceDuration,
		m.ArtifactsLoaded,
		m.EventsPublished,
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
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Prediction API requests by endpoint and status code.",
		}, []string{"endpoint", "code"}),
		Predictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "predictions_total",
			Help:      "Rows predicted, by predicted cover type.",
		}, []string{"cover_type"}),
		BatchRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "batch_rows",
			Help:      "Number of rows per batch upload.",
			Buckets:   []float64{1, 10, 50, 100, 500, 1000, 5000, 10000, 50000},
		}),
		InferenceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "inference_duration_seconds",
			Help:      "Feature engineering, preprocessing and model inference time.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"endpoint"}),
		ArtifactsLoaded: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "artifact_loaded",
			Help:      "1 when the artifact loaded at startup, 0 otherwise.",
		}, []string{"artifact"}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "prediction_events_total",
			Help:      "Prediction events handed to Kafka, by outcome.",
		}, []string{"outcome"}),
	}
}
