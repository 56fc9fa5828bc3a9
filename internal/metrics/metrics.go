// Package metrics provides the centralized Prometheus metrics registry for
// the prediction service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	PredictionsGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchday",
		Name:      "predictions_generated_total",
		Help:      "Total number of predictions generated",
	}, []string{"sport", "method"})
	PredictionsSkippedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchday",
		Name:      "predictions_skipped_total",
		Help:      "Total number of matchups skipped for lack of data",
	}, []string{"sport"})
	ReconciliationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchday",
		Name:      "reconciliations_total",
		Help:      "Total number of ledger entries settled against results",
	}, []string{"sport"})
	ProviderFallbacksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchday",
		Name:      "provider_fallbacks_total",
		Help:      "Total number of falls back to the stored dataset after a live feed failure",
	}, []string{"sport"})
	TrainingRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "matchday",
		Name:      "training_runs_total",
		Help:      "Total number of model training runs",
	}, []string{"sport"})
)

// Gauge metrics
var (
	PredictionAccuracy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "matchday",
		Name:      "prediction_accuracy",
		Help:      "Running accuracy over reconciled predictions",
	}, []string{"sport"})
	PendingPredictions = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "matchday",
		Name:      "pending_predictions",
		Help:      "Number of ledger entries awaiting a result",
	}, []string{"sport"})
)

// Histogram metrics
var (
	GenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "matchday",
		Name:      "generation_duration_seconds",
		Help:      "Duration of prediction generation runs in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"sport"})
	TrainingDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "matchday",
		Name:      "training_duration_seconds",
		Help:      "Duration of model training runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(PredictionsGeneratedTotal)
		registry.MustRegister(PredictionsSkippedTotal)
		registry.MustRegister(ReconciliationsTotal)
		registry.MustRegister(ProviderFallbacksTotal)
		registry.MustRegister(TrainingRunsTotal)

		registry.MustRegister(PredictionAccuracy)
		registry.MustRegister(PendingPredictions)

		registry.MustRegister(GenerationDuration)
		registry.MustRegister(TrainingDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordPrediction records one generated prediction by method (model or
// heuristic).
func RecordPrediction(sport, method string) {
	PredictionsGeneratedTotal.WithLabelValues(sport, method).Inc()
}

// RecordSkipped records a matchup skipped for lack of data.
func RecordSkipped(sport string) {
	PredictionsSkippedTotal.WithLabelValues(sport).Inc()
}

// RecordReconciliations records settled ledger entries.
func RecordReconciliations(sport string, count int) {
	ReconciliationsTotal.WithLabelValues(sport).Add(float64(count))
}

// RecordProviderFallback records a fall back to the stored dataset.
func RecordProviderFallback(sport string) {
	ProviderFallbacksTotal.WithLabelValues(sport).Inc()
}

// RecordTrainingRun records a model training run.
func RecordTrainingRun(sport string, durationSeconds float64) {
	TrainingRunsTotal.WithLabelValues(sport).Inc()
	TrainingDuration.Observe(durationSeconds)
}

// UpdateAccuracy updates the running accuracy gauge.
func UpdateAccuracy(sport string, accuracy float64) {
	PredictionAccuracy.WithLabelValues(sport).Set(accuracy)
}

// UpdatePending updates the pending predictions gauge.
func UpdatePending(sport string, count int) {
	PendingPredictions.WithLabelValues(sport).Set(float64(count))
}

// RecordGenerationDuration records a prediction generation run.
func RecordGenerationDuration(sport string, durationSeconds float64) {
	GenerationDuration.WithLabelValues(sport).Observe(durationSeconds)
}
