package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the triage ensemble.
var (
	ModelWeightGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "helpdesk_model_weight",
			Help: "Current blending weight per member classifier (0.0-1.0)",
		},
		[]string{"model"},
	)

	ModelCategoryAccuracyGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "helpdesk_model_category_accuracy",
			Help: "In-sample category accuracy per member classifier from the last evaluation",
		},
		[]string{"model"},
	)

	ModelPriorityAccuracyGauge = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "helpdesk_model_priority_accuracy",
			Help: "In-sample priority accuracy per member classifier from the last evaluation",
		},
		[]string{"model"},
	)

	ClassificationCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_classifications_total",
			Help: "Number of ensemble classifications by final category and priority",
		},
		[]string{"category", "priority"},
	)

	TrainingRoundCounter = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "helpdesk_training_rounds_total",
			Help: "Number of training rounds by outcome",
		},
		[]string{"status"},
	)

	ClassificationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "helpdesk_classification_duration_seconds",
			Help:    "End-to-end latency of ensemble classification",
			Buckets: prometheus.DefBuckets,
		},
	)

	TrainingSamplesGauge = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "helpdesk_training_corpus_size",
			Help: "Number of emails in the currently stored training corpus",
		},
	)
)

// RecordWeights publishes the current weight distribution.
func RecordWeights(weights map[string]float64) {
	for model, w := range weights {
		ModelWeightGauge.WithLabelValues(model).Set(w)
	}
}

// RecordEvaluation publishes per-model accuracy scores.
func RecordEvaluation(category, priority map[string]float64) {
	for model, s := range category {
		ModelCategoryAccuracyGauge.WithLabelValues(model).Set(s)
	}
	for model, s := range priority {
		ModelPriorityAccuracyGauge.WithLabelValues(model).Set(s)
	}
}
