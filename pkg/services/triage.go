// Package services hosts the application service between the HTTP facade
// and the ensemble: input validation, corpus loading, decision history and
// metrics publishing.
package services

import (
	"fmt"
	"time"

	"github.com/yelen-fintech/yt-helpdesk/pkg/config"
	"github.com/yelen-fintech/yt-helpdesk/pkg/dataset"
	"github.com/yelen-fintech/yt-helpdesk/pkg/ensemble"
	"github.com/yelen-fintech/yt-helpdesk/pkg/history"
	"github.com/yelen-fintech/yt-helpdesk/pkg/observability/logging"
	"github.com/yelen-fintech/yt-helpdesk/pkg/observability/metrics"
)

// TriageService orchestrates the classification ensemble for the API layer.
type TriageService struct {
	aggregator *ensemble.Aggregator
	history    *history.Store // nil disables decision logging
	cfg        *config.Config
}

// NewTriageService creates the service. history may be nil.
func NewTriageService(aggregator *ensemble.Aggregator, historyStore *history.Store, cfg *config.Config) *TriageService {
	if cfg == nil {
		cfg = config.Default()
	}
	return &TriageService{
		aggregator: aggregator,
		history:    historyStore,
		cfg:        cfg,
	}
}

// Classify runs one email through the ensemble. requestID tags the decision
// in logs and history.
func (s *TriageService) Classify(requestID, subject, body string) (*ensemble.Decision, error) {
	if subject == "" && body == "" {
		return nil, fmt.Errorf("subject and body cannot both be empty")
	}

	start := time.Now()
	decision := s.aggregator.Classify(subject, body)
	metrics.ClassificationDuration.Observe(time.Since(start).Seconds())
	metrics.ClassificationCounter.WithLabelValues(decision.Category, decision.Priority).Inc()

	if s.history != nil {
		// History is best-effort: a full audit log must never fail a
		// classification.
		if err := s.history.Record(requestID, subject, decision); err != nil {
			logging.Warnf("Failed to record decision history: %v", err)
		}
	}

	logging.Debugf("Classified request %s: category=%s priority=%s confidence=%.3f",
		requestID, decision.Category, decision.Priority, decision.Confidence)
	return &decision, nil
}

// Train replaces the training corpus and re-fits every member.
func (s *TriageService) Train(emails []ensemble.Email) (*ensemble.TrainingReport, error) {
	report, err := s.aggregator.Train(emails)
	if err != nil {
		metrics.TrainingRoundCounter.WithLabelValues("error").Inc()
		return nil, err
	}

	metrics.TrainingRoundCounter.WithLabelValues("success").Inc()
	metrics.TrainingSamplesGauge.Set(float64(report.NumSamples))
	publishScores(report.Performance)
	publishWeights(report.ModelWeights)

	logging.Infof("Trained ensemble on %d samples, weights now %v", report.NumSamples, report.ModelWeights)
	return report, nil
}

// TrainFromFile trains from the configured training data file.
func (s *TriageService) TrainFromFile() (*ensemble.TrainingReport, error) {
	emails, err := dataset.Load(s.cfg.Data.TrainingPath)
	if err != nil {
		metrics.TrainingRoundCounter.WithLabelValues("error").Inc()
		return nil, err
	}
	if len(emails) == 0 {
		metrics.TrainingRoundCounter.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("no emails found in training data file %s", s.cfg.Data.TrainingPath)
	}
	return s.Train(emails)
}

// Evaluate scores the members against the stored corpus.
func (s *TriageService) Evaluate() ensemble.Evaluation {
	return s.aggregator.Evaluate()
}

// ModelInfo summarizes the ensemble state for the info endpoint.
type ModelInfo struct {
	Models     []ensemble.ModelID           `json:"models"`
	Weights    map[ensemble.ModelID]float64 `json:"model_weights"`
	CorpusSize int                          `json:"corpus_size"`
	Trained    bool                         `json:"trained"`
}

// Info returns the current ensemble state.
func (s *TriageService) Info() ModelInfo {
	return ModelInfo{
		Models:     ensemble.ModelOrder,
		Weights:    s.aggregator.Weights(),
		CorpusSize: s.aggregator.CorpusSize(),
		Trained:    s.aggregator.CorpusSize() > 0,
	}
}

// History returns the most recent recorded decisions. With history disabled
// it returns an empty list.
func (s *TriageService) History(limit int) ([]history.Entry, error) {
	if s.history == nil {
		return []history.Entry{}, nil
	}
	if limit <= 0 || limit > s.cfg.History.MaxEntries {
		limit = s.cfg.History.MaxEntries
	}
	entries, err := s.history.Recent(limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []history.Entry{}
	}
	return entries, nil
}

func publishWeights(weights map[ensemble.ModelID]float64) {
	converted := make(map[string]float64, len(weights))
	for id, w := range weights {
		converted[string(id)] = w
	}
	metrics.RecordWeights(converted)
}

func publishScores(scores map[ensemble.ModelID]ensemble.ModelScore) {
	category := make(map[string]float64, len(scores))
	priority := make(map[string]float64, len(scores))
	for id, s := range scores {
		category[string(id)] = s.CategoryScore
		priority[string(id)] = s.PriorityScore
	}
	metrics.RecordEvaluation(category, priority)
}
