package services

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yelen-fintech/yt-helpdesk/pkg/classifier"
	"github.com/yelen-fintech/yt-helpdesk/pkg/config"
	"github.com/yelen-fintech/yt-helpdesk/pkg/dataset"
	"github.com/yelen-fintech/yt-helpdesk/pkg/ensemble"
	"github.com/yelen-fintech/yt-helpdesk/pkg/history"
)

func newAggregator(t *testing.T) *ensemble.Aggregator {
	t.Helper()

	cfg := classifier.DefaultConfig()
	members := map[ensemble.ModelID]ensemble.Member{
		ensemble.ModelDecisionTree:       classifier.NewDecisionTree(cfg),
		ensemble.ModelNaiveBayes:         classifier.NewNaiveBayes(),
		ensemble.ModelLogisticRegression: classifier.NewLogisticRegression(cfg),
	}
	agg, err := ensemble.NewAggregator(members, ensemble.NewWeightAdapter(), ensemble.DefaultWeights())
	require.NoError(t, err)
	return agg
}

func trainingEmails() []ensemble.Email {
	var corpus []ensemble.Email
	for i := 0; i < 5; i++ {
		corpus = append(corpus,
			ensemble.Email{
				Subject:  "Server outage in production",
				Body:     "The main application server crashed and customers cannot log in anymore",
				Category: "support",
				Priority: "high",
			},
			ensemble.Email{
				Subject:  "Question about pricing plans",
				Body:     "I would like more information about your premium subscription offers",
				Category: "sales",
				Priority: "low",
			},
		)
	}
	return corpus
}

func TestClassifyRejectsEmptyInput(t *testing.T) {
	svc := NewTriageService(newAggregator(t), nil, nil)

	_, err := svc.Classify("req-1", "", "")
	assert.Error(t, err)
}

func TestClassifyUntrainedReturnsFallback(t *testing.T) {
	svc := NewTriageService(newAggregator(t), nil, nil)

	decision, err := svc.Classify("req-1", "Hello", "Anything at all")
	require.NoError(t, err)
	assert.Equal(t, "unknown", decision.Category)
	assert.Equal(t, "medium", decision.Priority)
	assert.Equal(t, 0.0, decision.Confidence)
}

func TestTrainThenClassify(t *testing.T) {
	svc := NewTriageService(newAggregator(t), nil, nil)

	report, err := svc.Train(trainingEmails())
	require.NoError(t, err)
	assert.Equal(t, 10, report.NumSamples)
	assert.Len(t, report.ModelWeights, 3)

	decision, err := svc.Classify("req-1", "Production server down", "The application crashed for all customers")
	require.NoError(t, err)
	assert.Contains(t, []string{"support", "sales"}, decision.Category)
	assert.Contains(t, []string{"high", "low"}, decision.Priority)
	assert.Greater(t, decision.Confidence, 0.0)
}

func TestTrainFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "training_data.json")

	payload, err := json.Marshal(map[string]interface{}{"emails": trainingEmails()})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, payload, 0o644))

	cfg := config.Default()
	cfg.Data.TrainingPath = path
	svc := NewTriageService(newAggregator(t), nil, cfg)

	report, err := svc.TrainFromFile()
	require.NoError(t, err)
	assert.Equal(t, 10, report.NumSamples)
}

func TestTrainFromFileMissing(t *testing.T) {
	cfg := config.Default()
	cfg.Data.TrainingPath = filepath.Join(t.TempDir(), "does-not-exist.json")
	svc := NewTriageService(newAggregator(t), nil, cfg)

	_, err := svc.TrainFromFile()
	require.Error(t, err)

	var notFound *dataset.ErrNotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestTrainFromFileEmptyCorpus(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "training_data.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"emails": []}`), 0o644))

	cfg := config.Default()
	cfg.Data.TrainingPath = path
	svc := NewTriageService(newAggregator(t), nil, cfg)

	_, err := svc.TrainFromFile()
	assert.Error(t, err)
}

func TestHistoryDisabled(t *testing.T) {
	svc := NewTriageService(newAggregator(t), nil, nil)

	entries, err := svc.History(10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHistoryRecordsDecisions(t *testing.T) {
	store, err := history.NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer store.Close()

	svc := NewTriageService(newAggregator(t), store, nil)
	_, err = svc.Train(trainingEmails())
	require.NoError(t, err)

	_, err = svc.Classify("req-1", "Server outage", "Production is down")
	require.NoError(t, err)

	entries, err := svc.History(10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0].RequestID)
	assert.Equal(t, "Server outage", entries[0].Subject)
}

func TestInfo(t *testing.T) {
	svc := NewTriageService(newAggregator(t), nil, nil)

	info := svc.Info()
	assert.Equal(t, ensemble.ModelOrder, info.Models)
	assert.False(t, info.Trained)
	assert.InDelta(t, 0.4, info.Weights[ensemble.ModelDecisionTree], 1e-9)

	_, err := svc.Train(trainingEmails())
	require.NoError(t, err)
	assert.True(t, svc.Info().Trained)
	assert.Equal(t, 10, svc.Info().CorpusSize)
}
