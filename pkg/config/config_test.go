package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParseAppliesDefaults(t *testing.T) {
	cfg, err := Parse(writeConfig(t, "server:\n  port: 9000\n"))
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, 9190, cfg.Server.MetricsPort)
	assert.Equal(t, 5, *cfg.Ensemble.MinCorpusSize)
	assert.Equal(t, 0.7, *cfg.Ensemble.Inertia)
	assert.Equal(t, 0.6, cfg.Ensemble.CategoryWeight)
	assert.Equal(t, 0.4, cfg.Ensemble.PriorityWeight)
	assert.Equal(t, 5, cfg.Classifier.CategoryTreeDepth)
	assert.Equal(t, 3, cfg.Classifier.PriorityTreeDepth)
	assert.Equal(t, 100, cfg.History.MaxEntries)
}

func TestParseFullConfig(t *testing.T) {
	cfg, err := Parse(writeConfig(t, `
server:
  port: 8081
  rate_limit_per_second: 25
ensemble:
  inertia: 0.5
  initial_weights:
    decision_tree: 0.5
    naive_bayes: 0.25
    logistic_regression: 0.25
data:
  training_path: data/corpus.json
  train_on_startup: true
history:
  path: data/history.db
`))
	require.NoError(t, err)

	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, 25.0, cfg.Server.RateLimitPerSecond)
	assert.Equal(t, 0.5, *cfg.Ensemble.Inertia)
	assert.Equal(t, 0.5, cfg.Ensemble.InitialWeights["decision_tree"])
	assert.True(t, cfg.Data.TrainOnStartup)
	assert.Equal(t, "data/history.db", cfg.History.Path)
}

func TestParseKeepsExplicitZeroValues(t *testing.T) {
	cfg, err := Parse(writeConfig(t, "ensemble:\n  min_corpus_size: 0\n  inertia: 0.0\n"))
	require.NoError(t, err)

	assert.Equal(t, 0, *cfg.Ensemble.MinCorpusSize)
	assert.Equal(t, 0.0, *cfg.Ensemble.Inertia)
}

func TestParseRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"inertia above one", "ensemble:\n  inertia: 1.5\n"},
		{"score weights do not sum to one", "ensemble:\n  category_weight: 0.9\n  priority_weight: 0.3\n"},
		{"negative initial weight", "ensemble:\n  initial_weights:\n    decision_tree: -0.2\n    naive_bayes: 0.6\n    logistic_regression: 0.6\n"},
		{"initial weights do not sum to one", "ensemble:\n  initial_weights:\n    decision_tree: 0.2\n    naive_bayes: 0.2\n    logistic_regression: 0.2\n"},
		{"negative rate limit", "server:\n  rate_limit_per_second: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(writeConfig(t, tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestParseMissingFile(t *testing.T) {
	_, err := Parse(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.NoError(t, cfg.validate())
}
