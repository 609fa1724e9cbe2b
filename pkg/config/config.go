package config

import (
	"fmt"
	"math"
)

// Config is the root configuration for the triage service.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Ensemble   EnsembleConfig   `yaml:"ensemble"`
	Classifier ClassifierConfig `yaml:"classifier"`
	Data       DataConfig       `yaml:"data"`
	History    HistoryConfig    `yaml:"history"`
}

// ServerConfig configures the HTTP API and metrics listeners.
type ServerConfig struct {
	// Port is the Classification API port
	Port int `yaml:"port"`

	// MetricsPort is the Prometheus metrics port
	MetricsPort int `yaml:"metrics_port"`

	// RateLimitPerSecond caps API requests per second (0 disables limiting)
	RateLimitPerSecond float64 `yaml:"rate_limit_per_second"`

	// RateLimitBurst is the token-bucket burst size
	RateLimitBurst int `yaml:"rate_limit_burst"`
}

// EnsembleConfig tunes the weighted-voting aggregator.
type EnsembleConfig struct {
	// MinCorpusSize is the minimum number of training examples required
	// before weights are re-adapted. Below this, weights stay unchanged.
	// Pointer so an explicit 0 (always adapt) survives defaulting.
	MinCorpusSize *int `yaml:"min_corpus_size,omitempty"`

	// Inertia is the fraction of a model's previous weight retained across
	// a re-weighting event (0.0-1.0). Pointer so an explicit 0.0 (no
	// inertia) survives defaulting.
	Inertia *float64 `yaml:"inertia,omitempty"`

	// CategoryWeight and PriorityWeight blend the two accuracy scores into
	// a composite score. They must sum to 1.0.
	CategoryWeight float64 `yaml:"category_weight"`
	PriorityWeight float64 `yaml:"priority_weight"`

	// InitialWeights is the weight distribution used before any evaluation
	// has occurred, keyed by model id.
	InitialWeights map[string]float64 `yaml:"initial_weights,omitempty"`
}

// ClassifierConfig tunes the member classifiers.
type ClassifierConfig struct {
	// DecisionTree depth limits
	CategoryTreeDepth int `yaml:"category_tree_depth"`
	PriorityTreeDepth int `yaml:"priority_tree_depth"`

	// LogisticRegression training parameters
	LearningRate float64 `yaml:"learning_rate"`
	Iterations   int     `yaml:"iterations"`

	// MaxFeatures caps the vocabulary size for TF-IDF based models
	MaxFeatures int `yaml:"max_features"`
}

// DataConfig locates the bulk training corpus.
type DataConfig struct {
	// TrainingPath is the path to the training_data.json file used by the
	// GET /api/v1/train endpoint and the optional startup training pass.
	TrainingPath string `yaml:"training_path"`

	// TrainOnStartup trains the ensemble from TrainingPath at boot when set
	TrainOnStartup bool `yaml:"train_on_startup"`
}

// HistoryConfig configures the sqlite decision log.
type HistoryConfig struct {
	// Path is the sqlite database file. Empty disables history recording.
	Path string `yaml:"path"`

	// MaxEntries bounds the GET /api/v1/history response size
	MaxEntries int `yaml:"max_entries"`
}

// applyDefaults fills zero values with production defaults.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.MetricsPort == 0 {
		c.Server.MetricsPort = 9190
	}
	if c.Server.RateLimitBurst == 0 {
		c.Server.RateLimitBurst = 20
	}
	if c.Ensemble.MinCorpusSize == nil {
		minCorpus := 5
		c.Ensemble.MinCorpusSize = &minCorpus
	}
	if c.Ensemble.Inertia == nil {
		inertia := 0.7
		c.Ensemble.Inertia = &inertia
	}
	if c.Ensemble.CategoryWeight == 0 && c.Ensemble.PriorityWeight == 0 {
		c.Ensemble.CategoryWeight = 0.6
		c.Ensemble.PriorityWeight = 0.4
	}
	if c.Classifier.CategoryTreeDepth == 0 {
		c.Classifier.CategoryTreeDepth = 5
	}
	if c.Classifier.PriorityTreeDepth == 0 {
		c.Classifier.PriorityTreeDepth = 3
	}
	if c.Classifier.LearningRate == 0 {
		c.Classifier.LearningRate = 0.1
	}
	if c.Classifier.Iterations == 0 {
		c.Classifier.Iterations = 200
	}
	if c.Classifier.MaxFeatures == 0 {
		c.Classifier.MaxFeatures = 1000
	}
	if c.History.MaxEntries == 0 {
		c.History.MaxEntries = 100
	}
}

// validate rejects configurations the ensemble cannot run with.
func (c *Config) validate() error {
	if *c.Ensemble.Inertia < 0 || *c.Ensemble.Inertia > 1 {
		return fmt.Errorf("ensemble.inertia must be in [0,1], got %v", *c.Ensemble.Inertia)
	}
	scoreSum := c.Ensemble.CategoryWeight + c.Ensemble.PriorityWeight
	if math.Abs(scoreSum-1.0) > 0.01 {
		return fmt.Errorf("ensemble category_weight + priority_weight must sum to 1.0, got %v", scoreSum)
	}
	if *c.Ensemble.MinCorpusSize < 0 {
		return fmt.Errorf("ensemble.min_corpus_size must be non-negative, got %d", *c.Ensemble.MinCorpusSize)
	}
	if len(c.Ensemble.InitialWeights) > 0 {
		var sum float64
		for model, w := range c.Ensemble.InitialWeights {
			if w < 0 {
				return fmt.Errorf("ensemble.initial_weights[%s] must be non-negative, got %v", model, w)
			}
			sum += w
		}
		if math.Abs(sum-1.0) > 0.01 {
			return fmt.Errorf("ensemble.initial_weights must sum to 1.0, got %v", sum)
		}
	}
	if c.Server.RateLimitPerSecond < 0 {
		return fmt.Errorf("server.rate_limit_per_second must be non-negative, got %v", c.Server.RateLimitPerSecond)
	}
	return nil
}
