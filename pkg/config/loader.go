package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/yelen-fintech/yt-helpdesk/pkg/observability/logging"
)

var (
	config   *Config
	configMu sync.RWMutex
)

// Load parses the YAML config file and caches it globally. Safe for
// concurrent readers via Get.
func Load(configPath string) (*Config, error) {
	cfg, err := Parse(configPath)
	if err != nil {
		return nil, err
	}
	configMu.Lock()
	config = cfg
	configMu.Unlock()
	return cfg, nil
}

// Parse parses the YAML config file without touching the global cache.
func Parse(configPath string) (*Config, error) {
	// Resolve symlinks to handle Kubernetes ConfigMap mounts
	resolved, _ := filepath.EvalSymlinks(configPath)
	if resolved == "" {
		resolved = configPath
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logging.Debugf("Config loaded: api_port=%d metrics_port=%d min_corpus_size=%d inertia=%.2f",
		cfg.Server.Port, cfg.Server.MetricsPort, *cfg.Ensemble.MinCorpusSize, *cfg.Ensemble.Inertia)
	return cfg, nil
}

// Default returns a config with all defaults applied, used when no config
// file is supplied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Get returns the globally cached config, or nil if Load has not run.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return config
}
