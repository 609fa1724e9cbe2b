package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yelen-fintech/yt-helpdesk/pkg/apiserver"
	"github.com/yelen-fintech/yt-helpdesk/pkg/classifier"
	"github.com/yelen-fintech/yt-helpdesk/pkg/config"
	"github.com/yelen-fintech/yt-helpdesk/pkg/ensemble"
	"github.com/yelen-fintech/yt-helpdesk/pkg/history"
	"github.com/yelen-fintech/yt-helpdesk/pkg/observability/logging"
	"github.com/yelen-fintech/yt-helpdesk/pkg/services"
)

func main() {
	// Parse command-line flags
	var (
		configPath  = flag.String("config", "config/config.yaml", "Path to the configuration file")
		port        = flag.Int("port", 0, "Port for the triage API (overrides config)")
		metricsPort = flag.Int("metrics-port", 0, "Port for Prometheus metrics (overrides config)")
	)
	flag.Parse()

	// Initialize logging (zap) from environment.
	if _, err := logging.InitFromEnv(); err != nil {
		// Fallback to stderr since logger initialization failed
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if *metricsPort != 0 {
		cfg.Server.MetricsPort = *metricsPort
	}

	svc, cleanup, err := buildService(cfg)
	if err != nil {
		logging.Fatalf("Failed to initialize triage service: %v", err)
	}
	defer cleanup()

	// Start metrics server
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		metricsAddr := fmt.Sprintf(":%d", cfg.Server.MetricsPort)
		logging.Infof("Starting metrics server on %s", metricsAddr)
		if err := http.ListenAndServe(metricsAddr, nil); err != nil {
			logging.Errorf("Metrics server error: %v", err)
		}
	}()

	if cfg.Data.TrainOnStartup {
		if report, err := svc.TrainFromFile(); err != nil {
			logging.Warnf("Startup training failed: %v", err)
		} else {
			logging.Infof("Startup training completed with %d samples", report.NumSamples)
		}
	}

	logging.Infof("Starting triage API server on port %d", cfg.Server.Port)
	if err := apiserver.Init(svc, cfg, cfg.Server.Port); err != nil {
		logging.Fatalf("Triage API server error: %v", err)
	}
}

// loadConfig reads the config file, falling back to defaults when the file
// does not exist.
func loadConfig(path string) (*config.Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		logging.Warnf("Config file %s not found, using defaults", path)
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildService wires the member classifiers, the aggregator and the optional
// decision history into a triage service.
func buildService(cfg *config.Config) (*services.TriageService, func(), error) {
	mcfg := classifier.Config{
		CategoryTreeDepth: cfg.Classifier.CategoryTreeDepth,
		PriorityTreeDepth: cfg.Classifier.PriorityTreeDepth,
		LearningRate:      cfg.Classifier.LearningRate,
		Iterations:        cfg.Classifier.Iterations,
		MaxFeatures:       cfg.Classifier.MaxFeatures,
	}
	members := map[ensemble.ModelID]ensemble.Member{
		ensemble.ModelDecisionTree:       classifier.NewDecisionTree(mcfg),
		ensemble.ModelNaiveBayes:         classifier.NewNaiveBayes(),
		ensemble.ModelLogisticRegression: classifier.NewLogisticRegression(mcfg),
	}

	adapter := &ensemble.WeightAdapter{
		MinCorpusSize:  *cfg.Ensemble.MinCorpusSize,
		Inertia:        *cfg.Ensemble.Inertia,
		CategoryWeight: cfg.Ensemble.CategoryWeight,
		PriorityWeight: cfg.Ensemble.PriorityWeight,
	}

	initial := ensemble.DefaultWeights()
	if len(cfg.Ensemble.InitialWeights) > 0 {
		initial = make(map[ensemble.ModelID]float64, len(cfg.Ensemble.InitialWeights))
		for id, w := range cfg.Ensemble.InitialWeights {
			initial[ensemble.ModelID(id)] = w
		}
	}

	aggregator, err := ensemble.NewAggregator(members, adapter, initial)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {}
	var store *history.Store
	if cfg.History.Path != "" {
		store, err = history.NewStore(cfg.History.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open decision history at %s: %w", cfg.History.Path, err)
		}
		cleanup = func() {
			if err := store.Close(); err != nil {
				logging.Warnf("Failed to close decision history: %v", err)
			}
		}
		logging.Infof("Decision history enabled at %s", cfg.History.Path)
	}

	return services.NewTriageService(aggregator, store, cfg), cleanup, nil
}
