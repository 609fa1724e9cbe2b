package apiserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/yelen-fintech/yt-helpdesk/pkg/config"
	"github.com/yelen-fintech/yt-helpdesk/pkg/observability/logging"
	"github.com/yelen-fintech/yt-helpdesk/pkg/services"
)

// TriageAPIServer exposes the classification ensemble over HTTP.
type TriageAPIServer struct {
	triageSvc *services.TriageService
	config    *config.Config
	limiter   *rate.Limiter
}

// NewServer creates the API server around an initialized triage service.
func NewServer(svc *services.TriageService, cfg *config.Config) *TriageAPIServer {
	if cfg == nil {
		cfg = config.Default()
	}
	var limiter *rate.Limiter
	if cfg.Server.RateLimitPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Server.RateLimitPerSecond), cfg.Server.RateLimitBurst)
	}
	return &TriageAPIServer{
		triageSvc: svc,
		config:    cfg,
		limiter:   limiter,
	}
}

// Init starts the API server and blocks until it exits.
func Init(svc *services.TriageService, cfg *config.Config, port int) error {
	apiServer := NewServer(svc, cfg)

	mux := apiServer.setupRoutes()
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      apiServer.rateLimit(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logging.Infof("Triage API server listening on port %d", port)
	return server.ListenAndServe()
}

// setupRoutes configures all API routes
func (s *TriageAPIServer) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", s.handleHealth)

	// Classification endpoints
	mux.HandleFunc("POST /api/v1/classify", s.handleClassify)
	mux.HandleFunc("POST /api/v1/classify/test", s.handleClassifyTest)
	mux.HandleFunc("GET /api/v1/classify/examples", s.handleClassifyExamples)

	// Training endpoints. GET retrains from the configured data file, which
	// keeps retraining reachable from a browser during operations.
	mux.HandleFunc("POST /api/v1/train", s.handleTrain)
	mux.HandleFunc("GET /api/v1/train", s.handleTrainFromFile)
	mux.HandleFunc("GET /api/v1/evaluate", s.handleEvaluate)

	// Information endpoints
	mux.HandleFunc("GET /api/v1/history", s.handleHistory)
	mux.HandleFunc("GET /info/models", s.handleModelsInfo)

	return mux
}

// rateLimit applies a global token bucket to every route.
func (s *TriageAPIServer) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil && !s.limiter.Allow() {
			s.writeErrorResponse(w, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleHealth handles health check requests
func (s *TriageAPIServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status": "healthy", "service": "helpdesk-triage"}`))
}

// Helper methods for JSON handling
func (s *TriageAPIServer) parseJSONRequest(r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	return nil
}

func (s *TriageAPIServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Errorf("Failed to encode JSON response: %v", err)
	}
}

func (s *TriageAPIServer) writeErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) {
	errorResponse := map[string]interface{}{
		"error": map[string]interface{}{
			"code":      errorCode,
			"message":   message,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		},
	}

	s.writeJSONResponse(w, statusCode, errorResponse)
}
