package apiserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/yelen-fintech/yt-helpdesk/pkg/dataset"
	"github.com/yelen-fintech/yt-helpdesk/pkg/ensemble"
	"github.com/yelen-fintech/yt-helpdesk/pkg/observability/logging"
)

// ClassifyRequest is the payload for classification endpoints.
type ClassifyRequest struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`

	// IncludeModels adds the weight snapshot and every member's raw result
	// to the response.
	IncludeModels bool `json:"include_models,omitempty"`
}

// ClassifyResponse is the classification result. The per-model fields are
// populated only when the request asked for them.
type ClassifyResponse struct {
	Category     string                               `json:"category"`
	Priority     string                               `json:"priority"`
	Confidence   float64                              `json:"confidence"`
	ModelWeights map[ensemble.ModelID]float64         `json:"model_weights,omitempty"`
	ModelResults map[ensemble.ModelID]ensemble.Result `json:"model_results,omitempty"`
}

func classifyResponse(decision *ensemble.Decision, includeModels bool) ClassifyResponse {
	resp := ClassifyResponse{
		Category:   decision.Category,
		Priority:   decision.Priority,
		Confidence: decision.Confidence,
	}
	if includeModels {
		resp.ModelWeights = decision.ModelWeights
		resp.ModelResults = decision.ModelResults
	}
	return resp
}

// TrainRequest is the payload for POST /api/v1/train.
type TrainRequest struct {
	Emails []ensemble.Email `json:"emails"`
}

// TrainResponse reports the outcome of a training round.
type TrainResponse struct {
	Status      string                                   `json:"status"`
	Message     string                                   `json:"message"`
	Performance map[ensemble.ModelID]ensemble.ModelScore `json:"performance"`
	Weights     map[ensemble.ModelID]float64             `json:"model_weights"`
}

// EvaluateResponse reports per-model evaluation scores.
type EvaluateResponse struct {
	Status      string                                   `json:"status"`
	Message     string                                   `json:"message"`
	Performance map[ensemble.ModelID]ensemble.ModelScore `json:"performance"`
}

// TestExampleResult pairs a sample email with its classification.
type TestExampleResult struct {
	Example        ClassifyRequest  `json:"example"`
	Classification ClassifyResponse `json:"classification"`
}

// sampleEmails are predefined inputs for the examples endpoint. The mix of
// French and English mirrors the traffic the service is deployed for.
var sampleEmails = []ClassifyRequest{
	{
		Subject: "Demande de support technique urgent",
		Body:    "Bonjour, notre système est en panne depuis ce matin. Nous ne pouvons pas traiter les commandes de nos clients. Pouvez-vous intervenir au plus vite ?",
	},
	{
		Subject: "Renseignement sur vos produits",
		Body:    "Bonjour, je suis intéressé par vos services et j'aimerais obtenir plus d'informations sur vos tarifs. Merci d'avance pour votre réponse.",
	},
	{
		Subject: "URGENT: Bug critique en production",
		Body:    "L'application principale est inaccessible et tous nos clients sont impactés. Nous perdons des milliers d'euros chaque heure. Une intervention immédiate est requise!",
	},
	{
		Subject: "Meeting next week",
		Body:    "Hello team, I would like to schedule a meeting next week to discuss our new project. Please let me know your availability. Best regards.",
	},
}

// handleClassify handles POST /api/v1/classify
func (s *TriageAPIServer) handleClassify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if req.Subject == "" || req.Body == "" {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "subject and body fields are required")
		return
	}

	requestID := uuid.New().String()
	decision, err := s.triageSvc.Classify(requestID, req.Subject, req.Body)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	s.writeJSONResponse(w, http.StatusOK, classifyResponse(decision, req.IncludeModels))
}

// handleClassifyTest handles POST /api/v1/classify/test with a verbose
// response that echoes the input alongside the classification.
func (s *TriageAPIServer) handleClassifyTest(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if req.Subject == "" || req.Body == "" {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "subject and body fields are required")
		return
	}

	decision, err := s.triageSvc.Classify(uuid.New().String(), req.Subject, req.Body)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	// The test endpoint always exposes the full decision.
	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":         "success",
		"message":        "classification completed",
		"input":          map[string]string{"subject": req.Subject, "body": req.Body},
		"classification": classifyResponse(decision, true),
	})
}

// handleClassifyExamples handles GET /api/v1/classify/examples
func (s *TriageAPIServer) handleClassifyExamples(w http.ResponseWriter, _ *http.Request) {
	results := make([]TestExampleResult, 0, len(sampleEmails))
	for _, example := range sampleEmails {
		decision, err := s.triageSvc.Classify(uuid.New().String(), example.Subject, example.Body)
		if err != nil {
			s.writeErrorResponse(w, http.StatusInternalServerError, "CLASSIFICATION_ERROR", err.Error())
			return
		}
		results = append(results, TestExampleResult{
			Example:        example,
			Classification: classifyResponse(decision, true),
		})
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "sample classifications completed",
		"results": results,
	})
}

// handleTrain handles POST /api/v1/train
func (s *TriageAPIServer) handleTrain(w http.ResponseWriter, r *http.Request) {
	var req TrainRequest
	if err := s.parseJSONRequest(r, &req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	if len(req.Emails) == 0 {
		s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "emails field must contain at least one record")
		return
	}

	report, err := s.triageSvc.Train(req.Emails)
	if err != nil {
		var missing *ensemble.MissingFieldError
		if errors.As(err, &missing) {
			s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_CORPUS", err.Error())
			return
		}
		logging.Errorf("Training failed: %v", err)
		s.writeErrorResponse(w, http.StatusInternalServerError, "TRAINING_ERROR", err.Error())
		return
	}

	s.writeJSONResponse(w, http.StatusOK, TrainResponse{
		Status:      "success",
		Message:     fmt.Sprintf("model trained with %d emails", report.NumSamples),
		Performance: report.Performance,
		Weights:     report.ModelWeights,
	})
}

// handleTrainFromFile handles GET /api/v1/train
func (s *TriageAPIServer) handleTrainFromFile(w http.ResponseWriter, _ *http.Request) {
	report, err := s.triageSvc.TrainFromFile()
	if err != nil {
		var notFound *dataset.ErrNotFound
		if errors.As(err, &notFound) {
			s.writeErrorResponse(w, http.StatusNotFound, "DATA_FILE_NOT_FOUND", err.Error())
			return
		}
		logging.Errorf("Training from file failed: %v", err)
		s.writeErrorResponse(w, http.StatusBadRequest, "TRAINING_ERROR", err.Error())
		return
	}

	s.writeJSONResponse(w, http.StatusOK, TrainResponse{
		Status:      "success",
		Message:     fmt.Sprintf("model trained with %d emails", report.NumSamples),
		Performance: report.Performance,
		Weights:     report.ModelWeights,
	})
}

// handleEvaluate handles GET /api/v1/evaluate
func (s *TriageAPIServer) handleEvaluate(w http.ResponseWriter, _ *http.Request) {
	evaluation := s.triageSvc.Evaluate()

	s.writeJSONResponse(w, http.StatusOK, EvaluateResponse{
		Status:      "success",
		Message:     evaluation.Message,
		Performance: evaluation.Scores,
	})
}

// handleHistory handles GET /api/v1/history
func (s *TriageAPIServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			s.writeErrorResponse(w, http.StatusBadRequest, "INVALID_REQUEST", "limit must be an integer")
			return
		}
		limit = parsed
	}

	entries, err := s.triageSvc.History(limit)
	if err != nil {
		logging.Errorf("Failed to read decision history: %v", err)
		s.writeErrorResponse(w, http.StatusInternalServerError, "HISTORY_ERROR", err.Error())
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]interface{}{
		"count":     len(entries),
		"decisions": entries,
	})
}

// handleModelsInfo handles GET /info/models
func (s *TriageAPIServer) handleModelsInfo(w http.ResponseWriter, _ *http.Request) {
	s.writeJSONResponse(w, http.StatusOK, s.triageSvc.Info())
}
