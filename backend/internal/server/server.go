package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/aura-plataforma/chatbot-service/backend/internal/assessment"
	"github.com/aura-plataforma/chatbot-service/backend/internal/audit"
	"github.com/aura-plataforma/chatbot-service/backend/internal/metrics"
	"github.com/aura-plataforma/chatbot-service/backend/internal/responder"
	"github.com/google/uuid"
)

const maxMessageLength = 2000

// HealthChecker probes the availability of one dependency.
type HealthChecker interface {
	Health(ctx context.Context) bool
}

// Server exposes the chat routing engine over HTTP.
type Server struct {
	service         *responder.Service
	clusteringProbe HealthChecker
	sentimentProbe  HealthChecker
	providerNames   []string
	audit           *audit.Logger
	logger          *log.Logger
}

// New creates the HTTP surface over the chat service.
func New(service *responder.Service, clusteringProbe, sentimentProbe HealthChecker, providerNames []string, auditLogger *audit.Logger, logger *log.Logger) *Server {
	return &Server{
		service:         service,
		clusteringProbe: clusteringProbe,
		sentimentProbe:  sentimentProbe,
		providerNames:   providerNames,
		audit:           auditLogger,
		logger:          logger,
	}
}

// RegisterRoutes attaches all chat endpoints to the mux.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/v1/chat/message", s.handleMessage)
	mux.HandleFunc("/api/v1/chat/classify", s.handleClassify)
	mux.HandleFunc("/api/v1/chat/health", s.handleHealth)
	mux.HandleFunc("/api/v1/chat/greeting", s.handleGreeting)
}

// MessageRequest is the inbound chat payload.
type MessageRequest struct {
	UserID    string `json:"user_id"`
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// MessageMetadata summarizes the assessment behind a response.
type MessageMetadata struct {
	IntentDetected          string  `json:"intent_detected"`
	RiskLevel               string  `json:"risk_level"`
	SentimentLabel          string  `json:"sentiment_label"`
	NegativityScore         float64 `json:"negativity_score"`
	RequiresFollowUp        bool    `json:"requires_follow_up"`
	CrisisResourcesIncluded bool    `json:"crisis_resources_included"`
}

// MessageResponse is the outbound chat payload.
type MessageResponse struct {
	Message   string          `json:"message"`
	Metadata  MessageMetadata `json:"metadata"`
	Timestamp time.Time       `json:"timestamp"`
}

// ErrorResponse is returned for rejected or failed requests.
type ErrorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	startTime := time.Now()
	requestID := uuid.New().String()
	metrics.RequestsTotal.Inc()

	var req MessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logError("Failed to decode message request: %v", err)
		sendErrorResponse(w, http.StatusBadRequest, "invalid_request", "Malformed request body", requestID)
		return
	}

	if strings.TrimSpace(req.UserID) == "" {
		sendErrorResponse(w, http.StatusBadRequest, "invalid_request", "user_id is required", requestID)
		return
	}
	if req.Message == "" || len([]rune(req.Message)) > maxMessageLength {
		sendErrorResponse(w, http.StatusBadRequest, "invalid_request", "message must be 1-2000 characters", requestID)
		return
	}

	response, uc := s.service.Route(r.Context(), req.UserID, req.Message)

	metrics.RecordIntent(string(response.IntentDetected))
	metrics.RecordRiskLevel(string(response.RiskLevel))
	metrics.LatencyHistogram.Observe(time.Since(startTime).Seconds())

	if s.audit != nil {
		s.audit.Log(audit.Entry{
			RequestID:       requestID,
			UserID:          req.UserID,
			SessionID:       req.SessionID,
			Intent:          string(response.IntentDetected),
			Confidence:      uc.Intent.Confidence,
			SentimentLabel:  string(uc.Sentiment.Label),
			NegativityScore: uc.Sentiment.NegativityScore,
			HistoricalRisk:  uc.Profile.RiskLevel,
			RiskLevel:       string(response.RiskLevel),
			Decision:        decisionFor(response),
			FollowUp:        response.RequiresFollowUp,
			Latency:         time.Since(startTime),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	json.NewEncoder(w).Encode(MessageResponse{
		Message: response.Message,
		Metadata: MessageMetadata{
			IntentDetected:          string(response.IntentDetected),
			RiskLevel:               string(response.RiskLevel),
			SentimentLabel:          string(uc.Sentiment.Label),
			NegativityScore:         uc.Sentiment.NegativityScore,
			RequiresFollowUp:        response.RequiresFollowUp,
			CrisisResourcesIncluded: response.CrisisResourcesIncluded,
		},
		Timestamp: time.Now().UTC(),
	})

	s.logInfo("Request %s routed as %s/%s in %v", requestID, response.IntentDetected, response.RiskLevel, time.Since(startTime))
}

// ClassifyRequest is the diagnostic classification payload.
type ClassifyRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleClassify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	requestID := uuid.New().String()

	var req ClassifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "invalid_request", "Malformed request body", requestID)
		return
	}

	result := s.service.Classify(req.Text)

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	json.NewEncoder(w).Encode(result)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dependencies := map[string]string{
		"generator_providers": strings.Join(s.providerNames, ","),
	}

	if s.clusteringProbe != nil {
		dependencies["clustering_service"] = availability(s.clusteringProbe.Health(r.Context()))
	}
	if s.sentimentProbe != nil {
		dependencies["sentiment_sidecar"] = availability(s.sentimentProbe.Health(r.Context()))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":       "healthy",
		"service":      "chatbot-service",
		"dependencies": dependencies,
	})
}

func (s *Server) handleGreeting(w http.ResponseWriter, r *http.Request) {
	greeting := responder.Greeting(r.URL.Query().Get("user_name"))

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message":   greeting,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func decisionFor(resp responder.Response) string {
	switch {
	case resp.RiskLevel == assessment.RiskCrisis:
		return audit.DecisionCrisis
	case resp.CrisisResourcesIncluded:
		// Resources outside the crisis branch only appear on the fallback.
		return audit.DecisionFallback
	default:
		return audit.DecisionGenerated
	}
}

func availability(ok bool) string {
	if ok {
		return "available"
	}
	return "unavailable"
}

// sendErrorResponse sends a JSON error response
func sendErrorResponse(w http.ResponseWriter, status int, code, message, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", requestID)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:     code,
		Message:   message,
		RequestID: requestID,
	})
}

// Logging helpers
func (s *Server) logInfo(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf("[INFO] "+format, args...)
	}
}

func (s *Server) logError(format string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Printf("[ERROR] "+format, args...)
	}
}
