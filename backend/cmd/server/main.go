package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/aura-plataforma/chatbot-service/backend/internal/assessment"
	"github.com/aura-plataforma/chatbot-service/backend/internal/audit"
	"github.com/aura-plataforma/chatbot-service/backend/internal/classifier"
	"github.com/aura-plataforma/chatbot-service/backend/internal/clustering"
	"github.com/aura-plataforma/chatbot-service/backend/internal/config"
	"github.com/aura-plataforma/chatbot-service/backend/internal/provider"
	"github.com/aura-plataforma/chatbot-service/backend/internal/responder"
	"github.com/aura-plataforma/chatbot-service/backend/internal/sentiment"
	"github.com/aura-plataforma/chatbot-service/backend/internal/server"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger
	logger := log.New(os.Stdout, "[aura] ", log.LstdFlags|log.Lshortfile)

	// Load configuration
	cfg := config.Load()
	logger.Println("Configuration loaded")

	// Intent classifier: built-in Spanish patterns, or a deployed table
	intentClassifier := classifier.New()
	if cfg.Patterns.File != "" {
		table, err := classifier.LoadPatternFile(cfg.Patterns.File)
		if err != nil {
			logger.Fatalf("Failed to load pattern file: %v", err)
		}
		intentClassifier = classifier.NewWithTable(table)
		logger.Printf("Pattern table loaded from %s", cfg.Patterns.File)
	}

	// Boundary capability clients
	sentimentClient := sentiment.NewClient(cfg.Sentiment.URL, cfg.Sentiment.Timeout, cfg.Sentiment.MaxTextLength, logger)
	clusteringClient := clustering.NewClient(cfg.Clustering.BaseURL, cfg.Clustering.Timeout, cfg.Clustering.CacheTTL, logger)

	// Text generation providers
	providerRouter, err := provider.NewRouterFromConfig(cfg)
	if err != nil {
		logger.Fatalf("Failed to initialize providers: %v", err)
	}
	if len(providerRouter.ListProviders()) == 0 {
		logger.Println("[WARN] No generation provider configured; all responses will use the fallback message")
	}

	breaker := provider.NewCircuitBreaker(provider.CircuitBreakerConfig{
		Enabled:          cfg.Breaker.Enabled,
		FailureThreshold: cfg.Breaker.FailureThreshold,
		SuccessThreshold: cfg.Breaker.SuccessThreshold,
		Timeout:          cfg.Breaker.Timeout,
	})

	// Assemble the routing engine
	builder := assessment.NewBuilder(intentClassifier, sentimentClient, clusteringClient)
	respond := responder.New(providerRouter, breaker, logger)
	service := responder.NewService(builder, respond, intentClassifier)

	// Audit trail
	auditLogger, err := audit.NewLogger(cfg.Logging.AuditLog)
	if err != nil {
		logger.Fatalf("Failed to open audit log: %v", err)
	}
	defer auditLogger.Close()

	// Setup routes
	mux := http.NewServeMux()
	srv := server.New(service, clusteringClient, sentimentClient, providerRouter.ListProviders(), auditLogger, logger)
	srv.RegisterRoutes(mux)

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","service":"chatbot-service"}`))
	})

	// Metrics endpoint (Prometheus)
	mux.Handle("/metrics", promhttp.Handler())

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Println("=================================")
	logger.Println("AURA Chatbot Service Starting")
	logger.Println("=================================")
	logger.Printf("Server:     http://%s", addr)
	logger.Printf("Clustering: %s", cfg.Clustering.BaseURL)
	logger.Printf("Sentiment:  %s", cfg.Sentiment.URL)
	logger.Printf("Providers:  %v", providerRouter.ListProviders())
	logger.Println("=================================")

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	if err := httpServer.ListenAndServe(); err != nil {
		logger.Fatalf("Server failed: %v", err)
	}
}
