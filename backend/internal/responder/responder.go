package responder

import (
	"context"
	"fmt"
	"log"

	"github.com/aura-plataforma/chatbot-service/backend/internal/assessment"
	"github.com/aura-plataforma/chatbot-service/backend/internal/classifier"
	"github.com/aura-plataforma/chatbot-service/backend/internal/metrics"
	"github.com/aura-plataforma/chatbot-service/backend/internal/provider"
)

// Response is the terminal artifact of one routed message.
type Response struct {
	Message                 string                `json:"message"`
	IntentDetected          classifier.Intent     `json:"intent_detected"`
	RiskLevel               assessment.RiskLevel  `json:"risk_level"`
	RequiresFollowUp        bool                  `json:"requires_follow_up"`
	CrisisResourcesIncluded bool                  `json:"crisis_resources_included"`
}

// Responder decides how a built UserContext is answered: crisis messages
// short-circuit to the fixed safety template, everything else goes to the
// generator, and generation failures degrade to the hotline-bearing
// fallback. No path returns an error to the caller.
type Responder struct {
	router  *provider.Router
	breaker *provider.CircuitBreaker
	logger  *log.Logger
}

// New creates a responder over the configured providers.
func New(router *provider.Router, breaker *provider.CircuitBreaker, logger *log.Logger) *Responder {
	return &Responder{
		router:  router,
		breaker: breaker,
		logger:  logger,
	}
}

// Respond routes one assessed message to its final answer.
func (r *Responder) Respond(ctx context.Context, uc *assessment.UserContext) Response {
	if uc.RequiresCrisisResponse() {
		metrics.CrisisResponses.Inc()
		return Response{
			Message:                 CrisisResponseTemplate,
			IntentDetected:          uc.Intent.Intent,
			RiskLevel:               assessment.RiskCrisis,
			RequiresFollowUp:        true,
			CrisisResourcesIncluded: true,
		}
	}

	text, err := r.generate(ctx, uc)
	if err != nil {
		r.logError("generation failed for %.8s, serving fallback: %v", uc.UserID, err)
		metrics.FallbackResponses.Inc()
		return Response{
			Message:                 FallbackMessage,
			IntentDetected:          uc.Intent.Intent,
			RiskLevel:               uc.OverallRiskLevel(),
			RequiresFollowUp:        true,
			CrisisResourcesIncluded: true,
		}
	}

	riskLevel := uc.OverallRiskLevel()
	requiresFollowUp := riskLevel == assessment.RiskHigh ||
		riskLevel == assessment.RiskModerate ||
		uc.Sentiment.IsNegative()

	return Response{
		Message:                 text,
		IntentDetected:          uc.Intent.Intent,
		RiskLevel:               riskLevel,
		RequiresFollowUp:        requiresFollowUp,
		CrisisResourcesIncluded: false,
	}
}

func (r *Responder) generate(ctx context.Context, uc *assessment.UserContext) (string, error) {
	p, err := r.router.Route()
	if err != nil {
		return "", err
	}

	systemPrompt := fmt.Sprintf(systemPromptTemplate, uc.PromptContext())

	return r.breaker.Execute(func() (string, error) {
		return p.Generate(ctx, systemPrompt, uc.Prompt)
	})
}

func (r *Responder) logError(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Printf("[ERROR] "+format, args...)
	}
}
