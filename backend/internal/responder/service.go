package responder

import (
	"context"

	"github.com/aura-plataforma/chatbot-service/backend/internal/assessment"
	"github.com/aura-plataforma/chatbot-service/backend/internal/classifier"
)

// Service is the boundary surface of the routing engine: one operation that
// turns (user id, prompt) into a routed response, plus standalone
// classification for diagnostics.
type Service struct {
	builder    *assessment.Builder
	responder  *Responder
	classifier *classifier.Classifier
}

// NewService wires the assessment builder and responder into one entry point.
func NewService(builder *assessment.Builder, responder *Responder, c *classifier.Classifier) *Service {
	return &Service{
		builder:    builder,
		responder:  responder,
		classifier: c,
	}
}

// Route assesses one message and produces its final answer. It never
// returns an error: every dependency failure degrades to a safe response.
func (s *Service) Route(ctx context.Context, userID, prompt string) (Response, *assessment.UserContext) {
	uc := s.builder.Build(ctx, userID, prompt)
	return s.responder.Respond(ctx, uc), uc
}

// Classify exposes intent classification as a standalone query.
func (s *Service) Classify(text string) classifier.Classification {
	return s.classifier.Classify(text)
}
