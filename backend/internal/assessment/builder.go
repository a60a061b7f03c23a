package assessment

import (
	"context"
	"sync"
	"time"

	"github.com/aura-plataforma/chatbot-service/backend/internal/classifier"
	"github.com/aura-plataforma/chatbot-service/backend/internal/clustering"
	"github.com/aura-plataforma/chatbot-service/backend/internal/sentiment"
)

// Builder assembles the full per-message UserContext from the three signal
// sources. All handles are constructed once at startup and shared across
// requests; the builder itself holds no per-request state.
type Builder struct {
	classifier *classifier.Classifier
	sentiment  sentiment.Analyzer
	clustering clustering.Provider
}

// NewBuilder wires the builder to its signal sources.
func NewBuilder(c *classifier.Classifier, s sentiment.Analyzer, p clustering.Provider) *Builder {
	return &Builder{
		classifier: c,
		sentiment:  s,
		clustering: p,
	}
}

// Build gathers all signals for one message. Sentiment scoring and the
// profile fetch are independent network-bound calls and run concurrently;
// classification is pure and runs inline. Build never fails: every signal
// source is total and degrades to its safe default.
func (b *Builder) Build(ctx context.Context, userID, prompt string) *UserContext {
	var (
		wg         sync.WaitGroup
		assessment sentiment.Assessment
		profile    clustering.Profile
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		assessment = b.sentiment.Analyze(ctx, prompt)
	}()
	go func() {
		defer wg.Done()
		profile = b.clustering.FetchProfile(ctx, userID)
	}()

	intent := b.classifier.Classify(prompt)
	wg.Wait()

	return &UserContext{
		UserID:    userID,
		Prompt:    prompt,
		Sentiment: assessment,
		Intent:    intent,
		Profile:   profile,
		Timestamp: time.Now().UTC(),
	}
}
