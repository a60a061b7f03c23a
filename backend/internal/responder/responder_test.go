package responder

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aura-plataforma/chatbot-service/backend/internal/assessment"
	"github.com/aura-plataforma/chatbot-service/backend/internal/classifier"
	"github.com/aura-plataforma/chatbot-service/backend/internal/clustering"
	"github.com/aura-plataforma/chatbot-service/backend/internal/provider"
	"github.com/aura-plataforma/chatbot-service/backend/internal/sentiment"
)

type fakeProvider struct {
	reply string
	err   error
	calls atomic.Int32

	lastSystemPrompt string
	lastUserPrompt   string
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	f.calls.Add(1)
	f.lastSystemPrompt = systemPrompt
	f.lastUserPrompt = userPrompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func newTestResponder(p provider.Provider) *Responder {
	router := provider.NewRouter()
	router.RegisterProvider("fake", p)
	router.SetFallback("fake")
	breaker := provider.NewCircuitBreaker(provider.CircuitBreakerConfig{Enabled: true})
	return New(router, breaker, nil)
}

func contextWith(intent classifier.Classification, s sentiment.Assessment, p clustering.Profile) *assessment.UserContext {
	return &assessment.UserContext{
		UserID:    "user-1",
		Prompt:    "un mensaje",
		Sentiment: s,
		Intent:    intent,
		Profile:   p,
		Timestamp: time.Now().UTC(),
	}
}

func calmContext() *assessment.UserContext {
	return contextWith(
		classifier.Classification{Intent: classifier.IntentGeneral, Confidence: 0.5},
		sentiment.Neutral(),
		clustering.DefaultProfile("user-1"),
	)
}

func TestRespondCrisisShortCircuit(t *testing.T) {
	fake := &fakeProvider{reply: "no debería llegar aquí"}
	r := newTestResponder(fake)

	uc := contextWith(
		classifier.Classification{Intent: classifier.IntentCrisis, Confidence: 0.8, RequiresHumanIntervention: true},
		sentiment.Neutral(),
		clustering.DefaultProfile("user-1"),
	)

	resp := r.Respond(context.Background(), uc)

	if resp.Message != CrisisResponseTemplate {
		t.Errorf("crisis message is not the fixed template:\n%s", resp.Message)
	}
	if resp.RiskLevel != assessment.RiskCrisis {
		t.Errorf("RiskLevel = %q, want %q", resp.RiskLevel, assessment.RiskCrisis)
	}
	if !resp.RequiresFollowUp || !resp.CrisisResourcesIncluded {
		t.Errorf("crisis response flags = %+v", resp)
	}
	if fake.calls.Load() != 0 {
		t.Error("crisis path must never reach the generator")
	}
}

func TestRespondGenerated(t *testing.T) {
	fake := &fakeProvider{reply: "Entiendo cómo te sientes."}
	r := newTestResponder(fake)

	resp := r.Respond(context.Background(), calmContext())

	if resp.Message != "Entiendo cómo te sientes." {
		t.Errorf("Message = %q", resp.Message)
	}
	if resp.RiskLevel != assessment.RiskNormal {
		t.Errorf("RiskLevel = %q, want %q", resp.RiskLevel, assessment.RiskNormal)
	}
	if resp.RequiresFollowUp || resp.CrisisResourcesIncluded {
		t.Errorf("calm response flags = %+v", resp)
	}

	// The generator sees the composed context block and the raw prompt.
	if !strings.Contains(fake.lastSystemPrompt, "=== CONTEXTO DEL USUARIO ===") {
		t.Error("system prompt missing the user context block")
	}
	if fake.lastUserPrompt != "un mensaje" {
		t.Errorf("user prompt = %q", fake.lastUserPrompt)
	}
}

func TestRespondFollowUpOnElevatedRisk(t *testing.T) {
	tests := []struct {
		name      string
		sentiment sentiment.Assessment
		profile   clustering.Profile
		want      bool
	}{
		{"normal", sentiment.Neutral(), clustering.DefaultProfile("u"), false},
		{
			"negative sentiment",
			sentiment.Assessment{Label: sentiment.LabelNegative, NegativityScore: 0.6},
			clustering.DefaultProfile("u"),
			true,
		},
		{
			"moderate history",
			sentiment.Neutral(),
			clustering.Profile{RiskLevel: clustering.RiskLevelModerate},
			true,
		},
		{
			"high history",
			sentiment.Assessment{Label: sentiment.LabelNegative, NegativityScore: 0.6},
			clustering.Profile{RiskLevel: clustering.RiskLevelHigh},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResponder(&fakeProvider{reply: "ok"})
			uc := contextWith(
				classifier.Classification{Intent: classifier.IntentGeneral, Confidence: 0.5},
				tt.sentiment,
				tt.profile,
			)

			if resp := r.Respond(context.Background(), uc); resp.RequiresFollowUp != tt.want {
				t.Errorf("RequiresFollowUp = %v, want %v", resp.RequiresFollowUp, tt.want)
			}
		})
	}
}

func TestRespondFallbackOnGenerationFailure(t *testing.T) {
	fake := &fakeProvider{err: errors.New("provider down")}
	r := newTestResponder(fake)

	resp := r.Respond(context.Background(), calmContext())

	if resp.Message != FallbackMessage {
		t.Errorf("Message = %q, want the fallback", resp.Message)
	}
	// The fallback always carries the primary hotline.
	if !strings.Contains(resp.Message, "800-911-2000") {
		t.Error("fallback message missing the hotline number")
	}
	if !resp.RequiresFollowUp || !resp.CrisisResourcesIncluded {
		t.Errorf("fallback response flags = %+v", resp)
	}
}

func TestRespondFallbackWithoutProviders(t *testing.T) {
	r := New(provider.NewRouter(), provider.NewCircuitBreaker(provider.CircuitBreakerConfig{}), nil)

	resp := r.Respond(context.Background(), calmContext())
	if resp.Message != FallbackMessage {
		t.Errorf("Message = %q, want the fallback", resp.Message)
	}
}

func TestRespondFallbackWhenCircuitOpens(t *testing.T) {
	fake := &fakeProvider{err: errors.New("provider down")}
	router := provider.NewRouter()
	router.RegisterProvider("fake", fake)
	router.SetFallback("fake")
	breaker := provider.NewCircuitBreaker(provider.CircuitBreakerConfig{
		Enabled:          true,
		FailureThreshold: 2,
		Timeout:          time.Minute,
	})
	r := New(router, breaker, nil)

	for i := 0; i < 3; i++ {
		if resp := r.Respond(context.Background(), calmContext()); resp.Message != FallbackMessage {
			t.Fatalf("request %d: Message = %q, want the fallback", i, resp.Message)
		}
	}

	// Two failures trip the breaker; the third request never reaches the provider.
	if fake.calls.Load() != 2 {
		t.Errorf("provider called %d times, want 2 before the circuit opened", fake.calls.Load())
	}
}

func TestGreeting(t *testing.T) {
	if got := Greeting("Ana"); !strings.Contains(got, ", Ana") {
		t.Errorf("Greeting(Ana) = %q, name not injected", got)
	}
	if got := Greeting(""); strings.Contains(got, ", ") {
		t.Errorf("Greeting(\"\") = %q, unexpected name separator", got)
	}
}
