package assessment

import (
	"strings"
	"testing"
	"time"

	"github.com/aura-plataforma/chatbot-service/backend/internal/classifier"
	"github.com/aura-plataforma/chatbot-service/backend/internal/clustering"
	"github.com/aura-plataforma/chatbot-service/backend/internal/sentiment"
)

func crisisIntent() classifier.Classification {
	return classifier.Classification{
		Intent:                    classifier.IntentCrisis,
		Confidence:                0.8,
		RequiresHumanIntervention: true,
	}
}

func calmIntent() classifier.Classification {
	return classifier.Classification{Intent: classifier.IntentGeneral, Confidence: 0.5}
}

func crisisSentiment() sentiment.Assessment {
	return sentiment.Assessment{Label: sentiment.LabelNegative, NegativityScore: 0.9, EmotionalIntensity: 0.8}
}

func negativeSentiment() sentiment.Assessment {
	return sentiment.Assessment{Label: sentiment.LabelNegative, NegativityScore: 0.6, EmotionalIntensity: 0.4}
}

func neutralSentiment() sentiment.Assessment {
	return sentiment.Neutral()
}

func newContext(intent classifier.Classification, s sentiment.Assessment, p clustering.Profile) *UserContext {
	return &UserContext{
		UserID:    "550e8400-e29b-41d4-a716-446655440000",
		Prompt:    "un mensaje",
		Sentiment: s,
		Intent:    intent,
		Profile:   p,
		Timestamp: time.Now().UTC(),
	}
}

func TestRequiresCrisisResponseORSemantics(t *testing.T) {
	profile := clustering.DefaultProfile("u")

	tests := []struct {
		name      string
		intent    classifier.Classification
		sentiment sentiment.Assessment
		want      bool
	}{
		{"neither signal", calmIntent(), neutralSentiment(), false},
		{"classifier only", crisisIntent(), neutralSentiment(), true},
		{"sentiment only", calmIntent(), crisisSentiment(), true},
		{"both signals", crisisIntent(), crisisSentiment(), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newContext(tt.intent, tt.sentiment, profile)
			if got := uc.RequiresCrisisResponse(); got != tt.want {
				t.Errorf("RequiresCrisisResponse() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOverallRiskLevelCascade(t *testing.T) {
	highRisk := clustering.Profile{RiskLevel: clustering.RiskLevelHigh, SeverityIndex: 80}
	moderateRisk := clustering.Profile{RiskLevel: clustering.RiskLevelModerate, SeverityIndex: 50}
	lowRisk := clustering.Profile{RiskLevel: clustering.RiskLevelLow, SeverityIndex: 20}

	tests := []struct {
		name      string
		intent    classifier.Classification
		sentiment sentiment.Assessment
		profile   clustering.Profile
		want      RiskLevel
	}{
		{"crisis dominates everything", crisisIntent(), neutralSentiment(), lowRisk, RiskCrisis},
		{"sentiment crisis dominates too", calmIntent(), crisisSentiment(), lowRisk, RiskCrisis},
		{"historical high plus negative", calmIntent(), negativeSentiment(), highRisk, RiskHigh},
		{"historical high alone", calmIntent(), neutralSentiment(), highRisk, RiskModerate},
		{"historical moderate", calmIntent(), negativeSentiment(), moderateRisk, RiskModerate},
		{"negative sentiment alone", calmIntent(), negativeSentiment(), lowRisk, RiskMild},
		{"no signals", calmIntent(), neutralSentiment(), lowRisk, RiskNormal},
		{"unknown profile no signals", calmIntent(), neutralSentiment(), clustering.DefaultProfile("u"), RiskNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newContext(tt.intent, tt.sentiment, tt.profile)
			if got := uc.OverallRiskLevel(); got != tt.want {
				t.Errorf("OverallRiskLevel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPromptContext(t *testing.T) {
	uc := newContext(calmIntent(), negativeSentiment(), clustering.Profile{
		RiskLevel:     clustering.RiskLevelHigh,
		SeverityIndex: 80,
	})

	block := uc.PromptContext()

	// User id appears truncated, never in full.
	if !strings.Contains(block, "550e8400...") {
		t.Errorf("context block missing truncated user id:\n%s", block)
	}
	if strings.Contains(block, uc.UserID) {
		t.Error("context block leaks the full user id")
	}

	for _, want := range []string{
		"Intención detectada: general",
		"alto riesgo psicoemocional",
		"Nivel de riesgo combinado: ALTO",
		"Tono emocional del mensaje",
	} {
		if !strings.Contains(block, want) {
			t.Errorf("context block missing %q:\n%s", want, block)
		}
	}

	if strings.Contains(block, "ALERTA") {
		t.Error("non-crisis context block contains the crisis alert line")
	}
}

func TestPromptContextCrisisAlert(t *testing.T) {
	uc := newContext(crisisIntent(), crisisSentiment(), clustering.DefaultProfile("u"))

	block := uc.PromptContext()
	if !strings.Contains(block, "ALERTA") {
		t.Errorf("crisis context block missing the alert line:\n%s", block)
	}
	if !strings.Contains(block, "Nivel de riesgo combinado: CRISIS") {
		t.Errorf("crisis context block missing the combined level:\n%s", block)
	}
}

func TestPromptContextShortUserID(t *testing.T) {
	uc := newContext(calmIntent(), neutralSentiment(), clustering.DefaultProfile("u"))
	uc.UserID = "abc"

	if !strings.Contains(uc.PromptContext(), "abc...") {
		t.Error("short user ids should pass through untruncated")
	}
}
