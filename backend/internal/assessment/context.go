package assessment

import (
	"fmt"
	"strings"
	"time"

	"github.com/aura-plataforma/chatbot-service/backend/internal/classifier"
	"github.com/aura-plataforma/chatbot-service/backend/internal/clustering"
	"github.com/aura-plataforma/chatbot-service/backend/internal/sentiment"
)

// RiskLevel is the per-message combination of current signals and the
// historical risk profile.
type RiskLevel string

const (
	RiskCrisis   RiskLevel = "CRISIS"
	RiskHigh     RiskLevel = "ALTO"
	RiskModerate RiskLevel = "MODERADO"
	RiskMild     RiskLevel = "LEVE"
	RiskNormal   RiskLevel = "NORMAL"
)

// UserContext aggregates everything known about one message: the current
// sentiment and intent signals plus the historical risk snapshot. Exactly
// one of each per request; immutable once built, so the derived properties
// below are pure functions of its fields.
type UserContext struct {
	UserID    string
	Prompt    string
	Sentiment sentiment.Assessment
	Intent    classifier.Classification
	Profile   clustering.Profile
	Timestamp time.Time
}

// RequiresCrisisResponse reports whether the message must be routed to the
// fixed crisis template. Either the rule-based classifier or the statistical
// sentiment signal alone is sufficient: the OR is a deliberate high-recall
// safety bias, not an accident.
func (u *UserContext) RequiresCrisisResponse() bool {
	return u.Intent.IsUrgent() || u.Sentiment.IsCrisisRisk()
}

// OverallRiskLevel combines the current message with the historical profile.
// Evaluated as an ordered cascade; current-message crisis signals always
// dominate, and historical high risk plus current negativity escalates above
// historical risk alone.
func (u *UserContext) OverallRiskLevel() RiskLevel {
	switch {
	case u.RequiresCrisisResponse():
		return RiskCrisis
	case u.Profile.IsHighRisk() && u.Sentiment.IsNegative():
		return RiskHigh
	case u.Profile.IsHighRisk() || u.Profile.IsModerateRisk():
		return RiskModerate
	case u.Sentiment.IsNegative():
		return RiskMild
	default:
		return RiskNormal
	}
}

// PromptContext renders the deterministic context block injected into the
// generator's system prompt. The block is opaque to the generator; only its
// meaning matters, not its exact wording.
func (u *UserContext) PromptContext() string {
	lines := []string{
		"=== CONTEXTO DEL USUARIO ===",
		"",
		fmt.Sprintf("ID de Usuario: %s...", truncateID(u.UserID)),
		"",
		"--- Análisis del Mensaje Actual ---",
		u.Sentiment.ContextLine(),
		fmt.Sprintf("Intención detectada: %s", u.Intent.Intent),
		"",
		"--- Perfil Histórico de Comportamiento ---",
		u.Profile.ContextLine(),
		"",
		"--- Evaluación General ---",
		fmt.Sprintf("Nivel de riesgo combinado: %s", u.OverallRiskLevel()),
	}

	if u.RequiresCrisisResponse() {
		lines = append(lines,
			"",
			"ALERTA: Se ha detectado una posible situación de crisis.",
			"La respuesta debe incluir recursos de ayuda profesional.",
		)
	}

	return strings.Join(lines, "\n")
}

func truncateID(id string) string {
	if runes := []rune(id); len(runes) > 8 {
		return string(runes[:8])
	}
	return id
}
