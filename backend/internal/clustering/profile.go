package clustering

import (
	"fmt"
	"strings"
	"time"
)

// Historical risk levels as reported by the clustering service.
const (
	RiskLevelHigh     = "ALTO_RIESGO"
	RiskLevelModerate = "RIESGO_MODERADO"
	RiskLevelLow      = "BAJO_RIESGO"
	RiskLevelUnknown  = "DESCONOCIDO"
)

// Profile is the historical risk snapshot for one user. It is a read-only
// view for the duration of a request; this service never mutates it.
type Profile struct {
	UserID        string  `json:"user_id"`
	RiskLevel     string  `json:"risk_level"`
	SeverityIndex float64 `json:"severity_index"` // 0-100

	// Behavioral KPIs, normalized to 0-1.
	InactivityScore     float64 `json:"inactivity_score"`
	NightActivityScore  float64 `json:"night_activity_score"`
	NegativityScore     float64 `json:"negativity_score"`
	CommunityEngagement float64 `json:"community_engagement"`

	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// IsHighRisk reports whether the historical assessment is high risk.
func (p Profile) IsHighRisk() bool {
	return p.RiskLevel == RiskLevelHigh
}

// IsModerateRisk reports whether the historical assessment is moderate risk.
func (p Profile) IsModerateRisk() bool {
	return p.RiskLevel == RiskLevelModerate
}

// RiskFactors derives natural-language risk factors by thresholding each KPI.
func (p Profile) RiskFactors() []string {
	var factors []string

	if p.InactivityScore > 0.6 {
		factors = append(factors, "Inactividad prolongada en la plataforma")
	}
	if p.NightActivityScore > 0.5 {
		factors = append(factors, "Patrón de actividad nocturna elevado")
	}
	if p.NegativityScore > 0.5 {
		factors = append(factors, "Contenido con tono emocional negativo")
	}
	if p.CommunityEngagement < 0.3 {
		factors = append(factors, "Baja participación en comunidades")
	}

	return factors
}

// ContextLine renders the profile as one human-readable line for the
// generator context block.
func (p Profile) ContextLine() string {
	descriptions := map[string]string{
		RiskLevelHigh:     "alto riesgo psicoemocional",
		RiskLevelModerate: "riesgo moderado",
		RiskLevelLow:      "bajo riesgo",
	}
	desc, ok := descriptions[p.RiskLevel]
	if !ok {
		desc = "desconocido"
	}

	factorsText := "sin factores significativos"
	if factors := p.RiskFactors(); len(factors) > 0 {
		factorsText = strings.Join(factors, ", ")
	}

	return fmt.Sprintf("Perfil del usuario: %s (severidad: %.0f/100). Factores observados: %s.",
		desc, p.SeverityIndex, factorsText)
}

// DefaultProfile is the safe fallback when the clustering service is
// unavailable or has no data for the user.
func DefaultProfile(userID string) Profile {
	return Profile{
		UserID:              userID,
		RiskLevel:           RiskLevelUnknown,
		SeverityIndex:       0,
		InactivityScore:     0,
		NightActivityScore:  0,
		NegativityScore:     0,
		CommunityEngagement: 0.5,
	}
}
