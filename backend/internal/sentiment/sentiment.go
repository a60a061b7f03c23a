package sentiment

import (
	"context"
	"fmt"
)

// Label is the dominant emotional tone of a message.
type Label string

const (
	LabelPositive Label = "POS"
	LabelNegative Label = "NEG"
	LabelNeutral  Label = "NEU"
)

// Assessment holds the sentiment scores for one message. Created once per
// request and never mutated afterwards.
type Assessment struct {
	Label              Label   `json:"sentiment_label"`
	NegativityScore    float64 `json:"negativity_score"`
	PositivityScore    float64 `json:"positivity_score"`
	EmotionalIntensity float64 `json:"emotional_intensity"`
}

// IsNegative reports whether the message tone is predominantly negative.
func (a Assessment) IsNegative() bool {
	return a.NegativityScore > 0.5
}

// IsCrisisRisk reports whether the scores alone suggest a possible crisis
// situation: strongly negative and emotionally intense.
func (a Assessment) IsCrisisRisk() bool {
	return a.NegativityScore > 0.7 && a.EmotionalIntensity > 0.6
}

// Neutral is the degraded-input and transport-failure default.
func Neutral() Assessment {
	return Assessment{Label: LabelNeutral}
}

// ContextLine renders the assessment as one human-readable line for the
// generator context block.
func (a Assessment) ContextLine() string {
	intensity := "baja"
	switch {
	case a.EmotionalIntensity > 0.6:
		intensity = "alta"
	case a.EmotionalIntensity > 0.3:
		intensity = "moderada"
	}

	tone := "neutro"
	switch {
	case a.IsNegative():
		tone = "negativo"
	case a.PositivityScore > 0.5:
		tone = "positivo"
	}

	return fmt.Sprintf("Tono emocional del mensaje: %s (intensidad %s, negatividad: %.0f%%)",
		tone, intensity, a.NegativityScore*100)
}

// Analyzer scores the emotional tone of a message. Implementations must be
// total: degenerate input and transport failures yield the neutral
// assessment, never an error.
type Analyzer interface {
	Analyze(ctx context.Context, text string) Assessment
}
