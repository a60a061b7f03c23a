package classifier

import (
	"math"
	"strings"
)

// Intent is the coarse purpose of a user message.
type Intent string

const (
	IntentCrisis      Intent = "crisis"      // requires urgent human intervention
	IntentSupport     Intent = "support"     // seeking emotional support
	IntentInformation Intent = "information" // seeking information
	IntentGreeting    Intent = "greeting"    // short salutation
	IntentGeneral     Intent = "general"     // general conversation
)

// Classification is the result of classifying one message.
type Classification struct {
	Intent                    Intent   `json:"intent"`
	Confidence                float64  `json:"confidence"`
	MatchedPatterns           []string `json:"matched_patterns"`
	RequiresHumanIntervention bool     `json:"requires_human_intervention"`
}

// IsUrgent reports whether the message demands immediate escalation.
func (c Classification) IsUrgent() bool {
	return c.Intent == IntentCrisis
}

// Classifier maps raw message text to an intent via an ordered pattern
// cascade. Crisis patterns are always evaluated first and override every
// other tier; the tier order is the load-bearing part of the design, the
// phrase lists are swappable (see LoadPatternFile).
type Classifier struct {
	table *PatternTable
}

// New creates a classifier with the built-in Spanish pattern table.
func New() *Classifier {
	return NewWithTable(DefaultPatternTable())
}

// NewWithTable creates a classifier over a custom pattern table.
func NewWithTable(table *PatternTable) *Classifier {
	return &Classifier{table: table}
}

// Classify determines the intent of a user message. It is total: degenerate
// input yields the general intent rather than an error.
func (c *Classifier) Classify(text string) Classification {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < 2 {
		return Classification{Intent: IntentGeneral, Confidence: 0.5}
	}

	normalized := Normalize(trimmed)

	// 1. Crisis: maximum priority, overrides everything else.
	if count, matched := matchPatterns(c.table.Crisis, normalized); count > 0 {
		return Classification{
			Intent:                    IntentCrisis,
			Confidence:                math.Min(0.7+0.1*float64(count), 1.0),
			MatchedPatterns:           matched,
			RequiresHumanIntervention: true,
		}
	}

	// 2. Greeting, gated on length so that longer messages that merely open
	// with a salutation fall through to the support/information tiers.
	if count, matched := matchPatterns(c.table.Greeting, normalized); count > 0 && len(strings.Fields(normalized)) <= 5 {
		return Classification{
			Intent:          IntentGreeting,
			Confidence:      0.9,
			MatchedPatterns: matched,
		}
	}

	// 3. Emotional support vocabulary.
	if count, matched := matchPatterns(c.table.Support, normalized); count >= 1 {
		return Classification{
			Intent:          IntentSupport,
			Confidence:      math.Min(0.6+0.1*float64(count), 0.95),
			MatchedPatterns: matched,
		}
	}

	// 4. Information seeking.
	if count, matched := matchPatterns(c.table.Information, normalized); count > 0 {
		return Classification{
			Intent:          IntentInformation,
			Confidence:      0.7,
			MatchedPatterns: matched,
		}
	}

	// 5. Default: general conversation.
	return Classification{Intent: IntentGeneral, Confidence: 0.5}
}
