package sentiment

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aura-plataforma/chatbot-service/backend/internal/metrics"
)

const defaultMaxTextLength = 512

// Client calls the sentiment sidecar for statistical tone scoring. The
// sidecar wraps a Spanish RoBERTa sentiment model; this client treats it as
// an opaque capability and degrades to the neutral assessment whenever the
// sidecar is unreachable or answers garbage.
type Client struct {
	endpoint  string
	client    *http.Client
	maxLength int
	logger    *log.Logger

	// Scores are deterministic per text, so identical messages share one
	// sidecar round trip.
	cache      map[string]Assessment
	cacheLock  sync.RWMutex
	maxEntries int
}

// NewClient creates a sentiment sidecar client.
func NewClient(endpoint string, timeout time.Duration, maxLength int, logger *log.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if maxLength <= 0 {
		maxLength = defaultMaxTextLength
	}
	return &Client{
		endpoint:   endpoint,
		client:     &http.Client{Timeout: timeout},
		maxLength:  maxLength,
		logger:     logger,
		cache:      make(map[string]Assessment),
		maxEntries: 1000,
	}
}

// scoreRequest matches the sidecar's expected input.
type scoreRequest struct {
	Text string `json:"text"`
}

// scoreResponse matches the sidecar's output schema.
type scoreResponse struct {
	Label      string  `json:"label"`
	Negativity float64 `json:"negativity"`
	Positivity float64 `json:"positivity"`
	Intensity  float64 `json:"intensity"`
}

// Analyze scores the emotional tone of text. It is total: any failure is
// logged and converted into the neutral assessment.
func (c *Client) Analyze(ctx context.Context, text string) Assessment {
	trimmed := strings.TrimSpace(text)
	if len([]rune(trimmed)) < 2 {
		return Neutral()
	}

	// Truncate before scoring; the model rejects long inputs.
	if runes := []rune(trimmed); len(runes) > c.maxLength {
		trimmed = string(runes[:c.maxLength])
	}

	key := computeHash(trimmed)
	c.cacheLock.RLock()
	if cached, ok := c.cache[key]; ok {
		c.cacheLock.RUnlock()
		return cached
	}
	c.cacheLock.RUnlock()

	assessment, err := c.score(ctx, trimmed)
	if err != nil {
		c.logError("sentiment scoring failed, using neutral assessment: %v", err)
		metrics.RecordSentimentFallback()
		return Neutral()
	}

	c.cacheLock.Lock()
	if len(c.cache) >= c.maxEntries {
		// Rudimentary eviction: clear map if full
		c.cache = make(map[string]Assessment)
	}
	c.cache[key] = assessment
	c.cacheLock.Unlock()

	return assessment
}

func (c *Client) score(ctx context.Context, text string) (Assessment, error) {
	body, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return Assessment{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/sentiment", bytes.NewBuffer(body))
	if err != nil {
		return Assessment{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return Assessment{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Assessment{}, &statusError{code: resp.StatusCode}
	}

	var scored scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&scored); err != nil {
		return Assessment{}, err
	}

	return Assessment{
		Label:              normalizeLabel(scored.Label, scored.Negativity, scored.Positivity),
		NegativityScore:    clamp01(scored.Negativity),
		PositivityScore:    clamp01(scored.Positivity),
		EmotionalIntensity: clamp01(scored.Intensity),
	}, nil
}

// Health checks if the sidecar is available.
func (c *Client) Health(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// normalizeLabel maps whatever label variant the model emits onto the POS /
// NEG / NEU taxonomy, falling back to the dominant score.
func normalizeLabel(label string, negativity, positivity float64) Label {
	switch strings.ToUpper(strings.TrimSpace(label)) {
	case "POS", "POSITIVE", "LABEL_2":
		return LabelPositive
	case "NEG", "NEGATIVE", "LABEL_0":
		return LabelNegative
	case "NEU", "NEUTRAL", "LABEL_1":
		return LabelNeutral
	}

	switch {
	case negativity > 0.5 && negativity >= positivity:
		return LabelNegative
	case positivity > 0.5:
		return LabelPositive
	default:
		return LabelNeutral
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func computeHash(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

func (c *Client) logError(format string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Printf("[ERROR] "+format, args...)
	}
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("sentiment sidecar returned status %d", e.code)
}
