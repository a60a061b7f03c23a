package audit

import (
	"encoding/json"
	"log"
	"os"
	"sync"
	"time"
)

// Routing decisions recorded per message.
const (
	DecisionCrisis    = "crisis_short_circuit"
	DecisionGenerated = "generated"
	DecisionFallback  = "fallback"
)

// Entry represents a structured audit log entry for one assessed message.
// Message text itself is never written to the audit trail.
type Entry struct {
	Timestamp       time.Time     `json:"timestamp"`
	RequestID       string        `json:"request_id"`
	UserID          string        `json:"user_id"`
	SessionID       string        `json:"session_id,omitempty"`
	Intent          string        `json:"intent"`
	Confidence      float64       `json:"confidence"`
	SentimentLabel  string        `json:"sentiment_label"`
	NegativityScore float64       `json:"negativity_score"`
	HistoricalRisk  string        `json:"historical_risk"`
	RiskLevel       string        `json:"risk_level"`
	Decision        string        `json:"decision"`
	FollowUp        bool          `json:"requires_follow_up"`
	Latency         time.Duration `json:"latency_ns"`
}

// Logger handles structured audit logging
type Logger struct {
	mu       sync.Mutex
	file     *os.File
	encoder  *json.Encoder
	fallback *log.Logger
}

// NewLogger creates a new audit logger
// If filePath is empty, logs to stdout in JSON format
func NewLogger(filePath string) (*Logger, error) {
	var file *os.File
	var err error

	if filePath != "" {
		file, err = os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
	} else {
		file = os.Stdout
	}

	return &Logger{
		file:     file,
		encoder:  json.NewEncoder(file),
		fallback: log.New(os.Stderr, "[AUDIT] ", log.LstdFlags),
	}, nil
}

// Log writes an audit entry
func (l *Logger) Log(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	if err := l.encoder.Encode(entry); err != nil {
		l.fallback.Printf("Failed to write audit entry: %v, entry: %+v", err, entry)
	}
}

// Close closes the audit log file
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil && l.file != os.Stdout {
		return l.file.Close()
	}
	return nil
}
