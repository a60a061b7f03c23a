package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Standard Prometheus collectors for the chatbot service
var (
	// aura_requests_total (counter): total chat messages received
	RequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aura_requests_total",
		Help: "Total number of chat messages received by the service",
	})

	// aura_intent_type{intent=crisis|support|information|greeting|general}
	IntentType = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_intent_type",
		Help: "Classification of user message intent",
	}, []string{"intent"})

	// aura_risk_level{level=CRISIS|ALTO|MODERADO|LEVE|NORMAL}
	RiskLevel = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "aura_risk_level",
		Help: "Overall risk level assessed per message",
	}, []string{"level"})

	// aura_crisis_responses_total: crisis short-circuits served
	CrisisResponses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aura_crisis_responses_total",
		Help: "Number of messages answered with the fixed crisis template",
	})

	// aura_fallback_responses_total: degraded-service fallbacks served
	FallbackResponses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aura_fallback_responses_total",
		Help: "Number of messages answered with the generation-failure fallback",
	})

	// aura_profile_fetch_failures_total: clustering lookups that degraded
	ProfileFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aura_profile_fetch_failures_total",
		Help: "Number of risk profile fetches that fell back to the default profile",
	})

	// aura_sentiment_fallbacks_total: sentiment scorings that degraded
	SentimentFallbacks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "aura_sentiment_fallbacks_total",
		Help: "Number of sentiment scorings that fell back to the neutral assessment",
	})

	// aura_latency_seconds (histogram): request duration
	LatencyHistogram = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "aura_latency_seconds",
		Help:    "Message processing latency in seconds",
		Buckets: prometheus.DefBuckets, // default buckets: .005, .01, .025... 10
	})
)

// RecordIntent increments the intent counter
func RecordIntent(intent string) {
	IntentType.WithLabelValues(intent).Inc()
}

// RecordRiskLevel increments the risk level counter
func RecordRiskLevel(level string) {
	RiskLevel.WithLabelValues(level).Inc()
}

// RecordProfileFetchFailure increments the degraded-profile counter
func RecordProfileFetchFailure() {
	ProfileFetchFailures.Inc()
}

// RecordSentimentFallback increments the degraded-sentiment counter
func RecordSentimentFallback() {
	SentimentFallbacks.Inc()
}
