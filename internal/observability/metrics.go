package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Completion metrics
	completionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_gateway_completion_requests_total",
		Help: "Total number of chat completion requests",
	}, []string{"status"})

	completionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chat_gateway_completion_latency_seconds",
		Help:    "Chat completion round-trip latency in seconds",
		Buckets: []float64{0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
	})

	// TTS metrics
	ttsRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_gateway_tts_requests_total",
		Help: "Total number of remote TTS synthesis requests",
	}, []string{"status"})

	ttsLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chat_gateway_tts_latency_seconds",
		Help:    "Remote TTS synthesis latency in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
	})

	fallbackSyntheses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_gateway_fallback_syntheses_total",
		Help: "Total number of local speech-synthesis fallbacks",
	}, []string{"status"})

	// Speech recognition metrics
	recognitionRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_gateway_recognition_requests_total",
		Help: "Total number of speech recognition requests",
	}, []string{"status"})

	recognitionLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "chat_gateway_recognition_latency_seconds",
		Help:    "Speech recognition latency in seconds",
		Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
	})

	// Conversation metrics
	conversationMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_gateway_conversation_messages_total",
		Help: "Total number of messages appended to the conversation",
	}, []string{"role"})

	// Event stream metrics
	eventClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chat_gateway_event_clients",
		Help: "Number of connected event-stream clients",
	})

	// Error metrics
	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chat_gateway_errors_total",
		Help: "Total number of errors",
	}, []string{"type", "component"})
)

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// RecordCompletion records one completion round trip
func RecordCompletion(success bool, elapsed time.Duration) {
	completionRequests.WithLabelValues(statusLabel(success)).Inc()
	completionLatency.Observe(elapsed.Seconds())
}

// RecordTTS records one remote synthesis attempt
func RecordTTS(success bool, elapsed time.Duration) {
	ttsRequests.WithLabelValues(statusLabel(success)).Inc()
	ttsLatency.Observe(elapsed.Seconds())
}

// RecordFallbackSynthesis records one local synthesis fallback
func RecordFallbackSynthesis(success bool) {
	fallbackSyntheses.WithLabelValues(statusLabel(success)).Inc()
}

// RecordRecognition records one speech recognition attempt
func RecordRecognition(success bool, elapsed time.Duration) {
	recognitionRequests.WithLabelValues(statusLabel(success)).Inc()
	recognitionLatency.Observe(elapsed.Seconds())
}

// RecordMessage records a message appended to the conversation store
func RecordMessage(role string) {
	conversationMessages.WithLabelValues(role).Inc()
}

// EventClientConnected tracks a new event-stream subscriber
func EventClientConnected() {
	eventClients.Inc()
}

// EventClientDisconnected tracks a departed event-stream subscriber
func EventClientDisconnected() {
	eventClients.Dec()
}

// RecordError records an error
func RecordError(errorType, component string) {
	errorsTotal.WithLabelValues(errorType, component).Inc()
}
