package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the chat gateway service
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`

	// Public base URL for this service (e.g. https://xxx.ngrok-free.dev when behind a tunnel).
	// Used only for logging the page URL at startup.
	BaseURL string `envconfig:"BASE_URL" default:""`

	// Chat completion vendor (OpenAI-compatible API)
	OpenAIAPIKey  string `envconfig:"OPENAI_API_KEY" required:"true"`
	OpenAIBaseURL string `envconfig:"OPENAI_BASE_URL" default:"https://api.openai.com/v1"`
	OpenAIModel   string `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`

	// System prompt seeded as the first conversation message
	SystemPrompt string `envconfig:"SYSTEM_PROMPT" default:"You are a warm, empathetic companion. Listen carefully, respond with kindness, and keep your replies short enough to be spoken aloud."`

	// ElevenLabs TTS API configuration (server-side only credential)
	ElevenLabsAPIKey  string  `envconfig:"ELEVENLABS_API_KEY" required:"true"`
	ElevenLabsVoiceID string  `envconfig:"ELEVENLABS_VOICE_ID" default:"21m00Tcm4TlvDq8ikWAM"` // Rachel
	ElevenLabsModelID string  `envconfig:"ELEVENLABS_MODEL_ID" default:"eleven_monolingual_v1"`
	TTSStability      float64 `envconfig:"TTS_STABILITY" default:"0.5"`
	TTSSimilarity     float64 `envconfig:"TTS_SIMILARITY_BOOST" default:"0.75"`

	// Deepgram STT configuration. The API key is optional: when it is empty
	// the voice-input control is rendered but inert.
	DeepgramAPIKey   string `envconfig:"DEEPGRAM_API_KEY" default:""`
	DeepgramModel    string `envconfig:"DEEPGRAM_MODEL" default:"nova-2"`
	DeepgramLanguage string `envconfig:"DEEPGRAM_LANGUAGE" default:"en"`

	// Local speech-synthesis fallback configuration
	SpeechRate      float64 `envconfig:"SPEECH_RATE" default:"0.95"`
	SpeechPitch     float64 `envconfig:"SPEECH_PITCH" default:"1.0"`
	DefaultLocale   string  `envconfig:"DEFAULT_LOCALE" default:"en-US"`
	PreferredVoices string  `envconfig:"PREFERRED_VOICES" default:"Samantha,Karen,Moira,Tessa,Victoria"`

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`       // Log level: debug, info, warn, error
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`     // Pretty print logs (for development)
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"` // Enable Prometheus metrics
}

// Load reads configuration from environment variables
// It first attempts to load from .env file if it exists, then from environment
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	return LoadFromEnv()
}

// LoadFromEnv loads configuration directly from environment variables
// without attempting to load .env file (useful for containerized deployments)
func LoadFromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Validate required credentials
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.ElevenLabsAPIKey == "" {
		return nil, fmt.Errorf("ELEVENLABS_API_KEY is required")
	}

	return &cfg, nil
}

// SpeechAvailable reports whether server-side speech recognition is configured.
func (c *Config) SpeechAvailable() bool {
	return c.DeepgramAPIKey != ""
}

// PreferredVoiceNames returns the ordered list of preferred fallback voice names.
func (c *Config) PreferredVoiceNames() []string {
	var names []string
	for _, n := range strings.Split(c.PreferredVoices, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}

// GetEnv returns the value of an environment variable or a default value
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
