package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all configuration for the interview gateway service
type Config struct {
	// Server configuration
	Port string `envconfig:"PORT" default:"8080"`

	// Directory where rendered report artifacts are written.
	// The HTTP handler serves it under /reports.
	ReportsDir string `envconfig:"REPORTS_DIR" default:"reports"`

	// Optional YAML file with additional skill alias patterns.
	// Merged over the built-in catalog at startup.
	SkillCatalogPath string `envconfig:"SKILL_CATALOG_PATH" default:""`

	// Deepgram STT API configuration
	DeepgramAPIKey string `envconfig:"DEEPGRAM_API_KEY" required:"true"`
	DeepgramModel  string `envconfig:"DEEPGRAM_MODEL" default:"nova-2"` // nova-2, enhanced, base

	// Default language hint for transcription; a session may override it
	// via the "start" and "lang" control events.
	DefaultLanguage string `envconfig:"DEFAULT_LANGUAGE" default:"ru"`

	// Audio session configuration
	DefaultSampleRate int     `envconfig:"DEFAULT_SAMPLE_RATE" default:"16000"` // Hz, PCM16 mono
	EndSilenceSec     float64 `envconfig:"END_SILENCE_SEC" default:"0.6"`       // Silence to declare end of utterance
	MaxUtteranceSec   float64 `envconfig:"MAX_UTTERANCE_SEC" default:"6.0"`     // Hard cap on one utterance's audio
	MinUtteranceSec   float64 `envconfig:"MIN_UTTERANCE_SEC" default:"0.35"`    // Shorter spans are discarded
	RMSThreshold      float64 `envconfig:"RMS_THRESHOLD" default:"0.01"`        // Voice energy threshold on [-1,1] samples
	EmitDebounceSec   float64 `envconfig:"EMIT_DEBOUNCE_SEC" default:"0.4"`     // Minimum spacing between final emissions

	// Resilience configuration for the transcription adapter
	CircuitBreakerMaxFailures  int `envconfig:"CIRCUIT_BREAKER_MAX_FAILURES" default:"5"`   // Failures before opening circuit
	CircuitBreakerResetTimeout int `envconfig:"CIRCUIT_BREAKER_RESET_TIMEOUT" default:"30"` // Seconds before attempting recovery
	RetryMaxAttempts           int `envconfig:"RETRY_MAX_ATTEMPTS" default:"3"`             // Maximum retry attempts
	RetryInitialBackoff        int `envconfig:"RETRY_INITIAL_BACKOFF" default:"100"`        // Initial backoff in milliseconds

	// Observability configuration
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`       // Log level: debug, info, warn, error
	LogPretty      bool   `envconfig:"LOG_PRETTY" default:"false"`     // Pretty print logs (for development)
	MetricsEnabled bool   `envconfig:"METRICS_ENABLED" default:"true"` // Enable Prometheus metrics
}

// Load reads configuration from environment variables.
// It first attempts to load from .env file if it exists, then from environment.
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

	if cfg.DeepgramAPIKey == "" {
		return nil, fmt.Errorf("DEEPGRAM_API_KEY is required")
	}
	if cfg.DefaultSampleRate <= 0 {
		return nil, fmt.Errorf("DEFAULT_SAMPLE_RATE must be positive, got %d", cfg.DefaultSampleRate)
	}
	if cfg.MinUtteranceSec > cfg.MaxUtteranceSec {
		return nil, fmt.Errorf("MIN_UTTERANCE_SEC (%v) must not exceed MAX_UTTERANCE_SEC (%v)",
			cfg.MinUtteranceSec, cfg.MaxUtteranceSec)
	}

	return &cfg, nil
}
