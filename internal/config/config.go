// Package config loads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full service configuration.
type Config struct {
	Service       ServiceConfig
	Telephony     TelephonyConfig
	STT           STTConfig
	Evaluator     EvaluatorConfig
	Transcribe    TranscribeConfig
	Session       SessionConfig
	Kafka         KafkaConfig
	Postgres      PostgresConfig
	Observability ObservabilityConfig
}

// ServiceConfig identifies the service and its listening port.
type ServiceConfig struct {
	Name          string
	Principal     string
	Environment   string
	HTTPPort      string
	PublicBaseURL string
}

// TelephonyConfig holds provider credentials and recording settings.
type TelephonyConfig struct {
	AccountSID         string
	AuthToken          string
	RecordTimeoutSec   int
	RecordMaxLengthSec int
	FinishKey          string
}

// STTConfig selects and tunes the speech-to-text backend.
type STTConfig struct {
	Provider     string
	SampleRateHz int
}

// EvaluatorConfig carries the fuzzy-matching thresholds.
type EvaluatorConfig struct {
	MaxKeywordHits     int
	MaxUtteranceWords  int
	ChoiceSimilarity   float64
	WordSimilarity     float64
	WordOverlap        float64
	FreeTextSimilarity float64
	KeywordShare       float64
	BlankSimilarity    float64
}

// TranscribeConfig bounds the transcription cascade.
type TranscribeConfig struct {
	PrimaryWait      time.Duration
	SecondaryTimeout time.Duration
	DownloadRetry    time.Duration
}

// SessionConfig controls session lifetime.
type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// KafkaConfig configures the results event publisher.
type KafkaConfig struct {
	Enabled      bool
	Brokers      []string
	TopicAnswer  string
	TopicSummary string
	Principal    string
}

// PostgresConfig configures lesson content and result persistence. An
// empty DSN runs the service on the static in-memory catalog.
type PostgresConfig struct {
	DSN string
}

// ObservabilityConfig configures logging and the metrics endpoint.
type ObservabilityConfig struct {
	LogLevel    string
	MetricsPort string
}

// Load reads configuration from the environment, falling back to
// defaults for anything unset or unparsable.
func Load() *Config {
	servicePrincipal := envOrDefault("SERVICE_PRINCIPAL", "svc-voice-tutor")

	return &Config{
		Service: ServiceConfig{
			Name:          envOrDefault("SERVICE_NAME", "voice-tutor-service"),
			Principal:     servicePrincipal,
			Environment:   envOrDefault("ENV", ""),
			HTTPPort:      envOrDefault("HTTP_PORT", "8080"),
			PublicBaseURL: envOrDefault("PUBLIC_BASE_URL", ""),
		},
		Telephony: TelephonyConfig{
			AccountSID:         envOrDefault("TELEPHONY_ACCOUNT_SID", ""),
			AuthToken:          envOrDefault("TELEPHONY_AUTH_TOKEN", ""),
			RecordTimeoutSec:   envOrDefaultInt("RECORD_TIMEOUT_SEC", 5),
			RecordMaxLengthSec: envOrDefaultInt("RECORD_MAX_LENGTH_SEC", 30),
			FinishKey:          envOrDefault("RECORD_FINISH_KEY", "#"),
		},
		STT: STTConfig{
			Provider:     envOrDefault("STT_PROVIDER", "mock"),
			SampleRateHz: envOrDefaultInt("STT_SAMPLE_RATE_HZ", 8000),
		},
		Evaluator: EvaluatorConfig{
			MaxKeywordHits:     envOrDefaultInt("EVAL_MAX_KEYWORD_HITS", 6),
			MaxUtteranceWords:  envOrDefaultInt("EVAL_MAX_UTTERANCE_WORDS", 20),
			ChoiceSimilarity:   envOrDefaultFloat("EVAL_CHOICE_SIMILARITY", 0.70),
			WordSimilarity:     envOrDefaultFloat("EVAL_WORD_SIMILARITY", 0.75),
			WordOverlap:        envOrDefaultFloat("EVAL_WORD_OVERLAP", 0.60),
			FreeTextSimilarity: envOrDefaultFloat("EVAL_FREETEXT_SIMILARITY", 0.60),
			KeywordShare:       envOrDefaultFloat("EVAL_KEYWORD_SHARE", 0.50),
			BlankSimilarity:    envOrDefaultFloat("EVAL_BLANK_SIMILARITY", 0.70),
		},
		Transcribe: TranscribeConfig{
			PrimaryWait:      envOrDefaultDuration("TRANSCRIBE_PRIMARY_WAIT", 2*time.Second),
			SecondaryTimeout: envOrDefaultDuration("TRANSCRIBE_SECONDARY_TIMEOUT", 12*time.Second),
			DownloadRetry:    envOrDefaultDuration("TRANSCRIBE_DOWNLOAD_RETRY", 2*time.Second),
		},
		Session: SessionConfig{
			TTL:           envOrDefaultDuration("SESSION_TTL", 30*time.Minute),
			SweepInterval: envOrDefaultDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		},
		Kafka: KafkaConfig{
			Enabled:      envOrDefaultBool("KAFKA_ENABLED", false),
			Brokers:      envOrDefaultList("KAFKA_BROKERS", nil),
			TopicAnswer:  envOrDefault("KAFKA_TOPIC_ANSWER", "tutor.results.answer"),
			TopicSummary: envOrDefault("KAFKA_TOPIC_SUMMARY", "tutor.results.summary"),
			Principal:    envOrDefault("KAFKA_PRINCIPAL", servicePrincipal),
		},
		Postgres: PostgresConfig{
			DSN: envOrDefault("POSTGRES_DSN", ""),
		},
		Observability: ObservabilityConfig{
			LogLevel:    envOrDefault("LOG_LEVEL", "info"),
			MetricsPort: envOrDefault("METRICS_PORT", "9090"),
		},
	}
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envOrDefaultFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(strings.ToLower(v)); err == nil {
			return b
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func envOrDefaultList(key string, def []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
