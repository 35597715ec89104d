// Package config provides application configuration with multi-source
// priority.
//
// Sources (highest to lowest):
//  1. Environment variables (WIKIGPT_* overrides, GEMINI_API_KEY)
//  2. Config file (~/.wikigpt/config.yaml, or ./config.yaml)
//  3. Default values
//
// Categories:
//   - AI: generation model, embedder model and dimension
//   - Retrieval: re-ranking boosts, top-K, over-fetch (see retrieval.go)
//   - Wiki: MediaWiki API endpoint and crawl limits
//   - Server: rate limiting, CORS, proxy trust
//   - Discord / Tracing: optional outer surfaces
//
// Validation is fail-fast for structural settings (dimension, models, URLs).
// Retrieval tuning values degrade to defaults instead: a bad boost factor is
// a reason to warn, not to refuse to serve.
//
// Sensitive values (the Discord token) are masked in MarshalJSON/String.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Default model identifiers, matching the production deployment.
const (
	// DefaultGenerationModel is the Gemini model used for answer synthesis.
	DefaultGenerationModel = "gemini-2.5-flash-lite"

	// DefaultEmbedderModel is the Gemini embedding model. text-embedding-004
	// outputs 768 dimensions; see DefaultEmbedderDimension.
	DefaultEmbedderModel = "text-embedding-004"

	// DefaultEmbedderDimension is the fixed vector dimension of the index.
	DefaultEmbedderDimension = 768

	// DefaultMaxQuestionLen bounds inbound question length in runes.
	DefaultMaxQuestionLen = 2000
)

// Config stores application configuration.
type Config struct {
	// AI model configuration
	ModelName         string `mapstructure:"model_name" json:"model_name"`
	EmbedderModel     string `mapstructure:"embedder_model" json:"embedder_model"`
	EmbedderDimension int    `mapstructure:"embedder_dimension" json:"embedder_dimension"`

	// SnapshotPath is where the ingestion job writes, and the server reads,
	// the paired index + document store snapshot.
	SnapshotPath string `mapstructure:"snapshot_path" json:"snapshot_path"`

	// FAQPath is an optional JSON file of help/FAQ entries ingested as
	// helpqa chunks. Empty disables the FAQ source.
	FAQPath string `mapstructure:"faq_path" json:"faq_path"`

	// MaxQuestionLen bounds inbound question length in runes.
	MaxQuestionLen int `mapstructure:"max_question_len" json:"max_question_len"`

	// Retrieval is populated separately from the other fields: bad tuning
	// values fall back to defaults rather than failing startup.
	Retrieval Retrieval `mapstructure:"-" json:"retrieval"`

	Wiki    Wiki    `mapstructure:"wiki" json:"wiki"`
	Server  Server  `mapstructure:"server" json:"server"`
	Discord Discord `mapstructure:"discord" json:"discord"`
	Tracing Tracing `mapstructure:"tracing" json:"tracing"`
}

// Wiki holds the MediaWiki crawl source configuration.
type Wiki struct {
	// APIURL is the MediaWiki api.php endpoint.
	APIURL string `mapstructure:"api_url" json:"api_url"`
	// BatchSize is the page-title pagination size per API call.
	BatchSize int `mapstructure:"batch_size" json:"batch_size"`
	// Parallelism is max concurrent requests against the wiki host.
	Parallelism int `mapstructure:"parallelism" json:"parallelism"`
	// DelayMs is the delay between requests in milliseconds.
	DelayMs int `mapstructure:"delay_ms" json:"delay_ms"`
	// TimeoutMs is the per-request timeout in milliseconds.
	TimeoutMs int `mapstructure:"timeout_ms" json:"timeout_ms"`
}

// Server holds HTTP serving configuration.
type Server struct {
	// CORSOrigins lists origins allowed to call the API from a browser.
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	// TrustProxy enables X-Real-IP/X-Forwarded-For when behind a reverse proxy.
	TrustProxy bool `mapstructure:"trust_proxy" json:"trust_proxy"`
	// RateBurst is the per-IP token bucket size (0 = default 60).
	RateBurst int `mapstructure:"rate_burst" json:"rate_burst"`
}

// Discord holds the chat-bot configuration.
type Discord struct {
	// Token is the bot token. SENSITIVE: masked in MarshalJSON.
	Token string `mapstructure:"token" json:"token"`
	// APIBaseURL is the wikigpt HTTP API the bot forwards questions to.
	APIBaseURL string `mapstructure:"api_base_url" json:"api_base_url"`
}

// Tracing holds the optional OTLP trace export configuration.
type Tracing struct {
	// Endpoint is the OTLP/HTTP collector host:port. Empty disables tracing.
	Endpoint    string `mapstructure:"endpoint" json:"endpoint"`
	ServiceName string `mapstructure:"service_name" json:"service_name"`
	Environment string `mapstructure:"environment" json:"environment"`
}

// Load loads configuration with priority: env > config file > defaults.
func Load(logger *slog.Logger) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}
	configDir := filepath.Join(home, ".wikigpt")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		logger.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	cfg.Retrieval = loadRetrieval(logger)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}
	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("model_name", DefaultGenerationModel)
	viper.SetDefault("embedder_model", DefaultEmbedderModel)
	viper.SetDefault("embedder_dimension", DefaultEmbedderDimension)
	viper.SetDefault("snapshot_path", "embeddings/wiki.snapshot")
	viper.SetDefault("max_question_len", DefaultMaxQuestionLen)

	// Retrieval defaults (see retrieval.go for the fallback parsing)
	viper.SetDefault("retrieval.top_k", DefaultTopK)
	viper.SetDefault("retrieval.overfetch_multiplier", DefaultOverfetchMultiplier)
	viper.SetDefault("retrieval.faq_boost", DefaultFAQBoost)
	viper.SetDefault("retrieval.recency_half_life_days", DefaultRecencyHalfLifeDays)
	viper.SetDefault("retrieval.season_boost", DefaultSeasonBoost)

	// Wiki crawl defaults
	viper.SetDefault("wiki.api_url", "https://labs-mc.com/w/api.php")
	viper.SetDefault("wiki.batch_size", 10)
	viper.SetDefault("wiki.parallelism", 2)
	viper.SetDefault("wiki.delay_ms", 1000)
	viper.SetDefault("wiki.timeout_ms", 30000)

	// Server defaults
	viper.SetDefault("server.cors_origins", []string{})
	viper.SetDefault("server.trust_proxy", false)
	viper.SetDefault("server.rate_burst", 0)

	// Bot defaults
	viper.SetDefault("discord.api_base_url", "http://localhost:8080")

	// Tracing defaults (endpoint empty = disabled)
	viper.SetDefault("tracing.service_name", "wikigpt")
	viper.SetDefault("tracing.environment", "dev")
}

// bindEnvVariables binds environment overrides explicitly.
//
// GEMINI_API_KEY is read directly by the Genkit googlegenai plugin, not via
// viper; command entry points check its presence before touching the API.
func bindEnvVariables() {
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("model_name", "WIKIGPT_MODEL_NAME")
	mustBind("embedder_model", "WIKIGPT_EMBEDDER_MODEL")
	mustBind("snapshot_path", "WIKIGPT_SNAPSHOT_PATH")
	mustBind("faq_path", "WIKIGPT_FAQ_PATH")

	mustBind("retrieval.top_k", "WIKIGPT_TOP_K")
	mustBind("retrieval.overfetch_multiplier", "WIKIGPT_OVERFETCH_MULTIPLIER")
	mustBind("retrieval.faq_boost", "WIKIGPT_FAQ_BOOST")
	mustBind("retrieval.recency_half_life_days", "WIKIGPT_RECENCY_HALF_LIFE_DAYS")
	mustBind("retrieval.season_boost", "WIKIGPT_SEASON_BOOST")

	mustBind("wiki.api_url", "WIKIGPT_WIKI_API_URL")

	mustBind("server.cors_origins", "WIKIGPT_CORS_ORIGINS")
	mustBind("server.trust_proxy", "WIKIGPT_TRUST_PROXY")
	mustBind("server.rate_burst", "WIKIGPT_RATE_BURST")

	mustBind("discord.token", "DISCORD_BOT_TOKEN")
	mustBind("discord.api_base_url", "WIKIGPT_API_BASE_URL")

	mustBind("tracing.endpoint", "WIKIGPT_OTLP_ENDPOINT")
}

// maskedValue replaces secrets in serialized config. Full-width blocks avoid
// accidental substring matches against the real secret.
const maskedValue = "████████"

// maskSecret masks a secret for safe logging. Short secrets are fully
// masked; longer ones keep two characters at each end for debuggability.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with sensitive field masking.
func (d Discord) MarshalJSON() ([]byte, error) {
	type alias Discord
	a := alias(d)
	a.Token = maskSecret(a.Token)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal discord config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}
