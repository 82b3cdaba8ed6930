// Package config loads service configuration from a YAML file and
// ATHENA_-prefixed environment variables.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config is the full service configuration. The yaml tags mirror the
// mapstructure keys so a marshaled config (config show/init) reads back
// through Load unchanged.
type Config struct {
	Server      ServerConfig      `mapstructure:"server" yaml:"server"`
	Store       StoreConfig       `mapstructure:"store" yaml:"store"`
	Search      SearchConfig      `mapstructure:"search" yaml:"search"`
	Credibility CredibilityConfig `mapstructure:"credibility" yaml:"credibility"`
	Verify      VerifyConfig      `mapstructure:"verify" yaml:"verify"`
	Watermark   WatermarkConfig   `mapstructure:"watermark" yaml:"watermark"`
	GCP         GCPConfig         `mapstructure:"gcp" yaml:"gcp"`
	OpenAI      OpenAIConfig      `mapstructure:"openai" yaml:"openai"`
	Log         LogConfig         `mapstructure:"log" yaml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address         string        `mapstructure:"address" yaml:"address"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// StoreConfig configures the SQLite database.
type StoreConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// SearchConfig configures the web search collaborator.
type SearchConfig struct {
	Endpoint     string        `mapstructure:"endpoint" yaml:"endpoint"`
	APIKey       string        `mapstructure:"api_key" yaml:"api_key"`
	MaxResults   int           `mapstructure:"max_results" yaml:"max_results"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent    string        `mapstructure:"user_agent" yaml:"user_agent"`
	FetchContent bool          `mapstructure:"fetch_content" yaml:"fetch_content"`
	RatePerHost  float64       `mapstructure:"rate_per_host" yaml:"rate_per_host"`
}

// CredibilityConfig overrides the built-in domain ratings.
type CredibilityConfig struct {
	DomainScores map[string]float64 `mapstructure:"domain_scores" yaml:"domain_scores"`
}

// VerifyConfig configures source verification caching.
type VerifyConfig struct {
	CacheTTL time.Duration `mapstructure:"cache_ttl" yaml:"cache_ttl"`
	Workers  int           `mapstructure:"workers" yaml:"workers"`
}

// WatermarkConfig configures content watermarking.
type WatermarkConfig struct {
	Secret string `mapstructure:"secret" yaml:"secret"`
}

// GCPConfig configures the optional Google Cloud integrations. Empty
// fields disable the corresponding capability.
type GCPConfig struct {
	ProjectID      string `mapstructure:"project_id" yaml:"project_id"`
	Location       string `mapstructure:"location" yaml:"location"`
	MediaBucket    string `mapstructure:"media_bucket" yaml:"media_bucket"`
	QueryTopic     string `mapstructure:"query_topic" yaml:"query_topic"`
	VertexEndpoint string `mapstructure:"vertex_endpoint" yaml:"vertex_endpoint"`
}

// OpenAIConfig configures the optional OpenAI-backed transcription and
// analysis.
type OpenAIConfig struct {
	APIKey    string `mapstructure:"api_key" yaml:"api_key"`
	ChatModel string `mapstructure:"chat_model" yaml:"chat_model"`
}

// LogConfig configures logging output.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"` // json or console
}

// Load reads configuration from the given file (optional) and the
// environment, applying defaults for everything unset.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("ATHENA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, eris.Wrapf(err, "reading config file %s", path)
		}
	} else {
		v.SetConfigName("athena")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.athena")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !eris.As(err, &notFound) {
				return nil, eris.Wrap(err, "reading config")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "unmarshaling config")
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("store.path", "athena.db")
	v.SetDefault("search.endpoint", "")
	v.SetDefault("search.api_key", "")
	v.SetDefault("search.max_results", 10)
	v.SetDefault("search.timeout", 15*time.Second)
	v.SetDefault("search.user_agent", "athena-factcheck/1.0")
	v.SetDefault("search.fetch_content", true)
	v.SetDefault("search.rate_per_host", 1.0)
	v.SetDefault("verify.cache_ttl", time.Hour)
	v.SetDefault("verify.workers", 4)
	v.SetDefault("watermark.secret", "")
	v.SetDefault("gcp.project_id", "")
	v.SetDefault("gcp.location", "us-central1")
	v.SetDefault("gcp.media_bucket", "")
	v.SetDefault("gcp.query_topic", "")
	v.SetDefault("gcp.vertex_endpoint", "")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.chat_model", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// InitLogger builds the global zap logger from the log configuration
// and installs it via zap.ReplaceGlobals. The returned function flushes
// buffered entries and should be deferred by main.
func InitLogger(cfg LogConfig) (func(), error) {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, eris.Wrapf(err, "parsing log level %q", cfg.Level)
		}
		zapCfg.Level = level
	}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, eris.Wrap(err, "building logger")
	}
	zap.ReplaceGlobals(logger)
	return func() { _ = logger.Sync() }, nil
}
