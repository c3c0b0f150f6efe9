package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Provider   ProviderConfig   `mapstructure:"provider"`
	Fetcher    FetcherConfig    `mapstructure:"fetcher"`
	Pipeline   PipelineConfig   `mapstructure:"pipeline"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
	Log        LogConfig        `mapstructure:"log"`
}

type ProviderConfig struct {
	Name    string        `mapstructure:"name"`
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FetcherConfig struct {
	MaxRetries       int           `mapstructure:"max_retries"`
	RequestDelay     time.Duration `mapstructure:"request_delay"`
	RateLimitDelay   time.Duration `mapstructure:"rate_limit_delay"`
	RateLimitCeiling time.Duration `mapstructure:"rate_limit_ceiling"`
	JitterFactor     float64       `mapstructure:"jitter_factor"`
}

type PipelineConfig struct {
	InterSymbolDelay time.Duration `mapstructure:"inter_symbol_delay"`
	LookbackDays     int           `mapstructure:"lookback_days"`
	BarInterval      string        `mapstructure:"bar_interval"`
	NewsLimit        int           `mapstructure:"news_limit"`
}

type ArchiveConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Type    string   `mapstructure:"type"` // "localfs" or "s3"
	Path    string   `mapstructure:"path"` // For localfs
	S3      S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type SummarizerConfig struct {
	Enabled  bool         `mapstructure:"enabled"`
	Provider string       `mapstructure:"provider"`
	Claude   ClaudeConfig `mapstructure:"claude"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// MetricsConfig holds metrics exposure settings.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Listen  string `mapstructure:"listen"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Development bool `mapstructure:"development"`
}

// Load reads configuration from file
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Support environment variable overrides
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Expand environment variables in string values
	for _, key := range v.AllKeys() {
		val := v.GetString(key)
		if strings.HasPrefix(val, "${") && strings.HasSuffix(val, "}") {
			envKey := strings.TrimSuffix(strings.TrimPrefix(val, "${"), "}")
			v.Set(key, os.Getenv(envKey))
		}
	}

	cfg := Defaults()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Defaults returns a config with sensible defaults
func Defaults() *Config {
	return &Config{
		Provider: ProviderConfig{
			Name:    "yahoo",
			Timeout: 10 * time.Second,
		},
		Fetcher: FetcherConfig{
			MaxRetries:       3,
			RequestDelay:     2 * time.Second,
			RateLimitDelay:   5 * time.Second,
			RateLimitCeiling: 5 * time.Minute,
			JitterFactor:     1.25,
		},
		Pipeline: PipelineConfig{
			InterSymbolDelay: 3 * time.Second,
			LookbackDays:     365,
			BarInterval:      "1d",
			NewsLimit:        10,
		},
		Archive: ArchiveConfig{
			Type: "localfs",
			Path: "data/snapshots",
		},
		Summarizer: SummarizerConfig{
			Provider: "claude",
			Claude:   ClaudeConfig{Model: "claude-sonnet-4-20250514"},
			OpenAI:   OpenAIConfig{Model: "gpt-4o-mini"},
		},
		Metrics: MetricsConfig{
			Listen: ":9090",
			Path:   "/metrics",
		},
	}
}

// Validate checks cross-field constraints that viper cannot express.
func (c *Config) Validate() error {
	if c.Fetcher.MaxRetries < 1 {
		return fmt.Errorf("fetcher.max_retries must be at least 1, got %d", c.Fetcher.MaxRetries)
	}
	if c.Fetcher.JitterFactor < 1.0 {
		return fmt.Errorf("fetcher.jitter_factor must be >= 1.0, got %g", c.Fetcher.JitterFactor)
	}
	if c.Pipeline.LookbackDays <= 0 {
		return fmt.Errorf("pipeline.lookback_days must be positive, got %d", c.Pipeline.LookbackDays)
	}
	switch c.Archive.Type {
	case "", "localfs", "s3":
	default:
		return fmt.Errorf("archive.type must be localfs or s3, got %q", c.Archive.Type)
	}
	return nil
}
