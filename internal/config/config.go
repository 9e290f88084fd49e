// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/newsdesk/stardesk/internal/core"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	AI       AIConfig       `mapstructure:"ai"`
	Articles ArticlesConfig `mapstructure:"articles"`
	Archive  ArchiveConfig  `mapstructure:"archive"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host   string `mapstructure:"host"`
	Port   int    `mapstructure:"port"`
	APIKey string `mapstructure:"api_key"`
}

// AIConfig selects the active provider and configures every known one.
// Credentials are optional everywhere: a provider without one simply reports
// itself unavailable.
type AIConfig struct {
	Provider string       `mapstructure:"provider"`
	Gemini   GeminiConfig `mapstructure:"gemini"`
	Base44   Base44Config `mapstructure:"base44"`
	OpenAI   OpenAIConfig `mapstructure:"openai"`
	Claude   ClaudeConfig `mapstructure:"claude"`
}

type GeminiConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type Base44Config struct {
	APIKey    string `mapstructure:"api_key"`
	ProjectID string `mapstructure:"project_id"`
	BaseURL   string `mapstructure:"base_url"`
}

type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type ClaudeConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type ArticlesConfig struct {
	Seed bool `mapstructure:"seed"`
}

// ArchiveConfig configures where published article snapshots go.
type ArchiveConfig struct {
	Type string   `mapstructure:"type"` // "localfs" or "s3"
	Path string   `mapstructure:"path"` // For localfs
	S3   S3Config `mapstructure:"s3"`   // For S3
}

type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Prefix    string `mapstructure:"prefix"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
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

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// Defaults returns a config built from defaults plus well-known environment
// variables, so the server runs without a config file the way the editorial
// console expects (credentials come from .env in development).
func Defaults() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.AI.Provider == "" {
		cfg.AI.Provider = envOr("AI_PROVIDER", "gemini")
	}
	if cfg.AI.Gemini.APIKey == "" {
		cfg.AI.Gemini.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.AI.Base44.APIKey == "" {
		cfg.AI.Base44.APIKey = os.Getenv("BASE44_API_KEY")
	}
	if cfg.AI.Base44.ProjectID == "" {
		cfg.AI.Base44.ProjectID = os.Getenv("BASE44_PROJECT_ID")
	}
	if cfg.AI.Base44.BaseURL == "" {
		cfg.AI.Base44.BaseURL = os.Getenv("BASE44_URL")
	}
	if cfg.AI.OpenAI.APIKey == "" {
		cfg.AI.OpenAI.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.AI.Claude.APIKey == "" {
		cfg.AI.Claude.APIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.Archive.Type == "" {
		cfg.Archive.Type = "localfs"
	}
	if cfg.Archive.Path == "" {
		cfg.Archive.Path = "data/archive"
	}
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Path = "/metrics"
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Validate checks the configuration for errors. A missing provider
// credential is deliberately not an error; it only makes that provider
// unavailable.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("port must be between 1 and 65535, got %d", c.Server.Port))
	}

	switch c.AI.Provider {
	case "gemini", "base44", "openai", "claude":
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown ai provider %q", c.AI.Provider))
	}

	switch c.Archive.Type {
	case "localfs":
		if c.Archive.Path == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("archive path required when type is localfs"))
		}
	case "s3":
		if c.Archive.S3.Bucket == "" {
			return core.WrapError(core.ErrConfigMissing,
				fmt.Errorf("s3 bucket required when archive type is s3"))
		}
	default:
		return core.WrapError(core.ErrConfigInvalid,
			fmt.Errorf("unknown archive type %q", c.Archive.Type))
	}

	return nil
}
