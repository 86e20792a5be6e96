// Package config loads and validates the application configuration.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/sevigo/comment-warden/internal/logger"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// GitHubConfig holds GitHub App and token credentials.
type GitHubConfig struct {
	AppID          int64  `mapstructure:"app_id"`
	WebhookSecret  string `mapstructure:"webhook_secret"`
	PrivateKeyPath string `mapstructure:"private_key_path"`
	// Token is a personal access token used by the CLI when no App
	// installation is available.
	Token string `mapstructure:"token"`
}

// AIConfig holds LLM provider settings.
type AIConfig struct {
	Provider       string `mapstructure:"provider"`
	OllamaHost     string `mapstructure:"ollama_host"`
	GeminiAPIKey   string `mapstructure:"gemini_api_key"`
	GeneratorModel string `mapstructure:"generator_model"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Username        string        `mapstructure:"username"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
}

// AuditConfig bounds the audit pipeline.
type AuditConfig struct {
	MaxWorkers int `mapstructure:"max_workers"`
	// MaxComments caps how many touched comments a single audit sends to
	// the LLM; comments over the cap are dropped from the audit and logged.
	MaxComments int `mapstructure:"max_comments"`
	// MaxFileSize in bytes; larger files are not scanned for comments.
	MaxFileSize int64 `mapstructure:"max_file_size"`
}

// Config holds the application's configuration values.
type Config struct {
	Server   ServerConfig  `mapstructure:"server"`
	GitHub   GitHubConfig  `mapstructure:"github"`
	AI       AIConfig      `mapstructure:"ai"`
	Database DBConfig      `mapstructure:"database"`
	Logging  logger.Config `mapstructure:"logging"`
	Audit    AuditConfig   `mapstructure:"audit"`
}

// LoadConfig reads configuration from config.yaml and environment variables,
// sets sensible defaults, and validates required fields. Environment
// variables use the CW_ prefix with underscores, e.g. CW_GITHUB_TOKEN.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("CW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "stdout")
	v.SetDefault("ai.provider", "ollama")
	v.SetDefault("ai.ollama_host", "http://localhost:11434")
	v.SetDefault("ai.generator_model", "gemma3:latest")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.username", "warden")
	v.SetDefault("database.database", "comment_warden")
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)
	v.SetDefault("github.private_key_path", "keys/comment-warden-app.private-key.pem")
	v.SetDefault("audit.max_workers", 5)
	v.SetDefault("audit.max_comments", 120)
	v.SetDefault("audit.max_file_size", 1<<20)
}

// ValidateForServer ensures the fields the webhook service depends on are set.
func (c *Config) ValidateForServer() error {
	if c.GitHub.AppID == 0 {
		return fmt.Errorf("github.app_id must be set")
	}
	if c.GitHub.WebhookSecret == "" {
		return fmt.Errorf("github.webhook_secret must be set")
	}
	if c.GitHub.PrivateKeyPath == "" {
		return fmt.Errorf("github.private_key_path must be set")
	}
	return c.validateCommon()
}

// ValidateForCLI ensures the fields the CLI depends on are set.
func (c *Config) ValidateForCLI() error {
	if c.GitHub.Token == "" {
		return fmt.Errorf("github.token must be set (CW_GITHUB_TOKEN)")
	}
	return c.validateCommon()
}

func (c *Config) validateCommon() error {
	switch c.AI.Provider {
	case "ollama":
		if c.AI.OllamaHost == "" {
			return fmt.Errorf("ai.ollama_host must be set for the ollama provider")
		}
	case "gemini":
		if c.AI.GeminiAPIKey == "" {
			return fmt.Errorf("ai.gemini_api_key must be set for the gemini provider")
		}
	default:
		return fmt.Errorf("unsupported LLM provider: %s", c.AI.Provider)
	}

	if c.Audit.MaxWorkers <= 0 {
		return fmt.Errorf("audit.max_workers must be positive, got %d", c.Audit.MaxWorkers)
	}
	if c.Audit.MaxComments <= 0 {
		return fmt.Errorf("audit.max_comments must be positive, got %d", c.Audit.MaxComments)
	}
	return nil
}
