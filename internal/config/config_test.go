package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sevigo/comment-warden/internal/core"
)

func baseConfig() *Config {
	cfg := &Config{}
	cfg.GitHub.AppID = 1234
	cfg.GitHub.WebhookSecret = "secret"
	cfg.GitHub.PrivateKeyPath = "keys/app.pem"
	cfg.GitHub.Token = "ghp_test"
	cfg.AI.Provider = "ollama"
	cfg.AI.OllamaHost = "http://localhost:11434"
	cfg.Audit.MaxWorkers = 5
	cfg.Audit.MaxComments = 100
	return cfg
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		cli     bool
		wantErr bool
	}{
		{name: "valid server config", mutate: func(*Config) {}},
		{name: "valid cli config", mutate: func(*Config) {}, cli: true},
		{name: "missing app id", mutate: func(c *Config) { c.GitHub.AppID = 0 }, wantErr: true},
		{name: "missing webhook secret", mutate: func(c *Config) { c.GitHub.WebhookSecret = "" }, wantErr: true},
		{name: "missing token for cli", mutate: func(c *Config) { c.GitHub.Token = "" }, cli: true, wantErr: true},
		{name: "gemini without key", mutate: func(c *Config) { c.AI.Provider = "gemini" }, wantErr: true},
		{name: "gemini with key", mutate: func(c *Config) { c.AI.Provider = "gemini"; c.AI.GeminiAPIKey = "k" }},
		{name: "unknown provider", mutate: func(c *Config) { c.AI.Provider = "hal9000" }, wantErr: true},
		{name: "zero workers", mutate: func(c *Config) { c.Audit.MaxWorkers = 0 }, wantErr: true},
		{name: "zero comment budget", mutate: func(c *Config) { c.Audit.MaxComments = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(cfg)
			var err error
			if tt.cli {
				err = cfg.ValidateForCLI()
			} else {
				err = cfg.ValidateForServer()
			}
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "ollama", cfg.AI.Provider)
	assert.Equal(t, 5, cfg.Audit.MaxWorkers)
	assert.Equal(t, int64(1<<20), cfg.Audit.MaxFileSize)
}

func TestLoadRepoConfig(t *testing.T) {
	t.Run("missing file returns defaults and sentinel", func(t *testing.T) {
		cfg, err := LoadRepoConfig(t.TempDir())
		assert.ErrorIs(t, err, ErrConfigNotFound)
		require.NotNil(t, cfg)
		assert.Equal(t, core.DefaultTargetAudience, cfg.TargetAudience)
		assert.Contains(t, cfg.PlaceholderMarkers, "TODO")
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		dir := t.TempDir()
		content := "target_audience: kernel developers\nexclude_dirs: [docs]\nplaceholder_markers: [TODO]\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".comment-warden.yml"), []byte(content), 0600))

		cfg, err := LoadRepoConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, "kernel developers", cfg.TargetAudience)
		assert.Equal(t, []string{"docs"}, cfg.ExcludeDirs)
		assert.Equal(t, []string{"TODO"}, cfg.PlaceholderMarkers)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".comment-warden.yml"), []byte("{{nope"), 0600))
		_, err := LoadRepoConfig(dir)
		assert.ErrorIs(t, err, ErrConfigParsing)
	})
}
