package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/sevigo/comment-warden/internal/core"
)

var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParsing  = errors.New("config parsing failed")
)

// LoadRepoConfig loads and parses the .comment-warden.yml file from a
// repository path. A missing file yields the defaults plus ErrConfigNotFound
// so callers can log it without treating it as a failure.
func LoadRepoConfig(repoPath string) (*core.RepoConfig, error) {
	configPath := filepath.Join(repoPath, ".comment-warden.yml")
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return core.DefaultRepoConfig(), ErrConfigNotFound
		}
		return nil, fmt.Errorf("failed to read .comment-warden.yml: %w", err)
	}

	cfg := core.DefaultRepoConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigParsing, err)
	}
	if cfg.TargetAudience == "" {
		cfg.TargetAudience = core.DefaultTargetAudience
	}
	if len(cfg.PlaceholderMarkers) == 0 {
		cfg.PlaceholderMarkers = core.DefaultRepoConfig().PlaceholderMarkers
	}
	return cfg, nil
}
