// Package config loads pipeline configuration from an optional YAML file
// with environment-variable fallback. The Config is an explicit value
// passed into each component; there is no process-wide singleton.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultDataDir is used when neither the config file nor UC_DATA_DIR
// names a data directory.
const DefaultDataDir = "data"

// ErrMissingKey marks a required credential that is absent. Stages treat
// it as fatal before any work item is processed.
var ErrMissingKey = errors.New("missing required configuration")

// Config holds credentials and the cache root for all pipeline stages.
type Config struct {
	YouTubeAPIKey string `yaml:"youtube_api_key"`
	OpenAIAPIKey  string `yaml:"openai_api_key"`
	OpenAIBaseURL string `yaml:"openai_base_url"`
	DataDir       string `yaml:"data_dir"`
}

// Load reads the YAML file at path (if path is non-empty and the file
// exists) and fills any blanks from the environment: YOUTUBE_API_KEY,
// OPENAI_API_KEY and UC_DATA_DIR.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Fall through to environment-only configuration.
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if cfg.YouTubeAPIKey == "" {
		cfg.YouTubeAPIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.DataDir == "" {
		cfg.DataDir = os.Getenv("UC_DATA_DIR")
	}
	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir
	}

	return cfg, nil
}

// VideosDir is where per-channel CSV listings are written.
func (c *Config) VideosDir() string {
	return filepath.Join(c.DataDir, "videos")
}

// TranscriptsDir is the transcript cache namespace directory.
func (c *Config) TranscriptsDir() string {
	return filepath.Join(c.DataDir, "transcripts")
}

// QuestionsDir is the parse-stage cache directory for one model.
func (c *Config) QuestionsDir(model string) string {
	return filepath.Join(c.DataDir, "questions", model)
}

// RunDBPath is the SQLite run-history database location.
func (c *Config) RunDBPath() string {
	return filepath.Join(c.DataDir, "runs.db")
}

// Validate checks required credentials and creates the shared data
// directories. Per-model question directories are created on demand.
// needYouTube/needOpenAI let stages that don't use a service skip its key.
func (c *Config) Validate(needYouTube, needOpenAI bool) error {
	if needYouTube && c.YouTubeAPIKey == "" {
		return fmt.Errorf("%w: YOUTUBE_API_KEY not set (set it in the environment or the config file)", ErrMissingKey)
	}
	if needOpenAI && c.OpenAIAPIKey == "" {
		return fmt.Errorf("%w: OPENAI_API_KEY not set (set it in the environment or the config file)", ErrMissingKey)
	}

	for _, dir := range []string{c.VideosDir(), c.TranscriptsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory %s: %w", dir, err)
		}
	}
	return nil
}
