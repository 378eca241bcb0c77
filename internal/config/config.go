package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// GGN contains configuration for the GazelleGames API.
type GGN struct {
	APIKey                string `toml:"api_key"`
	BaseURL               string `toml:"base_url"`
	UserAgent             string `toml:"user_agent"`
	RequestTimeoutSeconds int    `toml:"request_timeout_seconds"`
}

// RateLimit bounds how many API calls may be issued within a rolling window.
type RateLimit struct {
	Calls         int `toml:"calls"`
	WindowSeconds int `toml:"window_seconds"`
}

// Matching tunes the platform fallback used when no Steam id matches.
type Matching struct {
	// Platforms lists acceptable platforms, most preferred first.
	Platforms []string `toml:"platforms"`
	// AllowNonSteamLinks lets groups carrying only non-Steam weblinks take part
	// in the platform fallback. Default: false (only groups without any links).
	AllowNonSteamLinks bool `toml:"allow_non_steam_links"`
}

// Output contains destinations for run artifacts.
type Output struct {
	ReportPath  string `toml:"report_path"`
	ResultsDB   string `toml:"results_db"`
	MetricsFile string `toml:"metrics_file"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for ggnmatch.
//
// Configuration sections by subsystem:
//   - GGN: API credentials and endpoint
//   - RateLimit: outbound request quota
//   - Matching: platform preference for fallback matches
//   - Output: report, history database, and metrics destinations
//   - Logging: log format and level
type Config struct {
	GGN       GGN       `toml:"ggn"`
	RateLimit RateLimit `toml:"rate_limit"`
	Matching  Matching  `toml:"matching"`
	Output    Output    `toml:"output"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// LoadOption adjusts how Load treats the decoded configuration.
type LoadOption func(*loadOptions)

type loadOptions struct {
	apiKey          string
	skipCredentials bool
}

// WithAPIKey supplies an API key that takes precedence over the file and the
// GGN_API_KEY environment variable. An empty key is ignored.
func WithAPIKey(key string) LoadOption {
	return func(o *loadOptions) {
		o.apiKey = strings.TrimSpace(key)
	}
}

// WithoutCredentials skips the API key requirement for commands that never
// contact the tracker.
func WithoutCredentials() LoadOption {
	return func(o *loadOptions) {
		o.skipCredentials = true
	}
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string, opts ...LoadOption) (*Config, string, bool, error) {
	var options loadOptions
	for _, opt := range opts {
		opt(&options)
	}
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if options.apiKey != "" {
		cfg.GGN.APIKey = options.apiKey
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.validate(!options.skipCredentials); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// RateWindow returns the rate limit window as a duration.
func (c *Config) RateWindow() time.Duration {
	return time.Duration(c.RateLimit.WindowSeconds) * time.Second
}

// RequestTimeout returns the HTTP timeout applied to each GGN request.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.GGN.RequestTimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
