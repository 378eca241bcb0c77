package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ggnmatch/internal/config"
)

func TestLoadDefaultConfigUsesEnvAPIKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("GGN_API_KEY", "test-key")
	t.Setenv("LOGLEVEL", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.GGN.APIKey != "test-key" {
		t.Fatalf("expected GGN key from env, got %q", cfg.GGN.APIKey)
	}
	if cfg.GGN.BaseURL != config.Default().GGN.BaseURL {
		t.Fatalf("unexpected GGN base url: %q", cfg.GGN.BaseURL)
	}
	if cfg.RateLimit.Calls != 5 || cfg.RateLimit.WindowSeconds != 10 {
		t.Fatalf("unexpected rate limit defaults: %+v", cfg.RateLimit)
	}
	if got := cfg.RateWindow().Seconds(); got != 10 {
		t.Fatalf("unexpected rate window: %v", got)
	}
	wantReport := filepath.Join(tempHome, "output.html")
	if cfg.Output.ReportPath != wantReport {
		t.Fatalf("unexpected report path: got %q want %q", cfg.Output.ReportPath, wantReport)
	}
	if cfg.Output.ResultsDB != "" {
		t.Fatalf("expected results db disabled by default, got %q", cfg.Output.ResultsDB)
	}
	if strings.Join(cfg.Matching.Platforms, ",") != "Windows,Mac,Linux" {
		t.Fatalf("unexpected platform preference: %v", cfg.Matching.Platforms)
	}
	if cfg.Matching.AllowNonSteamLinks {
		t.Fatal("expected non-Steam links excluded from platform fallback by default")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "ggnmatch.toml")

	type payload struct {
		GGN struct {
			APIKey  string `toml:"api_key"`
			BaseURL string `toml:"base_url"`
		} `toml:"ggn"`
		RateLimit struct {
			Calls         int `toml:"calls"`
			WindowSeconds int `toml:"window_seconds"`
		} `toml:"rate_limit"`
		Matching struct {
			Platforms []string `toml:"platforms"`
		} `toml:"matching"`
		Output struct {
			ResultsDB string `toml:"results_db"`
		} `toml:"output"`
	}
	custom := payload{}
	custom.GGN.APIKey = "abc123"
	custom.GGN.BaseURL = "https://example.com/ggn/"
	custom.RateLimit.Calls = 2
	custom.RateLimit.WindowSeconds = 3
	custom.Matching.Platforms = []string{" Linux ", "Windows", "Linux"}
	custom.Output.ResultsDB = filepath.Join(tempDir, "history.db")
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}
	t.Setenv("GGN_API_KEY", "env-key")

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.GGN.APIKey != "abc123" {
		t.Fatalf("expected GGN key from file to win over env, got %q", cfg.GGN.APIKey)
	}
	if cfg.GGN.BaseURL != "https://example.com/ggn" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.GGN.BaseURL)
	}
	if cfg.RateLimit.Calls != 2 || cfg.RateLimit.WindowSeconds != 3 {
		t.Fatalf("unexpected rate limit: %+v", cfg.RateLimit)
	}
	if strings.Join(cfg.Matching.Platforms, ",") != "Linux,Windows" {
		t.Fatalf("expected trimmed, deduplicated platforms, got %v", cfg.Matching.Platforms)
	}
	if cfg.Output.ResultsDB != custom.Output.ResultsDB {
		t.Fatalf("unexpected results db: %q", cfg.Output.ResultsDB)
	}
}

func TestLoadAPIKeyOverrideWins(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "ggnmatch.toml")
	if err := os.WriteFile(configPath, []byte("[ggn]\napi_key = \"file-key\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GGN_API_KEY", "env-key")

	cfg, _, _, err := config.Load(configPath, config.WithAPIKey(" flag-key "))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.GGN.APIKey != "flag-key" {
		t.Fatalf("expected flag key to win, got %q", cfg.GGN.APIKey)
	}

	cfg, _, _, err = config.Load(configPath, config.WithAPIKey(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.GGN.APIKey != "file-key" {
		t.Fatalf("expected empty override to be ignored, got %q", cfg.GGN.APIKey)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "ggnmatch.toml")
	if err := os.WriteFile(configPath, []byte("[rate_limit]\ncalls = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("GGN_API_KEY", "")

	if _, _, _, err := config.Load(configPath); !errors.Is(err, config.ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}

	cfg, _, _, err := config.Load(configPath, config.WithoutCredentials())
	if err != nil {
		t.Fatalf("Load without credentials returned error: %v", err)
	}
	if cfg.RateLimit.Calls != 3 {
		t.Fatalf("unexpected rate limit calls: %d", cfg.RateLimit.Calls)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "ggnmatch.toml")
	contents := "[ggn]\napi_key = \"k\"\napi_kye = \"typo\"\n"
	if err := os.WriteFile(configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected error for unknown config key")
	}
}

func TestLogLevelFallsBackToEnv(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "ggnmatch.toml")
	if err := os.WriteFile(configPath, []byte("[ggn]\napi_key = \"k\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("LOGLEVEL", "DEBUG")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("expected level from LOGLEVEL, got %q", cfg.Logging.Level)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "GGN_API_KEY") {
		t.Fatalf("sample config missing api key guidance: %s", contents)
	}

	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if cfg.RateLimit.Calls != 5 || cfg.RateLimit.WindowSeconds != 10 {
		t.Fatalf("sample rate limit drifted from defaults: %+v", cfg.RateLimit)
	}
	if len(cfg.Matching.Platforms) != 3 || cfg.Matching.Platforms[0] != "Windows" {
		t.Fatalf("sample platforms drifted from defaults: %v", cfg.Matching.Platforms)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "ggn.api_key") {
		t.Fatalf("expected api key error, got %v", err)
	}

	cfg = config.Default()
	cfg.GGN.APIKey = "key"
	cfg.RateLimit.Calls = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive rate limit calls")
	}

	cfg = config.Default()
	cfg.GGN.APIKey = "key"
	cfg.RateLimit.WindowSeconds = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative rate limit window")
	}

	cfg = config.Default()
	cfg.GGN.APIKey = "key"
	cfg.GGN.BaseURL = "gazellegames.net"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for relative base url")
	}

	cfg = config.Default()
	cfg.GGN.APIKey = "key"
	cfg.Matching.Platforms = nil
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty platform list")
	}
}
