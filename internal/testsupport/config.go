package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"ggnmatch/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose outputs live in a per-test temp
// directory. The API key is TestAPIKey and the rate limit is generous enough
// that tests never wait.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.GGN.APIKey = TestAPIKey
	cfgVal.RateLimit.Calls = 50
	cfgVal.RateLimit.WindowSeconds = 1
	cfgVal.Output.ReportPath = filepath.Join(base, "output.html")
	cfgVal.Logging.Level = "info"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// WithBaseURL points the config at a fake tracker.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.GGN.BaseURL = url
	}
}

// WithAPIKey overrides the API key; an empty key exercises the missing-key path.
func WithAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.GGN.APIKey = key
	}
}

// WithHistory enables the results database and the metrics textfile.
func WithHistory() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Output.ResultsDB = filepath.Join(b.baseDir, "history.db")
		b.cfg.Output.MetricsFile = filepath.Join(b.baseDir, "ggnmatch.prom")
	}
}

// WriteConfig marshals cfg as TOML to path.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
